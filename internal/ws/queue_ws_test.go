package ws

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nudriin/antrian-rest-api/internal/dates"
	"github.com/nudriin/antrian-rest-api/internal/models"
	"github.com/nudriin/antrian-rest-api/internal/repository/memory"
	"github.com/nudriin/antrian-rest-api/internal/service"
)

func dialSocket(t *testing.T) (*websocket.Conn, *memory.LocketRepo, *memory.QueueRepo) {
	t.Helper()

	lockets := memory.NewLocketRepo()
	queues := memory.NewQueueRepo(lockets)
	users := memory.NewUserRepo()
	wib := time.FixedZone("WIB", 7*3600)
	d := dates.New(wib)
	svc := service.NewQueueService(queues, lockets, users, d, zerolog.Nop())

	srv := httptest.NewServer(NewQueueSocket(svc, zerolog.Nop(), "http://localhost").Handler())
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn, lockets, queues
}

func TestSocketServesReadViews(t *testing.T) {
	conn, lockets, queues := dialSocket(t)

	l, err := lockets.Create(context.Background(), "board")
	require.NoError(t, err)
	queues.Seed(models.Queue{QueueNumber: 1, Status: models.StatusUndone, LocketID: l.ID, UserID: 1, CreatedAt: time.Now()})
	queues.Seed(models.Queue{QueueNumber: 2, Status: models.StatusUndone, LocketID: l.ID, UserID: 1, CreatedAt: time.Now()})

	require.NoError(t, conn.WriteJSON(Request{Action: "total", LocketID: l.ID}))
	var resp Response
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, "total", resp.Event)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 2, data["total"])

	require.NoError(t, conn.WriteJSON(Request{Action: "next", LocketID: l.ID}))
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, "nextQueue", resp.Event)
	data = resp.Data.(map[string]any)
	assert.EqualValues(t, 1, data["nextQueue"])
}

func TestSocketReportsErrorsWithoutClosing(t *testing.T) {
	conn, lockets, _ := dialSocket(t)

	require.NoError(t, conn.WriteJSON(Request{Action: "total", LocketID: 999999}))
	var resp Response
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, "error", resp.Event)
	assert.Equal(t, "locket not found", resp.Data)

	require.NoError(t, conn.WriteJSON(Request{Action: "bogus", LocketID: 1}))
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, "error", resp.Event)

	// The socket still serves after failed requests.
	l, err := lockets.Create(context.Background(), "board")
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(Request{Action: "remain", LocketID: l.ID}))
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, "remainQueue", resp.Event)
}
