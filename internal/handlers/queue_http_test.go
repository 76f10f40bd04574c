package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nudriin/antrian-rest-api/internal/config"
	"github.com/nudriin/antrian-rest-api/internal/dates"
	"github.com/nudriin/antrian-rest-api/internal/middleware"
	"github.com/nudriin/antrian-rest-api/internal/models"
	"github.com/nudriin/antrian-rest-api/internal/repository/memory"
	"github.com/nudriin/antrian-rest-api/internal/service"
	"github.com/nudriin/antrian-rest-api/internal/utils"
)

type env struct {
	router  http.Handler
	lockets *memory.LocketRepo
	queues  *memory.QueueRepo
	users   *memory.UserRepo
	cfg     config.Config
}

// newEnv wires the queue and locket handlers onto a router the same way the
// production router does, backed by in-memory repositories.
func newEnv(t *testing.T) *env {
	t.Helper()

	e := &env{cfg: config.Config{JWTSecret: "test-secret"}}
	e.lockets = memory.NewLocketRepo()
	e.queues = memory.NewQueueRepo(e.lockets)
	e.users = memory.NewUserRepo()

	log := zerolog.Nop()
	wib := time.FixedZone("WIB", 7*3600)
	d := dates.New(wib)

	queueSvc := service.NewQueueService(e.queues, e.lockets, e.users, d, log)
	locketSvc := service.NewLocketService(e.lockets, e.queues, log)

	qh := NewQueueHTTP(queueSvc)
	lh := NewLocketHTTP(locketSvc)

	admins := middleware.RequireRoles(models.RoleLocketAdmin, models.RoleSuperAdmin)

	r := chi.NewRouter()
	r.Use(middleware.WithAuth(log, e.cfg))
	r.Route("/api/locket", func(r chi.Router) {
		r.With(admins).Post("/", lh.Save())
	})
	r.Route("/api/queue", func(r chi.Router) {
		r.With(middleware.RequireAuth).Post("/", qh.Save())
		r.Route("/locket/{locketId}", func(r chi.Router) {
			r.Get("/total", qh.Total())
			r.Get("/next", qh.Next())
		})
		r.With(admins).Patch("/{queueId}", qh.Done())
	})
	e.router = r
	return e
}

func (e *env) token(t *testing.T, role string) string {
	t.Helper()
	u, err := e.users.Create(context.Background(), role+"@example.com", "Tester", role, "x")
	require.NoError(t, err)
	tok, err := utils.SignJWT(e.cfg.JWTSecret, u, time.Hour)
	require.NoError(t, err)
	return tok
}

func (e *env) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *strings.Reader
	if body == "" {
		rdr = strings.NewReader("")
	} else {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestQueueEndpoints(t *testing.T) {
	e := newEnv(t)
	admin := e.token(t, models.RoleLocketAdmin)
	user := e.token(t, models.RoleUser)

	// Create a locket as admin.
	rec := e.do(t, http.MethodPost, "/api/locket", admin, `{"name":"front desk"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var created struct {
		Data models.Locket `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	// Draw requires authentication.
	rec = e.do(t, http.MethodPost, "/api/queue", "", `{"locket_id":1}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Draw as a plain user.
	rec = e.do(t, http.MethodPost, "/api/queue", user, `{"locket_id":1}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var drawn struct {
		Data models.Queue `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &drawn))
	assert.Equal(t, 1, drawn.Data.QueueNumber)
	assert.Equal(t, models.StatusUndone, drawn.Data.Status)
	assert.Equal(t, created.Data.ID, drawn.Data.LocketID)

	// Read views are public.
	rec = e.do(t, http.MethodGet, "/api/queue/locket/1/total", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"total":1,"locket_id":1}}`, rec.Body.String())

	// Status transition is admin-only.
	rec = e.do(t, http.MethodPatch, "/api/queue/1", user, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = e.do(t, http.MethodPatch, "/api/queue/1", admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var done struct {
		Data models.Queue `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &done))
	assert.Equal(t, models.StatusDone, done.Data.Status)

	rec = e.do(t, http.MethodGet, "/api/queue/locket/1/next", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"nextQueue":0,"locket_id":1}}`, rec.Body.String())
}

func TestQueueErrorEnvelope(t *testing.T) {
	e := newEnv(t)
	user := e.token(t, models.RoleUser)

	rec := e.do(t, http.MethodPost, "/api/queue", user, `{"locket_id":999999}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"errors":"locket not found"}`, rec.Body.String())

	rec = e.do(t, http.MethodGet, "/api/queue/locket/abc/total", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDuplicateLocketNameConflict(t *testing.T) {
	e := newEnv(t)
	admin := e.token(t, models.RoleLocketAdmin)

	rec := e.do(t, http.MethodPost, "/api/locket", admin, `{"name":"test"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/locket", admin, `{"name":"test"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"errors":"duplicate locket name"}`, rec.Body.String())
}
