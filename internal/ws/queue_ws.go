// Package ws pushes the queue read views over a WebSocket so display boards
// can poll without hammering the REST surface.
package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/nudriin/antrian-rest-api/internal/service"
)

// Request is one client message: an action naming a read view plus the
// locket it targets.
type Request struct {
	Action   string `json:"action"` // total | current | next | remain
	LocketID int64  `json:"locketId"`
}

// Response mirrors the corresponding REST view's envelope.
type Response struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type QueueSocket struct {
	svc      *service.QueueService
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

func NewQueueSocket(svc *service.QueueService, log zerolog.Logger, origin string) *QueueSocket {
	return &QueueSocket{
		svc: svc,
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				o := r.Header.Get("Origin")
				return o == "" || o == origin
			},
		},
	}
}

// Handler upgrades the connection and serves read views until the client
// goes away. A failed view is reported on the socket, never fatal to it.
func (s *QueueSocket) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.log.Debug().Err(err).Msg("ws upgrade failed")
			return
		}
		defer conn.Close()
		s.log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("ws connected")

		for {
			var req Request
			if err := conn.ReadJSON(&req); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					s.log.Debug().Err(err).Msg("ws read failed")
				}
				return
			}

			resp := s.serve(r, req)
			if err := conn.WriteJSON(resp); err != nil {
				s.log.Debug().Err(err).Msg("ws write failed")
				return
			}
		}
	}
}

func (s *QueueSocket) serve(r *http.Request, req Request) Response {
	ctx := r.Context()
	switch req.Action {
	case "total":
		n, err := s.svc.CountToday(ctx, req.LocketID)
		if err != nil {
			return errResponse(err)
		}
		return Response{Event: "total", Data: map[string]any{"total": n, "locket_id": req.LocketID}}
	case "current":
		n, err := s.svc.Current(ctx, req.LocketID)
		if err != nil {
			return errResponse(err)
		}
		return Response{Event: "currentQueue", Data: map[string]any{"currentQueue": n, "locket_id": req.LocketID}}
	case "next":
		n, err := s.svc.Next(ctx, req.LocketID)
		if err != nil {
			return errResponse(err)
		}
		return Response{Event: "nextQueue", Data: map[string]any{"nextQueue": n, "locket_id": req.LocketID}}
	case "remain":
		n, err := s.svc.Remaining(ctx, req.LocketID)
		if err != nil {
			return errResponse(err)
		}
		return Response{Event: "remainQueue", Data: map[string]any{"queueRemainder": n, "locket_id": req.LocketID}}
	default:
		return Response{Event: "error", Data: "unknown action"}
	}
}

func errResponse(err error) Response {
	return Response{Event: "error", Data: err.Error()}
}
