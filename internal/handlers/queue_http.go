package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/nudriin/antrian-rest-api/internal/middleware"
	"github.com/nudriin/antrian-rest-api/internal/service"
	"github.com/nudriin/antrian-rest-api/internal/utils"
)

type QueueHTTP struct {
	svc *service.QueueService
}

func NewQueueHTTP(svc *service.QueueService) *QueueHTTP { return &QueueHTTP{svc: svc} }

// POST /api/queue draws a ticket for the authenticated caller.
func (h *QueueHTTP) Save() http.HandlerFunc {
	type inDTO struct {
		LocketID int64 `json:"locket_id"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		u := middleware.UserFrom(r.Context())
		q, err := h.svc.Draw(r.Context(), in.LocketID, u.ID)
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.Data(w, http.StatusOK, q)
	}
}

// GET /api/queue/locket/{locketId}
func (h *QueueHTTP) FindAllByLocket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "locketId")
		if err != nil {
			writeErr(w, err)
			return
		}
		items, err := h.svc.ListToday(r.Context(), id)
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.Data(w, http.StatusOK, items)
	}
}

// GET /api/queue/locket/{locketId}/total
func (h *QueueHTTP) Total() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "locketId")
		if err != nil {
			writeErr(w, err)
			return
		}
		n, err := h.svc.CountToday(r.Context(), id)
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.Data(w, http.StatusOK, map[string]any{"total": n, "locket_id": id})
	}
}

// GET /api/queue/locket/{locketId}/current
func (h *QueueHTTP) Current() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "locketId")
		if err != nil {
			writeErr(w, err)
			return
		}
		n, err := h.svc.Current(r.Context(), id)
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.Data(w, http.StatusOK, map[string]any{"currentQueue": n, "locket_id": id})
	}
}

// GET /api/queue/locket/{locketId}/next
func (h *QueueHTTP) Next() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "locketId")
		if err != nil {
			writeErr(w, err)
			return
		}
		n, err := h.svc.Next(r.Context(), id)
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.Data(w, http.StatusOK, map[string]any{"nextQueue": n, "locket_id": id})
	}
}

// GET /api/queue/locket/{locketId}/remain
func (h *QueueHTTP) Remain() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "locketId")
		if err != nil {
			writeErr(w, err)
			return
		}
		n, err := h.svc.Remaining(r.Context(), id)
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.Data(w, http.StatusOK, map[string]any{"queueRemainder": n, "locket_id": id})
	}
}

// PATCH /api/queue/{queueId} marks the ticket served.
func (h *QueueHTTP) Done() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "queueId")
		if err != nil {
			writeErr(w, err)
			return
		}
		q, err := h.svc.MarkDone(r.Context(), id)
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.Data(w, http.StatusOK, q)
	}
}

// PATCH /api/queue/{queueId}/pending parks the ticket.
func (h *QueueHTTP) Pending() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "queueId")
		if err != nil {
			writeErr(w, err)
			return
		}
		q, err := h.svc.MarkPending(r.Context(), id)
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.Data(w, http.StatusOK, q)
	}
}

// GET /api/queue/locket/{locketId}/reset wipes today's tickets.
func (h *QueueHTTP) Reset() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "locketId")
		if err != nil {
			writeErr(w, err)
			return
		}
		if err := h.svc.ResetDay(r.Context(), id, middleware.UserFrom(r.Context())); err != nil {
			writeErr(w, err)
			return
		}
		utils.Data(w, http.StatusOK, "OK")
	}
}

// GET /api/queue/all/statistics
func (h *QueueHTTP) Statistics() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.svc.Statistics(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.Data(w, http.StatusOK, stats)
	}
}

// GET /api/queue/all/daily-queue-last-month
func (h *QueueHTTP) DailyLastMonth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := h.svc.DailyCountsLastNDays(r.Context(), 30)
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.Data(w, http.StatusOK, counts)
	}
}

// GET /api/queue/all/queue-distribution-locket
func (h *QueueHTTP) Distribution() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dist, err := h.svc.DistributionByLocket(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.Data(w, http.StatusOK, dist)
	}
}

// GET /api/queue/all/queue-stats-last-month
func (h *QueueHTTP) StatsLastMonth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := h.svc.DailyCountsByLocketLastMonth(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.Data(w, http.StatusOK, counts)
	}
}

// GET /api/queue/all/queue-stats-last-six-month
func (h *QueueHTTP) StatsLastSixMonth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := h.svc.DailyCountsByLocketLastSixMonth(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.Data(w, http.StatusOK, counts)
	}
}

// GET /api/queue/all/queue-stats-all-time
func (h *QueueHTTP) StatsAllTime() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := h.svc.DailyCountsByLocketAllTime(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.Data(w, http.StatusOK, counts)
	}
}
