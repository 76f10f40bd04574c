package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nudriin/antrian-rest-api/internal/service"
	"github.com/nudriin/antrian-rest-api/internal/utils"
)

type LocketHTTP struct {
	svc *service.LocketService
}

func NewLocketHTTP(svc *service.LocketService) *LocketHTTP { return &LocketHTTP{svc: svc} }

// POST /api/locket
func (h *LocketHTTP) Save() http.HandlerFunc {
	type inDTO struct {
		Name string `json:"name"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		l, err := h.svc.Save(r.Context(), in.Name)
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.Data(w, http.StatusOK, l)
	}
}

// GET /api/locket
func (h *LocketHTTP) FindAll() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lockets, err := h.svc.FindAll(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.Data(w, http.StatusOK, lockets)
	}
}

// GET /api/locket/{locketName}
func (h *LocketHTTP) FindByName() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l, err := h.svc.FindByName(r.Context(), chi.URLParam(r, "locketName"))
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.Data(w, http.StatusOK, l)
	}
}

// PUT /api/locket/{locketId}
func (h *LocketHTTP) Update() http.HandlerFunc {
	type inDTO struct {
		Name string `json:"name"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "locketId")
		if err != nil {
			writeErr(w, err)
			return
		}
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		l, err := h.svc.Update(r.Context(), id, in.Name)
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.Data(w, http.StatusOK, l)
	}
}

// DELETE /api/locket/{locketId}
func (h *LocketHTTP) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "locketId")
		if err != nil {
			writeErr(w, err)
			return
		}
		if err := h.svc.Delete(r.Context(), id); err != nil {
			writeErr(w, err)
			return
		}
		utils.Data(w, http.StatusOK, "OK")
	}
}
