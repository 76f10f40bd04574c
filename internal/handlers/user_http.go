package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/nudriin/antrian-rest-api/internal/middleware"
	"github.com/nudriin/antrian-rest-api/internal/service"
	"github.com/nudriin/antrian-rest-api/internal/utils"
)

type UserHTTP struct {
	svc *service.UserService
}

func NewUserHTTP(svc *service.UserService) *UserHTTP { return &UserHTTP{svc: svc} }

// POST /api/users
func (h *UserHTTP) Register() http.HandlerFunc {
	type inDTO struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		u, err := h.svc.Register(r.Context(), in.Email, in.Password, in.Name)
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.Data(w, http.StatusOK, u)
	}
}

// POST /api/users/login returns the profile plus the signed token.
func (h *UserHTTP) Login() http.HandlerFunc {
	type inDTO struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		u, token, err := h.svc.Login(r.Context(), in.Email, in.Password)
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.Data(w, http.StatusOK, map[string]any{
			"id":    u.ID,
			"email": u.Email,
			"name":  u.Name,
			"role":  u.Role,
			"token": token,
		})
	}
}

// GET /api/users/current echoes the resolved identity.
func (h *UserHTTP) Current() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.Data(w, http.StatusOK, middleware.UserFrom(r.Context()))
	}
}

// GET /api/users
func (h *UserHTTP) FindAll() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := h.svc.FindAll(r.Context(), middleware.UserFrom(r.Context()))
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.Data(w, http.StatusOK, users)
	}
}

// POST /api/users/admin creates an account with an explicit role.
func (h *UserHTTP) AdminAdd() http.HandlerFunc {
	type inDTO struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
		Role     string `json:"role"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		u, err := h.svc.AdminAdd(r.Context(), middleware.UserFrom(r.Context()), in.Email, in.Password, in.Name, in.Role)
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.Data(w, http.StatusOK, u)
	}
}

// DELETE /api/users/{userId}
func (h *UserHTTP) Remove() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "userId")
		if err != nil {
			writeErr(w, err)
			return
		}
		if err := h.svc.Remove(r.Context(), middleware.UserFrom(r.Context()), id); err != nil {
			writeErr(w, err)
			return
		}
		utils.Data(w, http.StatusOK, "OK")
	}
}
