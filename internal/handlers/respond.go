package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nudriin/antrian-rest-api/internal/apperr"
	"github.com/nudriin/antrian-rest-api/internal/utils"
)

func writeErr(w http.ResponseWriter, err error) {
	utils.Error(w, apperr.StatusOf(err), err.Error())
}

// pathID parses a numeric path parameter; non-numeric input is a 400 with
// the same message shape the services use for out-of-range ids.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		return 0, apperr.BadRequest(name + " must be a positive number")
	}
	return id, nil
}
