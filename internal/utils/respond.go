package utils

import (
	"encoding/json"
	"net/http"
)

// JSON writes v as-is.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Data wraps v in the {"data": ...} envelope every endpoint uses.
func Data(w http.ResponseWriter, status int, v any) {
	JSON(w, status, map[string]any{"data": v})
}

// Error writes the {"errors": msg} envelope; msg strings are contract.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]any{"errors": msg})
}
