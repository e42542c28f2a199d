package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Response codes: 0 success, 1xxx caller faults mapped from the domain error
// kinds, 2xxx server faults.
const (
	CodeSuccess          = 0
	CodeInvalidParams    = 1000
	CodeNotFound         = 1001
	CodeInvalidState     = 1002
	CodeInsufficientData = 1003
	CodeServerError      = 2000
)

// APIResponse is the uniform envelope for every tool call.
type APIResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body APIResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("write response", "error", err)
	}
}

func writeSuccess(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, APIResponse{Code: CodeSuccess, Message: "success", Data: data})
}

func writeError(w http.ResponseWriter, status, code int, message string) {
	writeJSON(w, status, APIResponse{Code: code, Message: message})
}
