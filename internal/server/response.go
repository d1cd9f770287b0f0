package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Rana718/Seedbed/internal/errs"
)

const maxBodyBytes = 1 << 20

// Response is the envelope used for error replies.
type Response struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	Data      any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}

// JSON sends data as the bare response body.
func JSON(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, data)
}

// JSONMessage sends a bare JSON string such as "Generated 5".
func JSONMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, message)
}

func JSONError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, Response{
		Success:   false,
		Message:   message,
		Code:      code,
		RequestID: RequestID(r.Context()),
	})
}

// ParseJSON decodes the request body into target. Unknown fields are ignored.
func ParseJSON(w http.ResponseWriter, r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(target)
}

// StatusFor maps an error to its HTTP status: invalid input is the caller's
// fault, everything else is a server error.
func StatusFor(err error) int {
	if errs.Is(err, errs.CodeInvalidArgument) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// writeError replies with the mapped status. data carries a partial result,
// such as the per-backend outcome of a failed fan-out, and may be nil.
// writeResultError writes err with the partial result of a fan-out as data.
// A nil result leaves data out instead of encoding a typed nil as null.
func writeResultError[T any](w http.ResponseWriter, r *http.Request, err error, partial *T) {
	if partial == nil {
		writeError(w, r, err, nil)
		return
	}
	writeError(w, r, err, partial)
}

func writeError(w http.ResponseWriter, r *http.Request, err error, data any) {
	writeJSON(w, StatusFor(err), Response{
		Success:   false,
		Message:   err.Error(),
		Code:      errs.CodeOf(err).String(),
		RequestID: RequestID(r.Context()),
		Data:      data,
	})
}
