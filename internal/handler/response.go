// Package handler translates HTTP to service calls and back. Handlers own
// JSON decoding, query parsing, and the response envelope; they never touch
// the repositories directly.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/dagem/foodbridge/internal/apperror"
	"github.com/dagem/foodbridge/internal/service"
)

// errorResponse is the envelope for every non-2xx response.
type errorResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// writeJSON sends the response. Headers and status must be set before the
// body; once Encode writes, header changes are silently dropped.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to its HTTP status. The mapping lives here
// so the service layer never learns about status codes. Anything outside
// the apperror taxonomy becomes an opaque 500; raw error text can carry SQL
// fragments and never reaches the client.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
		}

		writeJSON(w, status, errorResponse{
			Message: appErr.Message,
			Errors:  appErr.Fields,
		})
		return
	}

	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Message: "an internal error occurred",
	})
}

// decodeJSON decodes the request body into dst. A malformed body is a
// client error, not an internal one.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.ValidationFailed("body", "invalid JSON request body")
	}
	return nil
}

// pageFromQuery reads ?page= and ?limit=. Garbage values fall back to the
// defaults instead of erroring; normalization happens in the service.
func pageFromQuery(r *http.Request) service.PageRequest {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return service.PageRequest{Page: page, Limit: limit}
}

// flexNumber accepts a JSON number or a quoted numeric string and keeps the
// raw text. Validation and parsing belong to the service, which also
// rejects the NaN/Inf spellings a plain float64 field would let through.
type flexNumber string

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	*n = flexNumber(strings.Trim(string(b), `"`))
	return nil
}

func (n flexNumber) String() string {
	if n == "null" {
		return ""
	}
	return string(n)
}
