// Package handlers contains the JSON HTTP handlers for the API surface.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"cardstash/internal/contextutil"
	"cardstash/internal/inventory"
	"cardstash/internal/storage"
)

// errorResponse is the JSON body for all error replies.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes v with the given status. Encoding failures are logged,
// not surfaced; the status line is already on the wire.
func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeError maps service errors to HTTP statuses: missing records are 404,
// validation failures are 400, everything else is 500 with a generic body so
// internals never leak.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	logger := contextutil.LoggerFromContext(ctx)

	var verr *inventory.ValidationError
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeJSON(ctx, w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.As(err, &verr):
		writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: verr.Error()})
	default:
		logger.ErrorContext(ctx, "request failed", "error", err)
		writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// decodeBody decodes a JSON request body into dst, rejecting unknown fields.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
