package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/streamhub/backend/internal/auth"
	"github.com/streamhub/backend/internal/graph"
	"github.com/streamhub/backend/internal/logging"
	"github.com/streamhub/backend/internal/repositories"
)

// apiResponse is the uniform envelope every handler returns. Failures carry
// success=false and no data; no internal error detail crosses this boundary.
type apiResponse struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data,omitempty"`
	Message    string `json:"message"`
}

func respondData(ctx context.Context, w http.ResponseWriter, status int, data any, message string) {
	writeEnvelope(ctx, w, apiResponse{
		Success:    status < http.StatusBadRequest,
		StatusCode: status,
		Data:       data,
		Message:    message,
	})
}

func respondError(ctx context.Context, w http.ResponseWriter, status int, message string) {
	writeEnvelope(ctx, w, apiResponse{
		Success:    false,
		StatusCode: status,
		Message:    message,
	})
}

func writeEnvelope(ctx context.Context, w http.ResponseWriter, envelope apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(envelope.StatusCode)

	if err := json.NewEncoder(w).Encode(envelope); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", envelope.StatusCode, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case envelope.StatusCode >= http.StatusInternalServerError:
		logger.Error("request failed", "status", envelope.StatusCode, "message", envelope.Message)
	case envelope.StatusCode >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", envelope.StatusCode, "message", envelope.Message)
	}
}

// respondStoreError maps service and repository failures onto the error
// taxonomy: invalid ids are client errors, missing records are 404s, token
// failures are 401s, and everything else is an opaque 500.
func respondStoreError(ctx context.Context, w http.ResponseWriter, err error, notFoundMessage string) {
	switch {
	case errors.Is(err, graph.ErrInvalidID):
		respondError(ctx, w, http.StatusBadRequest, "Invalid id")
	case errors.Is(err, graph.ErrSelfSubscription):
		respondError(ctx, w, http.StatusBadRequest, "Cannot subscribe to your own channel")
	case errors.Is(err, repositories.ErrNotFound):
		respondError(ctx, w, http.StatusNotFound, notFoundMessage)
	case errors.Is(err, auth.ErrMissingToken), errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenReused):
		respondError(ctx, w, http.StatusUnauthorized, err.Error())
	default:
		logging.FromContext(ctx).Error("unexpected store failure", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Something went wrong")
	}
}
