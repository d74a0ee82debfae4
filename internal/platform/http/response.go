package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"mining_analytics/internal/shared/market"
)

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusFor maps an error from the use cases to an HTTP status code.
// Context errors are checked first because Client.Get wraps them in
// ErrDataUnavailable.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	case errors.Is(err, market.ErrUnknownAsset):
		return http.StatusNotFound
	case errors.Is(err, market.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, market.ErrAlignment):
		return http.StatusUnprocessableEntity
	case errors.Is(err, market.ErrDataUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WriteError aborts the request with the mapped status and {"error": "..."}.
// Server side failures are logged with the request id.
func WriteError(c *gin.Context, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).
			Str("request_id", c.GetString(ContextRequestID)).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Msg("request failed")
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: err.Error()})
}
