package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lishe/internal/service"
)

// errorKinds traduce cada tipo de error del servicio a su status y kind estable.
var errorKinds = []struct {
	target error
	status int
	kind   string
}{
	{service.ErrValidation, http.StatusBadRequest, "validation"},
	{service.ErrConflict, http.StatusConflict, "conflict"},
	{service.ErrNotFound, http.StatusNotFound, "not_found"},
	{service.ErrInvalidCode, http.StatusBadRequest, "invalid_code"},
	{service.ErrExpired, http.StatusBadRequest, "expired"},
	{service.ErrDeliveryFailed, http.StatusServiceUnavailable, "delivery_failed"},
	{service.ErrInvalidState, http.StatusConflict, "invalid_state"},
	{service.ErrRateLimited, http.StatusTooManyRequests, "rate_limited"},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
}

func classify(err error) (int, string) {
	for _, k := range errorKinds {
		if errors.Is(err, k.target) {
			return k.status, k.kind
		}
	}
	return http.StatusInternalServerError, "internal"
}

// writeError responde {"kind", "error"}; los errores internos se loguean y no se exponen.
func writeError(c *gin.Context, logger *zap.Logger, op string, err error) {
	status, kind := classify(err)
	msg := err.Error()
	switch kind {
	case "internal":
		logger.Error(op+" failed", zap.Error(err))
		msg = "internal error"
	case "delivery_failed":
		msg = service.ErrDeliveryFailed.Error()
	}
	c.JSON(status, gin.H{"kind": kind, "error": msg})
}

func badRequest(c *gin.Context, logger *zap.Logger, op string, err error) {
	logger.Warn("invalid "+op+" request", zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"kind": "validation", "error": "invalid request"})
}
