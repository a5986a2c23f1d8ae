package handlers

import (
	"errors"
	"net/http"

	"github.com/dimitrije/fanmint-api/internal/database"
	"github.com/dimitrije/fanmint-api/internal/logger"
	"github.com/dimitrije/fanmint-api/internal/services"
	"github.com/dimitrije/fanmint-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

func fail(c *drift.Context, status int, msg string) {
	_ = c.JSON(status, dto.ErrorResponse{Success: false, Error: msg})
}

// failWith maps a service error onto the HTTP error taxonomy. fallback is the
// message used for unclassified failures.
func failWith(c *drift.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrCollectionNotFound), errors.Is(err, services.ErrNoVotedItems):
		fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, database.ErrUnavailable):
		logger.L.Warn("storage unavailable", zap.String("path", c.Request.URL.Path), zap.Error(err))
		fail(c, http.StatusServiceUnavailable, "storage temporarily unavailable")
	default:
		logger.L.Error(fallback, zap.String("path", c.Request.URL.Path), zap.Error(err))
		fail(c, http.StatusInternalServerError, fallback)
	}
}
