package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/duorhuang/aquaflow-pro/internal/engine"
	"github.com/duorhuang/aquaflow-pro/internal/service"
)

// respondError maps service and engine errors to status codes. When a write
// failed after the new state was computed, computed is returned next to the
// error so the client can keep showing it.
func respondError(c *gin.Context, err error, computed any) {
	switch {
	case errors.Is(err, engine.ErrInvalidInput):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrSwimmerNotFound),
		errors.Is(err, service.ErrPlanNotFound),
		errors.Is(err, service.ErrTemplateNotFound),
		errors.Is(err, engine.ErrBlockNotFound),
		errors.Is(err, engine.ErrItemNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrSwimmerExists):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrExportDisabled):
		abortWithError(c, http.StatusNotImplemented, err.Error())
	case errors.Is(err, service.ErrPersistFailed):
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
			"error":    service.ErrPersistFailed.Error(),
			"computed": computed,
		})
	default:
		log.Errorf("%s %s: %s", c.Request.Method, c.FullPath(), err)
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
