package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MohammadOTaha/side-planner/internal/board/service"
	"github.com/MohammadOTaha/side-planner/internal/common/logger"
	"github.com/MohammadOTaha/side-planner/internal/suggest"
)

// writeError maps service errors to HTTP responses. Unclassified errors are
// logged and reported as fallback with a 500.
func writeError(c *gin.Context, log *logger.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrBoardNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "board not found"})
	case errors.Is(err, service.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
	case service.IsValidationError(err), errors.Is(err, suggest.ErrEmptyDescription):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, suggest.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, suggest.ErrProviderUnavailable), errors.Is(err, suggest.ErrBadCompletion):
		log.WithContext(c.Request.Context()).Warn("suggestion provider failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to generate suggestions"})
	case errors.Is(err, context.Canceled):
		// Client went away; nobody reads the response.
		c.Status(499)
	default:
		log.WithContext(c.Request.Context()).Error(fallback, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}
