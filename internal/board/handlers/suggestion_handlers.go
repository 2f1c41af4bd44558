package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MohammadOTaha/side-planner/internal/auth"
	"github.com/MohammadOTaha/side-planner/internal/board/controller"
	"github.com/MohammadOTaha/side-planner/internal/board/service"
	"github.com/MohammadOTaha/side-planner/internal/common/logger"
	v1 "github.com/MohammadOTaha/side-planner/pkg/api/v1"
)

type SuggestionHandlers struct {
	controller *controller.SuggestionController
	logger     *logger.Logger
}

func NewSuggestionHandlers(svc *service.Service, suggester controller.Suggester, log *logger.Logger) *SuggestionHandlers {
	return &SuggestionHandlers{
		controller: controller.NewSuggestionController(svc, suggester),
		logger:     log.WithFields(zap.String("component", "suggestion-handlers")),
	}
}

func (h *SuggestionHandlers) registerHTTP(api *gin.RouterGroup) {
	api.POST("/boards/:boardId/suggestions", h.httpSuggest)
	api.POST("/boards/:boardId/suggestions/accept", h.httpAccept)
}

func (h *SuggestionHandlers) httpSuggest(c *gin.Context) {
	var body v1.SuggestRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "task_description is required"})
		return
	}
	resp, err := h.controller.Suggest(c.Request.Context(), auth.OwnerID(c), c.Param("boardId"), body)
	if err != nil {
		writeError(c, h.logger, err, "failed to generate suggestions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SuggestionHandlers) httpAccept(c *gin.Context) {
	var body v1.AcceptSuggestionsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c)
		return
	}
	resp, err := h.controller.Accept(c.Request.Context(), auth.OwnerID(c), c.Param("boardId"), body)
	if err != nil {
		writeError(c, h.logger, err, "failed to accept suggestions")
		return
	}
	c.JSON(http.StatusCreated, resp)
}
