// Package handlers exposes boards, tasks and suggestions over HTTP.
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

type BoardHandlers struct {
	controller *controller.BoardController
	logger     *logger.Logger
}

func NewBoardHandlers(svc *service.Service, log *logger.Logger) *BoardHandlers {
	return &BoardHandlers{
		controller: controller.NewBoardController(svc),
		logger:     log.WithFields(zap.String("component", "board-handlers")),
	}
}

// RegisterRoutes mounts every board, task and suggestion route on api,
// which must already require authentication.
func RegisterRoutes(api *gin.RouterGroup, svc *service.Service, suggester controller.Suggester, log *logger.Logger) {
	NewBoardHandlers(svc, log).registerHTTP(api)
	NewTaskHandlers(svc, log).registerHTTP(api)
	NewSuggestionHandlers(svc, suggester, log).registerHTTP(api)
}

func (h *BoardHandlers) registerHTTP(api *gin.RouterGroup) {
	api.GET("/boards", h.httpListBoards)
	api.POST("/boards", h.httpCreateBoard)
	api.GET("/boards/:boardId", h.httpGetBoard)
	api.PATCH("/boards/:boardId", h.httpUpdateBoard)
	api.DELETE("/boards/:boardId", h.httpDeleteBoard)
}

func (h *BoardHandlers) httpListBoards(c *gin.Context) {
	resp, err := h.controller.ListBoards(c.Request.Context(), auth.OwnerID(c))
	if err != nil {
		writeError(c, h.logger, err, "failed to list boards")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BoardHandlers) httpGetBoard(c *gin.Context) {
	resp, err := h.controller.GetBoard(c.Request.Context(), auth.OwnerID(c), c.Param("boardId"))
	if err != nil {
		writeError(c, h.logger, err, "failed to get board")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BoardHandlers) httpCreateBoard(c *gin.Context) {
	var body v1.CreateBoardRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c)
		return
	}
	resp, err := h.controller.CreateBoard(c.Request.Context(), auth.OwnerID(c), body)
	if err != nil {
		writeError(c, h.logger, err, "failed to create board")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *BoardHandlers) httpUpdateBoard(c *gin.Context) {
	var body v1.UpdateBoardRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c)
		return
	}
	resp, err := h.controller.UpdateBoard(c.Request.Context(), auth.OwnerID(c), c.Param("boardId"), body)
	if err != nil {
		writeError(c, h.logger, err, "failed to update board")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BoardHandlers) httpDeleteBoard(c *gin.Context) {
	if err := h.controller.DeleteBoard(c.Request.Context(), auth.OwnerID(c), c.Param("boardId")); err != nil {
		writeError(c, h.logger, err, "failed to delete board")
		return
	}
	c.Status(http.StatusNoContent)
}
