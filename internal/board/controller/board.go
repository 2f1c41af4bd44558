// Package controller adapts the board service to v1 wire types.
package controller

import (
	"context"

	"github.com/MohammadOTaha/side-planner/internal/board/dto"
	"github.com/MohammadOTaha/side-planner/internal/board/service"
	v1 "github.com/MohammadOTaha/side-planner/pkg/api/v1"
)

type BoardController struct {
	service *service.Service
}

func NewBoardController(svc *service.Service) *BoardController {
	return &BoardController{service: svc}
}

func (c *BoardController) ListBoards(ctx context.Context, ownerID string) (v1.ListBoardsResponse, error) {
	boards, err := c.service.ListBoards(ctx, ownerID)
	if err != nil {
		return v1.ListBoardsResponse{}, err
	}
	return v1.ListBoardsResponse{Boards: dto.FromBoards(boards), Total: len(boards)}, nil
}

func (c *BoardController) GetBoard(ctx context.Context, ownerID, boardID string) (v1.Board, error) {
	board, err := c.service.GetBoard(ctx, ownerID, boardID)
	if err != nil {
		return v1.Board{}, err
	}
	return dto.FromBoard(board), nil
}

func (c *BoardController) CreateBoard(ctx context.Context, ownerID string, req v1.CreateBoardRequest) (v1.Board, error) {
	board, err := c.service.CreateBoard(ctx, &service.CreateBoardRequest{
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
		Features:    req.Features,
	})
	if err != nil {
		return v1.Board{}, err
	}
	return dto.FromBoard(board), nil
}

func (c *BoardController) UpdateBoard(ctx context.Context, ownerID, boardID string, req v1.UpdateBoardRequest) (v1.Board, error) {
	board, err := c.service.UpdateBoard(ctx, ownerID, boardID, &service.UpdateBoardRequest{
		Name:        req.Name,
		Description: req.Description,
		Features:    req.Features,
	})
	if err != nil {
		return v1.Board{}, err
	}
	return dto.FromBoard(board), nil
}

func (c *BoardController) DeleteBoard(ctx context.Context, ownerID, boardID string) error {
	return c.service.DeleteBoard(ctx, ownerID, boardID)
}
