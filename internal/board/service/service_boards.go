package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/MohammadOTaha/side-planner/internal/board/models"
	"github.com/MohammadOTaha/side-planner/internal/events"
)

func validateBoardName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxBoardNameLength {
		return "", ErrInvalidBoardName
	}
	return name, nil
}

// CreateBoard creates a board owned by req.OwnerID.
func (s *Service) CreateBoard(ctx context.Context, req *CreateBoardRequest) (*models.Board, error) {
	name, err := validateBoardName(req.Name)
	if err != nil {
		return nil, err
	}
	board := &models.Board{
		OwnerID:     req.OwnerID,
		Name:        name,
		Description: req.Description,
		Features:    req.Features,
	}
	if err := s.repo.CreateBoard(ctx, board); err != nil {
		return nil, classify("create board", err, ErrBoardNotFound)
	}

	s.publishBoardEvent(ctx, events.BoardCreated, board)
	s.logger.Info("board created", zap.String("board_id", board.ID), zap.String("owner_id", board.OwnerID))
	return board, nil
}

// GetBoard returns the board if it exists and belongs to ownerID.
func (s *Service) GetBoard(ctx context.Context, ownerID, boardID string) (*models.Board, error) {
	board, err := s.repo.GetBoard(ctx, boardID)
	if err != nil {
		return nil, classify("get board", err, ErrBoardNotFound)
	}
	if board.OwnerID != ownerID {
		return nil, ErrBoardNotFound
	}
	return board, nil
}

// ListBoards returns the boards of ownerID, newest first.
func (s *Service) ListBoards(ctx context.Context, ownerID string) ([]*models.Board, error) {
	boards, err := s.repo.ListBoards(ctx, ownerID)
	if err != nil {
		return nil, classify("list boards", err, ErrBoardNotFound)
	}
	return boards, nil
}

// UpdateBoard applies a partial update to a board of ownerID.
func (s *Service) UpdateBoard(ctx context.Context, ownerID, boardID string, req *UpdateBoardRequest) (*models.Board, error) {
	board, err := s.GetBoard(ctx, ownerID, boardID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		name, err := validateBoardName(*req.Name)
		if err != nil {
			return nil, err
		}
		board.Name = name
	}
	if req.Description != nil {
		board.Description = *req.Description
	}
	if req.Features != nil {
		board.Features = *req.Features
	}
	if err := s.repo.UpdateBoard(ctx, board); err != nil {
		return nil, classify("update board", err, ErrBoardNotFound)
	}

	s.publishBoardEvent(ctx, events.BoardUpdated, board)
	s.logger.Info("board updated", zap.String("board_id", board.ID))
	return board, nil
}

// DeleteBoard deletes a board of ownerID together with its tasks.
func (s *Service) DeleteBoard(ctx context.Context, ownerID, boardID string) error {
	board, err := s.GetBoard(ctx, ownerID, boardID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteBoard(ctx, boardID); err != nil {
		return classify("delete board", err, ErrBoardNotFound)
	}

	s.publishBoardEvent(ctx, events.BoardDeleted, board)
	s.logger.Info("board deleted", zap.String("board_id", boardID))
	return nil
}

// Ping checks the underlying store.
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
