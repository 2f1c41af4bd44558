package v1

import "time"

// Board is the wire representation of a board.
type Board struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Features    string    `json:"features"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateBoardRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Features    string `json:"features"`
}

type UpdateBoardRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Features    *string `json:"features"`
}

type ListBoardsResponse struct {
	Boards []Board `json:"boards"`
	Total  int     `json:"total"`
}
