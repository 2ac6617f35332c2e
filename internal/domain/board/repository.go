package board

import "context"

// Repository describes board persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, boardID string) (Board, bool, error)
	GetByUserAndDate(ctx context.Context, userID, boardDate string) (Board, bool, error)
	ListRecentByUser(ctx context.Context, userID string, limit int) ([]Board, error)
	Create(ctx context.Context, b Board) (Board, error)
	UpdateStatus(ctx context.Context, boardID string, status Status) error
}
