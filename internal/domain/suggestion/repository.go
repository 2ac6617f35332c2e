package suggestion

import "context"

// Repository describes suggestion persistence needs from use cases.
type Repository interface {
	ListByBoard(ctx context.Context, boardID string) ([]Suggestion, error)
	GetByID(ctx context.Context, suggestionID string) (Suggestion, bool, error)
	Create(ctx context.Context, s Suggestion) (Suggestion, error)
	UpdateStatus(ctx context.Context, suggestionID string, status Status) error
}
