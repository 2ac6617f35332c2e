package pick

import "context"

// Repository describes pick persistence needs from use cases. Upsert
// resolves conflicts on (board_group_id, user_id) so re-submitting a group
// replaces the earlier selection.
type Repository interface {
	ListByBoards(ctx context.Context, boardIDs []string) ([]Pick, error)
	GetByGroupAndUser(ctx context.Context, boardGroupID, userID string) (Pick, bool, error)
	Upsert(ctx context.Context, picks []Pick) ([]Pick, error)
	UpdateOutcome(ctx context.Context, update OutcomeUpdate) error
}
