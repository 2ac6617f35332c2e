package postgres

import (
	"context"
	"fmt"

	qb "github.com/hockeypikk/hockeypikk/internal/platform/querybuilder"
	"github.com/jmoiron/sqlx"
)

type FriendRepository struct {
	db *sqlx.DB
}

func NewFriendRepository(db *sqlx.DB) *FriendRepository {
	return &FriendRepository{db: db}
}

// AreFriends checks for an accepted friendship in either direction.
func (r *FriendRepository) AreFriends(ctx context.Context, userID, otherUserID string) (bool, error) {
	if userID == "" || otherUserID == "" {
		return false, nil
	}
	if userID == otherUserID {
		return true, nil
	}

	query, args, err := qb.Select("1").
		From("friendships").
		Where(
			qb.Eq("status", "accepted"),
			qb.Expr("((requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?))",
				userID, otherUserID, otherUserID, userID),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build are friends query: %w", err)
	}

	var one int
	if err := r.db.GetContext(ctx, &one, query, args...); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("are friends: %w", err)
	}

	return true, nil
}
