package friend

import "context"

// Repository exposes the read side of the friend graph. The friendship
// workflow itself (requests, accepts) lives in the managed database; the
// core only ever asks whether two users are connected.
type Repository interface {
	AreFriends(ctx context.Context, userID, otherUserID string) (bool, error)
}
