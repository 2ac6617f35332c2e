package memory

import (
	"context"
	"sync"
)

type FriendRepository struct {
	mu    sync.RWMutex
	pairs map[[2]string]struct{}
}

func NewFriendRepository() *FriendRepository {
	return &FriendRepository{pairs: make(map[[2]string]struct{})}
}

// Connect records an accepted friendship in both directions.
func (r *FriendRepository) Connect(userID, otherUserID string) {
	if userID == "" || otherUserID == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pairs[[2]string{userID, otherUserID}] = struct{}{}
	r.pairs[[2]string{otherUserID, userID}] = struct{}{}
}

func (r *FriendRepository) AreFriends(_ context.Context, userID, otherUserID string) (bool, error) {
	if userID == "" || otherUserID == "" {
		return false, nil
	}
	if userID == otherUserID {
		return true, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.pairs[[2]string{userID, otherUserID}]
	return ok, nil
}
