package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/hockeypikk/hockeypikk/internal/domain/board"
)

// BoardRepository is the in-memory board store used when no database URL is
// configured and by service tests.
type BoardRepository struct {
	mu     sync.RWMutex
	boards map[string]board.Board
}

func NewBoardRepository() *BoardRepository {
	return &BoardRepository{boards: make(map[string]board.Board)}
}

func (r *BoardRepository) GetByID(_ context.Context, boardID string) (board.Board, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.boards[boardID]
	return b, ok, nil
}

func (r *BoardRepository) GetByUserAndDate(_ context.Context, userID, boardDate string) (board.Board, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.boards {
		if b.CreatedBy == userID && b.BoardDate == boardDate {
			return b, true, nil
		}
	}
	return board.Board{}, false, nil
}

func (r *BoardRepository) ListRecentByUser(_ context.Context, userID string, limit int) ([]board.Board, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]board.Board, 0, len(r.boards))
	for _, b := range r.boards {
		if b.CreatedBy == userID {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].BoardDate > out[j].BoardDate
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *BoardRepository) Create(_ context.Context, b board.Board) (board.Board, error) {
	if err := b.Validate(); err != nil {
		return board.Board{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.boards[b.ID] = b
	return b, nil
}

func (r *BoardRepository) UpdateStatus(_ context.Context, boardID string, status board.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.boards[boardID]
	if !ok {
		return errNotFound("board", boardID)
	}
	b.Status = status
	r.boards[boardID] = b
	return nil
}
