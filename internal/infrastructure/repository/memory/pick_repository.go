package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/hockeypikk/hockeypikk/internal/domain/pick"
)

type PickRepository struct {
	mu    sync.RWMutex
	picks map[string]pick.Pick
	seq   int
	now   func() time.Time
}

func NewPickRepository() *PickRepository {
	return &PickRepository{
		picks: make(map[string]pick.Pick),
		now:   time.Now,
	}
}

func (r *PickRepository) ListByBoards(_ context.Context, boardIDs []string) ([]pick.Pick, error) {
	wanted := make(map[string]struct{}, len(boardIDs))
	for _, boardID := range boardIDs {
		wanted[boardID] = struct{}{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pick.Pick, 0, len(r.picks))
	for _, p := range r.picks {
		if _, ok := wanted[p.BoardID]; ok {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].BoardID != out[j].BoardID {
			return out[i].BoardID < out[j].BoardID
		}
		if out[i].GroupSortOrder != out[j].GroupSortOrder {
			return out[i].GroupSortOrder < out[j].GroupSortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *PickRepository) GetByGroupAndUser(_ context.Context, boardGroupID, userID string) (pick.Pick, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.picks {
		if p.BoardGroupID == boardGroupID && p.UserID == userID {
			return p, true, nil
		}
	}
	return pick.Pick{}, false, nil
}

// Upsert mirrors the database conflict target: one pick per
// (board_group_id, user_id), replacement resets the outcome fields.
func (r *PickRepository) Upsert(_ context.Context, picks []pick.Pick) ([]pick.Pick, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]pick.Pick, 0, len(picks))
	for _, incoming := range picks {
		if err := incoming.Validate(); err != nil {
			return nil, err
		}

		var existingID string
		for id, existing := range r.picks {
			if existing.BoardGroupID == incoming.BoardGroupID && existing.UserID == incoming.UserID {
				existingID = id
				break
			}
		}

		if existingID != "" {
			incoming.ID = existingID
		} else if incoming.ID == "" {
			r.seq++
			incoming.ID = "pick-" + strconv.Itoa(r.seq)
		}
		incoming.GameGoals = nil
		incoming.GamePlayed = nil
		incoming.GameUpdatedAt = nil

		r.picks[incoming.ID] = incoming
		out = append(out, incoming)
	}
	return out, nil
}

func (r *PickRepository) UpdateOutcome(_ context.Context, update pick.OutcomeUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.picks[update.PickID]
	if !ok {
		return errNotFound("pick", update.PickID)
	}

	goals := update.Goals
	played := update.Played
	updatedAt := r.now().UTC().Format(time.RFC3339)
	p.GameGoals = &goals
	p.GamePlayed = &played
	p.GameUpdatedAt = &updatedAt
	r.picks[update.PickID] = p
	return nil
}
