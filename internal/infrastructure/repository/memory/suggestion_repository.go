package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/hockeypikk/hockeypikk/internal/domain/suggestion"
)

type SuggestionRepository struct {
	mu          sync.RWMutex
	suggestions map[string]suggestion.Suggestion
	seq         int
	now         func() time.Time
}

func NewSuggestionRepository() *SuggestionRepository {
	return &SuggestionRepository{
		suggestions: make(map[string]suggestion.Suggestion),
		now:         time.Now,
	}
}

func (r *SuggestionRepository) ListByBoard(_ context.Context, boardID string) ([]suggestion.Suggestion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]suggestion.Suggestion, 0, len(r.suggestions))
	for _, s := range r.suggestions {
		if s.BoardID == boardID {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *SuggestionRepository) GetByID(_ context.Context, suggestionID string) (suggestion.Suggestion, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.suggestions[suggestionID]
	return s, ok, nil
}

func (r *SuggestionRepository) Create(_ context.Context, s suggestion.Suggestion) (suggestion.Suggestion, error) {
	if err := s.Validate(); err != nil {
		return suggestion.Suggestion{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if s.ID == "" {
		r.seq++
		s.ID = "suggestion-" + strconv.Itoa(r.seq)
	}
	if s.CreatedAt == "" {
		s.CreatedAt = r.now().UTC().Format(time.RFC3339)
	}
	r.suggestions[s.ID] = s
	return s, nil
}

func (r *SuggestionRepository) UpdateStatus(_ context.Context, suggestionID string, status suggestion.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.suggestions[suggestionID]
	if !ok {
		return errNotFound("suggestion", suggestionID)
	}
	s.Status = status
	r.suggestions[suggestionID] = s
	return nil
}
