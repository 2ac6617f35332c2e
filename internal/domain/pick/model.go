package pick

import (
	"fmt"

	"github.com/hockeypikk/hockeypikk/internal/domain/stats"
)

// Pick is one user's player selection for one board group. Stats columns are
// a snapshot taken at selection time; the two outcome fields stay nil until
// a reconciliation pass confirms the game result, and once set they are
// authoritative and never re-fetched.
type Pick struct {
	ID               string
	BoardID          string
	BoardGroupID     string
	UserID           string
	NHLPlayerID      int64
	PlayerName       string
	TeamCode         string
	TeamName         string
	OpponentTeamCode string
	OpponentTeamName string
	Position         string
	Line             *string
	PPLine           *string

	Stats stats.PlayerSeasonStats

	GameGoals     *int
	GamePlayed    *bool
	GameUpdatedAt *string

	IsLocked bool

	GroupLabel     string
	GroupSortOrder int
}

// Resolved reports whether the pick's outcome has reached a terminal state.
func (p Pick) Resolved() bool {
	return p.GameGoals != nil && p.GamePlayed != nil
}

func (p Pick) Validate() error {
	if p.BoardID == "" {
		return fmt.Errorf("pick board id is required")
	}
	if p.BoardGroupID == "" {
		return fmt.Errorf("pick board group id is required")
	}
	if p.UserID == "" {
		return fmt.Errorf("pick user id is required")
	}
	if p.NHLPlayerID <= 0 {
		return fmt.Errorf("pick player id must be positive")
	}
	if p.PlayerName == "" {
		return fmt.Errorf("pick player name is required")
	}
	return nil
}

// OutcomeUpdate is one deferred persistence write produced by reconciliation.
type OutcomeUpdate struct {
	PickID string
	Goals  int
	Played bool
}
