package suggestion

import "fmt"

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Suggestion is a friend's proposed alternate pick for one board group.
type Suggestion struct {
	ID           string
	BoardID      string
	BoardGroupID string
	SuggestedBy  string
	NHLPlayerID  int64
	PlayerName   string
	TeamCode     string
	TeamName     string
	Reason       string
	Status       Status
	CreatedAt    string

	GroupLabel     string
	GroupSortOrder int
	DisplayName    string
}

func (s Suggestion) Validate() error {
	if s.BoardID == "" {
		return fmt.Errorf("suggestion board id is required")
	}
	if s.BoardGroupID == "" {
		return fmt.Errorf("suggestion board group id is required")
	}
	if s.SuggestedBy == "" {
		return fmt.Errorf("suggestion author is required")
	}
	if s.NHLPlayerID <= 0 {
		return fmt.Errorf("suggestion player id must be positive")
	}
	return nil
}
