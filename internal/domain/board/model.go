package board

import "fmt"

type Status string

const (
	StatusDraft  Status = "draft"
	StatusLocked Status = "locked"
)

// Board is one user's daily pick container. BoardDate is a YYYY-MM-DD key;
// combined with the season utility it decides which NHL season outcomes are
// resolved against.
type Board struct {
	ID        string
	CreatedBy string
	BoardDate string
	Status    Status
	LockAt    *string
	Groups    []Group
}

// Group is one ordered slot on a board; each group holds at most one pick
// per user.
type Group struct {
	ID        string
	BoardID   string
	Label     string
	SortOrder int
}

func (b Board) Validate() error {
	if b.ID == "" {
		return fmt.Errorf("board id is required")
	}
	if b.CreatedBy == "" {
		return fmt.Errorf("board creator is required")
	}
	if b.BoardDate == "" {
		return fmt.Errorf("board date is required")
	}
	if b.Status != StatusDraft && b.Status != StatusLocked {
		return fmt.Errorf("invalid board status: %s", b.Status)
	}
	return nil
}

// DefaultGroupCount is how many pick groups a fresh board gets.
const DefaultGroupCount = 3
