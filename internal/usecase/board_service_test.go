package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/hockeypikk/hockeypikk/internal/domain/board"
	"github.com/hockeypikk/hockeypikk/internal/infrastructure/repository/memory"
)

func newTestBoardService(statsProvider StatsProvider) (*BoardService, *memory.BoardRepository, *memory.FriendRepository) {
	boards := memory.NewBoardRepository()
	friends := memory.NewFriendRepository()
	svc := NewBoardService(boards, friends, statsProvider, sequenceIDs(), nopLogger(), fixedClock("2024-01-08T15:00:00Z"))
	return svc, boards, friends
}

func TestBoardService_GetOrCreateToday_CreatesDraftWithGroups(t *testing.T) {
	t.Parallel()

	statsProvider := &stubStats{
		firstGame: func(dateKey string) (string, error) {
			if dateKey != "2024-01-08" {
				t.Errorf("unexpected date key: %s", dateKey)
			}
			return "2024-01-08T19:00:00-05:00", nil
		},
	}
	svc, _, _ := newTestBoardService(statsProvider)

	b, err := svc.GetOrCreateToday(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetOrCreateToday error: %v", err)
	}
	if b.Status != board.StatusDraft {
		t.Fatalf("expected draft status, got=%s", b.Status)
	}
	if b.BoardDate != "2024-01-08" {
		t.Fatalf("unexpected board date: %s", b.BoardDate)
	}
	if len(b.Groups) != board.DefaultGroupCount {
		t.Fatalf("expected %d groups, got=%d", board.DefaultGroupCount, len(b.Groups))
	}
	if b.Groups[0].Label != "Center" || b.Groups[2].Label != "Defense" {
		t.Fatalf("unexpected group labels: %+v", b.Groups)
	}
	if b.LockAt == nil || *b.LockAt != "2024-01-08T19:00:00-05:00" {
		t.Fatalf("expected lock deadline from first puck drop, got=%v", b.LockAt)
	}
}

func TestBoardService_GetOrCreateToday_ReturnsExisting(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestBoardService(&stubStats{})

	first, err := svc.GetOrCreateToday(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("first GetOrCreateToday error: %v", err)
	}
	second, err := svc.GetOrCreateToday(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("second GetOrCreateToday error: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected the same board, got %s then %s", first.ID, second.ID)
	}
}

func TestBoardService_GetOrCreateToday_ScheduleFailureStillCreates(t *testing.T) {
	t.Parallel()

	statsProvider := &stubStats{
		firstGame: func(string) (string, error) {
			return "", errors.New("schedule down")
		},
	}
	svc, _, _ := newTestBoardService(statsProvider)

	b, err := svc.GetOrCreateToday(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetOrCreateToday error: %v", err)
	}
	if b.LockAt != nil {
		t.Fatalf("expected no lock deadline, got=%v", *b.LockAt)
	}
}

func TestBoardService_GetBoard_FriendVisibility(t *testing.T) {
	t.Parallel()

	svc, _, friends := newTestBoardService(&stubStats{})
	b, err := svc.GetOrCreateToday(context.Background(), "owner")
	if err != nil {
		t.Fatalf("create board: %v", err)
	}

	if _, err := svc.GetBoard(context.Background(), "stranger", b.ID); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for stranger, got %v", err)
	}

	friends.Connect("owner", "buddy")
	got, err := svc.GetBoard(context.Background(), "buddy", b.ID)
	if err != nil {
		t.Fatalf("friend GetBoard error: %v", err)
	}
	if got.ID != b.ID {
		t.Fatalf("unexpected board: %s", got.ID)
	}

	if _, err := svc.GetBoard(context.Background(), "owner", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBoardService_LockBoard_OwnerOnlyAndIdempotent(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestBoardService(&stubStats{})
	b, err := svc.GetOrCreateToday(context.Background(), "owner")
	if err != nil {
		t.Fatalf("create board: %v", err)
	}

	if _, err := svc.LockBoard(context.Background(), "stranger", b.ID); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	locked, err := svc.LockBoard(context.Background(), "owner", b.ID)
	if err != nil {
		t.Fatalf("LockBoard error: %v", err)
	}
	if locked.Status != board.StatusLocked {
		t.Fatalf("expected locked status, got=%s", locked.Status)
	}

	again, err := svc.LockBoard(context.Background(), "owner", b.ID)
	if err != nil {
		t.Fatalf("second LockBoard error: %v", err)
	}
	if again.Status != board.StatusLocked {
		t.Fatalf("expected lock to stick, got=%s", again.Status)
	}
}

func TestBoardService_Locked_DeadlinePassed(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestBoardService(&stubStats{})

	past := "2024-01-08T14:00:00Z"
	future := "2024-01-08T23:00:00Z"

	if !svc.Locked(board.Board{Status: board.StatusDraft, LockAt: &past}) {
		t.Fatal("board past its deadline should be locked")
	}
	if svc.Locked(board.Board{Status: board.StatusDraft, LockAt: &future}) {
		t.Fatal("board before its deadline should be open")
	}
	if svc.Locked(board.Board{Status: board.StatusDraft}) {
		t.Fatal("board without a deadline should be open")
	}
	if !svc.Locked(board.Board{Status: board.StatusLocked}) {
		t.Fatal("explicitly locked board should be locked")
	}
}
