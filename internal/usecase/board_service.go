package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hockeypikk/hockeypikk/internal/domain/board"
	"github.com/hockeypikk/hockeypikk/internal/domain/friend"
	"github.com/hockeypikk/hockeypikk/internal/domain/season"
	"github.com/hockeypikk/hockeypikk/internal/platform/id"
	"github.com/hockeypikk/hockeypikk/internal/platform/logging"
)

var defaultGroupLabels = []string{"Center", "Winger", "Defense"}

type BoardService struct {
	boardRepo  board.Repository
	friendRepo friend.Repository
	stats      StatsProvider
	idGen      id.Generator
	logger     *logging.Logger
	now        func() time.Time
}

func NewBoardService(
	boardRepo board.Repository,
	friendRepo friend.Repository,
	stats StatsProvider,
	idGen id.Generator,
	logger *logging.Logger,
	now func() time.Time,
) *BoardService {
	if logger == nil {
		logger = logging.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &BoardService{
		boardRepo:  boardRepo,
		friendRepo: friendRepo,
		stats:      stats,
		idGen:      idGen,
		logger:     logger,
		now:        now,
	}
}

// GetOrCreateToday returns the caller's board for the current date,
// creating a draft board with the default groups on first access. The lock
// deadline comes from the day's first puck drop and is best-effort: a
// schedule failure leaves the board without a deadline rather than failing
// the request.
func (s *BoardService) GetOrCreateToday(ctx context.Context, userID string) (board.Board, error) {
	ctx, span := startUsecaseSpan(ctx, "BoardService.GetOrCreateToday")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return board.Board{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	todayKey := season.TodayKey(s.now)
	existing, found, err := s.boardRepo.GetByUserAndDate(ctx, userID, todayKey)
	if err != nil {
		return board.Board{}, fmt.Errorf("get board for today: %w", err)
	}
	if found {
		return existing, nil
	}

	boardID, err := s.idGen.NewID()
	if err != nil {
		return board.Board{}, fmt.Errorf("generate board id: %w", err)
	}

	fresh := board.Board{
		ID:        boardID,
		CreatedBy: userID,
		BoardDate: todayKey,
		Status:    board.StatusDraft,
	}
	if lockAt, err := s.stats.GetFirstGameStartTime(ctx, todayKey); err != nil {
		s.logger.WarnContext(ctx, "first puck drop lookup failed, board created without lock deadline",
			"board_date", todayKey,
			"error", err,
		)
	} else if lockAt != "" {
		fresh.LockAt = &lockAt
	}

	for i := 0; i < board.DefaultGroupCount; i++ {
		groupID, err := s.idGen.NewID()
		if err != nil {
			return board.Board{}, fmt.Errorf("generate board group id: %w", err)
		}
		label := fmt.Sprintf("Group %d", i+1)
		if i < len(defaultGroupLabels) {
			label = defaultGroupLabels[i]
		}
		fresh.Groups = append(fresh.Groups, board.Group{
			ID:        groupID,
			BoardID:   boardID,
			Label:     label,
			SortOrder: i,
		})
	}

	created, err := s.boardRepo.Create(ctx, fresh)
	if err != nil {
		return board.Board{}, fmt.Errorf("create board: %w", err)
	}
	return created, nil
}

// GetBoard returns one board to its owner or to a friend of the owner.
func (s *BoardService) GetBoard(ctx context.Context, userID, boardID string) (board.Board, error) {
	ctx, span := startUsecaseSpan(ctx, "BoardService.GetBoard")
	defer span.End()

	userID = strings.TrimSpace(userID)
	boardID = strings.TrimSpace(boardID)
	if userID == "" || boardID == "" {
		return board.Board{}, fmt.Errorf("%w: user id and board id are required", ErrInvalidInput)
	}

	b, found, err := s.boardRepo.GetByID(ctx, boardID)
	if err != nil {
		return board.Board{}, fmt.Errorf("get board: %w", err)
	}
	if !found {
		return board.Board{}, fmt.Errorf("%w: board %s", ErrNotFound, boardID)
	}

	if b.CreatedBy != userID {
		friends, err := s.friendRepo.AreFriends(ctx, userID, b.CreatedBy)
		if err != nil {
			return board.Board{}, fmt.Errorf("check friendship: %w", err)
		}
		if !friends {
			return board.Board{}, fmt.Errorf("%w: board belongs to another user", ErrUnauthorized)
		}
	}

	return b, nil
}

// LockBoard flips a draft board to locked. Locking is one-way.
func (s *BoardService) LockBoard(ctx context.Context, userID, boardID string) (board.Board, error) {
	ctx, span := startUsecaseSpan(ctx, "BoardService.LockBoard")
	defer span.End()

	b, found, err := s.boardRepo.GetByID(ctx, strings.TrimSpace(boardID))
	if err != nil {
		return board.Board{}, fmt.Errorf("get board: %w", err)
	}
	if !found {
		return board.Board{}, fmt.Errorf("%w: board %s", ErrNotFound, boardID)
	}
	if b.CreatedBy != strings.TrimSpace(userID) {
		return board.Board{}, fmt.Errorf("%w: board belongs to another user", ErrUnauthorized)
	}
	if b.Status == board.StatusLocked {
		return b, nil
	}

	if err := s.boardRepo.UpdateStatus(ctx, b.ID, board.StatusLocked); err != nil {
		return board.Board{}, fmt.Errorf("lock board: %w", err)
	}
	b.Status = board.StatusLocked
	return b, nil
}

// Locked reports whether picks on the board can still change: either the
// board was explicitly locked or its lock deadline has passed.
func (s *BoardService) Locked(b board.Board) bool {
	if b.Status == board.StatusLocked {
		return true
	}
	if b.LockAt == nil {
		return false
	}
	deadline, err := time.Parse(time.RFC3339, *b.LockAt)
	if err != nil {
		return false
	}
	return !s.now().Before(deadline)
}
