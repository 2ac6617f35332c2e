package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/pool"

	"github.com/hockeypikk/hockeypikk/internal/domain/board"
	"github.com/hockeypikk/hockeypikk/internal/domain/pick"
	"github.com/hockeypikk/hockeypikk/internal/domain/season"
	"github.com/hockeypikk/hockeypikk/internal/domain/stats"
	"github.com/hockeypikk/hockeypikk/internal/platform/logging"
)

const (
	defaultHistoryLimit     = 30
	maxHistoryLimit         = 50
	defaultOutcomeWriters   = 8
	defaultBoardConcurrency = 4
)

// HistoryPick is a persisted pick plus the request-scoped head-to-head
// annotation. Record is recomputed every request; the outcome fields come
// from storage once resolved.
type HistoryPick struct {
	pick.Pick
	Record *stats.HeadToHeadRecord `json:"record,omitempty"`
}

// HistoryBoard is one historical board with its picks annotated.
type HistoryBoard struct {
	Board             board.Board   `json:"board"`
	SeasonID          string        `json:"seasonId,omitempty"`
	CanResolveResults bool          `json:"canResolveResults"`
	Picks             []HistoryPick `json:"picks"`
}

type HistoryService struct {
	boardRepo      board.Repository
	pickRepo       pick.Repository
	stats          StatsProvider
	logger         *logging.Logger
	now            func() time.Time
	defaultLimit   int
	outcomeWriters int
}

// NewHistoryService builds the history reader. defaultLimit is the board
// count served when the request does not name one; zero falls back to 30.
func NewHistoryService(
	boardRepo board.Repository,
	pickRepo pick.Repository,
	statsProvider StatsProvider,
	logger *logging.Logger,
	now func() time.Time,
	defaultLimit int,
) *HistoryService {
	if logger == nil {
		logger = logging.Default()
	}
	if now == nil {
		now = time.Now
	}
	if defaultLimit <= 0 || defaultLimit > maxHistoryLimit {
		defaultLimit = defaultHistoryLimit
	}
	return &HistoryService{
		boardRepo:      boardRepo,
		pickRepo:       pickRepo,
		stats:          statsProvider,
		logger:         logger,
		now:            now,
		defaultLimit:   defaultLimit,
		outcomeWriters: defaultOutcomeWriters,
	}
}

// ListHistory returns the caller's recent boards with goal outcomes filled
// in lazily.
//
// Per board: only past-or-today boards with a derivable season are eligible
// for resolution. An unresolved pick is looked up in the cached game logs;
// a confirmed game resolves it, a confirmed no-game resolves it only once
// the board date is strictly past (today's game may not have started), and
// an unavailable answer leaves it untouched for the next request. Resolved
// outcomes are terminal and never re-fetched.
//
// Newly resolved outcomes are written back concurrently after all boards
// are processed. A write failure is returned as the error while the
// assembled in-memory view is returned alongside it; the next read retries
// the same resolution.
func (s *HistoryService) ListHistory(ctx context.Context, userID string, limit int) ([]HistoryBoard, error) {
	ctx, span := startUsecaseSpan(ctx, "HistoryService.ListHistory")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	boards, err := s.boardRepo.ListRecentByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	if len(boards) == 0 {
		return []HistoryBoard{}, nil
	}

	boardIDs := make([]string, 0, len(boards))
	for _, b := range boards {
		boardIDs = append(boardIDs, b.ID)
	}
	picks, err := s.pickRepo.ListByBoards(ctx, boardIDs)
	if err != nil {
		return nil, fmt.Errorf("list picks: %w", err)
	}

	picksByBoard := make(map[string][]pick.Pick, len(boards))
	for _, p := range picks {
		picksByBoard[p.BoardID] = append(picksByBoard[p.BoardID], p)
	}

	todayKey := season.TodayKey(s.now)
	records := newRecordMemo(s.stats)

	out := make([]HistoryBoard, len(boards))
	var pendingMu sync.Mutex
	pending := make([]pick.OutcomeUpdate, 0, 8)

	workers := pool.New().WithMaxGoroutines(defaultBoardConcurrency)
	for i, b := range boards {
		i, b := i, b
		workers.Go(func() {
			annotated, updates := s.annotateBoard(ctx, b, picksByBoard[b.ID], todayKey, records)
			out[i] = annotated
			if len(updates) > 0 {
				pendingMu.Lock()
				pending = append(pending, updates...)
				pendingMu.Unlock()
			}
		})
	}
	workers.Wait()

	if err := s.flushOutcomes(ctx, pending); err != nil {
		return out, fmt.Errorf("persist resolved outcomes: %w", err)
	}
	return out, nil
}

// annotateBoard runs one board through the resolution steps and returns the
// annotated view plus any outcome writes it produced.
func (s *HistoryService) annotateBoard(
	ctx context.Context,
	b board.Board,
	boardPicks []pick.Pick,
	todayKey string,
	records *recordMemo,
) (HistoryBoard, []pick.OutcomeUpdate) {
	seasonID, seasonOK := season.IDForDate(b.BoardDate)
	dateOrder := season.Compare(b.BoardDate, todayKey)
	canResolve := seasonOK && dateOrder <= 0

	annotated := HistoryBoard{
		Board:             b,
		CanResolveResults: canResolve,
		Picks:             make([]HistoryPick, 0, len(boardPicks)),
	}
	if seasonOK {
		annotated.SeasonID = seasonID
	}

	updates := make([]pick.OutcomeUpdate, 0, len(boardPicks))
	for _, p := range boardPicks {
		row := HistoryPick{Pick: p}

		if canResolve && !p.Resolved() {
			outcome, err := s.stats.GetPlayerGoalsForDate(ctx, stats.GoalsForDateQuery{
				PlayerID: p.NHLPlayerID,
				DateKey:  b.BoardDate,
				SeasonID: seasonID,
			})
			switch {
			case err != nil:
				// Data unavailable: leave the pick unresolved so the next
				// request retries instead of persisting a false zero.
				s.logger.WarnContext(ctx, "goal outcome unavailable, leaving pick unresolved",
					"pick_id", p.ID,
					"player_id", p.NHLPlayerID,
					"board_date", b.BoardDate,
					"error", err,
				)
			case outcome.Played:
				goals, played := outcome.Goals, true
				row.GameGoals = &goals
				row.GamePlayed = &played
				updates = append(updates, pick.OutcomeUpdate{PickID: p.ID, Goals: goals, Played: played})
			case dateOrder < 0:
				// Confirmed no game, and the date is fully behind us.
				goals, played := 0, false
				row.GameGoals = &goals
				row.GamePlayed = &played
				updates = append(updates, pick.OutcomeUpdate{PickID: p.ID, Goals: goals, Played: played})
			default:
				// Confirmed no game so far today; tonight's game may simply
				// not have started.
			}
		}

		if seasonOK && p.TeamCode != "" && p.OpponentTeamCode != "" {
			row.Record = records.get(ctx, p.TeamCode, p.OpponentTeamCode, seasonID, s.logger)
		}

		annotated.Picks = append(annotated.Picks, row)
	}

	sort.SliceStable(annotated.Picks, func(i, j int) bool {
		if annotated.Picks[i].GroupSortOrder != annotated.Picks[j].GroupSortOrder {
			return annotated.Picks[i].GroupSortOrder < annotated.Picks[j].GroupSortOrder
		}
		return annotated.Picks[i].ID < annotated.Picks[j].ID
	})

	return annotated, updates
}

// flushOutcomes batches the deferred writes through a worker pool. Every
// update is attempted even when some fail; the first failure is returned.
func (s *HistoryService) flushOutcomes(ctx context.Context, updates []pick.OutcomeUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	workerCount := s.outcomeWriters
	if workerCount < 1 {
		workerCount = 1
	}
	if workerCount > len(updates) {
		workerCount = len(updates)
	}

	writers, err := ants.NewPool(workerCount)
	if err != nil {
		return fmt.Errorf("create writer pool: %w", err)
	}
	defer writers.Release()

	errs := make(chan error, len(updates))
	var wg sync.WaitGroup
	for _, update := range updates {
		update := update
		wg.Add(1)
		if err := writers.Submit(func() {
			defer wg.Done()
			if err := s.pickRepo.UpdateOutcome(ctx, update); err != nil {
				s.logger.WarnContext(ctx, "outcome write failed",
					"pick_id", update.PickID,
					"error", err,
				)
				errs <- fmt.Errorf("update outcome pick_id=%s: %w", update.PickID, err)
			}
		}); err != nil {
			wg.Done()
			return fmt.Errorf("submit outcome write: %w", err)
		}
	}

	wg.Wait()
	close(errs)
	return <-errs
}
