package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hockeypikk/hockeypikk/internal/domain/pick"
	"github.com/hockeypikk/hockeypikk/internal/domain/season"
	"github.com/hockeypikk/hockeypikk/internal/domain/stats"
	"github.com/hockeypikk/hockeypikk/internal/domain/team"
	"github.com/hockeypikk/hockeypikk/internal/platform/id"
	"github.com/hockeypikk/hockeypikk/internal/platform/logging"
)

// PicksMeta is the slate header shown before any selection is made.
type PicksMeta struct {
	DateTimeAvailable  string `json:"dateTimeAvailable"`
	Season             string `json:"season"`
	SeasonType         string `json:"seasonType"`
	FirstGameStartTime string `json:"firstGameStartTime,omitempty"`
}

// PickOption is one selectable player enriched with display names and the
// head-to-head record against tonight's opponent.
type PickOption struct {
	NHLPlayerID      int64                   `json:"nhlPlayerId"`
	PlayerName       string                  `json:"playerName"`
	TeamCode         string                  `json:"teamCode"`
	TeamName         string                  `json:"teamName"`
	OpponentTeamCode string                  `json:"opponentTeamCode"`
	OpponentTeamName string                  `json:"opponentTeamName"`
	Position         string                  `json:"position"`
	Line             *string                 `json:"line"`
	PPLine           *string                 `json:"ppLine"`
	Unavailable      bool                    `json:"unavailable"`
	Record           *stats.HeadToHeadRecord `json:"record,omitempty"`
}

// PickOptionList is one provider group of options.
type PickOptionList struct {
	ListID  int          `json:"listId"`
	Options []PickOption `json:"options"`
}

type PickSelection struct {
	BoardGroupID string `json:"boardGroupId" validate:"required"`
	NHLPlayerID  int64  `json:"nhlPlayerId" validate:"required,gt=0"`
}

type SubmitPicksInput struct {
	Selections []PickSelection `json:"selections" validate:"required,min=1,dive"`
}

type PicksService struct {
	roster   RosterProvider
	stats    StatsProvider
	boards   *BoardService
	pickRepo pick.Repository
	idGen    id.Generator
	logger   *logging.Logger
	now      func() time.Time
}

func NewPicksService(
	rosterProvider RosterProvider,
	statsProvider StatsProvider,
	boards *BoardService,
	pickRepo pick.Repository,
	idGen id.Generator,
	logger *logging.Logger,
	now func() time.Time,
) *PicksService {
	if logger == nil {
		logger = logging.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &PicksService{
		roster:   rosterProvider,
		stats:    statsProvider,
		boards:   boards,
		pickRepo: pickRepo,
		idGen:    idGen,
		logger:   logger,
		now:      now,
	}
}

// Meta returns the slate header. The first-game lookup is best-effort; a
// schedule failure leaves the field empty.
func (s *PicksService) Meta(ctx context.Context) (PicksMeta, error) {
	ctx, span := startUsecaseSpan(ctx, "PicksService.Meta")
	defer span.End()

	slate, err := s.roster.GetPicks(ctx, false)
	if err != nil {
		return PicksMeta{}, fmt.Errorf("get slate: %w", err)
	}

	meta := PicksMeta{
		DateTimeAvailable: slate.DateTimeAvailable,
		Season:            slate.Season,
		SeasonType:        slate.SeasonType,
	}

	todayKey := season.TodayKey(s.now)
	if start, err := s.stats.GetFirstGameStartTime(ctx, todayKey); err != nil {
		s.logger.WarnContext(ctx, "first puck drop lookup failed for slate meta",
			"date_key", todayKey,
			"error", err,
		)
	} else {
		meta.FirstGameStartTime = start
	}

	return meta, nil
}

// Options returns the selectable players grouped as the provider groups
// them, each annotated with a head-to-head record where both team codes are
// known. Records are memoized per request; repeat (team, opponent) pairs
// cost one lookup.
func (s *PicksService) Options(ctx context.Context) ([]PickOptionList, error) {
	ctx, span := startUsecaseSpan(ctx, "PicksService.Options")
	defer span.End()

	slate, err := s.roster.GetPicks(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("get slate: %w", err)
	}

	seasonID := strings.TrimSpace(slate.Season)
	records := newRecordMemo(s.stats)

	out := make([]PickOptionList, 0, len(slate.Lists))
	for _, list := range slate.Lists {
		options := make([]PickOption, 0, len(list.Players))
		for _, player := range list.Players {
			option := PickOption{
				NHLPlayerID:      player.NHLPlayerID,
				PlayerName:       player.DisplayName(),
				TeamCode:         player.TeamCode,
				TeamName:         team.Name(player.TeamCode),
				OpponentTeamCode: player.OpponentTeam,
				OpponentTeamName: team.Name(player.OpponentTeam),
				Position:         player.Position,
				Line:             player.Line,
				PPLine:           player.PPLine,
				Unavailable:      player.Unavailable,
			}
			if seasonID != "" && player.TeamCode != "" && player.OpponentTeam != "" {
				if record := records.get(ctx, player.TeamCode, player.OpponentTeam, seasonID, s.logger); record != nil {
					option.Record = record
				}
			}
			options = append(options, option)
		}
		out = append(out, PickOptionList{ListID: list.ID, Options: options})
	}

	return out, nil
}

// Submit replaces the caller's picks for the named groups on today's board.
// Each selection snapshots the player's season stats at submit time; a
// stats failure degrades to an empty snapshot instead of blocking the
// submission.
func (s *PicksService) Submit(ctx context.Context, userID string, input SubmitPicksInput) ([]pick.Pick, error) {
	ctx, span := startUsecaseSpan(ctx, "PicksService.Submit")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if len(input.Selections) == 0 {
		return nil, fmt.Errorf("%w: at least one selection is required", ErrInvalidInput)
	}

	b, err := s.boards.GetOrCreateToday(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s.boards.Locked(b) {
		return nil, fmt.Errorf("%w: board is locked", ErrConflict)
	}

	groupsByID := make(map[string]struct{}, len(b.Groups))
	for _, group := range b.Groups {
		groupsByID[group.ID] = struct{}{}
	}

	slate, err := s.roster.GetPicks(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("get slate: %w", err)
	}
	players := slate.PlayerMap()

	picks := make([]pick.Pick, 0, len(input.Selections))
	for _, selection := range input.Selections {
		groupID := strings.TrimSpace(selection.BoardGroupID)
		if _, ok := groupsByID[groupID]; !ok {
			return nil, fmt.Errorf("%w: group %s is not on today's board", ErrInvalidInput, groupID)
		}
		player, ok := players[selection.NHLPlayerID]
		if !ok {
			return nil, fmt.Errorf("%w: player %d is not on the slate", ErrInvalidInput, selection.NHLPlayerID)
		}
		if player.Unavailable {
			return nil, fmt.Errorf("%w: player %d is unavailable tonight", ErrInvalidInput, selection.NHLPlayerID)
		}

		pickID, err := s.idGen.NewID()
		if err != nil {
			return nil, fmt.Errorf("generate pick id: %w", err)
		}

		snapshot := stats.PlayerSeasonStats{}
		if fetched, err := s.stats.GetPlayerStats(ctx, player.NHLPlayerID); err != nil {
			s.logger.WarnContext(ctx, "stats snapshot failed, submitting pick without it",
				"player_id", player.NHLPlayerID,
				"error", err,
			)
		} else {
			snapshot = *fetched
		}

		picks = append(picks, pick.Pick{
			ID:               pickID,
			BoardID:          b.ID,
			BoardGroupID:     groupID,
			UserID:           userID,
			NHLPlayerID:      player.NHLPlayerID,
			PlayerName:       player.DisplayName(),
			TeamCode:         player.TeamCode,
			TeamName:         team.Name(player.TeamCode),
			OpponentTeamCode: player.OpponentTeam,
			OpponentTeamName: team.Name(player.OpponentTeam),
			Position:         player.Position,
			Line:             player.Line,
			PPLine:           player.PPLine,
			Stats:            snapshot,
		})
	}

	saved, err := s.pickRepo.Upsert(ctx, picks)
	if err != nil {
		return nil, fmt.Errorf("save picks: %w", err)
	}
	return saved, nil
}

// recordMemo deduplicates head-to-head lookups within one request.
type recordMemo struct {
	stats   StatsProvider
	mu      sync.Mutex
	entries map[string]*stats.HeadToHeadRecord
}

func newRecordMemo(statsProvider StatsProvider) *recordMemo {
	return &recordMemo{
		stats:   statsProvider,
		entries: make(map[string]*stats.HeadToHeadRecord),
	}
}

func (m *recordMemo) get(ctx context.Context, teamCode, opponentCode, seasonID string, logger *logging.Logger) *stats.HeadToHeadRecord {
	key := teamCode + "-" + opponentCode + "-" + seasonID
	m.mu.Lock()
	if record, ok := m.entries[key]; ok {
		m.mu.Unlock()
		return record
	}
	m.mu.Unlock()

	record, err := m.stats.GetTeamRecordVsOpponent(ctx, stats.HeadToHeadQuery{
		TeamCode:     teamCode,
		OpponentCode: opponentCode,
		SeasonID:     seasonID,
	})
	if err != nil {
		logger.WarnContext(ctx, "head-to-head lookup failed",
			"team", teamCode,
			"opponent", opponentCode,
			"season_id", seasonID,
			"error", err,
		)
		record = nil
	}

	m.mu.Lock()
	m.entries[key] = record
	m.mu.Unlock()
	return record
}
