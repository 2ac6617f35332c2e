package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hockeypikk/hockeypikk/internal/domain/board"
	"github.com/hockeypikk/hockeypikk/internal/domain/friend"
	"github.com/hockeypikk/hockeypikk/internal/domain/pick"
	"github.com/hockeypikk/hockeypikk/internal/domain/suggestion"
	"github.com/hockeypikk/hockeypikk/internal/domain/team"
	"github.com/hockeypikk/hockeypikk/internal/platform/id"
	"github.com/hockeypikk/hockeypikk/internal/platform/logging"
)

type CreateSuggestionInput struct {
	BoardID      string `json:"boardId" validate:"required"`
	BoardGroupID string `json:"boardGroupId" validate:"required"`
	NHLPlayerID  int64  `json:"nhlPlayerId" validate:"required,gt=0"`
	Reason       string `json:"reason" validate:"max=280"`
}

type SuggestionService struct {
	boards         *BoardService
	suggestionRepo suggestion.Repository
	pickRepo       pick.Repository
	friendRepo     friend.Repository
	roster         RosterProvider
	stats          StatsProvider
	idGen          id.Generator
	logger         *logging.Logger
	now            func() time.Time
}

func NewSuggestionService(
	boards *BoardService,
	suggestionRepo suggestion.Repository,
	pickRepo pick.Repository,
	friendRepo friend.Repository,
	rosterProvider RosterProvider,
	statsProvider StatsProvider,
	idGen id.Generator,
	logger *logging.Logger,
	now func() time.Time,
) *SuggestionService {
	if logger == nil {
		logger = logging.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &SuggestionService{
		boards:         boards,
		suggestionRepo: suggestionRepo,
		pickRepo:       pickRepo,
		friendRepo:     friendRepo,
		roster:         rosterProvider,
		stats:          statsProvider,
		idGen:          idGen,
		logger:         logger,
		now:            now,
	}
}

// ListForBoard returns the suggestions on a board the caller can see. The
// visibility rule is the same as GetBoard: owner or friend of the owner.
func (s *SuggestionService) ListForBoard(ctx context.Context, userID, boardID string) ([]suggestion.Suggestion, error) {
	ctx, span := startUsecaseSpan(ctx, "SuggestionService.ListForBoard")
	defer span.End()

	if _, err := s.boards.GetBoard(ctx, userID, boardID); err != nil {
		return nil, err
	}

	suggestions, err := s.suggestionRepo.ListByBoard(ctx, strings.TrimSpace(boardID))
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	return suggestions, nil
}

// Create records a friend's proposed pick on another user's board. Owners
// cannot suggest on their own boards, the suggested player must be on the
// slate, and a player the owner already holds in that group is rejected as
// a duplicate.
func (s *SuggestionService) Create(ctx context.Context, userID string, input CreateSuggestionInput) (suggestion.Suggestion, error) {
	ctx, span := startUsecaseSpan(ctx, "SuggestionService.Create")
	defer span.End()

	userID = strings.TrimSpace(userID)
	boardID := strings.TrimSpace(input.BoardID)
	groupID := strings.TrimSpace(input.BoardGroupID)
	if userID == "" || boardID == "" || groupID == "" {
		return suggestion.Suggestion{}, fmt.Errorf("%w: user id, board id and group id are required", ErrInvalidInput)
	}
	if input.NHLPlayerID <= 0 {
		return suggestion.Suggestion{}, fmt.Errorf("%w: player id must be positive", ErrInvalidInput)
	}

	b, err := s.boards.GetBoard(ctx, userID, boardID)
	if err != nil {
		return suggestion.Suggestion{}, err
	}
	if b.CreatedBy == userID {
		return suggestion.Suggestion{}, fmt.Errorf("%w: cannot suggest on your own board", ErrInvalidInput)
	}
	if !groupOnBoard(b, groupID) {
		return suggestion.Suggestion{}, fmt.Errorf("%w: group %s is not on board %s", ErrInvalidInput, groupID, boardID)
	}

	slate, err := s.roster.GetPicks(ctx, false)
	if err != nil {
		return suggestion.Suggestion{}, fmt.Errorf("get slate: %w", err)
	}
	player, ok := slate.PlayerMap()[input.NHLPlayerID]
	if !ok {
		return suggestion.Suggestion{}, fmt.Errorf("%w: player %d is not on the slate", ErrInvalidInput, input.NHLPlayerID)
	}

	if existing, found, err := s.pickRepo.GetByGroupAndUser(ctx, groupID, b.CreatedBy); err != nil {
		return suggestion.Suggestion{}, fmt.Errorf("check current pick: %w", err)
	} else if found && existing.NHLPlayerID == input.NHLPlayerID {
		return suggestion.Suggestion{}, fmt.Errorf("%w: owner already picked player %d in that group", ErrConflict, input.NHLPlayerID)
	}

	suggestionID, err := s.idGen.NewID()
	if err != nil {
		return suggestion.Suggestion{}, fmt.Errorf("generate suggestion id: %w", err)
	}

	created, err := s.suggestionRepo.Create(ctx, suggestion.Suggestion{
		ID:           suggestionID,
		BoardID:      b.ID,
		BoardGroupID: groupID,
		SuggestedBy:  userID,
		NHLPlayerID:  player.NHLPlayerID,
		PlayerName:   player.DisplayName(),
		TeamCode:     player.TeamCode,
		TeamName:     team.Name(player.TeamCode),
		Reason:       strings.TrimSpace(input.Reason),
		Status:       suggestion.StatusPending,
		CreatedAt:    s.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return suggestion.Suggestion{}, fmt.Errorf("create suggestion: %w", err)
	}
	return created, nil
}

// Accept turns a pending suggestion into the owner's pick for that group,
// replacing whatever the group held. The stats snapshot is best-effort; a
// stats failure never blocks the acceptance.
func (s *SuggestionService) Accept(ctx context.Context, userID, suggestionID string) (pick.Pick, error) {
	ctx, span := startUsecaseSpan(ctx, "SuggestionService.Accept")
	defer span.End()

	sg, b, err := s.ownedPending(ctx, userID, suggestionID)
	if err != nil {
		return pick.Pick{}, err
	}
	if s.boards.Locked(b) {
		return pick.Pick{}, fmt.Errorf("%w: board is locked", ErrConflict)
	}

	pickID, err := s.idGen.NewID()
	if err != nil {
		return pick.Pick{}, fmt.Errorf("generate pick id: %w", err)
	}

	fresh := pick.Pick{
		ID:           pickID,
		BoardID:      sg.BoardID,
		BoardGroupID: sg.BoardGroupID,
		UserID:       b.CreatedBy,
		NHLPlayerID:  sg.NHLPlayerID,
		PlayerName:   sg.PlayerName,
		TeamCode:     sg.TeamCode,
		TeamName:     sg.TeamName,
	}
	if slate, err := s.roster.GetPicks(ctx, false); err == nil {
		if player, ok := slate.PlayerMap()[sg.NHLPlayerID]; ok {
			fresh.OpponentTeamCode = player.OpponentTeam
			fresh.OpponentTeamName = team.Name(player.OpponentTeam)
			fresh.Position = player.Position
			fresh.Line = player.Line
			fresh.PPLine = player.PPLine
		}
	} else {
		s.logger.WarnContext(ctx, "slate lookup failed while accepting suggestion",
			"suggestion_id", sg.ID,
			"error", err,
		)
	}

	if snapshot, err := s.stats.GetPlayerStats(ctx, sg.NHLPlayerID); err != nil {
		s.logger.WarnContext(ctx, "stats snapshot failed, accepting suggestion without it",
			"player_id", sg.NHLPlayerID,
			"error", err,
		)
	} else {
		fresh.Stats = *snapshot
	}

	saved, err := s.pickRepo.Upsert(ctx, []pick.Pick{fresh})
	if err != nil {
		return pick.Pick{}, fmt.Errorf("save accepted pick: %w", err)
	}
	if err := s.suggestionRepo.UpdateStatus(ctx, sg.ID, suggestion.StatusAccepted); err != nil {
		return pick.Pick{}, fmt.Errorf("mark suggestion accepted: %w", err)
	}
	return saved[0], nil
}

// Reject marks a pending suggestion rejected without touching any pick.
func (s *SuggestionService) Reject(ctx context.Context, userID, suggestionID string) error {
	ctx, span := startUsecaseSpan(ctx, "SuggestionService.Reject")
	defer span.End()

	sg, _, err := s.ownedPending(ctx, userID, suggestionID)
	if err != nil {
		return err
	}
	if err := s.suggestionRepo.UpdateStatus(ctx, sg.ID, suggestion.StatusRejected); err != nil {
		return fmt.Errorf("mark suggestion rejected: %w", err)
	}
	return nil
}

// ownedPending loads a suggestion and enforces that the caller owns the
// target board and the suggestion is still pending.
func (s *SuggestionService) ownedPending(ctx context.Context, userID, suggestionID string) (suggestion.Suggestion, board.Board, error) {
	userID = strings.TrimSpace(userID)
	suggestionID = strings.TrimSpace(suggestionID)
	if userID == "" || suggestionID == "" {
		return suggestion.Suggestion{}, board.Board{}, fmt.Errorf("%w: user id and suggestion id are required", ErrInvalidInput)
	}

	sg, found, err := s.suggestionRepo.GetByID(ctx, suggestionID)
	if err != nil {
		return suggestion.Suggestion{}, board.Board{}, fmt.Errorf("get suggestion: %w", err)
	}
	if !found {
		return suggestion.Suggestion{}, board.Board{}, fmt.Errorf("%w: suggestion %s", ErrNotFound, suggestionID)
	}

	b, found, err := s.boards.boardRepo.GetByID(ctx, sg.BoardID)
	if err != nil {
		return suggestion.Suggestion{}, board.Board{}, fmt.Errorf("get board: %w", err)
	}
	if !found {
		return suggestion.Suggestion{}, board.Board{}, fmt.Errorf("%w: board %s", ErrNotFound, sg.BoardID)
	}
	if b.CreatedBy != userID {
		return suggestion.Suggestion{}, board.Board{}, fmt.Errorf("%w: only the board owner can act on suggestions", ErrUnauthorized)
	}
	if sg.Status != suggestion.StatusPending {
		return suggestion.Suggestion{}, board.Board{}, fmt.Errorf("%w: suggestion is already %s", ErrConflict, sg.Status)
	}
	return sg, b, nil
}

func groupOnBoard(b board.Board, groupID string) bool {
	for _, group := range b.Groups {
		if group.ID == groupID {
			return true
		}
	}
	return false
}
