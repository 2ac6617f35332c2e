package httpapi

import (
	"github.com/hockeypikk/hockeypikk/internal/domain/board"
	"github.com/hockeypikk/hockeypikk/internal/domain/pick"
	"github.com/hockeypikk/hockeypikk/internal/domain/stats"
	"github.com/hockeypikk/hockeypikk/internal/domain/suggestion"
	"github.com/hockeypikk/hockeypikk/internal/usecase"
)

type boardGroupDTO struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	SortOrder int    `json:"sortOrder"`
}

type boardDTO struct {
	ID        string          `json:"id"`
	CreatedBy string          `json:"createdBy"`
	BoardDate string          `json:"boardDate"`
	Status    string          `json:"status"`
	LockAt    *string         `json:"lockAt,omitempty"`
	Groups    []boardGroupDTO `json:"groups"`
}

type pickDTO struct {
	ID               string                  `json:"id"`
	BoardID          string                  `json:"boardId"`
	BoardGroupID     string                  `json:"boardGroupId"`
	NHLPlayerID      int64                   `json:"nhlPlayerId"`
	PlayerName       string                  `json:"playerName"`
	TeamCode         string                  `json:"teamCode"`
	TeamName         string                  `json:"teamName"`
	OpponentTeamCode string                  `json:"opponentTeamCode"`
	OpponentTeamName string                  `json:"opponentTeamName"`
	Position         string                  `json:"position"`
	Line             *string                 `json:"line"`
	PPLine           *string                 `json:"ppLine"`
	Stats            stats.PlayerSeasonStats `json:"stats"`
	GameGoals        *int                    `json:"gameGoals"`
	GamePlayed       *bool                   `json:"gamePlayed"`
	GameUpdatedAt    *string                 `json:"gameUpdatedAt,omitempty"`
	GroupLabel       string                  `json:"groupLabel,omitempty"`
	GroupSortOrder   int                     `json:"groupSortOrder"`
	Record           *stats.HeadToHeadRecord `json:"record,omitempty"`
}

type suggestionDTO struct {
	ID           string `json:"id"`
	BoardID      string `json:"boardId"`
	BoardGroupID string `json:"boardGroupId"`
	SuggestedBy  string `json:"suggestedBy"`
	DisplayName  string `json:"displayName,omitempty"`
	NHLPlayerID  int64  `json:"nhlPlayerId"`
	PlayerName   string `json:"playerName"`
	TeamCode     string `json:"teamCode"`
	TeamName     string `json:"teamName"`
	Reason       string `json:"reason,omitempty"`
	Status       string `json:"status"`
	CreatedAt    string `json:"createdAt"`
	GroupLabel   string `json:"groupLabel,omitempty"`
}

type historyBoardDTO struct {
	Board             boardDTO  `json:"board"`
	SeasonID          string    `json:"seasonId,omitempty"`
	CanResolveResults bool      `json:"canResolveResults"`
	Picks             []pickDTO `json:"picks"`
}

func boardToDTO(b board.Board) boardDTO {
	groups := make([]boardGroupDTO, 0, len(b.Groups))
	for _, group := range b.Groups {
		groups = append(groups, boardGroupDTO{
			ID:        group.ID,
			Label:     group.Label,
			SortOrder: group.SortOrder,
		})
	}
	return boardDTO{
		ID:        b.ID,
		CreatedBy: b.CreatedBy,
		BoardDate: b.BoardDate,
		Status:    string(b.Status),
		LockAt:    b.LockAt,
		Groups:    groups,
	}
}

func pickToDTO(p pick.Pick, record *stats.HeadToHeadRecord) pickDTO {
	return pickDTO{
		ID:               p.ID,
		BoardID:          p.BoardID,
		BoardGroupID:     p.BoardGroupID,
		NHLPlayerID:      p.NHLPlayerID,
		PlayerName:       p.PlayerName,
		TeamCode:         p.TeamCode,
		TeamName:         p.TeamName,
		OpponentTeamCode: p.OpponentTeamCode,
		OpponentTeamName: p.OpponentTeamName,
		Position:         p.Position,
		Line:             p.Line,
		PPLine:           p.PPLine,
		Stats:            p.Stats,
		GameGoals:        p.GameGoals,
		GamePlayed:       p.GamePlayed,
		GameUpdatedAt:    p.GameUpdatedAt,
		GroupLabel:       p.GroupLabel,
		GroupSortOrder:   p.GroupSortOrder,
		Record:           record,
	}
}

func picksToDTO(picks []pick.Pick) []pickDTO {
	out := make([]pickDTO, 0, len(picks))
	for _, p := range picks {
		out = append(out, pickToDTO(p, nil))
	}
	return out
}

func suggestionToDTO(s suggestion.Suggestion) suggestionDTO {
	return suggestionDTO{
		ID:           s.ID,
		BoardID:      s.BoardID,
		BoardGroupID: s.BoardGroupID,
		SuggestedBy:  s.SuggestedBy,
		DisplayName:  s.DisplayName,
		NHLPlayerID:  s.NHLPlayerID,
		PlayerName:   s.PlayerName,
		TeamCode:     s.TeamCode,
		TeamName:     s.TeamName,
		Reason:       s.Reason,
		Status:       string(s.Status),
		CreatedAt:    s.CreatedAt,
		GroupLabel:   s.GroupLabel,
	}
}

func suggestionsToDTO(items []suggestion.Suggestion) []suggestionDTO {
	out := make([]suggestionDTO, 0, len(items))
	for _, s := range items {
		out = append(out, suggestionToDTO(s))
	}
	return out
}

func historyToDTO(items []usecase.HistoryBoard) []historyBoardDTO {
	out := make([]historyBoardDTO, 0, len(items))
	for _, hb := range items {
		picks := make([]pickDTO, 0, len(hb.Picks))
		for _, hp := range hb.Picks {
			picks = append(picks, pickToDTO(hp.Pick, hp.Record))
		}
		out = append(out, historyBoardDTO{
			Board:             boardToDTO(hb.Board),
			SeasonID:          hb.SeasonID,
			CanResolveResults: hb.CanResolveResults,
			Picks:             picks,
		})
	}
	return out
}
