package postgres

import (
	"database/sql"
	"time"

	"github.com/hockeypikk/hockeypikk/internal/domain/pick"
	"github.com/hockeypikk/hockeypikk/internal/domain/stats"
)

type pickTableModel struct {
	ID                  int64           `db:"id"`
	PublicID            string          `db:"public_id"`
	BoardPublicID       string          `db:"board_public_id"`
	BoardGroupPublicID  string          `db:"board_group_public_id"`
	UserID              string          `db:"user_id"`
	NHLPlayerID         int64           `db:"nhl_player_id"`
	PlayerName          string          `db:"player_name"`
	TeamCode            string          `db:"team_code"`
	TeamName            string          `db:"team_name"`
	OpponentTeamCode    sql.NullString  `db:"opponent_team_code"`
	OpponentTeamName    sql.NullString  `db:"opponent_team_name"`
	Position            sql.NullString  `db:"position"`
	Line                sql.NullString  `db:"line"`
	PPLine              sql.NullString  `db:"pp_line"`
	SeasonGamesPlayed   sql.NullInt64   `db:"season_games_played"`
	SeasonGoals         sql.NullInt64   `db:"season_goals"`
	SeasonAssists       sql.NullInt64   `db:"season_assists"`
	SeasonPoints        sql.NullInt64   `db:"season_points"`
	SeasonShots         sql.NullInt64   `db:"season_shots"`
	SeasonPPPoints      sql.NullInt64   `db:"season_pp_points"`
	SeasonShootingPct   sql.NullFloat64 `db:"season_shooting_pct"`
	SeasonAvgTOI        sql.NullString  `db:"season_avg_toi"`
	SeasonFaceoffPct    sql.NullFloat64 `db:"season_faceoff_pct"`
	Last5Games          int             `db:"last5_games"`
	Last5Goals          int             `db:"last5_goals"`
	Last5Points         int             `db:"last5_points"`
	Last5Shots          int             `db:"last5_shots"`
	GameGoals           sql.NullInt64   `db:"game_goals"`
	GamePlayed          sql.NullBool    `db:"game_played"`
	GameUpdatedAt       sql.NullString  `db:"game_updated_at"`
	IsLocked            bool            `db:"is_locked"`
	CreatedAt           time.Time       `db:"created_at"`
	UpdatedAt           time.Time       `db:"updated_at"`
}

type pickInsertModel struct {
	PublicID           string   `db:"public_id"`
	BoardPublicID      string   `db:"board_public_id"`
	BoardGroupPublicID string   `db:"board_group_public_id"`
	UserID             string   `db:"user_id"`
	NHLPlayerID        int64    `db:"nhl_player_id"`
	PlayerName         string   `db:"player_name"`
	TeamCode           string   `db:"team_code"`
	TeamName           string   `db:"team_name"`
	OpponentTeamCode   *string  `db:"opponent_team_code"`
	OpponentTeamName   *string  `db:"opponent_team_name"`
	Position           *string  `db:"position"`
	Line               *string  `db:"line"`
	PPLine             *string  `db:"pp_line"`
	SeasonGamesPlayed  *int     `db:"season_games_played"`
	SeasonGoals        *int     `db:"season_goals"`
	SeasonAssists      *int     `db:"season_assists"`
	SeasonPoints       *int     `db:"season_points"`
	SeasonShots        *int     `db:"season_shots"`
	SeasonPPPoints     *int     `db:"season_pp_points"`
	SeasonShootingPct  *float64 `db:"season_shooting_pct"`
	SeasonAvgTOI       *string  `db:"season_avg_toi"`
	SeasonFaceoffPct   *float64 `db:"season_faceoff_pct"`
	Last5Games         int      `db:"last5_games"`
	Last5Goals         int      `db:"last5_goals"`
	Last5Points        int      `db:"last5_points"`
	Last5Shots         int      `db:"last5_shots"`
	IsLocked           bool     `db:"is_locked"`
}

func pickFromRow(row pickTableModel) pick.Pick {
	return pick.Pick{
		ID:               row.PublicID,
		BoardID:          row.BoardPublicID,
		BoardGroupID:     row.BoardGroupPublicID,
		UserID:           row.UserID,
		NHLPlayerID:      row.NHLPlayerID,
		PlayerName:       row.PlayerName,
		TeamCode:         row.TeamCode,
		TeamName:         row.TeamName,
		OpponentTeamCode: stringOrEmpty(row.OpponentTeamCode),
		OpponentTeamName: stringOrEmpty(row.OpponentTeamName),
		Position:         stringOrEmpty(row.Position),
		Line:             nullStringToPtr(row.Line),
		PPLine:           nullStringToPtr(row.PPLine),
		Stats: stats.PlayerSeasonStats{
			SeasonGamesPlayed:     nullInt64ToIntPtr(row.SeasonGamesPlayed),
			SeasonGoals:           nullInt64ToIntPtr(row.SeasonGoals),
			SeasonAssists:         nullInt64ToIntPtr(row.SeasonAssists),
			SeasonPoints:          nullInt64ToIntPtr(row.SeasonPoints),
			SeasonShots:           nullInt64ToIntPtr(row.SeasonShots),
			SeasonPowerPlayPoints: nullInt64ToIntPtr(row.SeasonPPPoints),
			SeasonShootingPct:     nullFloatToPtr(row.SeasonShootingPct),
			SeasonAvgTOI:          nullStringToPtr(row.SeasonAvgTOI),
			SeasonFaceoffPct:      nullFloatToPtr(row.SeasonFaceoffPct),
			Last5Games:            row.Last5Games,
			Last5Goals:            row.Last5Goals,
			Last5Points:           row.Last5Points,
			Last5Shots:            row.Last5Shots,
		},
		GameGoals:     nullInt64ToIntPtr(row.GameGoals),
		GamePlayed:    nullBoolToPtr(row.GamePlayed),
		GameUpdatedAt: nullStringToPtr(row.GameUpdatedAt),
		IsLocked:      row.IsLocked,
	}
}

func pickToInsertModel(p pick.Pick) pickInsertModel {
	return pickInsertModel{
		PublicID:           p.ID,
		BoardPublicID:      p.BoardID,
		BoardGroupPublicID: p.BoardGroupID,
		UserID:             p.UserID,
		NHLPlayerID:        p.NHLPlayerID,
		PlayerName:         p.PlayerName,
		TeamCode:           p.TeamCode,
		TeamName:           p.TeamName,
		OpponentTeamCode:   emptyToNilPtr(p.OpponentTeamCode),
		OpponentTeamName:   emptyToNilPtr(p.OpponentTeamName),
		Position:           emptyToNilPtr(p.Position),
		Line:               p.Line,
		PPLine:             p.PPLine,
		SeasonGamesPlayed:  p.Stats.SeasonGamesPlayed,
		SeasonGoals:        p.Stats.SeasonGoals,
		SeasonAssists:      p.Stats.SeasonAssists,
		SeasonPoints:       p.Stats.SeasonPoints,
		SeasonShots:        p.Stats.SeasonShots,
		SeasonPPPoints:     p.Stats.SeasonPowerPlayPoints,
		SeasonShootingPct:  p.Stats.SeasonShootingPct,
		SeasonAvgTOI:       p.Stats.SeasonAvgTOI,
		SeasonFaceoffPct:   p.Stats.SeasonFaceoffPct,
		Last5Games:         p.Stats.Last5Games,
		Last5Goals:         p.Stats.Last5Goals,
		Last5Points:        p.Stats.Last5Points,
		Last5Shots:         p.Stats.Last5Shots,
		IsLocked:           p.IsLocked,
	}
}

func stringOrEmpty(v sql.NullString) string {
	if !v.Valid {
		return ""
	}
	return v.String
}

func emptyToNilPtr(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
