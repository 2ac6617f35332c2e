package postgres

import (
	"database/sql"
	"time"
)

type suggestionTableModel struct {
	ID                 int64          `db:"id"`
	PublicID           string         `db:"public_id"`
	BoardPublicID      string         `db:"board_public_id"`
	BoardGroupPublicID string         `db:"board_group_public_id"`
	SuggestedBy        string         `db:"suggested_by"`
	NHLPlayerID        int64          `db:"nhl_player_id"`
	PlayerName         string         `db:"player_name"`
	TeamCode           sql.NullString `db:"team_code"`
	TeamName           sql.NullString `db:"team_name"`
	Reason             sql.NullString `db:"reason"`
	Status             string         `db:"status"`
	CreatedAt          time.Time      `db:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at"`
}

type suggestionInsertModel struct {
	PublicID           string  `db:"public_id"`
	BoardPublicID      string  `db:"board_public_id"`
	BoardGroupPublicID string  `db:"board_group_public_id"`
	SuggestedBy        string  `db:"suggested_by"`
	NHLPlayerID        int64   `db:"nhl_player_id"`
	PlayerName         string  `db:"player_name"`
	TeamCode           *string `db:"team_code"`
	TeamName           *string `db:"team_name"`
	Reason             *string `db:"reason"`
	Status             string  `db:"status"`
}
