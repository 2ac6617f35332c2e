package postgres

import (
	"database/sql"
	"time"
)

type boardTableModel struct {
	ID        int64          `db:"id"`
	PublicID  string         `db:"public_id"`
	CreatedBy string         `db:"created_by"`
	BoardDate string         `db:"board_date"`
	Status    string         `db:"status"`
	LockAt    sql.NullString `db:"lock_at"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

type boardGroupTableModel struct {
	ID            int64     `db:"id"`
	PublicID      string    `db:"public_id"`
	BoardPublicID string    `db:"board_public_id"`
	Label         string    `db:"label"`
	SortOrder     int       `db:"sort_order"`
	CreatedAt     time.Time `db:"created_at"`
}

type boardInsertModel struct {
	PublicID  string  `db:"public_id"`
	CreatedBy string  `db:"created_by"`
	BoardDate string  `db:"board_date"`
	Status    string  `db:"status"`
	LockAt    *string `db:"lock_at"`
}

type boardGroupInsertModel struct {
	PublicID      string `db:"public_id"`
	BoardPublicID string `db:"board_public_id"`
	Label         string `db:"label"`
	SortOrder     int    `db:"sort_order"`
}
