package postgres

import (
	"context"
	"fmt"

	"github.com/hockeypikk/hockeypikk/internal/domain/board"
	qb "github.com/hockeypikk/hockeypikk/internal/platform/querybuilder"
	"github.com/jmoiron/sqlx"
)

type BoardRepository struct {
	db *sqlx.DB
}

func NewBoardRepository(db *sqlx.DB) *BoardRepository {
	return &BoardRepository{db: db}
}

func (r *BoardRepository) GetByID(ctx context.Context, boardID string) (board.Board, bool, error) {
	query, args, err := qb.Select("*").From("boards").
		Where(qb.Eq("public_id", boardID)).
		ToSQL()
	if err != nil {
		return board.Board{}, false, fmt.Errorf("build get board by id query: %w", err)
	}

	var row boardTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return board.Board{}, false, nil
		}
		return board.Board{}, false, fmt.Errorf("get board by id: %w", err)
	}

	out, err := r.attachGroups(ctx, boardFromRow(row))
	if err != nil {
		return board.Board{}, false, err
	}
	return out, true, nil
}

func (r *BoardRepository) GetByUserAndDate(ctx context.Context, userID, boardDate string) (board.Board, bool, error) {
	query, args, err := qb.Select("*").From("boards").
		Where(
			qb.Eq("created_by", userID),
			qb.Eq("board_date", boardDate),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return board.Board{}, false, fmt.Errorf("build get board by user and date query: %w", err)
	}

	var row boardTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return board.Board{}, false, nil
		}
		return board.Board{}, false, fmt.Errorf("get board by user and date: %w", err)
	}

	out, err := r.attachGroups(ctx, boardFromRow(row))
	if err != nil {
		return board.Board{}, false, err
	}
	return out, true, nil
}

func (r *BoardRepository) ListRecentByUser(ctx context.Context, userID string, limit int) ([]board.Board, error) {
	builder := qb.Select("*").From("boards").
		Where(qb.Eq("created_by", userID)).
		OrderBy("board_date DESC", "id DESC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list boards by user query: %w", err)
	}

	var rows []boardTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list boards by user: %w", err)
	}
	if len(rows) == 0 {
		return []board.Board{}, nil
	}

	boardIDs := make([]any, 0, len(rows))
	out := make([]board.Board, 0, len(rows))
	for _, row := range rows {
		boardIDs = append(boardIDs, row.PublicID)
		out = append(out, boardFromRow(row))
	}

	groupQuery, groupArgs, err := qb.Select("*").From("board_groups").
		Where(qb.In("board_public_id", boardIDs)).
		OrderBy("sort_order ASC", "id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list board groups query: %w", err)
	}

	var groupRows []boardGroupTableModel
	if err := r.db.SelectContext(ctx, &groupRows, groupQuery, groupArgs...); err != nil {
		return nil, fmt.Errorf("list board groups: %w", err)
	}

	groupsByBoard := make(map[string][]board.Group, len(out))
	for _, row := range groupRows {
		groupsByBoard[row.BoardPublicID] = append(groupsByBoard[row.BoardPublicID], groupFromRow(row))
	}
	for i := range out {
		out[i].Groups = groupsByBoard[out[i].ID]
	}

	return out, nil
}

func (r *BoardRepository) Create(ctx context.Context, b board.Board) (board.Board, error) {
	if err := b.Validate(); err != nil {
		return board.Board{}, fmt.Errorf("validate board: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return board.Board{}, fmt.Errorf("begin tx create board: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	insertModel := boardInsertModel{
		PublicID:  b.ID,
		CreatedBy: b.CreatedBy,
		BoardDate: b.BoardDate,
		Status:    string(b.Status),
		LockAt:    b.LockAt,
	}
	query, args, err := qb.InsertModel("boards", insertModel, "")
	if err != nil {
		return board.Board{}, fmt.Errorf("build create board query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return board.Board{}, fmt.Errorf("create board: %w", err)
	}

	for _, group := range b.Groups {
		groupModel := boardGroupInsertModel{
			PublicID:      group.ID,
			BoardPublicID: b.ID,
			Label:         group.Label,
			SortOrder:     group.SortOrder,
		}
		groupQuery, groupArgs, err := qb.InsertModel("board_groups", groupModel, "")
		if err != nil {
			return board.Board{}, fmt.Errorf("build create board group query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, groupQuery, groupArgs...); err != nil {
			return board.Board{}, fmt.Errorf("create board group: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return board.Board{}, fmt.Errorf("commit create board tx: %w", err)
	}

	return b, nil
}

func (r *BoardRepository) UpdateStatus(ctx context.Context, boardID string, status board.Status) error {
	query, args, err := qb.Update("boards").
		Set("status", string(status)).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", boardID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update board status query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update board status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected update board status: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update board status: not found")
	}

	return nil
}

func (r *BoardRepository) attachGroups(ctx context.Context, b board.Board) (board.Board, error) {
	query, args, err := qb.Select("*").From("board_groups").
		Where(qb.Eq("board_public_id", b.ID)).
		OrderBy("sort_order ASC", "id ASC").
		ToSQL()
	if err != nil {
		return board.Board{}, fmt.Errorf("build get board groups query: %w", err)
	}

	var rows []boardGroupTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return board.Board{}, fmt.Errorf("get board groups: %w", err)
	}

	groups := make([]board.Group, 0, len(rows))
	for _, row := range rows {
		groups = append(groups, groupFromRow(row))
	}
	b.Groups = groups
	return b, nil
}

func boardFromRow(row boardTableModel) board.Board {
	return board.Board{
		ID:        row.PublicID,
		CreatedBy: row.CreatedBy,
		BoardDate: row.BoardDate,
		Status:    board.Status(row.Status),
		LockAt:    nullStringToPtr(row.LockAt),
	}
}

func groupFromRow(row boardGroupTableModel) board.Group {
	return board.Group{
		ID:        row.PublicID,
		BoardID:   row.BoardPublicID,
		Label:     row.Label,
		SortOrder: row.SortOrder,
	}
}
