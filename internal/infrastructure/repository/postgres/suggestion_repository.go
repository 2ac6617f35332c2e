package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/hockeypikk/hockeypikk/internal/domain/suggestion"
	qb "github.com/hockeypikk/hockeypikk/internal/platform/querybuilder"
	"github.com/jmoiron/sqlx"
)

type SuggestionRepository struct {
	db *sqlx.DB
}

func NewSuggestionRepository(db *sqlx.DB) *SuggestionRepository {
	return &SuggestionRepository{db: db}
}

func (r *SuggestionRepository) ListByBoard(ctx context.Context, boardID string) ([]suggestion.Suggestion, error) {
	query, args, err := qb.Select("s.*", "g.label AS group_label", "g.sort_order AS group_sort_order").
		From("suggestions s JOIN board_groups g ON g.public_id = s.board_group_public_id").
		Where(qb.Eq("s.board_public_id", boardID)).
		OrderBy("s.created_at DESC", "s.id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list suggestions by board query: %w", err)
	}

	var rows []suggestionWithGroupModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list suggestions by board: %w", err)
	}

	out := make([]suggestion.Suggestion, 0, len(rows))
	for _, row := range rows {
		item := suggestionFromRow(row.suggestionTableModel)
		item.GroupLabel = row.GroupLabel
		item.GroupSortOrder = row.GroupSortOrder
		out = append(out, item)
	}
	return out, nil
}

func (r *SuggestionRepository) GetByID(ctx context.Context, suggestionID string) (suggestion.Suggestion, bool, error) {
	query, args, err := qb.Select("*").From("suggestions").
		Where(qb.Eq("public_id", suggestionID)).
		ToSQL()
	if err != nil {
		return suggestion.Suggestion{}, false, fmt.Errorf("build get suggestion by id query: %w", err)
	}

	var row suggestionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return suggestion.Suggestion{}, false, nil
		}
		return suggestion.Suggestion{}, false, fmt.Errorf("get suggestion by id: %w", err)
	}

	return suggestionFromRow(row), true, nil
}

func (r *SuggestionRepository) Create(ctx context.Context, s suggestion.Suggestion) (suggestion.Suggestion, error) {
	if err := s.Validate(); err != nil {
		return suggestion.Suggestion{}, fmt.Errorf("validate suggestion: %w", err)
	}

	insertModel := suggestionInsertModel{
		PublicID:           s.ID,
		BoardPublicID:      s.BoardID,
		BoardGroupPublicID: s.BoardGroupID,
		SuggestedBy:        s.SuggestedBy,
		NHLPlayerID:        s.NHLPlayerID,
		PlayerName:         s.PlayerName,
		TeamCode:           emptyToNilPtr(s.TeamCode),
		TeamName:           emptyToNilPtr(s.TeamName),
		Reason:             emptyToNilPtr(s.Reason),
		Status:             string(s.Status),
	}
	query, args, err := qb.InsertModel("suggestions", insertModel, "")
	if err != nil {
		return suggestion.Suggestion{}, fmt.Errorf("build create suggestion query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return suggestion.Suggestion{}, fmt.Errorf("create suggestion: %w", err)
	}

	return s, nil
}

func (r *SuggestionRepository) UpdateStatus(ctx context.Context, suggestionID string, status suggestion.Status) error {
	query, args, err := qb.Update("suggestions").
		Set("status", string(status)).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", suggestionID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update suggestion status query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update suggestion status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected update suggestion status: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update suggestion status: not found")
	}

	return nil
}

func suggestionFromRow(row suggestionTableModel) suggestion.Suggestion {
	return suggestion.Suggestion{
		ID:           row.PublicID,
		BoardID:      row.BoardPublicID,
		BoardGroupID: row.BoardGroupPublicID,
		SuggestedBy:  row.SuggestedBy,
		NHLPlayerID:  row.NHLPlayerID,
		PlayerName:   row.PlayerName,
		TeamCode:     stringOrEmpty(row.TeamCode),
		TeamName:     stringOrEmpty(row.TeamName),
		Reason:       stringOrEmpty(row.Reason),
		Status:       suggestion.Status(row.Status),
		CreatedAt:    row.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type suggestionWithGroupModel struct {
	suggestionTableModel
	GroupLabel     string `db:"group_label"`
	GroupSortOrder int    `db:"group_sort_order"`
}
