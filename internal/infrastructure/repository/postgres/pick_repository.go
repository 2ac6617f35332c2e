package postgres

import (
	"context"
	"fmt"

	"github.com/hockeypikk/hockeypikk/internal/domain/pick"
	qb "github.com/hockeypikk/hockeypikk/internal/platform/querybuilder"
	"github.com/jmoiron/sqlx"
)

const pickUpsertSuffix = `ON CONFLICT (board_group_public_id, user_id)
DO UPDATE SET
    nhl_player_id = EXCLUDED.nhl_player_id,
    player_name = EXCLUDED.player_name,
    team_code = EXCLUDED.team_code,
    team_name = EXCLUDED.team_name,
    opponent_team_code = EXCLUDED.opponent_team_code,
    opponent_team_name = EXCLUDED.opponent_team_name,
    position = EXCLUDED.position,
    line = EXCLUDED.line,
    pp_line = EXCLUDED.pp_line,
    season_games_played = EXCLUDED.season_games_played,
    season_goals = EXCLUDED.season_goals,
    season_assists = EXCLUDED.season_assists,
    season_points = EXCLUDED.season_points,
    season_shots = EXCLUDED.season_shots,
    season_pp_points = EXCLUDED.season_pp_points,
    season_shooting_pct = EXCLUDED.season_shooting_pct,
    season_avg_toi = EXCLUDED.season_avg_toi,
    season_faceoff_pct = EXCLUDED.season_faceoff_pct,
    last5_games = EXCLUDED.last5_games,
    last5_goals = EXCLUDED.last5_goals,
    last5_points = EXCLUDED.last5_points,
    last5_shots = EXCLUDED.last5_shots,
    game_goals = NULL,
    game_played = NULL,
    game_updated_at = NULL,
    updated_at = NOW()`

type PickRepository struct {
	db *sqlx.DB
}

func NewPickRepository(db *sqlx.DB) *PickRepository {
	return &PickRepository{db: db}
}

func (r *PickRepository) ListByBoards(ctx context.Context, boardIDs []string) ([]pick.Pick, error) {
	if len(boardIDs) == 0 {
		return []pick.Pick{}, nil
	}

	ids := make([]any, 0, len(boardIDs))
	for _, boardID := range boardIDs {
		ids = append(ids, boardID)
	}

	query, args, err := qb.Select("p.*", "g.label AS group_label", "g.sort_order AS group_sort_order").
		From("picks p JOIN board_groups g ON g.public_id = p.board_group_public_id").
		Where(qb.In("p.board_public_id", ids)).
		OrderBy("p.board_public_id ASC", "g.sort_order ASC", "p.id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list picks by boards query: %w", err)
	}

	var rows []pickWithGroupModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list picks by boards: %w", err)
	}

	out := make([]pick.Pick, 0, len(rows))
	for _, row := range rows {
		item := pickFromRow(row.pickTableModel)
		item.GroupLabel = row.GroupLabel
		item.GroupSortOrder = row.GroupSortOrder
		out = append(out, item)
	}
	return out, nil
}

func (r *PickRepository) GetByGroupAndUser(ctx context.Context, boardGroupID, userID string) (pick.Pick, bool, error) {
	query, args, err := qb.Select("*").From("picks").
		Where(
			qb.Eq("board_group_public_id", boardGroupID),
			qb.Eq("user_id", userID),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return pick.Pick{}, false, fmt.Errorf("build get pick by group and user query: %w", err)
	}

	var row pickTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return pick.Pick{}, false, nil
		}
		return pick.Pick{}, false, fmt.Errorf("get pick by group and user: %w", err)
	}

	return pickFromRow(row), true, nil
}

func (r *PickRepository) Upsert(ctx context.Context, picks []pick.Pick) ([]pick.Pick, error) {
	if len(picks) == 0 {
		return []pick.Pick{}, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx upsert picks: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range picks {
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("validate pick: %w", err)
		}
		query, args, err := qb.InsertModel("picks", pickToInsertModel(item), pickUpsertSuffix)
		if err != nil {
			return nil, fmt.Errorf("build upsert pick query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("upsert pick: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit upsert picks tx: %w", err)
	}

	return picks, nil
}

func (r *PickRepository) UpdateOutcome(ctx context.Context, update pick.OutcomeUpdate) error {
	query, args, err := qb.Update("picks").
		Set("game_goals", update.Goals).
		Set("game_played", update.Played).
		SetExpr("game_updated_at", "NOW()").
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", update.PickID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update pick outcome query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update pick outcome: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected update pick outcome: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update pick outcome: not found")
	}

	return nil
}

type pickWithGroupModel struct {
	pickTableModel
	GroupLabel     string `db:"group_label"`
	GroupSortOrder int    `db:"group_sort_order"`
}
