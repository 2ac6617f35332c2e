package usecase

import (
	"context"

	"github.com/hockeypikk/hockeypikk/internal/domain/roster"
	"github.com/hockeypikk/hockeypikk/internal/domain/stats"
)

// StatsProvider is the cached NHL stats client surface consumed by the
// services. A nil GoalOutcome always travels with an ErrDependencyUnavailable
// error; a non-nil outcome with Played=false is a confirmed no-game.
type StatsProvider interface {
	GetPlayerStats(ctx context.Context, playerID int64) (*stats.PlayerSeasonStats, error)
	GetPlayerGoalsForDate(ctx context.Context, query stats.GoalsForDateQuery) (*stats.GoalOutcome, error)
	GetTeamRecordVsOpponent(ctx context.Context, query stats.HeadToHeadQuery) (*stats.HeadToHeadRecord, error)
	GetFirstGameStartTime(ctx context.Context, dateKey string) (string, error)
}

// RosterProvider serves the daily selectable-player slate.
type RosterProvider interface {
	GetPicks(ctx context.Context, forceRefresh bool) (*roster.Board, error)
}
