package usecase

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hockeypikk/hockeypikk/internal/domain/roster"
	"github.com/hockeypikk/hockeypikk/internal/domain/stats"
	"github.com/hockeypikk/hockeypikk/internal/platform/id"
	"github.com/hockeypikk/hockeypikk/internal/platform/logging"
)

// stubStats satisfies StatsProvider with per-method hooks and call counters.
type stubStats struct {
	playerStats  func(playerID int64) (*stats.PlayerSeasonStats, error)
	goalsForDate func(query stats.GoalsForDateQuery) (*stats.GoalOutcome, error)
	record       func(query stats.HeadToHeadQuery) (*stats.HeadToHeadRecord, error)
	firstGame    func(dateKey string) (string, error)

	goalsCalls  atomic.Int64
	recordCalls atomic.Int64
}

func (s *stubStats) GetPlayerStats(_ context.Context, playerID int64) (*stats.PlayerSeasonStats, error) {
	if s.playerStats == nil {
		return &stats.PlayerSeasonStats{}, nil
	}
	return s.playerStats(playerID)
}

func (s *stubStats) GetPlayerGoalsForDate(_ context.Context, query stats.GoalsForDateQuery) (*stats.GoalOutcome, error) {
	s.goalsCalls.Add(1)
	if s.goalsForDate == nil {
		return &stats.GoalOutcome{}, nil
	}
	return s.goalsForDate(query)
}

func (s *stubStats) GetTeamRecordVsOpponent(_ context.Context, query stats.HeadToHeadQuery) (*stats.HeadToHeadRecord, error) {
	s.recordCalls.Add(1)
	if s.record == nil {
		return &stats.HeadToHeadRecord{}, nil
	}
	return s.record(query)
}

func (s *stubStats) GetFirstGameStartTime(_ context.Context, dateKey string) (string, error) {
	if s.firstGame == nil {
		return "", nil
	}
	return s.firstGame(dateKey)
}

type stubRoster struct {
	board *roster.Board
	err   error
}

func (s stubRoster) GetPicks(_ context.Context, _ bool) (*roster.Board, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.board, nil
}

// sequenceIDs yields "id-1", "id-2", ... for deterministic assertions.
func sequenceIDs() id.Generator {
	var mu sync.Mutex
	n := 0
	return id.Func(func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		n++
		return "id-" + strconv.Itoa(n), nil
	})
}

func fixedClock(value string) func() time.Time {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return parsed }
}

func nopLogger() *logging.Logger { return logging.NewNop() }

func testSlate() *roster.Board {
	line1 := "1"
	pp1 := "1"
	return &roster.Board{
		DateTimeAvailable: "2024-01-08T17:00:00Z",
		Season:            "20232024",
		SeasonType:        "regular",
		Lists: []roster.PlayerList{
			{
				ID: 1,
				Players: []roster.Player{
					{
						NHLPlayerID:  8478402,
						FullName:     "Connor McDavid",
						TeamCode:     "EDM",
						OpponentTeam: "CGY",
						Position:     "C",
						Line:         &line1,
						PPLine:       &pp1,
					},
					{
						NHLPlayerID:  8477934,
						FullName:     "Leon Draisaitl",
						TeamCode:     "EDM",
						OpponentTeam: "CGY",
						Position:     "C",
					},
				},
			},
			{
				ID: 2,
				Players: []roster.Player{
					{
						NHLPlayerID:  8479318,
						FullName:     "Auston Matthews",
						TeamCode:     "TOR",
						OpponentTeam: "MTL",
						Position:     "C",
					},
					{
						NHLPlayerID:  8480012,
						FullName:     "Scratched Guy",
						TeamCode:     "TOR",
						OpponentTeam: "MTL",
						Position:     "D",
						Unavailable:  true,
					},
				},
			},
		},
	}
}
