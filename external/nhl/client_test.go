package nhl

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hockeypikk/hockeypikk/internal/domain/stats"
	"github.com/hockeypikk/hockeypikk/internal/platform/logging"
	"github.com/hockeypikk/hockeypikk/internal/usecase"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		Logger:     logging.NewNop(),
	})
	return client, server
}

func TestGetPlayerGoalsForDate_MatchesRegularSeasonEntry(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch r.URL.Path {
		case "/player/8478402/game-log/20232024/2":
			_, _ = w.Write([]byte(`{"gameLog": [
				{"gameDate": "2024-01-06", "goals": 0},
				{"gameDate": "2024-01-08", "goals": 2}
			]}`))
		default:
			http.NotFound(w, r)
		}
	}))

	outcome, err := client.GetPlayerGoalsForDate(context.Background(), stats.GoalsForDateQuery{
		PlayerID: 8478402,
		DateKey:  "2024-01-08",
		SeasonID: "20232024",
	})
	if err != nil {
		t.Fatalf("GetPlayerGoalsForDate error: %v", err)
	}
	if outcome == nil || !outcome.Played || outcome.Goals != 2 || outcome.GameTypeID != stats.GameTypeRegularSeason {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected the playoff log to be skipped after a regular-season match, calls=%d", got)
	}
}

func TestGetPlayerGoalsForDate_ConfirmedNoGame(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"gameLog": []}`))
	}))

	outcome, err := client.GetPlayerGoalsForDate(context.Background(), stats.GoalsForDateQuery{
		PlayerID: 8478402,
		DateKey:  "2024-01-08",
		SeasonID: "20232024",
	})
	if err != nil {
		t.Fatalf("GetPlayerGoalsForDate error: %v", err)
	}
	if outcome == nil || outcome.Played || outcome.Goals != 0 {
		t.Fatalf("expected a confirmed no-game outcome, got=%+v", outcome)
	}
}

func TestGetPlayerGoalsForDate_UnavailableWhenBothLogsFail(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusForbidden)
	}))

	outcome, err := client.GetPlayerGoalsForDate(context.Background(), stats.GoalsForDateQuery{
		PlayerID: 8478402,
		DateKey:  "2024-01-08",
		SeasonID: "20232024",
	})
	if outcome != nil {
		t.Fatalf("expected nil outcome when no log could be fetched, got=%+v", outcome)
	}
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected dependency-unavailable error, got=%v", err)
	}
}

func TestGetPlayerGoalsForDate_FallsBackToPlayoffLog(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/player/8478402/game-log/20232024/2":
			_, _ = w.Write([]byte(`{"gameLog": [{"gameDate": "2024-01-08", "goals": 1}]}`))
		case "/player/8478402/game-log/20232024/3":
			_, _ = w.Write([]byte(`{"gameLog": [{"gameDate": "2024-05-01", "goals": 3}]}`))
		default:
			http.NotFound(w, r)
		}
	}))

	outcome, err := client.GetPlayerGoalsForDate(context.Background(), stats.GoalsForDateQuery{
		PlayerID: 8478402,
		DateKey:  "2024-05-01",
		SeasonID: "20232024",
	})
	if err != nil {
		t.Fatalf("GetPlayerGoalsForDate error: %v", err)
	}
	if outcome == nil || !outcome.Played || outcome.Goals != 3 || outcome.GameTypeID != stats.GameTypePlayoffs {
		t.Fatalf("expected playoff match, got=%+v", outcome)
	}
}

func TestGetPlayerStats_SecondLookupIsACacheHit(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{
			"featuredStats": {"season": 20232024, "regularSeason": {"subSeason": {"gamesPlayed": 41, "goals": 24}}},
			"seasonTotals": [],
			"last5Games": [{"goals": 1, "points": 1, "shots": 2}]
		}`))
	}))

	for i := 0; i < 3; i++ {
		snapshot, err := client.GetPlayerStats(context.Background(), 8478402)
		if err != nil {
			t.Fatalf("GetPlayerStats error: %v", err)
		}
		if snapshot.SeasonGoals == nil || *snapshot.SeasonGoals != 24 {
			t.Fatalf("unexpected snapshot: %+v", snapshot)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected exactly one upstream call inside the TTL window, got=%d", got)
	}
}

func TestGetPlayerStats_InvalidIDMakesNoUpstreamCall(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	if _, err := client.GetPlayerStats(context.Background(), 0); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected invalid-input error, got=%v", err)
	}
	if got := calls.Load(); got != 0 {
		t.Fatalf("expected zero upstream calls, got=%d", got)
	}
}

func TestGetTeamRecordVsOpponent_SharesScheduleAcrossOpponents(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/club-schedule-season/TOR/20232024" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"games": [
			{"gameType": 2, "gameState": "OFF", "homeTeam": {"abbrev": "TOR", "score": 4}, "awayTeam": {"abbrev": "MTL", "score": 2}, "gameOutcome": {"lastPeriodType": "REG"}},
			{"gameType": 2, "gameState": "OFF", "homeTeam": {"abbrev": "BOS", "score": 2}, "awayTeam": {"abbrev": "TOR", "score": 1}, "gameOutcome": {"lastPeriodType": "SO"}}
		]}`))
	}))

	vsMontreal, err := client.GetTeamRecordVsOpponent(context.Background(), stats.HeadToHeadQuery{
		TeamCode:     "tor",
		OpponentCode: "mtl",
		SeasonID:     "20232024",
	})
	if err != nil {
		t.Fatalf("GetTeamRecordVsOpponent error: %v", err)
	}
	if vsMontreal.Wins != 1 || vsMontreal.Losses != 0 || vsMontreal.OTLosses != 0 {
		t.Fatalf("unexpected record vs MTL: %+v", vsMontreal)
	}

	vsBoston, err := client.GetTeamRecordVsOpponent(context.Background(), stats.HeadToHeadQuery{
		TeamCode:     "TOR",
		OpponentCode: "BOS",
		SeasonID:     "20232024",
	})
	if err != nil {
		t.Fatalf("GetTeamRecordVsOpponent error: %v", err)
	}
	if vsBoston.OTLosses != 1 || vsBoston.Wins != 0 || vsBoston.Losses != 0 {
		t.Fatalf("expected the shootout loss counted as OT loss, got=%+v", vsBoston)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected one schedule fetch shared across opponents, got=%d", got)
	}
}

func TestGetFirstGameStartTime_EmptyDayIsNotAnError(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"gameWeek": [{"date": "2024-07-01", "games": []}]}`))
	}))

	start, err := client.GetFirstGameStartTime(context.Background(), "2024-07-01")
	if err != nil {
		t.Fatalf("GetFirstGameStartTime error: %v", err)
	}
	if start != "" {
		t.Fatalf("expected empty start time, got=%q", start)
	}
}

func TestClient_CacheExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"gameLog": []}`))
	}))
	t.Cleanup(server.Close)

	now := time.Unix(1700000000, 0)
	client := NewClient(ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		CacheTTL:   time.Hour,
		Logger:     logging.NewNop(),
		Clock:      func() time.Time { return now },
	})

	if _, err := client.GetPlayerGameLog(context.Background(), 8478402, "20232024", stats.GameTypeRegularSeason); err != nil {
		t.Fatalf("first lookup: %v", err)
	}
	if _, err := client.GetPlayerGameLog(context.Background(), 8478402, "20232024", stats.GameTypeRegularSeason); err != nil {
		t.Fatalf("second lookup: %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected a cache hit before expiry, calls=%d", got)
	}

	now = now.Add(time.Hour + time.Minute)
	if _, err := client.GetPlayerGameLog(context.Background(), 8478402, "20232024", stats.GameTypeRegularSeason); err != nil {
		t.Fatalf("post-expiry lookup: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected a refetch after expiry, calls=%d", got)
	}
}
