package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/hockeypikk/hockeypikk/internal/domain/stats"
	"github.com/hockeypikk/hockeypikk/internal/infrastructure/repository/memory"
)

func newTestPicksService(rosterProvider RosterProvider, statsProvider StatsProvider) (*PicksService, *memory.PickRepository, *BoardService) {
	boards, _, _ := newTestBoardService(statsProvider)
	pickRepo := memory.NewPickRepository()
	svc := NewPicksService(rosterProvider, statsProvider, boards, pickRepo, sequenceIDs(), nopLogger(), fixedClock("2024-01-08T15:00:00Z"))
	return svc, pickRepo, boards
}

func TestPicksService_Meta(t *testing.T) {
	t.Parallel()

	statsProvider := &stubStats{
		firstGame: func(string) (string, error) { return "2024-01-08T19:00:00-05:00", nil },
	}
	svc, _, _ := newTestPicksService(stubRoster{board: testSlate()}, statsProvider)

	meta, err := svc.Meta(context.Background())
	if err != nil {
		t.Fatalf("Meta error: %v", err)
	}
	if meta.Season != "20232024" || meta.SeasonType != "regular" {
		t.Fatalf("unexpected season markers: %+v", meta)
	}
	if meta.FirstGameStartTime != "2024-01-08T19:00:00-05:00" {
		t.Fatalf("unexpected first game time: %s", meta.FirstGameStartTime)
	}
}

func TestPicksService_Meta_FirstGameFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	statsProvider := &stubStats{
		firstGame: func(string) (string, error) { return "", errors.New("schedule down") },
	}
	svc, _, _ := newTestPicksService(stubRoster{board: testSlate()}, statsProvider)

	meta, err := svc.Meta(context.Background())
	if err != nil {
		t.Fatalf("Meta error: %v", err)
	}
	if meta.FirstGameStartTime != "" {
		t.Fatalf("expected empty first game time, got %s", meta.FirstGameStartTime)
	}
}

func TestPicksService_Options_MemoizesHeadToHead(t *testing.T) {
	t.Parallel()

	statsProvider := &stubStats{
		record: func(query stats.HeadToHeadQuery) (*stats.HeadToHeadRecord, error) {
			if query.SeasonID != "20232024" {
				t.Errorf("unexpected season id: %s", query.SeasonID)
			}
			return &stats.HeadToHeadRecord{Wins: 2, Losses: 1}, nil
		},
	}
	svc, _, _ := newTestPicksService(stubRoster{board: testSlate()}, statsProvider)

	lists, err := svc.Options(context.Background())
	if err != nil {
		t.Fatalf("Options error: %v", err)
	}
	if len(lists) != 2 {
		t.Fatalf("expected 2 lists, got=%d", len(lists))
	}

	first := lists[0].Options[0]
	if first.PlayerName != "Connor McDavid" || first.TeamName != "Edmonton Oilers" {
		t.Fatalf("unexpected enrichment: %+v", first)
	}
	if first.Record == nil || first.Record.Wins != 2 {
		t.Fatalf("expected head-to-head record, got %+v", first.Record)
	}

	// Two EDM@CGY players and two TOR@MTL players: two distinct pairs, so
	// two lookups total despite four options.
	if got := statsProvider.recordCalls.Load(); got != 2 {
		t.Fatalf("expected 2 record lookups, got=%d", got)
	}
}

func TestPicksService_Options_RecordFailureLeavesOptionBare(t *testing.T) {
	t.Parallel()

	statsProvider := &stubStats{
		record: func(stats.HeadToHeadQuery) (*stats.HeadToHeadRecord, error) {
			return nil, errors.New("upstream down")
		},
	}
	svc, _, _ := newTestPicksService(stubRoster{board: testSlate()}, statsProvider)

	lists, err := svc.Options(context.Background())
	if err != nil {
		t.Fatalf("Options error: %v", err)
	}
	if lists[0].Options[0].Record != nil {
		t.Fatal("expected nil record after lookup failure")
	}
}

func TestPicksService_Submit_SnapshotsStats(t *testing.T) {
	t.Parallel()

	goals := 30
	statsProvider := &stubStats{
		playerStats: func(playerID int64) (*stats.PlayerSeasonStats, error) {
			if playerID != 8478402 {
				t.Errorf("unexpected player id: %d", playerID)
			}
			return &stats.PlayerSeasonStats{SeasonGoals: &goals, Last5Goals: 4}, nil
		},
	}
	svc, _, boards := newTestPicksService(stubRoster{board: testSlate()}, statsProvider)

	b, err := boards.GetOrCreateToday(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("create board: %v", err)
	}

	saved, err := svc.Submit(context.Background(), "user-1", SubmitPicksInput{
		Selections: []PickSelection{{BoardGroupID: b.Groups[0].ID, NHLPlayerID: 8478402}},
	})
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if len(saved) != 1 {
		t.Fatalf("expected 1 pick, got=%d", len(saved))
	}
	got := saved[0]
	if got.PlayerName != "Connor McDavid" || got.OpponentTeamCode != "CGY" {
		t.Fatalf("unexpected pick enrichment: %+v", got)
	}
	if got.Stats.SeasonGoals == nil || *got.Stats.SeasonGoals != 30 || got.Stats.Last5Goals != 4 {
		t.Fatalf("unexpected stats snapshot: %+v", got.Stats)
	}
}

func TestPicksService_Submit_StatsFailureDegradesToEmptySnapshot(t *testing.T) {
	t.Parallel()

	statsProvider := &stubStats{
		playerStats: func(int64) (*stats.PlayerSeasonStats, error) {
			return nil, errors.New("upstream down")
		},
	}
	svc, _, boards := newTestPicksService(stubRoster{board: testSlate()}, statsProvider)

	b, err := boards.GetOrCreateToday(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("create board: %v", err)
	}

	saved, err := svc.Submit(context.Background(), "user-1", SubmitPicksInput{
		Selections: []PickSelection{{BoardGroupID: b.Groups[0].ID, NHLPlayerID: 8478402}},
	})
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if saved[0].Stats.SeasonGoals != nil {
		t.Fatal("expected empty snapshot after stats failure")
	}
}

func TestPicksService_Submit_Validation(t *testing.T) {
	t.Parallel()

	svc, _, boards := newTestPicksService(stubRoster{board: testSlate()}, &stubStats{})
	b, err := boards.GetOrCreateToday(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("create board: %v", err)
	}

	cases := []struct {
		name      string
		selection PickSelection
		wantErr   error
	}{
		{"unknown group", PickSelection{BoardGroupID: "not-a-group", NHLPlayerID: 8478402}, ErrInvalidInput},
		{"player off slate", PickSelection{BoardGroupID: b.Groups[0].ID, NHLPlayerID: 999}, ErrInvalidInput},
		{"unavailable player", PickSelection{BoardGroupID: b.Groups[0].ID, NHLPlayerID: 8480012}, ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), "user-1", SubmitPicksInput{Selections: []PickSelection{tc.selection}})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestPicksService_Submit_LockedBoardConflicts(t *testing.T) {
	t.Parallel()

	svc, _, boards := newTestPicksService(stubRoster{board: testSlate()}, &stubStats{})
	b, err := boards.GetOrCreateToday(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("create board: %v", err)
	}
	if _, err := boards.LockBoard(context.Background(), "user-1", b.ID); err != nil {
		t.Fatalf("lock board: %v", err)
	}

	_, err = svc.Submit(context.Background(), "user-1", SubmitPicksInput{
		Selections: []PickSelection{{BoardGroupID: b.Groups[0].ID, NHLPlayerID: 8478402}},
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestPicksService_Submit_ReplacesGroupSelection(t *testing.T) {
	t.Parallel()

	svc, pickRepo, boards := newTestPicksService(stubRoster{board: testSlate()}, &stubStats{})
	b, err := boards.GetOrCreateToday(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("create board: %v", err)
	}
	groupID := b.Groups[0].ID

	if _, err := svc.Submit(context.Background(), "user-1", SubmitPicksInput{
		Selections: []PickSelection{{BoardGroupID: groupID, NHLPlayerID: 8478402}},
	}); err != nil {
		t.Fatalf("first Submit error: %v", err)
	}
	if _, err := svc.Submit(context.Background(), "user-1", SubmitPicksInput{
		Selections: []PickSelection{{BoardGroupID: groupID, NHLPlayerID: 8477934}},
	}); err != nil {
		t.Fatalf("second Submit error: %v", err)
	}

	current, found, err := pickRepo.GetByGroupAndUser(context.Background(), groupID, "user-1")
	if err != nil || !found {
		t.Fatalf("expected one pick in group, found=%v err=%v", found, err)
	}
	if current.NHLPlayerID != 8477934 {
		t.Fatalf("expected replacement pick, got player %d", current.NHLPlayerID)
	}
}
