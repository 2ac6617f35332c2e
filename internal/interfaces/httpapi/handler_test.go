package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/hockeypikk/hockeypikk/internal/domain/roster"
	"github.com/hockeypikk/hockeypikk/internal/domain/stats"
	"github.com/hockeypikk/hockeypikk/internal/domain/user"
	"github.com/hockeypikk/hockeypikk/internal/infrastructure/repository/memory"
	"github.com/hockeypikk/hockeypikk/internal/platform/id"
	"github.com/hockeypikk/hockeypikk/internal/platform/logging"
	"github.com/hockeypikk/hockeypikk/internal/usecase"
)

type fixedStats struct{}

func (fixedStats) GetPlayerStats(context.Context, int64) (*stats.PlayerSeasonStats, error) {
	return &stats.PlayerSeasonStats{Last5Goals: 3}, nil
}

func (fixedStats) GetPlayerGoalsForDate(context.Context, stats.GoalsForDateQuery) (*stats.GoalOutcome, error) {
	return &stats.GoalOutcome{Goals: 1, Played: true}, nil
}

func (fixedStats) GetTeamRecordVsOpponent(context.Context, stats.HeadToHeadQuery) (*stats.HeadToHeadRecord, error) {
	return &stats.HeadToHeadRecord{Wins: 1}, nil
}

func (fixedStats) GetFirstGameStartTime(context.Context, string) (string, error) {
	return "", nil
}

type fixedRoster struct{}

func (fixedRoster) GetPicks(context.Context, bool) (*roster.Board, error) {
	return &roster.Board{
		DateTimeAvailable: "2024-01-08T17:00:00Z",
		Season:            "20232024",
		SeasonType:        "regular",
		Lists: []roster.PlayerList{
			{
				ID: 1,
				Players: []roster.Player{
					{NHLPlayerID: 8478402, FullName: "Connor McDavid", TeamCode: "EDM", OpponentTeam: "CGY", Position: "C"},
				},
			},
		},
	}, nil
}

type tokenVerifier struct{}

func (tokenVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	return user.Principal{UserID: strings.TrimPrefix(token, "token-")}, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	var seq int
	idGen := id.Func(func() (string, error) {
		seq++
		return "id-" + strconv.Itoa(seq), nil
	})
	now := func() time.Time {
		return time.Date(2024, time.January, 8, 15, 0, 0, 0, time.UTC)
	}

	boardRepo := memory.NewBoardRepository()
	pickRepo := memory.NewPickRepository()
	suggestionRepo := memory.NewSuggestionRepository()
	friendRepo := memory.NewFriendRepository()
	logger := logging.NewNop()

	boardService := usecase.NewBoardService(boardRepo, friendRepo, fixedStats{}, idGen, logger, now)
	picksService := usecase.NewPicksService(fixedRoster{}, fixedStats{}, boardService, pickRepo, idGen, logger, now)
	historyService := usecase.NewHistoryService(boardRepo, pickRepo, fixedStats{}, logger, now, 0)
	suggestionService := usecase.NewSuggestionService(boardService, suggestionRepo, pickRepo, friendRepo, fixedRoster{}, fixedStats{}, idGen, logger, now)

	handler := NewHandler(boardService, picksService, historyService, suggestionService, slog.New(slog.DiscardHandler))
	return NewRouter(handler, tokenVerifier{}, slog.New(slog.DiscardHandler), []string{"*"})
}

func decodeData(t *testing.T, body []byte) any {
	t.Helper()

	var envelope map[string]any
	if err := sonic.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	return envelope["data"]
}

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestRouter_PicksMetaIsPublic(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/picks/meta", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	data, ok := decodeData(t, rec.Body.Bytes()).(map[string]any)
	if !ok {
		t.Fatalf("expected object data, got %T", decodeData(t, rec.Body.Bytes()))
	}
	if got, _ := data["season"].(string); got != "20232024" {
		t.Fatalf("unexpected season: %v", data["season"])
	}
}

func TestRouter_TodayBoardRequiresAuth(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/boards/today", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRouter_SubmitAndHistoryFlow(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/boards/today", nil)
	req.Header.Set("Authorization", "Bearer token-user-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("today board: expected status 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	board, ok := decodeData(t, rec.Body.Bytes()).(map[string]any)
	if !ok {
		t.Fatal("expected board object")
	}
	groups, ok := board["groups"].([]any)
	if !ok || len(groups) == 0 {
		t.Fatalf("expected board groups, got %v", board["groups"])
	}
	groupID, _ := groups[0].(map[string]any)["id"].(string)

	payload := `{"selections":[{"boardGroupId":"` + groupID + `","nhlPlayerId":8478402}]}`
	req = httptest.NewRequest(http.MethodPost, "/v1/picks", strings.NewReader(payload))
	req.Header.Set("Authorization", "Bearer token-user-1")
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("submit picks: expected status 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/history", nil)
	req.Header.Set("Authorization", "Bearer token-user-1")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("history: expected status 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	historyBoards, ok := decodeData(t, rec.Body.Bytes()).([]any)
	if !ok || len(historyBoards) != 1 {
		t.Fatalf("expected 1 history board, got %v", decodeData(t, rec.Body.Bytes()))
	}
}

func TestRouter_SubmitRejectsUnknownFields(t *testing.T) {
	router := newTestRouter(t)

	payload := `{"selections":[{"boardGroupId":"g","nhlPlayerId":1}],"bogus":true}`
	req := httptest.NewRequest(http.MethodPost, "/v1/picks", strings.NewReader(payload))
	req.Header.Set("Authorization", "Bearer token-user-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}
