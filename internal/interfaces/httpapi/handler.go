package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/hockeypikk/hockeypikk/internal/usecase"
)

type Handler struct {
	boardService      *usecase.BoardService
	picksService      *usecase.PicksService
	historyService    *usecase.HistoryService
	suggestionService *usecase.SuggestionService
	logger            *slog.Logger
	validator         *validator.Validate
}

func NewHandler(
	boardService *usecase.BoardService,
	picksService *usecase.PicksService,
	historyService *usecase.HistoryService,
	suggestionService *usecase.SuggestionService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		boardService:      boardService,
		picksService:      picksService,
		historyService:    historyService,
		suggestionService: suggestionService,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
