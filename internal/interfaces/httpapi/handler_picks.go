package httpapi

import (
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/hockeypikk/hockeypikk/internal/usecase"
)

func (h *Handler) GetPicksMeta(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPicksMeta")
	defer span.End()

	meta, err := h.picksService.Meta(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get picks meta failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, meta)
}

func (h *Handler) ListPickOptions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPickOptions")
	defer span.End()

	lists, err := h.picksService.Options(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list pick options failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lists)
}

type submitPicksRequest struct {
	Selections []submitPickSelection `json:"selections" validate:"required,min=1,dive"`
}

type submitPickSelection struct {
	BoardGroupID string `json:"boardGroupId" validate:"required"`
	NHLPlayerID  int64  `json:"nhlPlayerId" validate:"required,gt=0"`
}

func (h *Handler) SubmitPicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitPicks")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req submitPicksRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	input := usecase.SubmitPicksInput{Selections: make([]usecase.PickSelection, 0, len(req.Selections))}
	for _, selection := range req.Selections {
		input.Selections = append(input.Selections, usecase.PickSelection{
			BoardGroupID: selection.BoardGroupID,
			NHLPlayerID:  selection.NHLPlayerID,
		})
	}

	saved, err := h.picksService.Submit(ctx, principal.UserID, input)
	if err != nil {
		h.logger.WarnContext(ctx, "submit picks failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, picksToDTO(saved))
}
