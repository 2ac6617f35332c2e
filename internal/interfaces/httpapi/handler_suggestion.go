package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/hockeypikk/hockeypikk/internal/usecase"
)

func (h *Handler) ListBoardSuggestions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListBoardSuggestions")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	boardID := strings.TrimSpace(r.PathValue("boardID"))
	suggestions, err := h.suggestionService.ListForBoard(ctx, principal.UserID, boardID)
	if err != nil {
		h.logger.WarnContext(ctx, "list suggestions failed", "user_id", principal.UserID, "board_id", boardID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, suggestionsToDTO(suggestions))
}

type createSuggestionRequest struct {
	BoardID      string `json:"boardId" validate:"required"`
	BoardGroupID string `json:"boardGroupId" validate:"required"`
	NHLPlayerID  int64  `json:"nhlPlayerId" validate:"required,gt=0"`
	Reason       string `json:"reason" validate:"max=280"`
}

func (h *Handler) CreateSuggestion(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateSuggestion")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req createSuggestionRequest
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

	created, err := h.suggestionService.Create(ctx, principal.UserID, usecase.CreateSuggestionInput{
		BoardID:      req.BoardID,
		BoardGroupID: req.BoardGroupID,
		NHLPlayerID:  req.NHLPlayerID,
		Reason:       req.Reason,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create suggestion failed", "user_id", principal.UserID, "board_id", req.BoardID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, suggestionToDTO(created))
}

func (h *Handler) AcceptSuggestion(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AcceptSuggestion")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	suggestionID := strings.TrimSpace(r.PathValue("suggestionID"))
	accepted, err := h.suggestionService.Accept(ctx, principal.UserID, suggestionID)
	if err != nil {
		h.logger.WarnContext(ctx, "accept suggestion failed", "user_id", principal.UserID, "suggestion_id", suggestionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pickToDTO(accepted, nil))
}

func (h *Handler) RejectSuggestion(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RejectSuggestion")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	suggestionID := strings.TrimSpace(r.PathValue("suggestionID"))
	if err := h.suggestionService.Reject(ctx, principal.UserID, suggestionID); err != nil {
		h.logger.WarnContext(ctx, "reject suggestion failed", "user_id", principal.UserID, "suggestion_id", suggestionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"rejected": true})
}
