package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/picks/meta", handler.GetPicksMeta)
	mux.HandleFunc("GET /v1/picks/options", handler.ListPickOptions)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/picks", RequireAuth(verifier, http.HandlerFunc(handler.SubmitPicks)))
	mux.Handle("GET /v1/boards/today", RequireAuth(verifier, http.HandlerFunc(handler.GetTodayBoard)))
	mux.Handle("GET /v1/boards/{boardID}", RequireAuth(verifier, http.HandlerFunc(handler.GetBoard)))
	mux.Handle("POST /v1/boards/{boardID}/lock", RequireAuth(verifier, http.HandlerFunc(handler.LockBoard)))
	mux.Handle("GET /v1/history", RequireAuth(verifier, http.HandlerFunc(handler.ListHistory)))
	mux.Handle("GET /v1/boards/{boardID}/suggestions", RequireAuth(verifier, http.HandlerFunc(handler.ListBoardSuggestions)))
	mux.Handle("POST /v1/suggestions", RequireAuth(verifier, http.HandlerFunc(handler.CreateSuggestion)))
	mux.Handle("POST /v1/suggestions/{suggestionID}/accept", RequireAuth(verifier, http.HandlerFunc(handler.AcceptSuggestion)))
	mux.Handle("POST /v1/suggestions/{suggestionID}/reject", RequireAuth(verifier, http.HandlerFunc(handler.RejectSuggestion)))
}
