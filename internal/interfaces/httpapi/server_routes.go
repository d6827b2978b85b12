package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

// Data routes all require the internal job token.
func registerInternalRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	guard := func(fn http.HandlerFunc) http.Handler {
		return RequireInternalJobToken(internalJobToken, fn)
	}

	mux.Handle("POST /v1/internal/ingest/primary", guard(handler.IngestPrimary))
	mux.Handle("POST /v1/internal/ingest/secondary", guard(handler.IngestSecondary))
	mux.Handle("POST /v1/internal/ingest/batches", guard(handler.IngestBatches))
	mux.Handle("POST /v1/internal/jobs/link-players", guard(handler.RunLinkPlayers))
	mux.Handle("GET /v1/internal/dataset", guard(handler.GetDataset))
}
