package httpapi

import (
	"expvar"
	"net/http"
)

// NewRouter registers HTTP routes and returns the handler with middleware.
func NewRouter(app *App) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", app.healthHandler)
	mux.HandleFunc("POST /items", app.handle(app.createItemHandler))
	mux.HandleFunc("GET /items/{item_id}", app.handle(app.getItemHandler))
	mux.HandleFunc("GET /debug/metrics", app.metricsHandler)
	mux.Handle("GET /debug/vars", expvar.Handler())
	mux.HandleFunc("GET /openapi.yaml", app.openapiHandler)
	mux.HandleFunc("GET /docs", app.docsHandler)
	h := WithLogging(WithRecovery(mux))
	if app.Tracing == nil || app.Tracing.Enabled() {
		h = WithTracing(app.tracer(), h)
	}
	return WithRequestID(h)
}
