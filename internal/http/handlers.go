package httpapi

import (
	"fmt"
	"html"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/fairyhunter13/item-registry-service/internal/config"
	httpopenapi "github.com/fairyhunter13/item-registry-service/internal/http/openapi"
	"github.com/fairyhunter13/item-registry-service/internal/obs"
	"github.com/fairyhunter13/item-registry-service/internal/registry"
)

type App struct {
	Cfg      config.Config
	Registry *registry.Registry
	Tracing  *obs.Tracing // nil uses the global provider
	started  time.Time
}

func NewApp(cfg config.Config, reg *registry.Registry) *App {
	return &App{Cfg: cfg, Registry: reg, started: time.Now()}
}

func (a *App) tracer() trace.Tracer {
	if a.Tracing != nil {
		return a.Tracing.Tracer()
	}
	return otel.Tracer(obs.ServiceName)
}

// handlerFunc is a handler whose returned error is mapped by writeError.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (a *App) handle(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			writeError(w, r, err)
		}
	}
}

func readBody(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	b, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return nil, err
	}
	if len(b) > maxBodyBytes {
		return nil, &statusError{status: http.StatusRequestEntityTooLarge, detail: detailEntityTooBig}
	}
	return b, nil
}

func (a *App) createItemHandler(w http.ResponseWriter, r *http.Request) error {
	body, err := readBody(r)
	if err != nil {
		return err
	}
	in, err := decodeItemInput(body)
	if err != nil {
		return err
	}
	it, err := a.Registry.Create(r.Context(), in)
	if err != nil {
		return err
	}
	trace.SpanFromContext(r.Context()).SetAttributes(attribute.Int64("item.id", it.ID))
	if err := writeJSON(w, http.StatusOK, it); err != nil {
		return fmt.Errorf("item %d: %w", it.ID, err)
	}
	obs.Logger.Info("item_created",
		"request_id", RequestIDFromContext(r.Context()),
		"item_id", it.ID,
		"name", it.Name,
		"price", it.Price,
		"quantity", it.Quantity,
		"total", it.Total,
	)
	return nil
}

func (a *App) getItemHandler(w http.ResponseWriter, r *http.Request) error {
	id, err := parseItemID(r.PathValue("item_id"))
	if err != nil {
		return err
	}
	trace.SpanFromContext(r.Context()).SetAttributes(attribute.Int64("item.id", id))
	it, err := a.Registry.Get(r.Context(), id)
	if err != nil {
		return err
	}
	if err := writeJSON(w, http.StatusOK, it); err != nil {
		return fmt.Errorf("item %d: %w", id, err)
	}
	return nil
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	_ = writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) metricsHandler(w http.ResponseWriter, r *http.Request) {
	s := a.Registry.Stats()
	m := map[string]any{
		"items_created": s.Created,
		"lookups":       s.Lookups,
		"lookup_misses": s.LookupMisses,
		"next_id":       s.NextID,
		"store_backend": a.Cfg.StoreBackend,
		"uptime_sec":    time.Since(a.started).Seconds(),
	}
	if err := writeJSON(w, http.StatusOK, m); err != nil {
		writeError(w, r, err)
	}
}

func (a *App) openapiHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(httpopenapi.YAML)
}

func (a *App) docsHandler(w http.ResponseWriter, r *http.Request) {
	title := "Item Registry API"
	if info, err := httpopenapi.Info(); err == nil && info.Title != "" {
		title = info.Title + " " + info.Version
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	page := `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>` + html.EscapeString(title) + `</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui'
      });
    </script>
  </body>
</html>`
	_, _ = w.Write([]byte(page))
}
