package transport

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"businessmath-mcp/internal/server"
	"businessmath-mcp/internal/telemetry"
)

// maxHTTPBodySize bounds one POST /mcp request body.
const maxHTTPBodySize = 10 * 1024 * 1024

// NewHTTP builds the HTTP front end: POST /mcp carries JSON-RPC frames,
// GET /mcp serves server metadata, GET /health liveness, GET /metrics
// Prometheus. Requests are dispatched concurrently by net/http; the
// handler stack below it is safe for that.
func NewHTTP(h *server.Handler, metrics *telemetry.Metrics, logger zerolog.Logger) http.Handler {
	log := logger.With().Str("component", "http_transport").Logger()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if metrics != nil {
		r.Use(telemetry.HTTPMetricsMiddleware(metrics))
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		render.JSON(w, req, map[string]string{"status": "ok"})
	})

	r.Get("/mcp", func(w http.ResponseWriter, req *http.Request) {
		render.JSON(w, req, h.Describe())
	})

	r.Post("/mcp", func(w http.ResponseWriter, req *http.Request) {
		body, err := io.ReadAll(io.LimitReader(req.Body, maxHTTPBodySize))
		if err != nil {
			log.Warn().Err(err).Msg("Failed to read request body")
			http.Error(w, "could not read request body", http.StatusBadRequest)
			return
		}
		defer req.Body.Close()

		resp := h.HandleFrame(req.Context(), body)
		if resp == nil {
			// Notification: acknowledged, nothing to return.
			w.WriteHeader(http.StatusAccepted)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(resp)
	})

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}
