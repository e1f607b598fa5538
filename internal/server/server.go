// Package server exposes the relevance engine over HTTP.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// New builds the HTTP server for the API on the given port.
func New(port string, handlers *Handlers, corsOrigins []string, log zerolog.Logger) *http.Server {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           NewRouter(handlers, corsOrigins, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().Str("addr", "http://localhost:"+port).Msg("server listening")
	return srv
}

func NewRouter(h *Handlers, corsOrigins []string, log zerolog.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.HandleHealth)
	r.Method(http.MethodGet, "/metrics", h.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", h.HandleSearch)
		r.Post("/search", h.HandleSearch)
		r.Get("/suggest", h.HandleSuggest)
		r.Get("/jump", h.HandleJump)
		r.Get("/related", h.HandleRelated)
		r.Post("/related", h.HandleRelated)
		r.Get("/status", h.HandleStatus)
		r.Post("/refresh", h.HandleRefresh)
	})

	return r
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("request")
		})
	}
}
