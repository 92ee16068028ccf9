package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-logr/logr"
)

type RouterOptions struct {
	// Logger receives one line per request. The zero value discards.
	Logger logr.Logger
	// Metrics, when set, instruments every route.
	Metrics HTTPObserver
	// MetricsHandler, when set, is served on /metrics.
	MetricsHandler http.Handler
}

// NewRouter constructs the API HTTP router with default options.
func NewRouter(s *Server) http.Handler {
	return NewRouterWithOptions(s, RouterOptions{})
}

func NewRouterWithOptions(s *Server, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(opts.Logger))
	if opts.Metrics != nil {
		r.Use(Instrument(opts.Metrics))
	}
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, codeNotFound, "no such route", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed", nil)
	})

	// Infra endpoints.
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if opts.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", opts.MetricsHandler)
	}

	r.Route("/directors", func(r chi.Router) {
		r.Get("/", s.ListDirectors)
		r.Post("/", s.CreateDirector)
		r.Put("/", s.UpdateDirector)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetDirector)
			r.Put("/", s.UpdateDirectorByID)
			r.Delete("/", s.DeleteDirector)
			r.Get("/movies", s.ListDirectorMovies)
		})
	})
	r.Route("/movies", func(r chi.Router) {
		r.Get("/", s.ListMovies)
		r.Post("/", s.CreateMovie)
		r.Put("/", s.UpdateMovie)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetMovie)
			r.Put("/", s.UpdateMovieByID)
			r.Patch("/", s.PatchMovie)
			r.Delete("/", s.DeleteMovie)
		})
	})
	return r
}
