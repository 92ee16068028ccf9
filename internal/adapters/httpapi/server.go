package httpapi

import (
	"time"

	"github.com/cinedex/catalog-api/internal/app/directors"
	"github.com/cinedex/catalog-api/internal/app/movies"
	"github.com/cinedex/catalog-api/internal/ports/out/clock"
	"github.com/cinedex/catalog-api/internal/ports/out/idempotency"
)

// Server holds the application services the HTTP handlers delegate to.
type Server struct {
	Directors *directors.Service
	Movies    *movies.Service
	Idem      idempotency.Store
	Clock     clock.Clock
}

func NewServer(directorsSvc *directors.Service, moviesSvc *movies.Service, idem idempotency.Store, clk clock.Clock) *Server {
	return &Server{
		Directors: directorsSvc,
		Movies:    moviesSvc,
		Idem:      idem,
		Clock:     clk,
	}
}

func (s *Server) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now()
}
