package httpapi

import (
	"net/http"

	"github.com/cinedex/catalog-api/internal/domain"
)

func (s *Server) ListMovies(w http.ResponseWriter, r *http.Request) {
	ms, err := s.Movies.ListMovies(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MoviesResponse{Movies: moviesFromDomain(ms)})
}

func (s *Server) GetMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	m, err := s.Movies.GetMovie(r.Context(), domain.MovieID(id))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MovieResponse{Movie: movieFromDomain(m)})
}

func (s *Server) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var body MovieRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	s.idempotent(w, r, "/movies", canonicalMovieRequest(body), func() (handlerResult, error) {
		m, created, err := s.Movies.CreateMovie(r.Context(), body.toInput())
		if err != nil {
			return handlerResult{}, err
		}
		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		return handlerResult{status: status, body: MovieResponse{Movie: movieFromDomain(m)}}, nil
	})
}

// UpdateMovie handles PUT /movies, where the id travels in the body.
func (s *Server) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	var body MovieRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	s.updateMovie(w, r, body)
}

// UpdateMovieByID handles PUT /movies/{id}.
func (s *Server) UpdateMovieByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body MovieRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.ID, ok = reconcileID(w, r, id, body.ID); !ok {
		return
	}
	s.updateMovie(w, r, body)
}

func (s *Server) updateMovie(w http.ResponseWriter, r *http.Request, body MovieRequest) {
	m, err := s.Movies.UpdateMovie(r.Context(), body.toInput())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MovieResponse{Movie: movieFromDomain(m)})
}

func (s *Server) PatchMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body PatchMovieRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	m, err := s.Movies.PatchMovie(r.Context(), domain.MovieID(id), body.toInput())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MovieResponse{Movie: movieFromDomain(m)})
}

func (s *Server) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.Movies.DeleteMovie(r.Context(), domain.MovieID(id)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// canonicalMovieRequest drops the ignored id and normalizes names so that
// retries differing only in whitespace hash identically.
func canonicalMovieRequest(b MovieRequest) MovieRequest {
	canon := b
	canon.ID = nil
	if canon.Title != nil {
		t := domain.NormalizeHumanName(*canon.Title)
		canon.Title = &t
	}
	if canon.DirectorName != nil {
		n := domain.NormalizeHumanName(*canon.DirectorName)
		canon.DirectorName = &n
	}
	return canon
}
