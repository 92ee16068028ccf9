package httpapi

import (
	"net/http"

	"github.com/cinedex/catalog-api/internal/app/directors"
	"github.com/cinedex/catalog-api/internal/domain"
)

func (s *Server) ListDirectors(w http.ResponseWriter, r *http.Request) {
	ds, err := s.Directors.ListDirectors(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]Director, 0, len(ds))
	for _, d := range ds {
		out = append(out, directorFromDomain(d))
	}
	writeJSON(w, http.StatusOK, DirectorsResponse{Directors: out})
}

func (s *Server) GetDirector(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	d, err := s.Directors.GetDirector(r.Context(), domain.DirectorID(id))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DirectorResponse{Director: directorFromDomain(d)})
}

func (s *Server) ListDirectorMovies(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	ms, err := s.Movies.ListMoviesByDirector(r.Context(), domain.DirectorID(id))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MoviesResponse{Movies: moviesFromDomain(ms)})
}

// CreateDirector answers 201 for a new director and 200 when a director with
// the same name already existed.
func (s *Server) CreateDirector(w http.ResponseWriter, r *http.Request) {
	var body DirectorRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	canon := DirectorRequest{Name: body.Name}
	if canon.Name != nil {
		n := domain.NormalizeHumanName(*canon.Name)
		canon.Name = &n
	}
	s.idempotent(w, r, "/directors", canon, func() (handlerResult, error) {
		d, created, err := s.Directors.CreateDirector(r.Context(), directors.CreateDirectorInput{Name: body.Name})
		if err != nil {
			return handlerResult{}, err
		}
		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		return handlerResult{status: status, body: DirectorResponse{Director: directorFromDomain(d)}}, nil
	})
}

// UpdateDirector handles PUT /directors, where the id travels in the body.
func (s *Server) UpdateDirector(w http.ResponseWriter, r *http.Request) {
	var body DirectorRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	s.updateDirector(w, r, body)
}

// UpdateDirectorByID handles PUT /directors/{id}.
func (s *Server) UpdateDirectorByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body DirectorRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.ID, ok = reconcileID(w, r, id, body.ID); !ok {
		return
	}
	s.updateDirector(w, r, body)
}

func (s *Server) updateDirector(w http.ResponseWriter, r *http.Request, body DirectorRequest) {
	d, err := s.Directors.UpdateDirector(r.Context(), directors.UpdateDirectorInput{ID: body.ID, Name: body.Name})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DirectorResponse{Director: directorFromDomain(d)})
}

func (s *Server) DeleteDirector(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.Directors.DeleteDirector(r.Context(), domain.DirectorID(id)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
