// Package catalogseed imports a YAML catalog through the application services,
// so imported rows go through the same validation and director resolution as
// API writes.
package catalogseed

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/cinedex/catalog-api/internal/app/directors"
	"github.com/cinedex/catalog-api/internal/app/movies"
)

// File is the on-disk seed format:
//
//	directors:
//	  - name: Agnes Varda
//	movies:
//	  - title: Cleo from 5 to 7
//	    releaseYear: 1962
//	    director: Agnes Varda
type File struct {
	Directors []DirectorEntry `yaml:"directors"`
	Movies    []MovieEntry    `yaml:"movies"`
}

type DirectorEntry struct {
	Name string `yaml:"name"`
}

// MovieEntry references its director by name, by id, or by both.
type MovieEntry struct {
	Title       string `yaml:"title"`
	ReleaseYear int    `yaml:"releaseYear"`
	Director    string `yaml:"director,omitempty"`
	DirectorID  *int   `yaml:"directorId,omitempty"`
}

type Summary struct {
	DirectorsCreated  int
	DirectorsExisting int
	MoviesCreated     int
	MoviesSkipped     int
}

// Parse decodes a seed file. Unknown keys are rejected.
func Parse(r io.Reader) (File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return File{}, nil
		}
		return File{}, fmt.Errorf("decode seed file: %w", err)
	}
	return f, nil
}

type Importer struct {
	directors *directors.Service
	movies    *movies.Service
}

func NewImporter(directorsSvc *directors.Service, moviesSvc *movies.Service) *Importer {
	return &Importer{directors: directorsSvc, movies: moviesSvc}
}

// Import writes every entry of f. Movies whose title already exists are
// skipped; any other failure stops the import and is returned together with
// the partial summary.
func (i *Importer) Import(ctx context.Context, f File) (Summary, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("seedRun", uuid.NewString())
	var sum Summary

	for n, d := range f.Directors {
		name := d.Name
		_, created, err := i.directors.CreateDirector(ctx, directors.CreateDirectorInput{Name: &name})
		if err != nil {
			return sum, fmt.Errorf("directors[%d] %q: %w", n, d.Name, err)
		}
		if created {
			sum.DirectorsCreated++
		} else {
			sum.DirectorsExisting++
		}
	}

	for n, m := range f.Movies {
		_, created, err := i.movies.CreateMovie(ctx, m.toInput())
		if err != nil {
			return sum, fmt.Errorf("movies[%d] %q: %w", n, m.Title, err)
		}
		if created {
			sum.MoviesCreated++
		} else {
			log.V(1).Info("movie already present, skipping", "title", m.Title)
			sum.MoviesSkipped++
		}
	}

	log.Info("seed complete",
		"directorsCreated", sum.DirectorsCreated,
		"directorsExisting", sum.DirectorsExisting,
		"moviesCreated", sum.MoviesCreated,
		"moviesSkipped", sum.MoviesSkipped,
	)
	return sum, nil
}

func (m MovieEntry) toInput() movies.MovieInput {
	in := movies.MovieInput{Director: movies.DirectorInput{ID: m.DirectorID}}
	if m.Title != "" {
		t := m.Title
		in.Title = &t
	}
	if m.ReleaseYear != 0 {
		y := m.ReleaseYear
		in.ReleaseYear = &y
	}
	if m.Director != "" {
		d := m.Director
		in.Director.Name = &d
	}
	return in
}
