package movies

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/cinedex/catalog-api/internal/domain"
	"github.com/cinedex/catalog-api/internal/ports/out/directorrepo"
)

// resolveDirector maps a director reference from movie input onto a persisted director.
//
//   - name only: find-or-create by name
//   - id only: the director must exist
//   - id and name: the director with that id must have exactly that name
//   - neither: incomplete input
//
// A supplied name that is blank after normalization is rejected outright.
func (s *Service) resolveDirector(ctx context.Context, in DirectorInput) (domain.DirectorRef, error) {
	var name string
	if in.Name != nil {
		name = domain.NormalizeHumanName(*in.Name)
		if name == "" {
			return domain.DirectorRef{}, validationError("directorName", "must be non-empty")
		}
	}

	switch {
	case in.ID == nil && name == "":
		return domain.DirectorRef{}, &Error{
			Status:  400,
			Code:    CodeIncompleteInput,
			Message: "there must be a director ID or name",
			Details: map[string]any{"directorId": "required without directorName", "directorName": "required without directorId"},
		}

	case in.ID == nil:
		d, created, err := s.directors.FindOrCreate(ctx, name)
		if err != nil {
			return domain.DirectorRef{}, err
		}
		logr.FromContextOrDiscard(ctx).V(1).Info("director resolved by name", "directorId", int(d.ID), "created", created)
		return domain.DirectorRef{ID: d.ID, Name: d.Name}, nil
	}

	d, err := s.directors.GetByID(ctx, domain.DirectorID(*in.ID))
	if err != nil {
		if errors.Is(err, directorrepo.ErrNotFound) {
			return domain.DirectorRef{}, directorNotFound()
		}
		return domain.DirectorRef{}, err
	}
	if name != "" && d.Name != name {
		return domain.DirectorRef{}, &Error{
			Status:  400,
			Code:    CodeInconsistentInput,
			Message: fmt.Sprintf("director with this ID has another name: %q, but input has %q", d.Name, name),
			Details: map[string]any{"directorId": *in.ID, "directorName": name},
		}
	}
	return domain.DirectorRef{ID: d.ID, Name: d.Name}, nil
}
