package movierepo

import "errors"

var (
	// ErrNotFound indicates the requested movie does not exist.
	ErrNotFound = errors.New("movie not found")

	// ErrTitleTaken indicates another movie already uses the title.
	ErrTitleTaken = errors.New("movie title already taken")

	// ErrDirectorNotFound indicates the referenced director does not exist.
	ErrDirectorNotFound = errors.New("movie director not found")
)
