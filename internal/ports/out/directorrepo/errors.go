package directorrepo

import "errors"

var (
	// ErrNotFound indicates the requested director does not exist.
	ErrNotFound = errors.New("director not found")

	// ErrNameTaken indicates another director already uses the name.
	ErrNameTaken = errors.New("director name already taken")
)
