package movies

// Optional is a tri-state field used to distinguish:
// - unspecified (omitted)
// - specified as null
// - specified with a value
type Optional[T any] struct {
	specified bool
	isNull    bool
	value     T
}

func Unspecified[T any]() Optional[T] { return Optional[T]{} }
func Null[T any]() Optional[T]        { return Optional[T]{specified: true, isNull: true} }
func Some[T any](v T) Optional[T]     { return Optional[T]{specified: true, value: v} }

func (o Optional[T]) IsSpecified() bool { return o.specified }
func (o Optional[T]) IsNull() bool      { return o.specified && o.isNull }
func (o Optional[T]) Value() T          { return o.value }

// DirectorInput references a movie's director by id, by name, or by both.
type DirectorInput struct {
	ID   *int
	Name *string
}

// MovieInput is the full representation used by create and update.
// ID is ignored on create and required on update.
type MovieInput struct {
	ID          *int
	Title       *string
	ReleaseYear *int
	Director    DirectorInput
}

// PatchMovieInput changes only the specified fields of a movie.
// Title and ReleaseYear cannot be null. When either director field is specified the
// director is re-resolved from the specified fields alone.
type PatchMovieInput struct {
	Title        Optional[string]
	ReleaseYear  Optional[int]
	DirectorID   Optional[int]
	DirectorName Optional[string]
}
