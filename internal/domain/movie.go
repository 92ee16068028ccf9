package domain

const (
	// MinReleaseYear is the earliest accepted release year (the first public film screening).
	MinReleaseYear = 1895
	// MaxReleaseYear keeps years to four digits, well inside the 32-bit
	// release_year columns.
	MaxReleaseYear = 9999
)

// Movie is the domain representation of a film. Every movie has exactly one director.
type Movie struct {
	ID          MovieID
	Title       string
	ReleaseYear int
	Director    DirectorRef
}

// ValidReleaseYear reports whether y is an acceptable release year.
func ValidReleaseYear(y int) bool {
	return y >= MinReleaseYear && y <= MaxReleaseYear
}
