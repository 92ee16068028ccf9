package domain

// Director is the domain representation of a film director.
//
// Movies is the back-reference to the director's films. It is populated on reads
// that load the relationship and left nil otherwise.
type Director struct {
	ID   DirectorID
	Name string

	Movies []Movie
}

// DirectorRef is the lightweight director reference carried by a Movie.
type DirectorRef struct {
	ID   DirectorID
	Name string
}
