package domain

// DirectorID is the database-generated identifier of a director row.
type DirectorID int

// MovieID is the database-generated identifier of a movie row.
type MovieID int
