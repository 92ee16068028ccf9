package directors

type CreateDirectorInput struct {
	Name *string
}

// UpdateDirectorInput replaces the name of the director identified by ID.
// Both fields are required; pointers distinguish "absent" from the zero value.
type UpdateDirectorInput struct {
	ID   *int
	Name *string
}
