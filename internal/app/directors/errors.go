package directors

// Error is an application-layer error that can be mapped to an HTTP response.
type Error struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

func notFound() *Error {
	return &Error{Status: 404, Code: "DIRECTOR_NOT_FOUND", Message: "there is no director with this ID"}
}

func nameTaken(name string) *Error {
	return &Error{
		Status:  409,
		Code:    "DIRECTOR_NAME_TAKEN",
		Message: "another director already has this name",
		Details: map[string]any{"name": name},
	}
}
