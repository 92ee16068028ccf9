package movies

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

const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeIncompleteInput   = "INCOMPLETE_INPUT"
	CodeInconsistentInput = "INCONSISTENT_INPUT"
	CodeDirectorNotFound  = "DIRECTOR_NOT_FOUND"
	CodeMovieNotFound     = "MOVIE_NOT_FOUND"
	CodeTitleTaken        = "MOVIE_TITLE_TAKEN"
)

func validationError(field, msg string) *Error {
	return &Error{
		Status:  400,
		Code:    CodeValidation,
		Message: "invalid " + field,
		Details: map[string]any{field: msg},
	}
}

func movieNotFound() *Error {
	return &Error{Status: 404, Code: CodeMovieNotFound, Message: "there is no movie with this ID"}
}

func directorNotFound() *Error {
	return &Error{Status: 404, Code: CodeDirectorNotFound, Message: "there is no director with this ID"}
}

func titleTaken(title string) *Error {
	return &Error{
		Status:  409,
		Code:    CodeTitleTaken,
		Message: "another movie already has this title",
		Details: map[string]any{"title": title},
	}
}
