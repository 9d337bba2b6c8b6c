package query

import "errors"

var (
	// ErrInvalidFilter indicates malformed filter input, such as an
	// unparsable date or a blank search keyword.
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrRepositoryRequired is returned when a conversation repository is not provided.
	ErrRepositoryRequired = errors.New("conversation repository required")
)
