package persistence

import "errors"

var (
	// ErrDocumentNotFound is returned when a catalog document does not exist.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrRunNotFound is returned when a validation run does not exist.
	ErrRunNotFound = errors.New("validation run not found")

	// ErrInvalidDocument is returned when an entry cannot be stored.
	ErrInvalidDocument = errors.New("invalid catalog document")
)

// IsDocumentNotFound checks if an error means a missing catalog document.
func IsDocumentNotFound(err error) bool {
	return errors.Is(err, ErrDocumentNotFound)
}
