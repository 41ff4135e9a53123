package reorg

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrItemRepositoryRequired is returned when no item repository is provided
	ErrItemRepositoryRequired = errors.New("item repository is required")

	// ErrOrganizerRequired is returned when no organizer is provided
	ErrOrganizerRequired = errors.New("organizer is required")
)
