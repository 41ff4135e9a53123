package ingest

import "errors"

var (
	// ErrItemRepositoryRequired is returned when an item repository is not provided.
	ErrItemRepositoryRequired = errors.New("item repository required")

	// ErrOrganizerRequired is returned when an organizer is not provided.
	ErrOrganizerRequired = errors.New("organizer required")

	// ErrSearchEngineRequired is returned when a search engine is not provided.
	ErrSearchEngineRequired = errors.New("search engine required")
)
