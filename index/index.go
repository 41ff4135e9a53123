package index

import "errors"

// Item schema fields. Title carries a score boost relative to content.
const (
	FieldID         = "id"
	FieldTitle      = "title"
	FieldContent    = "content"
	FieldSourceType = "source_type"
	FieldSourcePath = "source_path"
	FieldCategories = "categories"
	FieldTags       = "tags"
	FieldCreatedAt  = "created_at"
	FieldUpdatedAt  = "updated_at"
)

// Chunk schema fields for the parallel chunk sub-index.
const (
	ChunkFieldID      = "chunk_id"
	ChunkFieldItemID  = "item_id"
	ChunkFieldIndex   = "chunk_index"
	ChunkFieldHeading = "heading"
	ChunkFieldContent = "content"
)

// ItemQueryFields are the fields wildcard queries target for items.
var ItemQueryFields = []string{FieldTitle, FieldContent, FieldCategories, FieldTags, FieldSourcePath}

// ChunkQueryFields are the fields wildcard queries target for chunks.
var ChunkQueryFields = []string{ChunkFieldHeading, ChunkFieldContent}

// Document is one indexable record: an ID plus stored string fields.
type Document struct {
	ID     string
	Fields map[string]string
}

// Hit is one ranked search result returned by an Index.
// Score is library-defined and unbounded; callers normalize it.
type Hit struct {
	ID            string
	Score         float64
	Fields        map[string]string
	MatchedFields []string
}

// ErrQueryParse indicates the query string could not be parsed.
// Callers fall back to searching the raw query text.
var ErrQueryParse = errors.New("query parse failed")

// Index is the documented contract of the full-text index collaborator.
//
// Mutations are staged and take effect only on Commit; Cancel discards
// staged work. The index guarantees at most one writer per commit; callers
// must serialize mutations.
//
// The query language: whitespace-separated terms combined with OR.
// A term wrapped in asterisks (*term*) matches any indexed term containing
// it as a substring. A term wrapped in double quotes matches exactly.
// Unbalanced quotes are a parse error.
type Index interface {
	// Add stages a document for indexing. Adding an existing ID replaces
	// the previous document on commit.
	Add(doc Document) error

	// Delete stages removal of a document by ID.
	// Deleting an unknown ID is not an error.
	Delete(id string) error

	// Commit applies all staged mutations atomically.
	Commit() error

	// Cancel discards all staged mutations.
	Cancel()

	// Search runs a query over the given fields, returning up to limit hits
	// ranked by descending score. Returns ErrQueryParse for malformed queries.
	Search(query string, fields []string, limit int) ([]Hit, error)

	// Terms returns all indexed terms in sorted order.
	// Used for suggestion prefix scans.
	Terms() []string

	// DocCount returns the number of committed documents.
	DocCount() int

	// Reset discards the index contents and recreates it empty.
	Reset() error
}
