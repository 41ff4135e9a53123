package core

import (
	"encoding/binary"
	"strconv"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// SourceType identifies where a knowledge item was extracted from.
type SourceType string

const (
	SourceTypeDocument SourceType = "document"
	SourceTypePDF      SourceType = "pdf"
	SourceTypeCode     SourceType = "code"
	SourceTypeWeb      SourceType = "web"
	SourceTypeNote     SourceType = "note"
)

// KnowledgeItem is the atomic unit of stored content, metadata, categories and tags.
type KnowledgeItem struct {
	Id         ID
	Title      string
	Content    string
	SourceType SourceType
	SourcePath string
	Categories []string          // Category names assigned by classification
	Tags       []string          // Tag names assigned by tag generation
	Metadata   map[string]string // Optional metadata (e.g., "author", "language")
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Vector     []float32 // Optional embedding vector (populated by processors)
}

// Category is a classification bucket with a confidence score for one assignment.
type Category struct {
	Id          ID
	Name        string
	Description string
	ParentId    ID      // 0 when the category has no parent
	Confidence  float64 // Confidence of the assignment, in [0, 1]
	InsertedAt  time.Time
	UpdatedAt   time.Time
}

// Tag is a lightweight label attached to knowledge items.
// Names are unique case-insensitively within the tag cache.
type Tag struct {
	Id         ID
	Name       string
	Color      string
	UsageCount int
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// RelationshipType classifies a directed edge between two knowledge items.
type RelationshipType int

const (
	RelationshipSimilar RelationshipType = iota + 1
	RelationshipRelated
	RelationshipReferences
	RelationshipDerivedFrom
	RelationshipContradicts
	RelationshipSupports
	RelationshipCustom
)

var relationshipTypeNames = map[RelationshipType]string{
	RelationshipSimilar:     "similar",
	RelationshipRelated:     "related",
	RelationshipReferences:  "references",
	RelationshipDerivedFrom: "derived_from",
	RelationshipContradicts: "contradicts",
	RelationshipSupports:    "supports",
	RelationshipCustom:      "custom",
}

func (t RelationshipType) String() string {
	if name, ok := relationshipTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Bidirectional reports whether the relationship type is symmetric.
// Symmetric types also add the reverse edge to the knowledge graph.
func (t RelationshipType) Bidirectional() bool {
	return t == RelationshipSimilar || t == RelationshipRelated || t == RelationshipContradicts
}

// Relationship is a directed, typed, weighted edge between two knowledge items.
type Relationship struct {
	Id          ID
	SourceId    ID
	TargetId    ID
	Type        RelationshipType
	Strength    float64 // Edge weight, in [0, 1]
	Description string
	InsertedAt  time.Time
}

// Key returns a string representation of the edge as "(source,target,type)".
// This is used for generating deterministic relationship IDs.
func (r *Relationship) Key() string {
	return "(" + strconv.FormatUint(uint64(r.SourceId), 10) + "," +
		strconv.FormatUint(uint64(r.TargetId), 10) + "," + r.Type.String() + ")"
}

// Chunk is a sub-document passage (heading + content) indexed and
// searched independently of its parent item.
type Chunk struct {
	Id      ID
	ItemId  ID
	Index   int
	Heading string
	Content string
}

// SearchResult is one ranked hit with the full item and relevance score.
type SearchResult struct {
	Item          *KnowledgeItem
	Relevance     float64 // Bounded to [0, 1]
	MatchedFields []string
	ChunkMatches  []*ChunkMatch
}

// ChunkMatch is a chunk-level hit attached to a SearchResult.
type ChunkMatch struct {
	Chunk     *Chunk
	Relevance float64
}

// SearchResults is the response envelope for one query.
type SearchResults struct {
	Query          string
	Results        []*SearchResult
	TotalFound     int
	SearchTime     time.Duration
	GroupedResults map[string][]*SearchResult // Populated when grouping is requested
}

// SortOrder selects how search results are ordered.
type SortOrder string

const (
	SortByRelevance SortOrder = "relevance"
	SortByDate      SortOrder = "date"
	SortByTitle     SortOrder = "title"
)

// SearchOptions controls filtering, sorting and grouping of search results.
type SearchOptions struct {
	MaxResults        int
	MinRelevance      float64
	IncludeCategories []string
	ExcludeCategories []string
	IncludeTags       []string
	ExcludeTags       []string
	SourceTypes       []SourceType
	SortBy            SortOrder
	GroupByCategory   bool
}

// DefaultSearchOptions returns options with the standard limits applied.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		MaxResults: 10,
		SortBy:     SortByRelevance,
	}
}
