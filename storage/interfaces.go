package storage

import (
	"context"

	"github.com/poiesic/noema/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// ItemRepository provides operations for managing knowledge items.
// It is the sole source of truth used to rebuild the semantic model,
// the keyword index and the knowledge graph.
type ItemRepository interface {
	Repository

	// SaveItems adds or updates one or more knowledge items.
	// For items with ID=0, generates new IDs from sequence and sets CreatedAt.
	// Updates the UpdatedAt timestamp automatically.
	// Returns the items with generated IDs and timestamps populated.
	SaveItems(ctx context.Context, items ...*core.KnowledgeItem) ([]*core.KnowledgeItem, error)

	// GetItem retrieves a single knowledge item by ID.
	// Returns ErrNotFound if the item doesn't exist.
	GetItem(ctx context.Context, id core.ID) (*core.KnowledgeItem, error)

	// GetItems retrieves multiple knowledge items by their IDs.
	// Returns only the items that exist (no error for missing items).
	GetItems(ctx context.Context, ids ...core.ID) ([]*core.KnowledgeItem, error)

	// GetAllItems retrieves every stored knowledge item.
	// Used for index rebuilds, semantic re-fits and relationship scans.
	GetAllItems(ctx context.Context) ([]*core.KnowledgeItem, error)

	// DeleteItems removes knowledge items by their IDs.
	// Returns ErrNotFound if any item doesn't exist.
	// Persisted relationships referencing deleted items are NOT pruned.
	DeleteItems(ctx context.Context, ids ...core.ID) error
}

// CategoryRepository provides operations for managing categories.
type CategoryRepository interface {
	Repository

	// SaveCategories adds or updates one or more categories.
	// Uses content-based IDs (IDFromContent of the lowercased name).
	SaveCategories(ctx context.Context, categories ...*core.Category) ([]*core.Category, error)

	// GetCategory retrieves a single category by ID.
	// Returns ErrNotFound if the category doesn't exist.
	GetCategory(ctx context.Context, id core.ID) (*core.Category, error)

	// GetAllCategories retrieves every stored category.
	GetAllCategories(ctx context.Context) ([]*core.Category, error)
}

// TagRepository provides operations for managing tags.
type TagRepository interface {
	Repository

	// SaveTags adds or updates one or more tags.
	// Uses content-based IDs (IDFromContent of the lowercased name),
	// which makes tag names unique case-insensitively.
	SaveTags(ctx context.Context, tags ...*core.Tag) ([]*core.Tag, error)

	// GetTag retrieves a single tag by ID.
	// Returns ErrNotFound if the tag doesn't exist.
	GetTag(ctx context.Context, id core.ID) (*core.Tag, error)

	// GetAllTags retrieves every stored tag.
	// Used to warm the tag generator's name cache on startup.
	GetAllTags(ctx context.Context) ([]*core.Tag, error)
}

// RelationshipRepository provides operations for managing relationships.
type RelationshipRepository interface {
	Repository

	// SaveRelationships adds or updates one or more relationships.
	// Each relationship must pass core.ValidateRelationship.
	SaveRelationships(ctx context.Context, relationships ...*core.Relationship) ([]*core.Relationship, error)

	// GetRelationshipsForItem retrieves the relationships whose source is the given item.
	GetRelationshipsForItem(ctx context.Context, itemID core.ID) ([]*core.Relationship, error)

	// GetAllRelationships retrieves every stored relationship.
	// Used to replay the in-memory knowledge graph on startup.
	GetAllRelationships(ctx context.Context) ([]*core.Relationship, error)
}
