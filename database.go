// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package noema

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/noema/core"
	"github.com/poiesic/noema/index"
	"github.com/poiesic/noema/index/memdex"
	"github.com/poiesic/noema/ingest"
	"github.com/poiesic/noema/organize"
	"github.com/poiesic/noema/search"
	"github.com/poiesic/noema/semantic"
	"github.com/poiesic/noema/storage"
	"github.com/poiesic/noema/storage/badger"
)

// Database is the assembled knowledge base: durable storage plus the
// in-memory retrieval and organization state layered over it. The in-memory
// side (keyword index, semantic model, knowledge graph, tag cache) starts
// empty; call Rebuild after opening an existing store.
type Database struct {
	backend      *badger.Backend
	itemRepo     storage.ItemRepository
	categoryRepo storage.CategoryRepository
	tagRepo      storage.TagRepository
	relRepo      storage.RelationshipRepository
	indexes      *index.Manager
	semantic     *semantic.Searcher
	organizer    *organize.Organizer
	engine       *search.Engine
	logger       *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	inMemory bool
	logger   *slog.Logger
}

// WithInMemory opens the store without a backing directory. Used by tests
// and throwaway sessions.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// WithDatabaseLogger sets the logger shared by all components.
// Default is slog.Default().
func WithDatabaseLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewDatabase opens (or creates) the knowledge base at filePath and wires
// the retrieval and organization components over it.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	itemRepo, err := badger.NewItemRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	categoryRepo := badger.NewCategoryRepository(backend)
	tagRepo := badger.NewTagRepository(backend)
	relRepo := badger.NewRelationshipRepository(backend)

	indexes, err := index.NewManager(memdex.New(), memdex.New(),
		index.WithLogger(options.logger))
	if err != nil {
		itemRepo.Close()
		backend.Close()
		return nil, err
	}

	semanticSearcher := semantic.NewSearcher(
		semantic.WithSearcherLogger(options.logger))

	organizer, err := organize.NewOrganizer(itemRepo, categoryRepo, tagRepo, relRepo,
		organize.WithOrganizerLogger(options.logger))
	if err != nil {
		itemRepo.Close()
		backend.Close()
		return nil, err
	}

	engine, err := search.NewEngine(itemRepo, indexes, semanticSearcher,
		search.WithLogger(options.logger))
	if err != nil {
		itemRepo.Close()
		backend.Close()
		return nil, err
	}

	return &Database{
		backend:      backend,
		itemRepo:     itemRepo,
		categoryRepo: categoryRepo,
		tagRepo:      tagRepo,
		relRepo:      relRepo,
		indexes:      indexes,
		semantic:     semanticSearcher,
		organizer:    organizer,
		engine:       engine,
		logger:       options.logger,
	}, nil
}

// Close releases the storage backend. In-memory retrieval state is simply
// discarded.
func (db *Database) Close() error {
	if err := db.itemRepo.Close(); err != nil {
		db.logger.Error("error closing item repository", "err", err)
		return err
	}
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Rebuild replays all in-memory state from storage: keyword index, semantic
// model, knowledge graph and tag cache. Call it once after opening an
// existing store, or any time the index and model may have diverged.
func (db *Database) Rebuild(ctx context.Context) error {
	items, err := db.itemRepo.GetAllItems(ctx)
	if err != nil {
		return fmt.Errorf("loading items for rebuild: %w", err)
	}
	if err := db.engine.RebuildIndex(items); err != nil {
		return err
	}
	if err := db.organizer.Rebuild(ctx); err != nil {
		return err
	}
	db.logger.Info("database state rebuilt", "items", len(items))
	return nil
}

// ItemRepository returns the knowledge item store.
func (db *Database) ItemRepository() storage.ItemRepository {
	return db.itemRepo
}

// CategoryRepository returns the category store.
func (db *Database) CategoryRepository() storage.CategoryRepository {
	return db.categoryRepo
}

// TagRepository returns the tag store.
func (db *Database) TagRepository() storage.TagRepository {
	return db.tagRepo
}

// RelationshipRepository returns the relationship store.
func (db *Database) RelationshipRepository() storage.RelationshipRepository {
	return db.relRepo
}

// Organizer returns the classification, tagging and graph component.
func (db *Database) Organizer() *organize.Organizer {
	return db.organizer
}

// SearchEngine returns the hybrid search engine.
func (db *Database) SearchEngine() *search.Engine {
	return db.engine
}

// NewIngestPipeline creates an intake pipeline over this database.
func (db *Database) NewIngestPipeline(opts ...ingest.Option) (*ingest.Pipeline, error) {
	return ingest.NewPipeline(db.itemRepo, db.organizer, db.engine, opts...)
}

// DeleteItems removes items from storage and both retrieval paths.
// Persisted relationships and graph edges referencing the items are left in
// place; graph traversals skip ids that no longer resolve.
func (db *Database) DeleteItems(ctx context.Context, ids ...core.ID) error {
	if err := db.itemRepo.DeleteItems(ctx, ids...); err != nil {
		return err
	}
	for _, id := range ids {
		if err := db.engine.RemoveFromIndex(id); err != nil {
			return err
		}
	}
	return nil
}
