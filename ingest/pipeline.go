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


package ingest

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/noema/core"
	"github.com/poiesic/noema/organize"
	"github.com/poiesic/noema/search"
	"github.com/poiesic/noema/storage"
)

// batchMetadataKey carries the ingestion batch id on every ingested item.
const batchMetadataKey = "ingest_batch"

// Pipeline orchestrates the intake of knowledge items.
// It manages concurrent organization and index maintenance of new items.
type Pipeline struct {
	itemRepository storage.ItemRepository
	organizer      *organize.Organizer
	engine         *search.Engine
	organizePool   *ants.Pool
	indexPool      *ants.Pool
	logger         *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		// Release old pools
		if p.organizePool != nil {
			p.organizePool.Release()
		}
		if p.indexPool != nil {
			p.indexPool.Release()
		}

		organizePool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		indexPool, err := ants.NewPool(size)
		if err != nil {
			organizePool.Release()
			return err
		}

		p.organizePool = organizePool
		p.indexPool = indexPool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new intake pipeline.
func NewPipeline(
	itemRepository storage.ItemRepository,
	organizer *organize.Organizer,
	engine *search.Engine,
	opts ...Option,
) (*Pipeline, error) {
	if itemRepository == nil {
		return nil, ErrItemRepositoryRequired
	}
	if organizer == nil {
		return nil, ErrOrganizerRequired
	}
	if engine == nil {
		return nil, ErrSearchEngineRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	organizePool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	indexPool, err := ants.NewPool(poolSize)
	if err != nil {
		organizePool.Release()
		return nil, err
	}

	p := &Pipeline{
		itemRepository: itemRepository,
		organizer:      organizer,
		engine:         engine,
		organizePool:   organizePool,
		indexPool:      indexPool,
		logger:         slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// IngestOptions holds optional parameters for ingestion.
type IngestOptions struct {
	Metadata  map[string]string // Optional metadata to attach to items
	Timestamp time.Time         // Optional timestamp (uses current time if zero)
}

// Ingest persists the items and schedules their organization and indexing
// asynchronously. Every item in the batch is stamped with a shared batch id
// in its metadata. Errors during async processing are logged but do not fail
// the ingestion.
//
// Each organized item triggers a full semantic re-fit; ingest large imports
// through multiple batches and finish with a rebuild instead when that cost
// matters.
func (p *Pipeline) Ingest(ctx context.Context, sourceType core.SourceType, items []*core.KnowledgeItem, opts *IngestOptions) ([]*core.KnowledgeItem, error) {
	if opts == nil {
		opts = &IngestOptions{}
	}

	batchID := uuid.NewString()
	for _, item := range items {
		item.SourceType = sourceType
		if !opts.Timestamp.IsZero() {
			item.CreatedAt = opts.Timestamp
		}
		if item.Metadata == nil {
			item.Metadata = make(map[string]string, len(opts.Metadata)+1)
		}
		for key, value := range opts.Metadata {
			item.Metadata[key] = value
		}
		item.Metadata[batchMetadataKey] = batchID
	}

	added, err := p.itemRepository.SaveItems(ctx, items...)
	if err != nil {
		return nil, err
	}
	if len(added) == 0 {
		return added, nil
	}

	p.logger.Debug("ingested batch", "batch", batchID, "items", len(added))

	// Organization mutates the items (category and tag names), so indexing
	// is chained behind it rather than racing it on a sibling pool.
	p.organizePool.Submit(func() {
		p.organize(added)
		p.indexPool.Submit(func() {
			p.index(added)
		})
	})

	return added, nil
}

func (p *Pipeline) organize(items []*core.KnowledgeItem) {
	ctx := context.Background()
	for _, item := range items {
		if err := p.organizer.OrganizeItem(ctx, item); err != nil {
			p.logger.Error("error organizing item", "id", item.Id, "err", err)
			continue
		}
		if _, err := p.itemRepository.SaveItems(ctx, item); err != nil {
			p.logger.Error("error saving organized item", "id", item.Id, "err", err)
			continue
		}

		relationships, err := p.organizer.FindRelationships(ctx, item)
		if err != nil {
			p.logger.Error("error finding relationships", "id", item.Id, "err", err)
			continue
		}
		if err := p.organizer.UpdateKnowledgeGraph(ctx, relationships...); err != nil {
			p.logger.Error("error updating knowledge graph", "id", item.Id, "err", err)
		}
	}
}

func (p *Pipeline) index(items []*core.KnowledgeItem) {
	for _, item := range items {
		if err := p.engine.UpdateIndex(item); err != nil {
			p.logger.Error("error indexing item", "id", item.Id, "err", err)
		}
	}
}

// Release releases resources including worker pools.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.organizePool != nil {
		p.organizePool.Release()
	}
	if p.indexPool != nil {
		p.indexPool.Release()
	}
}
