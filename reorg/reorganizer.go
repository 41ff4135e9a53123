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


package reorg

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/poiesic/noema/core"
	"github.com/poiesic/noema/organize"
	"github.com/poiesic/noema/search"
	"github.com/poiesic/noema/storage"
)

// Config holds configuration for a reorganization run.
type Config struct {
	// BatchSize is the number of items to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of items)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed storage operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reorganizer re-runs classification, tagging and relationship discovery
// over every knowledge item in a database.
type Reorganizer struct {
	items     storage.ItemRepository
	organizer *organize.Organizer
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	iterator  *ItemIterator
}

// NewReorganizer creates a new reorganizer.
// engine may be nil to skip re-indexing.
// progress: where to write progress output (typically os.Stderr)
func NewReorganizer(items storage.ItemRepository, organizer *organize.Organizer, engine *search.Engine, config *Config, progress io.Writer) (*Reorganizer, error) {
	if items == nil {
		return nil, ErrItemRepositoryRequired
	}
	if organizer == nil {
		return nil, ErrOrganizerRequired
	}
	if config == nil {
		config = DefaultConfig()
	}

	return &Reorganizer{
		items:     items,
		organizer: organizer,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(items, organizer, engine, config.MaxRetries, config.RetryDelay),
		iterator:  NewItemIterator(items, config.BatchSize),
	}, nil
}

// Run executes the reorganization. Every item in the database is
// re-classified, re-tagged and its relationships recomputed. Progress is
// reported to the configured writer.
func (r *Reorganizer) Run(ctx context.Context) error {
	all, err := r.items.GetAllItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to query items: %w", err)
	}

	totalItems := len(all)
	if totalItems == 0 {
		fmt.Fprintf(r.progress, "No items found in database (0 items)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reorganization of %d items (batch size: %d)\n",
		totalItems, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, totalItems, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	relationships := 0

	err = r.iterator.ForEach(ctx, func(batch []*core.KnowledgeItem) error {
		discovered, err := r.processor.Process(ctx, batch)
		if err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}

		processed += len(batch)
		relationships += discovered
		tracker.Update(processed)

		return nil
	})
	if err != nil {
		return err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reorganization complete. Processed %d items, %d relationships in %v (%.1f items/sec)\n",
		totalItems, relationships, elapsed.Round(time.Second), float64(totalItems)/elapsed.Seconds())

	return nil
}
