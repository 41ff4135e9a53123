package reorg

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/noema/core"
	"github.com/poiesic/noema/organize"
	"github.com/poiesic/noema/search"
	"github.com/poiesic/noema/storage"
)

// BatchProcessor re-runs organization for batches of knowledge items.
type BatchProcessor struct {
	items          storage.ItemRepository
	organizer      *organize.Organizer
	engine         *search.Engine
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// engine may be nil, in which case items are not re-indexed.
// maxRetries: maximum number of retry attempts for storage operations
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(items storage.ItemRepository, organizer *organize.Organizer, engine *search.Engine, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		items:          items,
		organizer:      organizer,
		engine:         engine,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process re-classifies and re-tags a batch of items, persists the updated
// items, refreshes their relationships in the knowledge graph, and re-indexes
// them when a search engine is configured. It returns the number of
// relationships discovered for the batch.
func (bp *BatchProcessor) Process(ctx context.Context, batch []*core.KnowledgeItem) (int, error) {
	if len(batch) == 0 {
		return 0, nil
	}

	for _, item := range batch {
		if err := bp.organizer.OrganizeItem(ctx, item); err != nil {
			return 0, fmt.Errorf("failed to organize item %d: %w", item.Id, err)
		}
	}

	err := RetryWithBackoff(ctx, func() error {
		_, err := bp.items.SaveItems(ctx, batch...)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)
	if err != nil {
		return 0, fmt.Errorf("failed to save batch after %d attempts: %w", bp.maxRetries, err)
	}

	discovered := 0
	for _, item := range batch {
		relationships, err := bp.organizer.FindRelationships(ctx, item)
		if err != nil {
			return discovered, fmt.Errorf("failed to find relationships for item %d: %w", item.Id, err)
		}
		if len(relationships) == 0 {
			continue
		}

		err = RetryWithBackoff(ctx, func() error {
			return bp.organizer.UpdateKnowledgeGraph(ctx, relationships...)
		}, bp.maxRetries, bp.retryBaseDelay)
		if err != nil {
			return discovered, fmt.Errorf("failed to update knowledge graph after %d attempts: %w", bp.maxRetries, err)
		}

		discovered += len(relationships)
	}

	if bp.engine != nil {
		for _, item := range batch {
			if err := bp.engine.UpdateIndex(item); err != nil {
				return discovered, fmt.Errorf("failed to reindex item %d: %w", item.Id, err)
			}
		}
	}

	return discovered, nil
}
