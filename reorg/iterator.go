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

	"github.com/poiesic/noema/core"
	"github.com/poiesic/noema/storage"
)

const (
	// DefaultBatchSize is the default number of items to process in each batch
	DefaultBatchSize = 100
)

// ItemIterator walks every stored knowledge item in batches.
type ItemIterator struct {
	items     storage.ItemRepository
	batchSize int
}

// NewItemIterator creates a new item iterator.
// batchSize: number of items in each batch (must be > 0)
func NewItemIterator(items storage.ItemRepository, batchSize int) *ItemIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &ItemIterator{
		items:     items,
		batchSize: batchSize,
	}
}

// ForEach iterates over all knowledge items, calling fn for each batch.
// Iteration stops on the first error from fn or when all items have been
// visited. Context cancellation is checked between batches.
func (it *ItemIterator) ForEach(ctx context.Context, fn func([]*core.KnowledgeItem) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	all, err := it.items.GetAllItems(ctx)
	if err != nil {
		return err
	}

	for start := 0; start < len(all); start += it.batchSize {
		end := start + it.batchSize
		if end > len(all) {
			end = len(all)
		}

		if err := fn(all[start:end]); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	return nil
}
