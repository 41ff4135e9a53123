package badger

import (
	"context"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/noema/core"
	"github.com/poiesic/noema/storage"
)

// CategoryRepository implements storage.CategoryRepository for BadgerDB.
type CategoryRepository struct {
	backend *Backend
}

var _ storage.CategoryRepository = (*CategoryRepository)(nil)

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(backend *Backend) *CategoryRepository {
	return &CategoryRepository{backend: backend}
}

// Close is a no-op; the repository holds no resources of its own.
func (r *CategoryRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *CategoryRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// SaveCategories adds or updates one or more categories.
// IDs are derived from the lowercased name, so saving the same name twice
// (in any casing) updates the existing record.
func (r *CategoryRepository) SaveCategories(ctx context.Context, categories ...*core.Category) ([]*core.Category, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, category := range categories {
			if err := core.ValidateCategory(category); err != nil {
				return err
			}

			if category.Id == 0 {
				category.Id = core.IDFromContent(strings.ToLower(category.Name))
			}
			if category.InsertedAt.IsZero() {
				category.InsertedAt = now
			}
			category.UpdatedAt = now

			key := makeCategoryKey(category.Id)
			if err := tx.Set(key, storage.MarshalCategory(category)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return categories, err
}

// GetCategory retrieves a single category by ID.
func (r *CategoryRepository) GetCategory(ctx context.Context, id core.ID) (*core.Category, error) {
	var result *core.Category
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeCategoryKey(id))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			result, unmarshalErr = storage.UnmarshalCategory(val)
			return unmarshalErr
		})
	}, false)
	return result, err
}

// GetAllCategories retrieves every stored category.
func (r *CategoryRepository) GetAllCategories(ctx context.Context) ([]*core.Category, error) {
	var results []*core.Category
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(categoryRecordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var category *core.Category
			err := iter.Item().Value(func(val []byte) error {
				var err error
				category, err = storage.UnmarshalCategory(val)
				return err
			})
			if err != nil {
				return err
			}
			if category != nil {
				results = append(results, category)
			}
		}
		return nil
	}, false)
	return results, err
}
