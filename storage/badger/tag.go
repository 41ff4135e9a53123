package badger

import (
	"context"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/noema/core"
	"github.com/poiesic/noema/storage"
)

// TagRepository implements storage.TagRepository for BadgerDB.
type TagRepository struct {
	backend *Backend
}

var _ storage.TagRepository = (*TagRepository)(nil)

// NewTagRepository creates a new TagRepository.
func NewTagRepository(backend *Backend) *TagRepository {
	return &TagRepository{backend: backend}
}

// Close is a no-op; the repository holds no resources of its own.
func (r *TagRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *TagRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// SaveTags adds or updates one or more tags.
// IDs are derived from the lowercased name, which enforces case-insensitive
// name uniqueness at the storage level.
func (r *TagRepository) SaveTags(ctx context.Context, tags ...*core.Tag) ([]*core.Tag, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, tag := range tags {
			if err := core.ValidateTag(tag); err != nil {
				return err
			}

			if tag.Id == 0 {
				tag.Id = core.IDFromContent(strings.ToLower(tag.Name))
			}
			if tag.InsertedAt.IsZero() {
				tag.InsertedAt = now
			}
			tag.UpdatedAt = now

			key := makeTagKey(tag.Id)
			if err := tx.Set(key, storage.MarshalTag(tag)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return tags, err
}

// GetTag retrieves a single tag by ID.
func (r *TagRepository) GetTag(ctx context.Context, id core.ID) (*core.Tag, error) {
	var result *core.Tag
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeTagKey(id))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			result, unmarshalErr = storage.UnmarshalTag(val)
			return unmarshalErr
		})
	}, false)
	return result, err
}

// GetAllTags retrieves every stored tag.
func (r *TagRepository) GetAllTags(ctx context.Context) ([]*core.Tag, error) {
	var results []*core.Tag
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(tagRecordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var tag *core.Tag
			err := iter.Item().Value(func(val []byte) error {
				var err error
				tag, err = storage.UnmarshalTag(val)
				return err
			})
			if err != nil {
				return err
			}
			if tag != nil {
				results = append(results, tag)
			}
		}
		return nil
	}, false)
	return results, err
}
