package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/noema/core"
	"github.com/poiesic/noema/storage"
)

// RelationshipRepository implements storage.RelationshipRepository for BadgerDB.
type RelationshipRepository struct {
	backend *Backend
}

var _ storage.RelationshipRepository = (*RelationshipRepository)(nil)

// NewRelationshipRepository creates a new RelationshipRepository.
func NewRelationshipRepository(backend *Backend) *RelationshipRepository {
	return &RelationshipRepository{backend: backend}
}

// Close is a no-op; the repository holds no resources of its own.
func (r *RelationshipRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *RelationshipRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// SaveRelationships adds or updates one or more relationships.
// Each relationship is validated; a self edge or out-of-range strength
// aborts the whole batch.
func (r *RelationshipRepository) SaveRelationships(ctx context.Context, relationships ...*core.Relationship) ([]*core.Relationship, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, rel := range relationships {
			if err := core.ValidateRelationship(rel); err != nil {
				return err
			}

			if rel.Id == 0 {
				rel.Id = core.IDFromContent(rel.Key())
			}
			if rel.InsertedAt.IsZero() {
				rel.InsertedAt = now
			}

			key := makeRelationshipKey(rel.Id)
			if err := tx.Set(key, storage.MarshalRelationship(rel)); err != nil {
				return err
			}

			// Source index for per-item lookups
			srcKey := makeRelationshipSourceKey(rel.SourceId, rel.Id)
			if err := tx.Set(srcKey, storage.MarshalID(rel.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return relationships, err
}

// GetRelationshipsForItem retrieves the relationships whose source is the given item.
func (r *RelationshipRepository) GetRelationshipsForItem(ctx context.Context, itemID core.ID) ([]*core.Relationship, error) {
	var results []*core.Relationship
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		startKey := makePartialRelationshipSourceKey(itemID)
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if len(key) < len(startKey) {
				break
			}
			if slices.Compare(key[:len(startKey)], startKey) != 0 {
				break
			}

			var relID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				relID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			rel, err := readRelationship(tx, makeRelationshipKey(relID))
			if err != nil {
				return err
			}
			if rel != nil {
				results = append(results, rel)
			}
		}
		return nil
	}, false)

	return results, err
}

// GetAllRelationships retrieves every stored relationship.
func (r *RelationshipRepository) GetAllRelationships(ctx context.Context) ([]*core.Relationship, error) {
	var results []*core.Relationship
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(relationshipPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var rel *core.Relationship
			err := iter.Item().Value(func(val []byte) error {
				var err error
				rel, err = storage.UnmarshalRelationship(val)
				return err
			})
			if err != nil {
				return err
			}
			if rel != nil {
				results = append(results, rel)
			}
		}
		return nil
	}, false)
	return results, err
}

// readRelationship reads a relationship from the transaction.
func readRelationship(tx *badger.Txn, key []byte) (*core.Relationship, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var rel *core.Relationship
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		rel, unmarshalErr = storage.UnmarshalRelationship(val)
		return unmarshalErr
	})
	return rel, err
}
