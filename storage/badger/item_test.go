package badger

import (
	"context"
	"testing"

	"github.com/poiesic/noema/core"
	"github.com/poiesic/noema/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemRepository_SaveAndGet(t *testing.T) {
	itemRepo, _, _, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		itemRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	item := &core.KnowledgeItem{
		Title:      "Go Concurrency",
		Content:    "Goroutines and channels are the primitives of Go concurrency.",
		SourceType: core.SourceTypeDocument,
		SourcePath: "/docs/go-concurrency.md",
		Metadata:   map[string]string{"language": "en"},
	}

	saved, err := itemRepo.SaveItems(ctx, item)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.NotZero(t, saved[0].Id)
	assert.False(t, saved[0].CreatedAt.IsZero())
	assert.False(t, saved[0].UpdatedAt.IsZero())

	got, err := itemRepo.GetItem(ctx, saved[0].Id)
	require.NoError(t, err)
	assert.Equal(t, "Go Concurrency", got.Title)
	assert.Equal(t, core.SourceTypeDocument, got.SourceType)
	assert.Equal(t, map[string]string{"language": "en"}, got.Metadata)
}

func TestItemRepository_SaveRejectsInvalid(t *testing.T) {
	itemRepo, _, _, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		itemRepo.Close()
		backend.Close()
	}()

	_, err = itemRepo.SaveItems(context.Background(), &core.KnowledgeItem{Title: "no content"})
	assert.ErrorIs(t, err, core.ErrEmptyContent)
}

func TestItemRepository_GetMissing(t *testing.T) {
	itemRepo, _, _, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		itemRepo.Close()
		backend.Close()
	}()

	_, err = itemRepo.GetItem(context.Background(), core.ID(99999))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestItemRepository_GetAllItems(t *testing.T) {
	itemRepo, _, _, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		itemRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		_, err := itemRepo.SaveItems(ctx, &core.KnowledgeItem{Title: title, Content: "content of " + title})
		require.NoError(t, err)
	}

	all, err := itemRepo.GetAllItems(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestItemRepository_Delete(t *testing.T) {
	itemRepo, _, _, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		itemRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	saved, err := itemRepo.SaveItems(ctx, &core.KnowledgeItem{Title: "doomed", Content: "to be deleted"})
	require.NoError(t, err)

	require.NoError(t, itemRepo.DeleteItems(ctx, saved[0].Id))

	_, err = itemRepo.GetItem(ctx, saved[0].Id)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// Deleting again reports not found
	assert.ErrorIs(t, itemRepo.DeleteItems(ctx, saved[0].Id), storage.ErrNotFound)
}

func TestItemRepository_UpdatePreservesCreatedAt(t *testing.T) {
	itemRepo, _, _, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		itemRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	saved, err := itemRepo.SaveItems(ctx, &core.KnowledgeItem{Title: "original", Content: "v1"})
	require.NoError(t, err)
	created := saved[0].CreatedAt

	saved[0].Content = "v2"
	_, err = itemRepo.SaveItems(ctx, saved[0])
	require.NoError(t, err)

	got, err := itemRepo.GetItem(ctx, saved[0].Id)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Content)
	assert.Equal(t, created.UnixMicro(), got.CreatedAt.UnixMicro())
}
