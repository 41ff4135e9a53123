package index_test

import (
	"testing"

	"github.com/poiesic/noema/core"
	"github.com/poiesic/noema/index"
	"github.com/poiesic/noema/index/memdex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) *index.Manager {
	t.Helper()
	m, err := index.NewManager(memdex.New(), memdex.New())
	require.NoError(t, err)
	return m
}

func TestNewManager(t *testing.T) {
	t.Run("valid configuration", func(t *testing.T) {
		m, err := index.NewManager(memdex.New(), memdex.New())
		require.NoError(t, err)
		assert.NotNil(t, m)
	})

	t.Run("nil item index", func(t *testing.T) {
		_, err := index.NewManager(nil, memdex.New())
		assert.Equal(t, index.ErrItemIndexRequired, err)
	})

	t.Run("nil chunk index", func(t *testing.T) {
		_, err := index.NewManager(memdex.New(), nil)
		assert.Equal(t, index.ErrChunkIndexRequired, err)
	})
}

func TestManager_ItemLifecycle(t *testing.T) {
	m := newManager(t)

	item := &core.KnowledgeItem{
		Id:         1,
		Title:      "Go Concurrency Patterns",
		Content:    "Fan-in and fan-out with goroutines",
		SourceType: core.SourceTypeDocument,
		Categories: []string{"programming"},
		Tags:       []string{"golang", "concurrency"},
	}
	require.NoError(t, m.AddItem(item))

	t.Run("search finds the item", func(t *testing.T) {
		hits, err := m.SearchItems("goroutines", 10)
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, "1", hits[0].ID)
		assert.InDelta(t, 1.0, hits[0].Score, 1e-9)
	})

	t.Run("search by tag field", func(t *testing.T) {
		hits, err := m.SearchItems("concurrency", 10)
		require.NoError(t, err)
		require.Len(t, hits, 1)
	})

	t.Run("update replaces the document", func(t *testing.T) {
		item.Content = "Pipelines and cancellation"
		require.NoError(t, m.UpdateItem(item))

		hits, err := m.SearchItems("goroutines", 10)
		require.NoError(t, err)
		assert.Empty(t, hits)

		hits, err = m.SearchItems("pipelines", 10)
		require.NoError(t, err)
		assert.Len(t, hits, 1)
	})

	t.Run("remove drops the document", func(t *testing.T) {
		require.NoError(t, m.RemoveItem(item.Id))
		hits, err := m.SearchItems("pipelines", 10)
		require.NoError(t, err)
		assert.Empty(t, hits)
	})
}

func TestManager_Rebuild(t *testing.T) {
	m := newManager(t)

	require.NoError(t, m.AddItem(&core.KnowledgeItem{Id: 1, Title: "old", Content: "stale entry"}))

	items := []*core.KnowledgeItem{
		{Id: 2, Title: "fresh", Content: "rebuilt entry one"},
		{Id: 3, Title: "newer", Content: "rebuilt entry two"},
	}
	require.NoError(t, m.RebuildItems(items))

	hits, err := m.SearchItems("stale", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = m.SearchItems("rebuilt", 10)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
	assert.Equal(t, 2, m.DocCount())
}

func TestManager_ChunkSubIndex(t *testing.T) {
	m := newManager(t)

	chunks := []*core.Chunk{
		{Id: 11, ItemId: 1, Index: 0, Heading: "Installation", Content: "How to install the binary"},
		{Id: 12, ItemId: 1, Index: 1, Heading: "Configuration", Content: "Flags and environment variables"},
		{Id: 21, ItemId: 2, Index: 0, Heading: "Overview", Content: "General introduction"},
	}
	require.NoError(t, m.AddChunks(chunks))

	t.Run("search chunks", func(t *testing.T) {
		hits, err := m.SearchChunks("install", 10)
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, "11", hits[0].ID)
	})

	t.Run("remove chunks for one item leaves the rest", func(t *testing.T) {
		require.NoError(t, m.RemoveChunksForItem(1))

		hits, err := m.SearchChunks("install", 10)
		require.NoError(t, err)
		assert.Empty(t, hits)

		hits, err = m.SearchChunks("introduction", 10)
		require.NoError(t, err)
		assert.Len(t, hits, 1)
	})
}

func TestManager_SearchEmptyQuery(t *testing.T) {
	m := newManager(t)
	hits, err := m.SearchItems("", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}
