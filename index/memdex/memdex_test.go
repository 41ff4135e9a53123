package memdex

import (
	"testing"

	"github.com/poiesic/noema/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addDoc(t *testing.T, m *Memdex, id, title, content string) {
	t.Helper()
	require.NoError(t, m.Add(index.Document{
		ID: id,
		Fields: map[string]string{
			index.FieldTitle:   title,
			index.FieldContent: content,
		},
	}))
}

func TestMemdex_CommitAndSearch(t *testing.T) {
	m := New()
	addDoc(t, m, "1", "Go Concurrency", "Goroutines and channels explained")
	addDoc(t, m, "2", "Rust Ownership", "Borrow checker and lifetimes")

	// Not visible before commit
	hits, err := m.Search("*goroutines*", index.ItemQueryFields, 10)
	require.NoError(t, err)
	assert.Empty(t, hits)

	require.NoError(t, m.Commit())

	hits, err = m.Search("*goroutines*", index.ItemQueryFields, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "1", hits[0].ID)
	assert.Contains(t, hits[0].MatchedFields, index.FieldContent)
}

func TestMemdex_Cancel(t *testing.T) {
	m := New()
	addDoc(t, m, "1", "title", "content words")
	m.Cancel()
	require.NoError(t, m.Commit())
	assert.Equal(t, 0, m.DocCount())
}

func TestMemdex_WildcardSubstring(t *testing.T) {
	m := New()
	addDoc(t, m, "1", "Kubernetes Guide", "Deploying containerized workloads")
	require.NoError(t, m.Commit())

	// Substring of a single indexed term
	hits, err := m.Search("*ontainer*", index.ItemQueryFields, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "1", hits[0].ID)
}

func TestMemdex_TitleBoost(t *testing.T) {
	m := New()
	addDoc(t, m, "title-hit", "docker tips", "nothing else")
	addDoc(t, m, "content-hit", "other topic", "docker mentioned once")
	require.NoError(t, m.Commit())

	hits, err := m.Search("*docker*", index.ItemQueryFields, 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "title-hit", hits[0].ID)
	assert.Greater(t, hits[0].Score, hits[1].Score)
}

func TestMemdex_DeleteAndReplace(t *testing.T) {
	m := New()
	addDoc(t, m, "1", "original title", "original content")
	require.NoError(t, m.Commit())

	t.Run("replace on re-add", func(t *testing.T) {
		addDoc(t, m, "1", "updated title", "updated content")
		require.NoError(t, m.Commit())

		hits, err := m.Search("*original*", index.ItemQueryFields, 10)
		require.NoError(t, err)
		assert.Empty(t, hits)

		hits, err = m.Search("*updated*", index.ItemQueryFields, 10)
		require.NoError(t, err)
		assert.Len(t, hits, 1)
		assert.Equal(t, 1, m.DocCount())
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, m.Delete("1"))
		require.NoError(t, m.Commit())
		assert.Equal(t, 0, m.DocCount())
	})

	t.Run("delete unknown id is not an error", func(t *testing.T) {
		require.NoError(t, m.Delete("ghost"))
		require.NoError(t, m.Commit())
	})
}

func TestMemdex_ExactAndParseErrors(t *testing.T) {
	m := New()
	addDoc(t, m, "1", "exact", "the word golang appears")
	require.NoError(t, m.Commit())

	hits, err := m.Search("\"golang\"", index.ItemQueryFields, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	_, err = m.Search("\"unbalanced", index.ItemQueryFields, 10)
	assert.ErrorIs(t, err, index.ErrQueryParse)
}

func TestMemdex_CJKNGrams(t *testing.T) {
	m := New()
	addDoc(t, m, "1", "日本語のガイド", "東京の案内")
	require.NoError(t, m.Commit())

	// A 2-gram of the indexed CJK run matches exactly
	hits, err := m.Search("\"東京\"", index.ItemQueryFields, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestMemdex_Terms(t *testing.T) {
	m := New()
	addDoc(t, m, "1", "alpha beta", "gamma")
	require.NoError(t, m.Commit())

	terms := m.Terms()
	assert.Contains(t, terms, "alpha")
	assert.Contains(t, terms, "beta")
	assert.Contains(t, terms, "gamma")
	assert.IsIncreasing(t, terms)
}

func TestMemdex_Reset(t *testing.T) {
	m := New()
	addDoc(t, m, "1", "something", "here")
	require.NoError(t, m.Commit())
	require.NoError(t, m.Reset())
	assert.Equal(t, 0, m.DocCount())
	assert.Empty(t, m.Terms())
}
