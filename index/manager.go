package index

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/noema/core"
)

// Manager is the facade over the full-text index collaborator.
// It maintains two independent indexes with the same contract: one over
// whole knowledge items and one over their chunks.
type Manager struct {
	items  Index
	chunks Index
	logger *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// NewManager creates a new index manager over the given item and chunk indexes.
func NewManager(items, chunks Index, opts ...Option) (*Manager, error) {
	if items == nil {
		return nil, ErrItemIndexRequired
	}
	if chunks == nil {
		return nil, ErrChunkIndexRequired
	}

	m := &Manager{
		items:  items,
		chunks: chunks,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// BuildWildcardQuery synthesizes a wildcard OR-query (*term* per term)
// from the extracted query terms.
func BuildWildcardQuery(terms []string) string {
	parts := make([]string, 0, len(terms))
	for _, term := range terms {
		// Multi-word terms (the raw query) cannot be a single wildcard
		for _, word := range strings.Fields(term) {
			parts = append(parts, "*"+word+"*")
		}
	}
	return strings.Join(dedupe(parts), " ")
}

func dedupe(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	out := terms[:0]
	for _, t := range terms {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// AddItem indexes a knowledge item. The staged write is committed, or
// cancelled if any step fails.
func (m *Manager) AddItem(item *core.KnowledgeItem) error {
	if err := m.items.Add(itemDocument(item)); err != nil {
		m.items.Cancel()
		return err
	}
	return m.items.Commit()
}

// UpdateItem replaces the indexed document for an item.
func (m *Manager) UpdateItem(item *core.KnowledgeItem) error {
	id := strconv.FormatUint(uint64(item.Id), 10)
	if err := m.items.Delete(id); err != nil {
		m.items.Cancel()
		return err
	}
	if err := m.items.Add(itemDocument(item)); err != nil {
		m.items.Cancel()
		return err
	}
	return m.items.Commit()
}

// RemoveItem removes an item from the index by ID.
func (m *Manager) RemoveItem(id core.ID) error {
	if err := m.items.Delete(strconv.FormatUint(uint64(id), 10)); err != nil {
		m.items.Cancel()
		return err
	}
	return m.items.Commit()
}

// RebuildItems discards the item index and re-indexes the given items.
func (m *Manager) RebuildItems(items []*core.KnowledgeItem) error {
	if err := m.items.Reset(); err != nil {
		return err
	}
	for _, item := range items {
		if err := m.items.Add(itemDocument(item)); err != nil {
			m.items.Cancel()
			return err
		}
	}
	return m.items.Commit()
}

// SearchItems extracts query terms, synthesizes a wildcard query and runs it
// over the item query fields. If the wildcard query fails to parse, the raw
// query string is searched instead. Hit scores are normalized to [0, 1].
func (m *Manager) SearchItems(query string, limit int) ([]Hit, error) {
	return m.search(m.items, ItemQueryFields, query, limit)
}

// SearchChunks mirrors SearchItems over the chunk sub-index.
func (m *Manager) SearchChunks(query string, limit int) ([]Hit, error) {
	return m.search(m.chunks, ChunkQueryFields, query, limit)
}

func (m *Manager) search(idx Index, fields []string, query string, limit int) ([]Hit, error) {
	terms := ExtractQueryTerms(query)
	if len(terms) == 0 {
		return nil, nil
	}

	hits, err := idx.Search(BuildWildcardQuery(terms), fields, limit)
	if err != nil {
		if err != ErrQueryParse {
			return nil, err
		}
		m.logger.Debug("wildcard query failed to parse, falling back to raw query", "query", query)
		hits, err = idx.Search(query, fields, limit)
		if err != nil {
			return nil, err
		}
	}

	normalizeScores(hits)
	return hits, nil
}

// normalizeScores maps library-defined scores onto [0, 1] by dividing by the
// best score in the list.
func normalizeScores(hits []Hit) {
	var max float64
	for _, h := range hits {
		if h.Score > max {
			max = h.Score
		}
	}
	if max <= 0 {
		return
	}
	for i := range hits {
		hits[i].Score /= max
	}
}

// AddChunks indexes the chunks of one item in a single commit.
func (m *Manager) AddChunks(chunks []*core.Chunk) error {
	for _, chunk := range chunks {
		if err := m.chunks.Add(chunkDocument(chunk)); err != nil {
			m.chunks.Cancel()
			return err
		}
	}
	return m.chunks.Commit()
}

// UpdateChunksForItem removes an item's chunks and indexes the replacements.
func (m *Manager) UpdateChunksForItem(itemID core.ID, chunks []*core.Chunk) error {
	ids, err := m.chunkIDsForItem(itemID)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := m.chunks.Delete(id); err != nil {
			m.chunks.Cancel()
			return err
		}
	}
	for _, chunk := range chunks {
		if err := m.chunks.Add(chunkDocument(chunk)); err != nil {
			m.chunks.Cancel()
			return err
		}
	}
	return m.chunks.Commit()
}

// RemoveChunksForItem removes every chunk belonging to an item.
func (m *Manager) RemoveChunksForItem(itemID core.ID) error {
	ids, err := m.chunkIDsForItem(itemID)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	for _, id := range ids {
		if err := m.chunks.Delete(id); err != nil {
			m.chunks.Cancel()
			return err
		}
	}
	return m.chunks.Commit()
}

// RebuildChunks discards the chunk index and re-indexes the given chunks.
func (m *Manager) RebuildChunks(chunks []*core.Chunk) error {
	if err := m.chunks.Reset(); err != nil {
		return err
	}
	for _, chunk := range chunks {
		if err := m.chunks.Add(chunkDocument(chunk)); err != nil {
			m.chunks.Cancel()
			return err
		}
	}
	return m.chunks.Commit()
}

// chunkIDsForItem finds chunk document IDs via an exact query on the
// item_id field, staying within the index's documented contract.
func (m *Manager) chunkIDsForItem(itemID core.ID) ([]string, error) {
	query := "\"" + strconv.FormatUint(uint64(itemID), 10) + "\""
	hits, err := m.chunks.Search(query, []string{ChunkFieldItemID}, m.chunks.DocCount()+1)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(hits))
	for _, hit := range hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

// Terms exposes the item index's stored terms for suggestions.
func (m *Manager) Terms() []string {
	return m.items.Terms()
}

// DocCount returns the number of indexed items.
func (m *Manager) DocCount() int {
	return m.items.DocCount()
}

// itemDocument maps a knowledge item onto the index schema.
func itemDocument(item *core.KnowledgeItem) Document {
	return Document{
		ID: strconv.FormatUint(uint64(item.Id), 10),
		Fields: map[string]string{
			FieldID:         strconv.FormatUint(uint64(item.Id), 10),
			FieldTitle:      item.Title,
			FieldContent:    item.Content,
			FieldSourceType: string(item.SourceType),
			FieldSourcePath: item.SourcePath,
			FieldCategories: strings.Join(item.Categories, " "),
			FieldTags:       strings.Join(item.Tags, " "),
			FieldCreatedAt:  item.CreatedAt.UTC().Format(time.RFC3339),
			FieldUpdatedAt:  item.UpdatedAt.UTC().Format(time.RFC3339),
		},
	}
}

// chunkDocument maps a chunk onto the chunk schema.
func chunkDocument(chunk *core.Chunk) Document {
	return Document{
		ID: strconv.FormatUint(uint64(chunk.Id), 10),
		Fields: map[string]string{
			ChunkFieldID:      strconv.FormatUint(uint64(chunk.Id), 10),
			ChunkFieldItemID:  strconv.FormatUint(uint64(chunk.ItemId), 10),
			ChunkFieldIndex:   strconv.Itoa(chunk.Index),
			ChunkFieldHeading: chunk.Heading,
			ChunkFieldContent: chunk.Content,
		},
	}
}
