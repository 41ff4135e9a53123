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


package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/noema/core"
	"github.com/poiesic/noema/index"
	"github.com/poiesic/noema/index/memdex"
	"github.com/poiesic/noema/organize"
	"github.com/poiesic/noema/search"
	"github.com/poiesic/noema/semantic"
	"github.com/poiesic/noema/storage"
	storagebadger "github.com/poiesic/noema/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pipelineFixture struct {
	pipeline      *Pipeline
	engine        *search.Engine
	items         storage.ItemRepository
	relationships storage.RelationshipRepository
}

func newPipelineFixture(t *testing.T) *pipelineFixture {
	t.Helper()

	itemRepo, categoryRepo, tagRepo, relRepo, backend, err := storagebadger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		itemRepo.Close()
		backend.Close()
	})

	organizer, err := organize.NewOrganizer(itemRepo, categoryRepo, tagRepo, relRepo)
	require.NoError(t, err)

	manager, err := index.NewManager(memdex.New(), memdex.New())
	require.NoError(t, err)

	engine, err := search.NewEngine(itemRepo, manager, semantic.NewSearcher())
	require.NoError(t, err)

	pipeline, err := NewPipeline(itemRepo, organizer, engine, WithPoolSize(1))
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	return &pipelineFixture{
		pipeline:      pipeline,
		engine:        engine,
		items:         itemRepo,
		relationships: relRepo,
	}
}

func TestPipelineConstructorValidation(t *testing.T) {
	_, err := NewPipeline(nil, nil, nil)
	assert.ErrorIs(t, err, ErrItemRepositoryRequired)
}

func TestPipelineIngestPersistsAndStampsBatch(t *testing.T) {
	f := newPipelineFixture(t)
	ctx := context.Background()

	added, err := f.pipeline.Ingest(ctx, core.SourceTypeDocument, []*core.KnowledgeItem{
		{Title: "Python Basics", Content: "Learning python code and functions with a debugger"},
		{Title: "Go Basics", Content: "Learning golang code and functions with interfaces"},
	}, nil)
	require.NoError(t, err)
	require.Len(t, added, 2)

	batch := added[0].Metadata[batchMetadataKey]
	assert.NotEmpty(t, batch)
	assert.Equal(t, batch, added[1].Metadata[batchMetadataKey])
	for _, item := range added {
		assert.NotZero(t, item.Id)
		assert.Equal(t, core.SourceTypeDocument, item.SourceType)
	}
}

func TestPipelineOrganizesAndIndexesAsynchronously(t *testing.T) {
	f := newPipelineFixture(t)
	ctx := context.Background()

	added, err := f.pipeline.Ingest(ctx, core.SourceTypeNote, []*core.KnowledgeItem{
		{Title: "Deployment Log", Content: "Rolling out python code with a framework and debugging the api"},
		{Title: "Deployment Retro", Content: "Rolling out python code with a framework and debugging the api"},
	}, nil)
	require.NoError(t, err)

	// Organization lands first: the stored items carry category names
	assert.Eventually(t, func() bool {
		stored, err := f.items.GetItem(ctx, added[0].Id)
		if err != nil {
			return false
		}
		return len(stored.Categories) > 0 && len(stored.Tags) > 0
	}, 5*time.Second, 25*time.Millisecond)

	// Near-identical content produces persisted relationships
	assert.Eventually(t, func() bool {
		rels, err := f.relationships.GetRelationshipsForItem(ctx, added[1].Id)
		return err == nil && len(rels) > 0
	}, 5*time.Second, 25*time.Millisecond)

	// Indexing follows: hybrid search finds the ingested items
	assert.Eventually(t, func() bool {
		results, err := f.engine.Search(ctx, "deployment", core.DefaultSearchOptions())
		return err == nil && len(results.Results) == 2
	}, 5*time.Second, 25*time.Millisecond)
}

func TestPipelineIngestOptions(t *testing.T) {
	f := newPipelineFixture(t)
	ctx := context.Background()

	stamp := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	added, err := f.pipeline.Ingest(ctx, core.SourceTypeWeb, []*core.KnowledgeItem{
		{Title: "Imported Page", Content: "archived content from the web"},
	}, &IngestOptions{
		Metadata:  map[string]string{"origin": "crawler"},
		Timestamp: stamp,
	})
	require.NoError(t, err)
	require.Len(t, added, 1)

	assert.Equal(t, "crawler", added[0].Metadata["origin"])
	assert.Equal(t, stamp, added[0].CreatedAt)
}
