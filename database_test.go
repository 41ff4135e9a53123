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


package noema

import (
	"context"
	"testing"

	"github.com/poiesic/noema/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase("", WithInMemory())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDatabaseRoundTrip(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	saved, err := db.ItemRepository().SaveItems(ctx,
		&core.KnowledgeItem{
			Title:      "Python Tutorial",
			Content:    "Learn python programming code with functions and a debugger",
			SourceType: core.SourceTypeDocument,
		},
		&core.KnowledgeItem{
			Title:      "Pasta Recipes",
			Content:    "Classic italian pasta dishes and cooking techniques",
			SourceType: core.SourceTypeNote,
		},
	)
	require.NoError(t, err)
	require.NoError(t, db.Rebuild(ctx))

	results, err := db.SearchEngine().Search(ctx, "python", core.DefaultSearchOptions())
	require.NoError(t, err)
	require.NotEmpty(t, results.Results)
	assert.Equal(t, saved[0].Id, results.Results[0].Item.Id)
}

func TestDatabaseRebuildReplaysOrganizerState(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)

	saved, err := db.ItemRepository().SaveItems(ctx,
		&core.KnowledgeItem{Title: "One", Content: "first note", SourceType: core.SourceTypeNote},
		&core.KnowledgeItem{Title: "Two", Content: "second note", SourceType: core.SourceTypeNote},
	)
	require.NoError(t, err)

	rel, err := core.NewRelationship(saved[0].Id, saved[1].Id, core.RelationshipRelated, 0.5, "linked")
	require.NoError(t, err)
	_, err = db.RelationshipRepository().SaveRelationships(ctx, rel)
	require.NoError(t, err)

	// Graph starts empty until the store is replayed
	related, err := db.Organizer().RelatedItems(ctx, saved[0].Id, 1)
	require.NoError(t, err)
	assert.Empty(t, related)

	require.NoError(t, db.Rebuild(ctx))
	related, err = db.Organizer().RelatedItems(ctx, saved[0].Id, 1)
	require.NoError(t, err)
	require.Len(t, related, 1)
	assert.Equal(t, saved[1].Id, related[0].Id)
}

func TestDatabaseDeleteItemsRemovesFromSearch(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	saved, err := db.ItemRepository().SaveItems(ctx, &core.KnowledgeItem{
		Title:      "Terraform Notes",
		Content:    "Provisioning infrastructure with terraform modules",
		SourceType: core.SourceTypeNote,
	})
	require.NoError(t, err)
	require.NoError(t, db.Rebuild(ctx))

	require.NoError(t, db.DeleteItems(ctx, saved[0].Id))

	results, err := db.SearchEngine().Search(ctx, "terraform", core.DefaultSearchOptions())
	require.NoError(t, err)
	assert.Empty(t, results.Results)

	_, err = db.ItemRepository().GetItem(ctx, saved[0].Id)
	assert.Error(t, err)
}

func TestDatabaseIngestPipeline(t *testing.T) {
	db := newTestDatabase(t)

	pipeline, err := db.NewIngestPipeline()
	require.NoError(t, err)
	defer pipeline.Release()

	added, err := pipeline.Ingest(context.Background(), core.SourceTypeDocument,
		[]*core.KnowledgeItem{{Title: "Note", Content: "some ingested content"}}, nil)
	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.NotZero(t, added[0].Id)
}
