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

package organize

import (
	"context"
	"testing"

	"github.com/poiesic/noema/core"
	"github.com/poiesic/noema/storage"
	storagebadger "github.com/poiesic/noema/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type organizerFixture struct {
	organizer     *Organizer
	items         storage.ItemRepository
	tags          storage.TagRepository
	relationships storage.RelationshipRepository
}

func newOrganizerFixture(t *testing.T) *organizerFixture {
	t.Helper()

	itemRepo, categoryRepo, tagRepo, relRepo, backend, err := storagebadger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		itemRepo.Close()
		backend.Close()
	})

	organizer, err := NewOrganizer(itemRepo, categoryRepo, tagRepo, relRepo)
	require.NoError(t, err)

	return &organizerFixture{
		organizer:     organizer,
		items:         itemRepo,
		tags:          tagRepo,
		relationships: relRepo,
	}
}

func TestOrganizeItemPersistsCategoriesAndTags(t *testing.T) {
	f := newOrganizerFixture(t)
	ctx := context.Background()

	item := &core.KnowledgeItem{
		Title:   "Python Programming Notes",
		Content: "Writing clean code with functions, a debugger and a framework api.",
	}
	require.NoError(t, f.organizer.OrganizeItem(ctx, item))

	assert.Contains(t, item.Categories, "programming")
	assert.NotEmpty(t, item.Tags)

	stored, err := f.tags.GetAllTags(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, stored)
}

func TestOrganizerRelationshipRoundTrip(t *testing.T) {
	f := newOrganizerFixture(t)
	ctx := context.Background()

	content := "Event sourcing keeps an append-only log of state changes"
	saved, err := f.items.SaveItems(ctx,
		&core.KnowledgeItem{Title: "Event Sourcing", Content: content, SourceType: core.SourceTypeDocument},
		&core.KnowledgeItem{Title: "CQRS Notes", Content: content, SourceType: core.SourceTypeDocument},
	)
	require.NoError(t, err)
	require.Len(t, saved, 2)

	relationships, err := f.organizer.FindRelationships(ctx, saved[0])
	require.NoError(t, err)
	require.Len(t, relationships, 1)
	assert.Equal(t, saved[1].Id, relationships[0].TargetId)

	require.NoError(t, f.organizer.UpdateKnowledgeGraph(ctx, relationships...))

	// Persisted
	stored, err := f.relationships.GetRelationshipsForItem(ctx, saved[0].Id)
	require.NoError(t, err)
	assert.Len(t, stored, 1)

	// Mirrored into the graph, reverse edge included for SIMILAR
	related, err := f.organizer.RelatedItems(ctx, saved[1].Id, 1)
	require.NoError(t, err)
	require.Len(t, related, 1)
	assert.Equal(t, saved[0].Id, related[0].Id)
}

func TestOrganizerRebuildReplaysGraph(t *testing.T) {
	f := newOrganizerFixture(t)
	ctx := context.Background()

	saved, err := f.items.SaveItems(ctx,
		&core.KnowledgeItem{Title: "A", Content: "alpha content", SourceType: core.SourceTypeNote},
		&core.KnowledgeItem{Title: "B", Content: "beta content", SourceType: core.SourceTypeNote},
	)
	require.NoError(t, err)

	rel, err := core.NewRelationship(saved[0].Id, saved[1].Id, core.RelationshipRelated, 0.6, "linked")
	require.NoError(t, err)
	require.NoError(t, f.organizer.UpdateKnowledgeGraph(ctx, rel))

	// A fresh organizer over the same store starts with an empty graph
	fresh, err := NewOrganizer(f.items,
		nil, f.tags, f.relationships)
	require.NoError(t, err)
	empty, err := fresh.RelatedItems(ctx, saved[0].Id, 1)
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, fresh.Rebuild(ctx))
	related, err := fresh.RelatedItems(ctx, saved[0].Id, 1)
	require.NoError(t, err)
	require.Len(t, related, 1)
	assert.Equal(t, saved[1].Id, related[0].Id)
}

func TestOrganizerLearnFromFeedback(t *testing.T) {
	f := newOrganizerFixture(t)
	ctx := context.Background()

	item := &core.KnowledgeItem{
		Title:   "Fermentation Log",
		Content: "koji koji miso miso fermentation fermentation batches",
	}
	require.NoError(t, f.organizer.LearnFromFeedback(ctx, item,
		[]string{"fermentation"}, []string{"koji", "miso"}))

	categories := f.organizer.Classify(item)
	names := categoryNames(categories)
	assert.Contains(t, names, "fermentation")

	stored, err := f.tags.GetAllTags(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestOrganizerClusters(t *testing.T) {
	f := newOrganizerFixture(t)
	ctx := context.Background()

	relA, err := core.NewRelationship(1, 2, core.RelationshipRelated, 0.5, "pair")
	require.NoError(t, err)
	relB, err := core.NewRelationship(7, 8, core.RelationshipRelated, 0.5, "pair")
	require.NoError(t, err)
	require.NoError(t, f.organizer.UpdateKnowledgeGraph(ctx, relA, relB))

	clusters := f.organizer.Clusters(2)
	assert.Len(t, clusters, 2)
}
