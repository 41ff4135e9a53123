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
	"fmt"
	"log/slog"

	"github.com/poiesic/noema/core"
	"github.com/poiesic/noema/storage"
)

// Organizer coordinates classification, tagging, relationship discovery and
// the knowledge graph over a persistent store. It owns the mutable
// organization state (classifier keyword sets, tag cache, graph); callers
// must serialize mutating calls.
type Organizer struct {
	classifier    *Classifier
	tagger        *Tagger
	analyzer      *Analyzer
	graph         *Graph
	items         storage.ItemRepository
	categories    storage.CategoryRepository
	tags          storage.TagRepository
	relationships storage.RelationshipRepository
	logger        *slog.Logger
}

// OrganizerOption configures an Organizer.
type OrganizerOption func(*Organizer) error

// WithOrganizerLogger sets a custom logger.
// Default is slog.Default().
func WithOrganizerLogger(logger *slog.Logger) OrganizerOption {
	return func(o *Organizer) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// WithClassifier replaces the default classifier.
func WithClassifier(classifier *Classifier) OrganizerOption {
	return func(o *Organizer) error {
		o.classifier = classifier
		return nil
	}
}

// WithTagger replaces the default tagger.
func WithTagger(tagger *Tagger) OrganizerOption {
	return func(o *Organizer) error {
		o.tagger = tagger
		return nil
	}
}

// WithAnalyzer replaces the default relationship analyzer.
func WithAnalyzer(analyzer *Analyzer) OrganizerOption {
	return func(o *Organizer) error {
		o.analyzer = analyzer
		return nil
	}
}

// NewOrganizer creates an Organizer over the given repositories.
func NewOrganizer(
	items storage.ItemRepository,
	categories storage.CategoryRepository,
	tags storage.TagRepository,
	relationships storage.RelationshipRepository,
	opts ...OrganizerOption,
) (*Organizer, error) {
	o := &Organizer{
		classifier:    NewClassifier(),
		tagger:        NewTagger(),
		analyzer:      NewAnalyzer(),
		graph:         NewGraph(),
		items:         items,
		categories:    categories,
		tags:          tags,
		relationships: relationships,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// Classify returns the item's categories without persisting anything.
func (o *Organizer) Classify(item *core.KnowledgeItem) []*core.Category {
	return o.classifier.Classify(item)
}

// GenerateTags returns the item's tags without persisting anything. The
// item's categories are resolved by classification first.
func (o *Organizer) GenerateTags(item *core.KnowledgeItem) []*core.Tag {
	return o.tagger.GenerateTags(item, o.classifier.Classify(item))
}

// OrganizeItem classifies and tags the item, persists the resulting
// categories and tags, and stamps the item's Categories and Tags name lists.
func (o *Organizer) OrganizeItem(ctx context.Context, item *core.KnowledgeItem) error {
	categories := o.classifier.Classify(item)
	tags := o.tagger.GenerateTags(item, categories)

	if _, err := o.categories.SaveCategories(ctx, categories...); err != nil {
		return fmt.Errorf("saving categories: %w", err)
	}
	if len(tags) > 0 {
		if _, err := o.tags.SaveTags(ctx, tags...); err != nil {
			return fmt.Errorf("saving tags: %w", err)
		}
	}

	item.Categories = make([]string, len(categories))
	for i, category := range categories {
		item.Categories[i] = category.Name
	}
	item.Tags = make([]string, len(tags))
	for i, tag := range tags {
		item.Tags[i] = tag.Name
	}

	o.logger.Debug("organized item", "id", item.Id,
		"categories", len(categories), "tags", len(tags))
	return nil
}

// FindRelationships scans the whole store for items related to the given
// one. Nothing is persisted; pass the result to UpdateKnowledgeGraph to make
// it durable.
func (o *Organizer) FindRelationships(ctx context.Context, item *core.KnowledgeItem) ([]*core.Relationship, error) {
	others, err := o.items.GetAllItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading items for relationship scan: %w", err)
	}
	return o.analyzer.FindRelationships(item, others)
}

// UpdateKnowledgeGraph persists the relationships and mirrors them into the
// in-memory graph, adding reverse edges for bidirectional types.
func (o *Organizer) UpdateKnowledgeGraph(ctx context.Context, relationships ...*core.Relationship) error {
	if len(relationships) == 0 {
		return nil
	}
	if _, err := o.relationships.SaveRelationships(ctx, relationships...); err != nil {
		return fmt.Errorf("saving relationships: %w", err)
	}
	for _, rel := range relationships {
		o.graph.AddRelationship(rel)
	}
	return nil
}

// LearnFromFeedback applies user corrections: the classifier's keyword sets
// grow toward the corrected categories, and the corrected tags are resolved
// and persisted.
func (o *Organizer) LearnFromFeedback(ctx context.Context, item *core.KnowledgeItem, categoryNames, tagNames []string) error {
	o.classifier.LearnFromFeedback(item, categoryNames)

	if len(tagNames) == 0 {
		return nil
	}
	tags := make([]*core.Tag, len(tagNames))
	for i, name := range tagNames {
		tags[i] = o.tagger.Resolve(name)
	}
	if _, err := o.tags.SaveTags(ctx, tags...); err != nil {
		return fmt.Errorf("saving feedback tags: %w", err)
	}
	return nil
}

// RelatedItems resolves the graph neighborhood of an item within maxDepth
// hops back into stored items. Ids whose items have since been deleted are
// skipped silently.
func (o *Organizer) RelatedItems(ctx context.Context, id core.ID, maxDepth int) ([]*core.KnowledgeItem, error) {
	ids := o.graph.RelatedItems(id, maxDepth)
	if len(ids) == 0 {
		return []*core.KnowledgeItem{}, nil
	}
	items, err := o.items.GetItems(ctx, ids...)
	if err != nil {
		return nil, fmt.Errorf("resolving related items: %w", err)
	}
	return items, nil
}

// Clusters returns the graph's connected components of at least minSize.
func (o *Organizer) Clusters(minSize int) [][]core.ID {
	return o.graph.Clusters(minSize)
}

// MergeSimilarTags proposes renames of near-duplicate tags. See
// Tagger.MergeSimilarTags.
func (o *Organizer) MergeSimilarTags(threshold float64) map[string]string {
	return o.tagger.MergeSimilarTags(threshold)
}

// Rebuild replays the in-memory state from storage: the knowledge graph
// from persisted relationships and the tag cache from persisted tags.
func (o *Organizer) Rebuild(ctx context.Context) error {
	relationships, err := o.relationships.GetAllRelationships(ctx)
	if err != nil {
		return fmt.Errorf("loading relationships for graph replay: %w", err)
	}
	o.graph.RebuildFrom(relationships)

	tags, err := o.tags.GetAllTags(ctx)
	if err != nil {
		return fmt.Errorf("loading tags for cache warm: %w", err)
	}
	o.tagger.WarmCache(tags)

	o.logger.Info("organizer state rebuilt",
		"relationships", len(relationships), "graph_nodes", o.graph.NodeCount(),
		"cached_tags", len(tags))
	return nil
}
