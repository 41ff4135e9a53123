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


package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateKnowledgeItem(t *testing.T) {
	tests := []struct {
		name    string
		item    *KnowledgeItem
		wantErr error
	}{
		{
			name: "valid item",
			item: &KnowledgeItem{Title: "Go Patterns", Content: "Channels and goroutines."},
		},
		{
			name:    "nil item",
			item:    nil,
			wantErr: ErrInvalidItem,
		},
		{
			name:    "empty title",
			item:    &KnowledgeItem{Content: "body"},
			wantErr: ErrEmptyTitle,
		},
		{
			name:    "empty content",
			item:    &KnowledgeItem{Title: "title"},
			wantErr: ErrEmptyContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKnowledgeItem(tt.item)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateCategory(t *testing.T) {
	tests := []struct {
		name     string
		category *Category
		wantErr  error
	}{
		{
			name:     "valid category",
			category: &Category{Name: "technology", Confidence: 0.8},
		},
		{
			name:     "confidence at bounds",
			category: &Category{Name: "general", Confidence: 1.0},
		},
		{
			name:     "nil category",
			category: nil,
			wantErr:  ErrInvalidCategory,
		},
		{
			name:     "empty name",
			category: &Category{Confidence: 0.5},
			wantErr:  ErrEmptyName,
		},
		{
			name:     "confidence above one",
			category: &Category{Name: "science", Confidence: 1.2},
			wantErr:  ErrConfidenceOutOfRange,
		},
		{
			name:     "negative confidence",
			category: &Category{Name: "science", Confidence: -0.1},
			wantErr:  ErrConfidenceOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCategory(tt.category)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTag(t *testing.T) {
	tests := []struct {
		name    string
		tag     *Tag
		wantErr error
	}{
		{
			name: "valid tag",
			tag:  &Tag{Name: "docker", Color: "#3498db", UsageCount: 3},
		},
		{
			name:    "nil tag",
			tag:     nil,
			wantErr: ErrInvalidTag,
		},
		{
			name:    "empty name",
			tag:     &Tag{Color: "#3498db"},
			wantErr: ErrEmptyName,
		},
		{
			name:    "negative usage count",
			tag:     &Tag{Name: "docker", UsageCount: -1},
			wantErr: ErrNegativeUsageCount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTag(tt.tag)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRelationship(t *testing.T) {
	tests := []struct {
		name    string
		rel     *Relationship
		wantErr error
	}{
		{
			name: "valid relationship",
			rel:  &Relationship{SourceId: 1, TargetId: 2, Type: RelationshipSimilar, Strength: 0.7},
		},
		{
			name: "strength at bounds",
			rel:  &Relationship{SourceId: 1, TargetId: 2, Type: RelationshipRelated, Strength: 1.0},
		},
		{
			name:    "nil relationship",
			rel:     nil,
			wantErr: ErrInvalidRelationship,
		},
		{
			name:    "self relationship",
			rel:     &Relationship{SourceId: 5, TargetId: 5, Type: RelationshipSimilar, Strength: 0.5},
			wantErr: ErrSelfRelationship,
		},
		{
			name:    "strength above one",
			rel:     &Relationship{SourceId: 1, TargetId: 2, Type: RelationshipSimilar, Strength: 1.5},
			wantErr: ErrStrengthOutOfRange,
		},
		{
			name:    "negative strength",
			rel:     &Relationship{SourceId: 1, TargetId: 2, Type: RelationshipSimilar, Strength: -0.2},
			wantErr: ErrStrengthOutOfRange,
		},
		{
			name:    "unknown type",
			rel:     &Relationship{SourceId: 1, TargetId: 2, Type: RelationshipType(42), Strength: 0.5},
			wantErr: ErrUnknownRelationshipType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRelationship(tt.rel)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestNewRelationship(t *testing.T) {
	t.Run("assigns deterministic id", func(t *testing.T) {
		a, err := NewRelationship(1, 2, RelationshipSimilar, 0.8, "very similar content")
		require.NoError(t, err)
		b, err := NewRelationship(1, 2, RelationshipSimilar, 0.8, "very similar content")
		require.NoError(t, err)
		assert.Equal(t, a.Id, b.Id)
		assert.NotZero(t, a.Id)
	})

	t.Run("rejects self edge", func(t *testing.T) {
		_, err := NewRelationship(3, 3, RelationshipRelated, 0.4, "")
		assert.ErrorIs(t, err, ErrSelfRelationship)
	})

	t.Run("rejects out of range strength", func(t *testing.T) {
		_, err := NewRelationship(1, 2, RelationshipRelated, 2.0, "")
		assert.ErrorIs(t, err, ErrStrengthOutOfRange)
	})
}

func TestValidateSearchOptions(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		opts := DefaultSearchOptions()
		assert.NoError(t, ValidateSearchOptions(&opts))
	})

	t.Run("zero max results", func(t *testing.T) {
		opts := SearchOptions{MaxResults: 0}
		assert.ErrorIs(t, ValidateSearchOptions(&opts), ErrInvalidOptions)
	})

	t.Run("min relevance out of range", func(t *testing.T) {
		opts := SearchOptions{MaxResults: 5, MinRelevance: 1.5}
		assert.ErrorIs(t, ValidateSearchOptions(&opts), ErrInvalidOptions)
	})
}
