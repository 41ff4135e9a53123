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

import "fmt"

// ValidateKnowledgeItem validates a KnowledgeItem according to domain rules.
//
// Validation rules:
//   - Title must not be empty
//   - Content must not be empty
//
// NOT validated (populated by processors):
//   - Categories, Tags, Vector (can be empty until organization runs)
//   - ID (0 is valid from database sequences)
func ValidateKnowledgeItem(item *KnowledgeItem) error {
	if item == nil {
		return fmt.Errorf("%w: item is nil", ErrInvalidItem)
	}

	if item.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidItem, ErrEmptyTitle)
	}

	if item.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidItem, ErrEmptyContent)
	}

	return nil
}

// ValidateCategory validates a Category according to domain rules.
//
// Validation rules:
//   - Name must not be empty
//   - Confidence must lie in [0, 1]
func ValidateCategory(category *Category) error {
	if category == nil {
		return fmt.Errorf("%w: category is nil", ErrInvalidCategory)
	}

	if category.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCategory, ErrEmptyName)
	}

	if category.Confidence < 0 || category.Confidence > 1 {
		return fmt.Errorf("%w: %w (got %v)", ErrInvalidCategory, ErrConfidenceOutOfRange, category.Confidence)
	}

	return nil
}

// ValidateTag validates a Tag according to domain rules.
//
// Validation rules:
//   - Name must not be empty
//   - UsageCount must not be negative
func ValidateTag(tag *Tag) error {
	if tag == nil {
		return fmt.Errorf("%w: tag is nil", ErrInvalidTag)
	}

	if tag.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTag, ErrEmptyName)
	}

	if tag.UsageCount < 0 {
		return fmt.Errorf("%w: %w (got %d)", ErrInvalidTag, ErrNegativeUsageCount, tag.UsageCount)
	}

	return nil
}

// ValidateRelationship validates a Relationship according to domain rules.
// An equal source and target or an out-of-range strength is a programming
// or data error and is rejected immediately.
func ValidateRelationship(rel *Relationship) error {
	if rel == nil {
		return fmt.Errorf("%w: relationship is nil", ErrInvalidRelationship)
	}

	if rel.SourceId == rel.TargetId {
		return fmt.Errorf("%w: %w (id %d)", ErrInvalidRelationship, ErrSelfRelationship, rel.SourceId)
	}

	if rel.Strength < 0 || rel.Strength > 1 {
		return fmt.Errorf("%w: %w (got %v)", ErrInvalidRelationship, ErrStrengthOutOfRange, rel.Strength)
	}

	if _, ok := relationshipTypeNames[rel.Type]; !ok {
		return fmt.Errorf("%w: %w (value %d)", ErrInvalidRelationship, ErrUnknownRelationshipType, rel.Type)
	}

	return nil
}

// NewRelationship constructs a validated Relationship with a deterministic ID.
func NewRelationship(sourceId, targetId ID, relType RelationshipType, strength float64, description string) (*Relationship, error) {
	rel := &Relationship{
		SourceId:    sourceId,
		TargetId:    targetId,
		Type:        relType,
		Strength:    strength,
		Description: description,
	}
	if err := ValidateRelationship(rel); err != nil {
		return nil, err
	}
	rel.Id = IDFromContent(rel.Key())
	return rel, nil
}

// ValidateSearchOptions validates search options.
//
// Validation rules:
//   - MaxResults must be positive
//   - MinRelevance must lie in [0, 1]
func ValidateSearchOptions(opts *SearchOptions) error {
	if opts == nil {
		return fmt.Errorf("%w: options are nil", ErrInvalidOptions)
	}

	if opts.MaxResults <= 0 {
		return fmt.Errorf("%w: max results must be positive (got %d)", ErrInvalidOptions, opts.MaxResults)
	}

	if opts.MinRelevance < 0 || opts.MinRelevance > 1 {
		return fmt.Errorf("%w: min relevance must be between 0 and 1 (got %v)", ErrInvalidOptions, opts.MinRelevance)
	}

	return nil
}
