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

import "errors"

// Domain validation errors
var (
	// ErrInvalidItem indicates a KnowledgeItem failed validation.
	ErrInvalidItem = errors.New("invalid knowledge item")

	// ErrInvalidCategory indicates a Category failed validation.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrInvalidTag indicates a Tag failed validation.
	ErrInvalidTag = errors.New("invalid tag")

	// ErrInvalidRelationship indicates a Relationship failed validation.
	ErrInvalidRelationship = errors.New("invalid relationship")

	// ErrInvalidOptions indicates search options failed validation.
	ErrInvalidOptions = errors.New("invalid search options")

	// ErrEmptyTitle indicates the Title field is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrEmptyContent indicates the Content field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrEmptyName indicates the Name field is empty.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrConfidenceOutOfRange indicates a confidence score outside [0, 1].
	ErrConfidenceOutOfRange = errors.New("confidence must be between 0 and 1")

	// ErrStrengthOutOfRange indicates a relationship strength outside [0, 1].
	ErrStrengthOutOfRange = errors.New("strength must be between 0 and 1")

	// ErrSelfRelationship indicates a relationship whose source equals its target.
	ErrSelfRelationship = errors.New("relationship source and target must differ")

	// ErrUnknownRelationshipType indicates an unrecognized RelationshipType value.
	ErrUnknownRelationshipType = errors.New("unknown relationship type")

	// ErrNegativeUsageCount indicates a tag usage count below zero.
	ErrNegativeUsageCount = errors.New("usage count cannot be negative")
)
