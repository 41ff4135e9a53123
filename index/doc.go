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


// Package index defines the contract of the full-text index collaborator
// and the Manager facade the search engine consumes.
//
// The Manager owns query-term extraction (including a 2/3-gram fallback for
// CJK text), wildcard query synthesis, transactional document mutation and
// an independent chunk sub-index that mirrors the item index contract.
//
// The Index interface is the documented surface of the underlying full-text
// library; its tokenizer and storage format are its own concern. The memdex
// subpackage provides the in-memory implementation used by noema, rebuilt
// from the item repository on startup.
package index
