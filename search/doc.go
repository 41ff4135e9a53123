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


// Package search provides hybrid keyword and semantic search over the
// knowledge base.
//
// The Engine type runs both retrieval paths per query:
//   - Keyword search over the full-text index
//   - Semantic search over the TF-IDF vector space
//
// The two result lists are merged with fixed weights, then filtered, sorted
// and grouped by the Processor according to the caller's SearchOptions. The
// keyword index and the semantic model are updated independently and are
// only eventually consistent; a full rebuild resynchronizes them.
package search
