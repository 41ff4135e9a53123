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


// Package semantic provides TF-IDF based vector search over the knowledge
// corpus and over its chunks.
//
// The Searcher fully re-fits the model on every item mutation. This is a
// deliberate simplicity/cost trade-off: search always reflects the latest
// successful fit, and an empty or degenerate corpus leaves the model unfit,
// in which case every dependent operation silently returns empty results.
// Callers batching many mutations should prefer a single Fit over repeated
// UpdateItem calls.
package semantic
