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


// Package reorg provides batch re-organization of an existing knowledge
// base.
//
// Classification keyword sets and tag caches drift as feedback accumulates;
// items organized months ago may classify differently today. The
// Reorganizer walks every stored item in batches, re-runs classification,
// tagging and relationship discovery, and persists the results, with
// progress reporting and per-batch retry for transient storage failures.
package reorg
