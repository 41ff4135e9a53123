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


// Package ingest provides the asynchronous intake pipeline for knowledge
// items.
//
// Items are persisted synchronously; organization (classification, tagging,
// relationship discovery) and index maintenance then run on worker pools.
// Errors in the asynchronous stages are logged, never surfaced to the
// ingesting caller; a full rebuild recovers from any partial failure.
package ingest
