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


// Package storage provides the vector storage abstraction for lectern.
//
// A VectorStore is scoped to one logical table (see TableDocuments and
// TableTranscripts). Records carry the owning document id in their metadata
// under the "fileId" key. Older rows written with the "fileid" spelling are
// accepted on read and normalized into EmbeddingRecord.DocumentID.
//
// # Usage
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	docs, err := badger.NewVectorStore(backend, storage.TableDocuments, 768)
//
// Use in tests with in-memory storage:
//
//	store, backend, err := badger.NewMemoryStore(storage.TableDocuments, 0)
//
// # Thread Safety
//
// All implementations must be safe for concurrent use from multiple goroutines.
//
// # Context Support
//
// All store methods accept context.Context for cancellation.
package storage
