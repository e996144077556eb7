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


package badger

import "github.com/poiesic/lectern/storage"

// NewMemoryStore creates an in-memory store for a single table for testing.
// Caller must close both the store and the backend when done.
func NewMemoryStore(table string, dimensions int) (*VectorStore, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, err
	}

	store, err := NewVectorStore(backend, table, dimensions)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}
	return store, backend, nil
}

// NewMemoryStores creates in-memory document and transcript stores sharing one backend.
// Returns docs, transcripts, backend, and error.
func NewMemoryStores(dimensions int) (storage.VectorStore, storage.VectorStore, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, nil, err
	}

	docs, err := NewVectorStore(backend, storage.TableDocuments, dimensions)
	if err != nil {
		backend.Close()
		return nil, nil, nil, err
	}

	transcripts, err := NewVectorStore(backend, storage.TableTranscripts, dimensions)
	if err != nil {
		docs.Close()
		backend.Close()
		return nil, nil, nil, err
	}

	return docs, transcripts, backend, nil
}
