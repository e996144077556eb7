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

const (
	// MetadataDocumentID is the canonical metadata key for the document id.
	MetadataDocumentID = "fileId"

	// MetadataLegacyDocumentID is the lower-case spelling written by older producers.
	// It is accepted on read and never written.
	MetadataLegacyDocumentID = "fileid"
)

// DocumentIDFromMetadata returns the document id stored in metadata under either
// accepted key spelling. The canonical key wins when both are present.
func DocumentIDFromMetadata(metadata map[string]string) (string, bool) {
	if metadata == nil {
		return "", false
	}
	if id, ok := metadata[MetadataDocumentID]; ok && id != "" {
		return id, true
	}
	if id, ok := metadata[MetadataLegacyDocumentID]; ok && id != "" {
		return id, true
	}
	return "", false
}

// DocumentMetadata builds the metadata map written for a new record.
func DocumentMetadata(documentID string) map[string]string {
	return map[string]string{MetadataDocumentID: documentID}
}

// NormalizeRecord copies the document id out of the record's metadata into
// DocumentID. It is called by storage implementations right after decoding, so the
// key-name variance never leaves the storage layer.
func NormalizeRecord(record *EmbeddingRecord) {
	if record == nil {
		return
	}
	id, _ := DocumentIDFromMetadata(record.Metadata)
	record.DocumentID = id
}
