package badger

import (
	"encoding/binary"
	"strings"

	"github.com/poiesic/lectern/core"
	"github.com/poiesic/lectern/storage"
)

// Key layout, per table:
//
//	emb:<table>:rec:<id BE>                 -> EmbeddingRecord
//	emb:<table>:doc:<len uvarint><documentID><id BE> -> id
//	emb:<table>:seq                         -> id sequence
//	emb:<table>:chkpt:<name>                -> last processed id
const (
	keyNamespace      = "emb"
	recordSegment     = "rec"
	docIndexSegment   = "doc"
	sequenceSegment   = "seq"
	checkpointSegment = "chkpt"
)

func validateTable(table string) error {
	if table == "" || strings.ContainsAny(table, ":\x00") {
		return storage.ErrInvalidTable
	}
	return nil
}

func tablePrefix(table, segment string) []byte {
	return []byte(keyNamespace + ":" + table + ":" + segment + ":")
}

// makeRecordPrefix returns the prefix shared by every record key of a table.
func makeRecordPrefix(table string) []byte {
	return tablePrefix(table, recordSegment)
}

// makeRecordKey generates the primary key for a record.
// IDs are written BigEndian so iteration follows insertion order.
func makeRecordKey(table string, id core.ID) []byte {
	prefix := makeRecordPrefix(table)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeDocPrefix returns the index prefix for one document. Document ids are
// opaque and may contain any byte, so the id is length-prefixed: no document's
// prefix can then be a prefix of another's ("doc-1" vs "doc-10", "a" vs "a\x00b").
func makeDocPrefix(table, documentID string) []byte {
	prefix := tablePrefix(table, docIndexSegment)
	buf := make([]byte, 0, len(prefix)+binary.MaxVarintLen64+len(documentID))
	buf = append(buf, prefix...)
	buf = binary.AppendUvarint(buf, uint64(len(documentID)))
	return append(buf, documentID...)
}

// makeDocKey generates a composite document index key.
func makeDocKey(table, documentID string, id core.ID) []byte {
	prefix := makeDocPrefix(table, documentID)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

func makeSequenceKey(table string) []byte {
	return []byte(keyNamespace + ":" + table + ":" + sequenceSegment)
}

func makeCheckpointKey(table, name string) []byte {
	return append(tablePrefix(table, checkpointSegment), name...)
}
