package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/corpora/core"
)

// Key prefixes for different data types
const (
	documentPrefix    = "rawdoc"
	documentIDPrefix  = "rawdocid"
	vectorEntryPrefix = "vecent"
	vectorDocPrefix   = "vecdoc"
)

// makeDocumentKey generates a key for a raw document by its DocID.
func makeDocumentKey(docID string) []byte {
	return []byte(fmt.Sprintf("%s:%s", documentPrefix, docID))
}

// makeDocumentIDKey generates a key mapping a document's content-hash ID
// back to its DocID.
func makeDocumentIDKey(id core.ID) []byte {
	prefix := documentIDPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeVectorEntryKey generates a key for an indexed entry by chunk ID.
// The chunk ID is written BigEndian so iteration order follows ascending ID.
func makeVectorEntryKey(chunkID core.ID) []byte {
	prefix := vectorEntryPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(chunkID))
	return buf
}

// makeVectorDocKey generates a composite key for the document→chunk index.
// Format: prefix:documentID:chunkID, both BigEndian so lexicographic sort
// groups a document's chunks together.
func makeVectorDocKey(documentID, chunkID core.ID) []byte {
	prefix := vectorDocPrefix + ":"
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(documentID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(chunkID))
	return buf
}

// makePartialVectorDocKey generates the prefix covering one document's
// chunk index entries.
func makePartialVectorDocKey(documentID core.ID) []byte {
	prefix := vectorDocPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(documentID))
	return buf
}
