package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/noema/core"
)

// Key prefixes for different data types
const (
	itemRecordPrefix      = "itmrec"
	itemIDSeq             = "itmrecseq"
	categoryRecordPrefix  = "catrec"
	tagRecordPrefix       = "tagrec"
	relationshipPrefix    = "relrec"
	relationshipSrcPrefix = "relsrc"
)

// makeItemKey generates a key for a knowledge item by ID.
func makeItemKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", itemRecordPrefix, id))
}

// makeCategoryKey generates a key for a category by ID.
func makeCategoryKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", categoryRecordPrefix, id))
}

// makeTagKey generates a key for a tag by ID.
func makeTagKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", tagRecordPrefix, id))
}

// makeRelationshipKey generates a key for a relationship by ID.
func makeRelationshipKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", relationshipPrefix, id))
}

// makeRelationshipSourceKey generates a composite key for the source index.
// Format: prefix:sourceID:relationshipID
func makeRelationshipSourceKey(sourceID, relID core.ID) []byte {
	prefix := relationshipSrcPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for sourceID + 8 bytes for relationshipID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(sourceID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(relID))
	return buf
}

// makePartialRelationshipSourceKey generates a partial key for source queries.
// Format: prefix:sourceID
func makePartialRelationshipSourceKey(sourceID core.ID) []byte {
	prefix := relationshipSrcPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for sourceID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(sourceID))
	return buf
}
