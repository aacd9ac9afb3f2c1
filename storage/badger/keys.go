package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/Semara-26/shiki-pilot/core"
)

// Key prefixes for different data types
const (
	storeRecordPrefix = "storec"
	storeOwnerPrefix  = "stoown"
	storeSlugPrefix   = "stoslg"
	storeIDSeq        = "storecseq"

	productRecordPrefix = "prorec"
	productStorePrefix  = "prosto"
	productIDSeq        = "prorecseq"

	chatStorePrefix  = "chasto"
	chatRecordPrefix = "charec"

	messageChatPrefix = "msgcha"
	messageIDSeq      = "msgrecseq"
)

// makeStoreKey generates a key for a store by ID. The ID is written in
// BigEndian order so a prefix scan over store records yields ascending ID
// (creation) order, matching the product and message indexes.
func makeStoreKey(id core.ID) []byte {
	prefix := storeRecordPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeStoreOwnerKey generates the unique owner index key.
// At most one store key may exist per owner identity.
func makeStoreOwnerKey(ownerID string) []byte {
	return []byte(storeOwnerPrefix + ":" + ownerID)
}

// makeStoreSlugKey generates the unique slug index key.
func makeStoreSlugKey(slug string) []byte {
	return []byte(storeSlugPrefix + ":" + slug)
}

// makeProductKey generates a key for a product by ID.
func makeProductKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", productRecordPrefix, id))
}

// makeProductStoreKey generates a composite key for the per-store catalog index.
// Format: prefix:storeID:productID. Product IDs are sequential, so a prefix
// scan yields the store's catalog in creation order.
func makeProductStoreKey(storeID, productID core.ID) []byte {
	prefix := productStorePrefix + ":"
	prefixBytes := []byte(prefix)
	totalSize := len(prefixBytes) + 16 // 8 bytes for storeID + 8 bytes for productID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(storeID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(productID))
	return buf
}

// makePartialProductStoreKey generates a partial key for scanning one store's
// catalog.
func makePartialProductStoreKey(storeID core.ID) []byte {
	prefix := productStorePrefix + ":"
	prefixBytes := []byte(prefix)
	totalSize := len(prefixBytes) + 8
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(storeID))
	return buf
}

// makeChatStoreKey generates the singleton chat key of a store.
// One store maps to at most one chat record under this key.
func makeChatStoreKey(storeID core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", chatStorePrefix, storeID))
}

// makeChatKey generates the chat-by-ID index key.
func makeChatKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", chatRecordPrefix, id))
}

// chatIDForStore derives the deterministic chat ID of a store. Racing
// get-or-create calls therefore construct the identical chat record.
func chatIDForStore(storeID core.ID) core.ID {
	return core.IDFromContent(fmt.Sprintf("chat:%d", storeID))
}

// makeMessageKey generates a composite key for the message log.
// Format: prefix:chatID:messageID. Message IDs are sequential, so a prefix
// scan yields the log in append order.
func makeMessageKey(chatID, messageID core.ID) []byte {
	prefix := messageChatPrefix + ":"
	prefixBytes := []byte(prefix)
	totalSize := len(prefixBytes) + 16
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(chatID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(messageID))
	return buf
}

// makePartialMessageKey generates a partial key for scanning one chat's log.
func makePartialMessageKey(chatID core.ID) []byte {
	prefix := messageChatPrefix + ":"
	prefixBytes := []byte(prefix)
	totalSize := len(prefixBytes) + 8
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(chatID))
	return buf
}
