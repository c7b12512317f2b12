package bptree

import (
	"encoding/binary"
	"sort"

	"teachdb/internal/storage"
)

const leafEntrySize = 12 // int32 key + int32 pid + int32 sid
const leafNextOffset = MaxLeafEntries * leafEntrySize

// LeafEntry is one (key, RecordId) pair stored in a leaf page.
type LeafEntry struct {
	Key int32
	Rid RecordId
}

// LeafNode is the in-memory form of one leaf page: up to MaxLeafEntries
// entries in ascending key order, plus a pointer to the next leaf in key
// order (0 or negative means "no next leaf").
type LeafNode struct {
	Entries []LeafEntry
	Next    PageID
}

// NewLeafNode returns an empty leaf with no sibling.
func NewLeafNode() *LeafNode {
	return &LeafNode{Next: 0}
}

// DecodeLeaf reads a leaf node out of a raw page buffer.
func DecodeLeaf(buf *[storage.PageSize]byte) *LeafNode {
	n := &LeafNode{}
	for i := 0; i < MaxLeafEntries; i++ {
		off := i * leafEntrySize
		key := int32(binary.LittleEndian.Uint32(buf[off:]))
		if key == sentinelKey {
			break
		}
		pid := int32(binary.LittleEndian.Uint32(buf[off+4:]))
		sid := int32(binary.LittleEndian.Uint32(buf[off+8:]))
		n.Entries = append(n.Entries, LeafEntry{Key: key, Rid: RecordId{PageID: PageID(pid), SlotID: sid}})
	}
	n.Next = PageID(int32(binary.LittleEndian.Uint32(buf[leafNextOffset:])))
	return n
}

// Encode writes the node back into a raw page buffer, zeroing anything the
// node no longer uses.
func (n *LeafNode) Encode(buf *[storage.PageSize]byte) {
	for i := range buf {
		buf[i] = 0
	}
	for i, e := range n.Entries {
		off := i * leafEntrySize
		binary.LittleEndian.PutUint32(buf[off:], uint32(e.Key))
		binary.LittleEndian.PutUint32(buf[off+4:], uint32(e.Rid.PageID))
		binary.LittleEndian.PutUint32(buf[off+8:], uint32(e.Rid.SlotID))
	}
	binary.LittleEndian.PutUint32(buf[leafNextOffset:], uint32(n.Next))
}

// Full reports whether the leaf already holds MaxLeafEntries entries.
func (n *LeafNode) Full() bool {
	return len(n.Entries) >= MaxLeafEntries
}

// Insert adds (key, rid) in sorted position. It returns ErrNodeFull if the
// leaf has no room; callers are expected to split before retrying.
func (n *LeafNode) Insert(key int32, rid RecordId) error {
	if n.Full() {
		return ErrNodeFull
	}
	idx := sort.Search(len(n.Entries), func(i int) bool { return n.Entries[i].Key >= key })
	n.Entries = append(n.Entries, LeafEntry{})
	copy(n.Entries[idx+1:], n.Entries[idx:])
	n.Entries[idx] = LeafEntry{Key: key, Rid: rid}
	return nil
}

// Locate returns the index of the first entry with Key >= key (a lower
// bound), and whether that entry's key is an exact match. An empty leaf
// returns (0, false).
func (n *LeafNode) Locate(key int32) (eid int, exact bool) {
	idx := sort.Search(len(n.Entries), func(i int) bool { return n.Entries[i].Key >= key })
	if idx < len(n.Entries) && n.Entries[idx].Key == key {
		return idx, true
	}
	return idx, false
}

// Split divides the entries between n (kept, lower half) and a new right
// sibling, returning the right sibling and the separator key that should
// be promoted to the parent interior node (the right sibling's first key,
// following the B+Tree convention of duplicating the split key upward).
func (n *LeafNode) Split() (right *LeafNode, separator int32) {
	mid := len(n.Entries) / 2
	right = &LeafNode{
		Entries: append([]LeafEntry(nil), n.Entries[mid:]...),
		Next:    n.Next,
	}
	n.Entries = n.Entries[:mid]
	return right, right.Entries[0].Key
}
