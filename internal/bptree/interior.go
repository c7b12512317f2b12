package bptree

import (
	"encoding/binary"
	"sort"

	"teachdb/internal/storage"
)

const interiorEntrySize = 8 // int32 key + int32 child pid
const interiorHeaderSize = 8 // leftmost child pid + reserved
const interiorEntriesOffset = interiorHeaderSize

// InteriorEntry pairs a separator key with the child subtree holding keys
// greater than or equal to it (and less than the next entry's key).
type InteriorEntry struct {
	Key   int32
	Child PageID
}

// InteriorNode is the in-memory form of one interior page: a leftmost
// child pointer for keys below every separator, followed by up to
// MaxInteriorEntries (key, child) pairs in ascending key order.
type InteriorNode struct {
	FirstChild PageID
	Entries    []InteriorEntry
}

// NewInteriorNode builds a freshly promoted root with two children split
// around separator.
func NewInteriorNode(left, right PageID, separator int32) *InteriorNode {
	return &InteriorNode{
		FirstChild: left,
		Entries:    []InteriorEntry{{Key: separator, Child: right}},
	}
}

// DecodeInterior reads an interior node out of a raw page buffer.
func DecodeInterior(buf *[storage.PageSize]byte) *InteriorNode {
	n := &InteriorNode{
		FirstChild: PageID(int32(binary.LittleEndian.Uint32(buf[0:]))),
	}
	for i := 0; i < MaxInteriorEntries; i++ {
		off := interiorEntriesOffset + i*interiorEntrySize
		key := int32(binary.LittleEndian.Uint32(buf[off:]))
		if key == sentinelKey {
			break
		}
		child := int32(binary.LittleEndian.Uint32(buf[off+4:]))
		n.Entries = append(n.Entries, InteriorEntry{Key: key, Child: PageID(child)})
	}
	return n
}

// Encode writes the node back into a raw page buffer.
func (n *InteriorNode) Encode(buf *[storage.PageSize]byte) {
	for i := range buf {
		buf[i] = 0
	}
	binary.LittleEndian.PutUint32(buf[0:], uint32(n.FirstChild))
	for i, e := range n.Entries {
		off := interiorEntriesOffset + i*interiorEntrySize
		binary.LittleEndian.PutUint32(buf[off:], uint32(e.Key))
		binary.LittleEndian.PutUint32(buf[off+4:], uint32(e.Child))
	}
}

// Full reports whether the interior node has no room for another entry.
func (n *InteriorNode) Full() bool {
	return len(n.Entries) >= MaxInteriorEntries
}

// ChildFor returns the child page that would hold key, following the
// convention that a separator key equal to the search key descends into
// the entry to its right.
func (n *InteriorNode) ChildFor(key int32) PageID {
	idx := sort.Search(len(n.Entries), func(i int) bool { return n.Entries[i].Key > key })
	if idx == 0 {
		return n.FirstChild
	}
	return n.Entries[idx-1].Child
}

// Insert adds (key, child) in sorted position. Returns ErrNodeFull if the
// node has no room.
func (n *InteriorNode) Insert(key int32, child PageID) error {
	if n.Full() {
		return ErrNodeFull
	}
	idx := sort.Search(len(n.Entries), func(i int) bool { return n.Entries[i].Key >= key })
	n.Entries = append(n.Entries, InteriorEntry{})
	copy(n.Entries[idx+1:], n.Entries[idx:])
	n.Entries[idx] = InteriorEntry{Key: key, Child: child}
	return nil
}

// Split divides entries between n (kept, lower half) and a new right
// sibling, removing and returning the median key to promote to the
// parent — unlike a leaf split, the median key is not duplicated, since
// interior nodes hold routing keys rather than data.
func (n *InteriorNode) Split() (right *InteriorNode, separator int32) {
	mid := len(n.Entries) / 2
	separator = n.Entries[mid].Key
	right = &InteriorNode{
		FirstChild: n.Entries[mid].Child,
		Entries:    append([]InteriorEntry(nil), n.Entries[mid+1:]...),
	}
	n.Entries = n.Entries[:mid]
	return right, separator
}
