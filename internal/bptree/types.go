// Package bptree implements the on-disk B+Tree index: a fixed 1024-byte-
// page node codec (internal/bptree/leaf.go, interior.go) plus the tree
// driver that ties pages together into an ordered index (tree.go).
//
// EDUCATIONAL NOTES:
// ------------------
// Each node is a pager-backed, int32-keyed page with a fixed capacity:
// one node per page, no per-node header recording key counts — the end
// of a node's entries is marked with a reserved sentinel key of 0
// instead. Insert recurses to a leaf and propagates a split back up.
package bptree

import (
	"errors"

	"teachdb/internal/storage"
)

// PageID is re-exported from storage so callers never need to import both
// packages just to pass a page id around.
type PageID = storage.PageID

// MaxLeafEntries is the number of (key, RecordId) pairs a leaf page holds:
// 85 entries * 12 bytes + 4 bytes next-leaf pointer = 1024.
const MaxLeafEntries = 85

// MaxInteriorEntries is the number of (key, child) pairs an interior page
// holds beyond its leading child pointer: 8 + 127*8 = 1024.
const MaxInteriorEntries = 127

// sentinelKey marks the unused tail of a node's entry array. Key 0 is
// never produced by the loader (see internal/query/load.go), so it is
// safe to reserve as "no entry here".
const sentinelKey int32 = 0

// RecordId addresses one tuple in the heap file: the page holding it and
// its slot within that page.
type RecordId struct {
	PageID PageID
	SlotID int32
}

// Cursor addresses one entry within a leaf page, used to resume a forward
// scan across ReadForward calls.
type Cursor struct {
	PageID     PageID
	EntryIndex int32
}

// Error taxonomy for tree operations.
var (
	ErrNodeFull          = errors.New("bptree: node is full")
	ErrNoSuchRecord      = errors.New("bptree: no such record")
	ErrInvalidCursor     = errors.New("bptree: invalid cursor")
	ErrInvalidAttribute  = errors.New("bptree: invalid attribute")
	ErrInvalidFileFormat = errors.New("bptree: invalid file format")
)

// ErrInvalidPid re-exports storage.ErrInvalidPid for callers that only
// import bptree.
var ErrInvalidPid = storage.ErrInvalidPid
