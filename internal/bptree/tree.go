// Package bptree - Tree driver.
//
// EDUCATIONAL NOTES:
// ------------------
// Tree ties the leaf/interior node codecs to a PagedFile and exposes the
// operations a query executor actually needs: Insert, Locate (find the
// starting cursor for a key), FirstCursor (the starting cursor for an
// unbounded scan), ReadForward (advance a cursor one entry at a time),
// and Close (the only point at which the root pointer and tree height
// are made durable).
//
// Page 0 of the index file is always reserved for this metadata; the
// first leaf page is always page 1. Insertion proactively splits a full
// node, then places the new entry in whichever half it now belongs in —
// both the leaf and interior split paths use the same
// full-then-split-then-place convention, so there is no inconsistency
// between how the two node types decide when to split.
package bptree

import (
	"encoding/binary"
	"fmt"

	"teachdb/internal/storage"
)

// Tree is an open B+Tree index backed by a PagedFile.
type Tree struct {
	pf         *storage.PagedFile
	rootPid    PageID
	treeHeight int32
}

// Open opens (creating if necessary) the index file at path.
func Open(path string) (*Tree, error) {
	pf, err := storage.OpenPagedFile(path)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}

	t := &Tree{pf: pf, rootPid: -1, treeHeight: 0}

	if pf.EndPid() == 0 {
		// Fresh file: reserve page 0 for metadata up front so the first
		// leaf always lands on page 1.
		var buf [storage.PageSize]byte
		t.encodeMetadata(&buf)
		if err := pf.WritePage(0, &buf); err != nil {
			return nil, fmt.Errorf("initialize index metadata: %w", err)
		}
		return t, nil
	}

	var buf [storage.PageSize]byte
	if err := pf.ReadPage(0, &buf); err != nil {
		return nil, fmt.Errorf("read index metadata: %w", err)
	}
	rootPid := int32(binary.LittleEndian.Uint32(buf[0:]))
	height := int32(binary.LittleEndian.Uint32(buf[4:]))
	// A stored value of 0 or negative means the tree is empty; keep the
	// empty-tree defaults (rootPid -1, height 0).
	if rootPid >= 1 {
		t.rootPid = PageID(rootPid)
	}
	if height >= 1 {
		t.treeHeight = height
	}
	return t, nil
}

func (t *Tree) encodeMetadata(buf *[storage.PageSize]byte) {
	binary.LittleEndian.PutUint32(buf[0:], uint32(t.rootPid))
	binary.LittleEndian.PutUint32(buf[4:], uint32(t.treeHeight))
}

// Close persists the root page id and tree height to page 0 and closes
// the backing file. This is the only operation that makes structural
// changes durable.
func (t *Tree) Close() error {
	var buf [storage.PageSize]byte
	t.encodeMetadata(&buf)
	if err := t.pf.WritePage(0, &buf); err != nil {
		return fmt.Errorf("persist index metadata: %w", err)
	}
	return t.pf.Close()
}

// Height reports the current tree height (0 for an empty tree, 1 when the
// root is a leaf).
func (t *Tree) Height() int32 { return t.treeHeight }

// RootPid reports the current root page id, or -1 for an empty tree.
func (t *Tree) RootPid() PageID { return t.rootPid }

// Insert adds (key, rid) to the index, splitting and promoting nodes as
// needed.
func (t *Tree) Insert(key int32, rid RecordId) error {
	if t.treeHeight == 0 {
		leaf := NewLeafNode()
		if err := leaf.Insert(key, rid); err != nil {
			return err
		}
		pid := t.pf.EndPid()
		var buf [storage.PageSize]byte
		leaf.Encode(&buf)
		if err := t.pf.WritePage(pid, &buf); err != nil {
			return fmt.Errorf("write first leaf: %w", err)
		}
		t.rootPid = pid
		t.treeHeight = 1
		return nil
	}

	separator, newChild, split, err := t.insertHelper(t.rootPid, t.treeHeight, key, rid)
	if err != nil {
		return err
	}
	if !split {
		return nil
	}

	newRoot := NewInteriorNode(t.rootPid, newChild, separator)
	pid := t.pf.EndPid()
	var buf [storage.PageSize]byte
	newRoot.Encode(&buf)
	if err := t.pf.WritePage(pid, &buf); err != nil {
		return fmt.Errorf("write new root: %w", err)
	}
	t.rootPid = pid
	t.treeHeight++
	return nil
}

// insertHelper recursively descends to the leaf level, inserting and
// propagating a split upward when a node fills. level counts down from
// the tree height; level == 1 means pid names a leaf page.
func (t *Tree) insertHelper(pid PageID, level int32, key int32, rid RecordId) (separator int32, newChild PageID, split bool, err error) {
	var buf [storage.PageSize]byte
	if err = t.pf.ReadPage(pid, &buf); err != nil {
		return 0, 0, false, fmt.Errorf("read node %d: %w", pid, err)
	}

	if level == 1 {
		leaf := DecodeLeaf(&buf)
		if !leaf.Full() {
			_ = leaf.Insert(key, rid)
			leaf.Encode(&buf)
			if err = t.pf.WritePage(pid, &buf); err != nil {
				return 0, 0, false, fmt.Errorf("write leaf %d: %w", pid, err)
			}
			return 0, 0, false, nil
		}

		right, sep := leaf.Split()
		if key < sep {
			_ = leaf.Insert(key, rid)
		} else {
			_ = right.Insert(key, rid)
		}
		rightPid := t.pf.EndPid()
		leaf.Next = rightPid

		leaf.Encode(&buf)
		if err = t.pf.WritePage(pid, &buf); err != nil {
			return 0, 0, false, fmt.Errorf("write split leaf %d: %w", pid, err)
		}
		var rbuf [storage.PageSize]byte
		right.Encode(&rbuf)
		if err = t.pf.WritePage(rightPid, &rbuf); err != nil {
			return 0, 0, false, fmt.Errorf("write new leaf %d: %w", rightPid, err)
		}
		return sep, rightPid, true, nil
	}

	interior := DecodeInterior(&buf)
	child := interior.ChildFor(key)
	childSep, childNew, childSplit, err := t.insertHelper(child, level-1, key, rid)
	if err != nil {
		return 0, 0, false, err
	}
	if !childSplit {
		return 0, 0, false, nil
	}

	if !interior.Full() {
		_ = interior.Insert(childSep, childNew)
		interior.Encode(&buf)
		if err = t.pf.WritePage(pid, &buf); err != nil {
			return 0, 0, false, fmt.Errorf("write interior %d: %w", pid, err)
		}
		return 0, 0, false, nil
	}

	right, promote := interior.Split()
	if childSep < promote {
		_ = interior.Insert(childSep, childNew)
	} else {
		_ = right.Insert(childSep, childNew)
	}
	rightPid := t.pf.EndPid()

	interior.Encode(&buf)
	if err = t.pf.WritePage(pid, &buf); err != nil {
		return 0, 0, false, fmt.Errorf("write split interior %d: %w", pid, err)
	}
	var rbuf [storage.PageSize]byte
	right.Encode(&rbuf)
	if err = t.pf.WritePage(rightPid, &rbuf); err != nil {
		return 0, 0, false, fmt.Errorf("write new interior %d: %w", rightPid, err)
	}
	return promote, rightPid, true, nil
}

// Locate finds the cursor for the first entry with Key >= key. If no
// entry equals key exactly, it still returns the lower-bound cursor
// (useful for GT/GE range starts) alongside ErrNoSuchRecord.
func (t *Tree) Locate(key int32) (Cursor, error) {
	if t.treeHeight == 0 {
		return Cursor{}, ErrNoSuchRecord
	}

	pid := t.rootPid
	for level := t.treeHeight; level > 1; level-- {
		var buf [storage.PageSize]byte
		if err := t.pf.ReadPage(pid, &buf); err != nil {
			return Cursor{}, fmt.Errorf("read node %d: %w", pid, err)
		}
		interior := DecodeInterior(&buf)
		pid = interior.ChildFor(key)
	}

	var buf [storage.PageSize]byte
	if err := t.pf.ReadPage(pid, &buf); err != nil {
		return Cursor{}, fmt.Errorf("read leaf %d: %w", pid, err)
	}
	leaf := DecodeLeaf(&buf)
	eid, exact := leaf.Locate(key)
	cur := Cursor{PageID: pid, EntryIndex: int32(eid)}
	if eid == len(leaf.Entries) {
		// Every key in this leaf is smaller: the lower bound is the first
		// entry of the next leaf, or end of chain when there is none.
		cur = Cursor{PageID: leaf.Next, EntryIndex: 0}
	}
	if !exact {
		return cur, ErrNoSuchRecord
	}
	return cur, nil
}

// FirstCursor returns the cursor for the very first entry in the tree (the
// leftmost entry of the leftmost leaf), used to start an unbounded scan.
func (t *Tree) FirstCursor() (Cursor, error) {
	if t.treeHeight == 0 {
		return Cursor{}, ErrNoSuchRecord
	}
	pid := t.rootPid
	for level := t.treeHeight; level > 1; level-- {
		var buf [storage.PageSize]byte
		if err := t.pf.ReadPage(pid, &buf); err != nil {
			return Cursor{}, fmt.Errorf("read node %d: %w", pid, err)
		}
		interior := DecodeInterior(&buf)
		pid = interior.FirstChild
	}
	return Cursor{PageID: pid, EntryIndex: 0}, nil
}

// ReadForward returns the (key, RecordId) at cur and the cursor for the
// entry immediately after it. A page id of 0 or less means "end of
// chain": ReadForward returns ErrNoSuchRecord without touching disk.
func (t *Tree) ReadForward(cur Cursor) (key int32, rid RecordId, next Cursor, err error) {
	if cur.PageID <= 0 {
		return 0, RecordId{}, Cursor{}, ErrNoSuchRecord
	}

	var buf [storage.PageSize]byte
	if err = t.pf.ReadPage(cur.PageID, &buf); err != nil {
		return 0, RecordId{}, Cursor{}, fmt.Errorf("read leaf %d: %w", cur.PageID, err)
	}
	leaf := DecodeLeaf(&buf)
	if cur.EntryIndex < 0 || int(cur.EntryIndex) >= len(leaf.Entries) {
		return 0, RecordId{}, Cursor{}, ErrInvalidCursor
	}

	e := leaf.Entries[cur.EntryIndex]
	if int(cur.EntryIndex)+1 < len(leaf.Entries) {
		next = Cursor{PageID: cur.PageID, EntryIndex: cur.EntryIndex + 1}
	} else {
		next = Cursor{PageID: leaf.Next, EntryIndex: 0}
	}
	return e.Key, e.Rid, next, nil
}
