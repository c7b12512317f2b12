// Package heap implements the append-only heap file that stores the
// (integer key, string value) tuples a table holds. Tuples are addressed
// by bptree.RecordId so the B+Tree index can point straight at them.
//
// EDUCATIONAL NOTES:
// ------------------
// Each page holds a length-prefixed sequential run of tuples, with a
// first-fit scan over existing pages before allocating a new one.
// Tuples are the fixed two-column (int32, string) shape this system's
// tables use, stored on top of the 1024-byte storage.PagedFile.
package heap

import (
	"encoding/binary"
	"fmt"

	"teachdb/internal/bptree"
	"teachdb/internal/storage"
)

const pageHeaderSize = 4 // uint16 numSlots + uint16 freeSpaceOffset
const entryLenPrefix = 2
const usableSpace = storage.PageSize - pageHeaderSize

// Tuple is one row: an integer key and a short string value.
type Tuple struct {
	Key   int32
	Value string
}

// RecordFile is an open heap file of tuples.
type RecordFile struct {
	pf          *storage.PagedFile
	dataPageIDs []bptree.PageID
}

// Open opens (creating if necessary) the heap file at path, rebuilding its
// in-memory page list from the file's page count (every existing page is
// treated as a data page).
func Open(path string) (*RecordFile, error) {
	pf, err := storage.OpenPagedFile(path)
	if err != nil {
		return nil, fmt.Errorf("open heap file: %w", err)
	}
	rf := &RecordFile{pf: pf}
	end := pf.EndPid()
	for pid := bptree.PageID(0); pid < end; pid++ {
		rf.dataPageIDs = append(rf.dataPageIDs, pid)
	}
	return rf, nil
}

// Close flushes and closes the backing file.
func (rf *RecordFile) Close() error { return rf.pf.Close() }

// Insert appends tuple to the heap, returning its address.
func (rf *RecordFile) Insert(tpl Tuple) (bptree.RecordId, error) {
	encoded := encodeTuple(tpl)
	needed := entryLenPrefix + len(encoded)
	if needed > usableSpace {
		return bptree.RecordId{}, fmt.Errorf("tuple value too long to fit in a page (%d bytes)", len(tpl.Value))
	}

	for _, pid := range rf.dataPageIDs {
		var buf [storage.PageSize]byte
		if err := rf.pf.ReadPage(pid, &buf); err != nil {
			return bptree.RecordId{}, err
		}
		numSlots, freeOff := readPageHeader(&buf)
		if int(freeOff)+needed <= storage.PageSize {
			slotID := numSlots
			writeEntry(&buf, freeOff, encoded)
			writePageHeader(&buf, numSlots+1, freeOff+uint16(needed))
			if err := rf.pf.WritePage(pid, &buf); err != nil {
				return bptree.RecordId{}, err
			}
			return bptree.RecordId{PageID: pid, SlotID: int32(slotID)}, nil
		}
	}

	pid := rf.pf.EndPid()
	var buf [storage.PageSize]byte
	writePageHeader(&buf, 1, uint16(pageHeaderSize+needed))
	writeEntry(&buf, pageHeaderSize, encoded)
	if err := rf.pf.WritePage(pid, &buf); err != nil {
		return bptree.RecordId{}, err
	}
	rf.dataPageIDs = append(rf.dataPageIDs, pid)
	return bptree.RecordId{PageID: pid, SlotID: 0}, nil
}

// Get reads the tuple addressed by rid.
func (rf *RecordFile) Get(rid bptree.RecordId) (Tuple, error) {
	var buf [storage.PageSize]byte
	if err := rf.pf.ReadPage(rid.PageID, &buf); err != nil {
		return Tuple{}, fmt.Errorf("%w: %v", bptree.ErrNoSuchRecord, err)
	}
	entries := readPageEntries(&buf)
	if int(rid.SlotID) < 0 || int(rid.SlotID) >= len(entries) {
		return Tuple{}, bptree.ErrNoSuchRecord
	}
	return decodeTuple(entries[rid.SlotID]), nil
}

// Scan calls fn for every tuple in insertion order, along with its
// RecordId, stopping early if fn returns false.
func (rf *RecordFile) Scan(fn func(bptree.RecordId, Tuple) bool) error {
	for _, pid := range rf.dataPageIDs {
		var buf [storage.PageSize]byte
		if err := rf.pf.ReadPage(pid, &buf); err != nil {
			return err
		}
		for slot, raw := range readPageEntries(&buf) {
			if !fn(bptree.RecordId{PageID: pid, SlotID: int32(slot)}, decodeTuple(raw)) {
				return nil
			}
		}
	}
	return nil
}

func encodeTuple(t Tuple) []byte {
	buf := make([]byte, 4+2+len(t.Value))
	binary.LittleEndian.PutUint32(buf[0:], uint32(t.Key))
	binary.LittleEndian.PutUint16(buf[4:], uint16(len(t.Value)))
	copy(buf[6:], t.Value)
	return buf
}

func decodeTuple(raw []byte) Tuple {
	key := int32(binary.LittleEndian.Uint32(raw[0:]))
	vlen := binary.LittleEndian.Uint16(raw[4:])
	return Tuple{Key: key, Value: string(raw[6 : 6+int(vlen)])}
}

func readPageHeader(buf *[storage.PageSize]byte) (numSlots, freeOff uint16) {
	return binary.LittleEndian.Uint16(buf[0:]), binary.LittleEndian.Uint16(buf[2:])
}

func writePageHeader(buf *[storage.PageSize]byte, numSlots, freeOff uint16) {
	binary.LittleEndian.PutUint16(buf[0:], numSlots)
	binary.LittleEndian.PutUint16(buf[2:], freeOff)
}

func writeEntry(buf *[storage.PageSize]byte, at uint16, encoded []byte) {
	binary.LittleEndian.PutUint16(buf[at:], uint16(len(encoded)))
	copy(buf[at+entryLenPrefix:], encoded)
}

// readPageEntries decodes every length-prefixed entry in a page, in
// on-disk order, up to the page's recorded freeSpaceOffset.
func readPageEntries(buf *[storage.PageSize]byte) [][]byte {
	_, freeOff := readPageHeader(buf)
	var entries [][]byte
	off := uint16(pageHeaderSize)
	for off < freeOff {
		length := binary.LittleEndian.Uint16(buf[off:])
		start := off + entryLenPrefix
		entries = append(entries, buf[start:start+length])
		off = start + length
	}
	return entries
}
