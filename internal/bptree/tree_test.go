package bptree

import (
	"path/filepath"
	"testing"
)

func openTestTree(t *testing.T) *Tree {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.idx")
	tr, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { tr.Close() })
	return tr
}

func TestTreeEmptyLocateReturnsNoSuchRecord(t *testing.T) {
	tr := openTestTree(t)
	if _, err := tr.Locate(42); err != ErrNoSuchRecord {
		t.Fatalf("Locate on empty tree = %v, want ErrNoSuchRecord", err)
	}
}

func TestTreeInsertAndLocate(t *testing.T) {
	tr := openTestTree(t)

	want := map[int32]RecordId{
		10: {PageID: 1, SlotID: 0},
		20: {PageID: 1, SlotID: 1},
		5:  {PageID: 1, SlotID: 2},
	}
	for k, rid := range want {
		if err := tr.Insert(k, rid); err != nil {
			t.Fatalf("Insert(%d): %v", k, err)
		}
	}

	for k, rid := range want {
		cur, err := tr.Locate(k)
		if err != nil {
			t.Fatalf("Locate(%d): %v", k, err)
		}
		gotKey, gotRid, _, err := tr.ReadForward(cur)
		if err != nil {
			t.Fatalf("ReadForward after Locate(%d): %v", k, err)
		}
		if gotKey != k || gotRid != rid {
			t.Fatalf("Locate(%d) = (%d, %+v), want (%d, %+v)", k, gotKey, gotRid, k, rid)
		}
	}
}

func TestTreeForwardScanIsSortedAndComplete(t *testing.T) {
	tr := openTestTree(t)

	const n = 500
	for i := 0; i < n; i++ {
		// Insert out of order to exercise splitting at arbitrary points.
		key := int32((i*37)%n + 1) // +1 avoids the reserved sentinel key 0
		if err := tr.Insert(key, RecordId{PageID: PageID(key), SlotID: 0}); err != nil {
			t.Fatalf("Insert(%d): %v", key, err)
		}
	}

	cur, err := tr.FirstCursor()
	if err != nil {
		t.Fatalf("FirstCursor: %v", err)
	}

	var keys []int32
	for {
		key, _, next, err := tr.ReadForward(cur)
		if err == ErrNoSuchRecord {
			break
		}
		if err != nil {
			t.Fatalf("ReadForward: %v", err)
		}
		keys = append(keys, key)
		cur = next
	}

	if len(keys) != n {
		t.Fatalf("scanned %d keys, want %d", len(keys), n)
	}
	for i := 1; i < len(keys); i++ {
		if keys[i] <= keys[i-1] {
			t.Fatalf("keys not strictly ascending at index %d: %d <= %d", i, keys[i], keys[i-1])
		}
	}
}

func TestTreePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "persist.idx")

	tr, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	for i := int32(1); i <= 300; i++ {
		if err := tr.Insert(i, RecordId{PageID: PageID(i), SlotID: 0}); err != nil {
			t.Fatalf("Insert(%d): %v", i, err)
		}
	}
	if err := tr.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	tr2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen Open: %v", err)
	}
	defer tr2.Close()

	if tr2.Height() == 0 {
		t.Fatal("reopened tree reports height 0, metadata was not persisted")
	}
	cur, err := tr2.Locate(150)
	if err != nil {
		t.Fatalf("Locate(150) after reopen: %v", err)
	}
	key, rid, _, err := tr2.ReadForward(cur)
	if err != nil {
		t.Fatalf("ReadForward after reopen: %v", err)
	}
	if key != 150 || rid.PageID != 150 {
		t.Fatalf("Locate(150) after reopen = (%d, %+v)", key, rid)
	}
}

func TestTreeLocateMissingKeyReturnsLowerBoundCursor(t *testing.T) {
	tr := openTestTree(t)
	for _, k := range []int32{10, 20, 30} {
		if err := tr.Insert(k, RecordId{PageID: PageID(k), SlotID: 0}); err != nil {
			t.Fatalf("Insert(%d): %v", k, err)
		}
	}

	cur, err := tr.Locate(15)
	if err != ErrNoSuchRecord {
		t.Fatalf("Locate(15) err = %v, want ErrNoSuchRecord", err)
	}
	key, _, _, rferr := tr.ReadForward(cur)
	if rferr != nil {
		t.Fatalf("ReadForward on lower-bound cursor: %v", rferr)
	}
	if key != 20 {
		t.Fatalf("lower-bound cursor for 15 landed on key %d, want 20", key)
	}
}
