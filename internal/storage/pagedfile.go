// Package storage - fixed-size paged file access.
//
// EDUCATIONAL NOTES:
// ------------------
// A PagedFile is the lowest layer of the storage stack: it knows nothing
// about B+Trees or heap records, only about reading and writing fixed-size
// 1024-byte pages addressed by a non-negative page id. Every higher layer
// (internal/bptree, internal/heap) is built entirely on top of this type.
//
// Key responsibilities:
// 1. Opening/closing the backing file
// 2. Reading/writing whole pages at fixed offsets
// 3. Tracking the page id one past the end of the file (EndPid)
// 4. Caching recently used pages with LRU eviction, so repeated reads of
//    hot pages (like the B+Tree root) don't round-trip to disk
//
// A production database would add write-ahead logging and checksums on
// top of this; this layer deliberately stays small and does neither.
package storage

import (
	"container/list"
	"fmt"
	"os"
	"sync"
)

// PageSize is the fixed size, in bytes, of every page in a PagedFile.
const PageSize = 1024

// DefaultMaxCacheSize is the default number of pages kept in memory.
const DefaultMaxCacheSize = 1000

// PageID addresses a single page within a PagedFile. Page 0 is reserved
// by convention for whatever metadata the owning component stores there;
// the PagedFile itself attaches no meaning to any particular page id.
type PageID int32

// pageBuf is the on-disk representation of one page: exactly PageSize bytes.
type pageBuf = [PageSize]byte

// PagedFile manages reading and writing fixed-size pages to a single file.
type PagedFile struct {
	file     *os.File
	filePath string

	// numPages is the total number of pages currently in the file.
	numPages int32

	cache map[PageID]*pageBuf
	dirty map[PageID]bool

	// lruList keeps page ids in least-recently-used order (front = newest).
	lruList *list.List
	lruMap  map[PageID]*list.Element

	maxCacheSize int

	mu sync.Mutex
}

// PagedFileOption configures a PagedFile at construction time.
type PagedFileOption func(*PagedFile)

// WithMaxCacheSize overrides DefaultMaxCacheSize.
func WithMaxCacheSize(size int) PagedFileOption {
	return func(pf *PagedFile) {
		if size > 0 {
			pf.maxCacheSize = size
		}
	}
}

// OpenPagedFile opens (creating if necessary) the file at path.
func OpenPagedFile(path string, opts ...PagedFileOption) (*PagedFile, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("open paged file %s: %w", path, err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat paged file %s: %w", path, err)
	}

	pf := &PagedFile{
		file:         f,
		filePath:     path,
		numPages:     int32(stat.Size() / PageSize),
		cache:        make(map[PageID]*pageBuf),
		dirty:        make(map[PageID]bool),
		lruList:      list.New(),
		lruMap:       make(map[PageID]*list.Element),
		maxCacheSize: DefaultMaxCacheSize,
	}
	for _, opt := range opts {
		opt(pf)
	}
	return pf, nil
}

// EndPid returns the page id one past the last allocated page. A page
// written at exactly this id extends the file by one page.
func (pf *PagedFile) EndPid() PageID {
	pf.mu.Lock()
	defer pf.mu.Unlock()
	return PageID(pf.numPages)
}

// ReadPage copies page pid's contents into buf. Reading an unwritten page
// within [0, EndPid) that was never explicitly written returns a zeroed buf.
func (pf *PagedFile) ReadPage(pid PageID, buf *[PageSize]byte) error {
	pf.mu.Lock()
	defer pf.mu.Unlock()

	if pid < 0 || int32(pid) >= pf.numPages {
		return fmt.Errorf("%w: page %d (have %d pages)", ErrInvalidPid, pid, pf.numPages)
	}

	if cached, ok := pf.cache[pid]; ok {
		pf.touchLocked(pid)
		*buf = *cached
		return nil
	}

	if err := pf.evictIfNeededLocked(); err != nil {
		return err
	}

	var data pageBuf
	if _, err := pf.file.ReadAt(data[:], int64(pid)*PageSize); err != nil {
		return fmt.Errorf("read page %d: %w", pid, err)
	}
	pf.cache[pid] = &data
	pf.touchLocked(pid)
	*buf = data
	return nil
}

// WritePage writes buf to page pid, extending the file if pid == EndPid().
// Writing is deferred to the in-process cache; call Close (or Flush) to
// guarantee durability.
func (pf *PagedFile) WritePage(pid PageID, buf *[PageSize]byte) error {
	pf.mu.Lock()
	defer pf.mu.Unlock()

	if pid < 0 || int32(pid) > pf.numPages {
		return fmt.Errorf("%w: page %d (have %d pages)", ErrInvalidPid, pid, pf.numPages)
	}

	if err := pf.evictIfNeededLocked(); err != nil {
		return err
	}

	data := *buf
	pf.cache[pid] = &data
	pf.dirty[pid] = true
	pf.touchLocked(pid)

	if int32(pid) == pf.numPages {
		pf.numPages++
	}
	return nil
}

// Flush writes every dirty cached page to disk.
func (pf *PagedFile) Flush() error {
	pf.mu.Lock()
	defer pf.mu.Unlock()
	return pf.flushAllLocked()
}

// Close flushes dirty pages and closes the underlying file.
func (pf *PagedFile) Close() error {
	pf.mu.Lock()
	defer pf.mu.Unlock()

	if err := pf.flushAllLocked(); err != nil {
		return err
	}
	return pf.file.Close()
}

func (pf *PagedFile) flushAllLocked() error {
	for pid := range pf.dirty {
		if err := pf.flushPageLocked(pid); err != nil {
			return err
		}
	}
	return nil
}

func (pf *PagedFile) flushPageLocked(pid PageID) error {
	if !pf.dirty[pid] {
		return nil
	}
	data, ok := pf.cache[pid]
	if !ok {
		return fmt.Errorf("flush page %d: not cached", pid)
	}
	if _, err := pf.file.WriteAt(data[:], int64(pid)*PageSize); err != nil {
		return fmt.Errorf("write page %d: %w", pid, err)
	}
	if err := pf.file.Sync(); err != nil {
		return fmt.Errorf("sync after writing page %d: %w", pid, err)
	}
	delete(pf.dirty, pid)
	return nil
}

// touchLocked moves pid to the front of the LRU list, adding it if absent.
func (pf *PagedFile) touchLocked(pid PageID) {
	if elem, ok := pf.lruMap[pid]; ok {
		pf.lruList.MoveToFront(elem)
		return
	}
	pf.lruMap[pid] = pf.lruList.PushFront(pid)
}

// evictIfNeededLocked flushes and drops the least-recently-used page when
// the cache is at capacity.
func (pf *PagedFile) evictIfNeededLocked() error {
	if len(pf.cache) < pf.maxCacheSize {
		return nil
	}
	back := pf.lruList.Back()
	if back == nil {
		return nil
	}
	pid := back.Value.(PageID)
	if pf.dirty[pid] {
		if err := pf.flushPageLocked(pid); err != nil {
			return fmt.Errorf("evict page %d: %w", pid, err)
		}
	}
	delete(pf.cache, pid)
	pf.lruList.Remove(back)
	delete(pf.lruMap, pid)
	return nil
}

// Path returns the backing file path.
func (pf *PagedFile) Path() string { return pf.filePath }

// DeletePagedFile removes the file at path, ignoring a missing file.
func DeletePagedFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return os.Remove(path)
}
