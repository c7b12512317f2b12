// Package catalog tracks which tables are open and where their files
// live on disk.
//
// EDUCATIONAL NOTES:
// ------------------
// Every table has the same fixed (int32 key, string value) shape and is
// named directly by its files on disk (<table>.tbl, optionally
// <table>.idx), so there is nothing to persist beyond the filesystem
// itself: Catalog is just an in-memory registry of the tables a session
// has opened, discovered by listing *.tbl files in the database
// directory.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"teachdb/internal/bptree"
	"teachdb/internal/heap"
)

// Table is one open table: its heap file and, if one has been built, its
// B+Tree index on the key column.
type Table struct {
	Name  string
	Heap  *heap.RecordFile
	Index *bptree.Tree // nil if no index has been loaded for this table
}

// HasIndex reports whether an index is currently attached.
func (t *Table) HasIndex() bool { return t.Index != nil }

// Catalog is the set of tables open for a database directory.
type Catalog struct {
	dir    string
	mu     sync.RWMutex
	tables map[string]*Table
}

// Open discovers and opens every table already present in dir (every
// <name>.tbl file, with its <name>.idx attached if one exists). dir is
// created if it does not exist yet.
func Open(dir string) (*Catalog, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create database directory %s: %w", dir, err)
	}

	cat := &Catalog{dir: dir, tables: make(map[string]*Table)}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list database directory %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tbl") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".tbl")
		if _, err := cat.OpenTable(name); err != nil {
			return nil, fmt.Errorf("open table %s: %w", name, err)
		}
	}
	return cat, nil
}

// OpenTable opens (creating if necessary) the named table's heap file, and
// attaches its index file if one already exists on disk.
func (c *Catalog) OpenTable(name string) (*Table, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t, ok := c.tables[name]; ok {
		return t, nil
	}

	rf, err := heap.Open(c.heapPath(name))
	if err != nil {
		return nil, fmt.Errorf("open heap file for %s: %w", name, err)
	}
	t := &Table{Name: name, Heap: rf}

	if _, statErr := os.Stat(c.indexPath(name)); statErr == nil {
		tree, err := bptree.Open(c.indexPath(name))
		if err != nil {
			return nil, fmt.Errorf("open index file for %s: %w", name, err)
		}
		t.Index = tree
	}

	c.tables[name] = t
	return t, nil
}

// EnsureIndex opens (creating if necessary) the table's index file and
// attaches it, returning the now-indexed table. It is a no-op if the
// table already has an index attached.
func (c *Catalog) EnsureIndex(name string) (*Table, error) {
	t, err := c.OpenTable(name)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if t.Index != nil {
		return t, nil
	}
	tree, err := bptree.Open(c.indexPath(name))
	if err != nil {
		return nil, fmt.Errorf("create index file for %s: %w", name, err)
	}
	t.Index = tree
	return t, nil
}

// GetTable returns a table already opened in this catalog.
func (c *Catalog) GetTable(name string) (*Table, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tables[name]
	return t, ok
}

// ListTables returns the names of every currently open table.
func (c *Catalog) ListTables() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.tables))
	for name := range c.tables {
		names = append(names, name)
	}
	return names
}

// Close flushes and closes every open table's files.
func (c *Catalog) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for name, t := range c.tables {
		if t.Index != nil {
			if err := t.Index.Close(); err != nil {
				return fmt.Errorf("close index for %s: %w", name, err)
			}
		}
		if err := t.Heap.Close(); err != nil {
			return fmt.Errorf("close heap for %s: %w", name, err)
		}
	}
	return nil
}

func (c *Catalog) heapPath(name string) string {
	return filepath.Join(c.dir, name+".tbl")
}

func (c *Catalog) indexPath(name string) string {
	return filepath.Join(c.dir, name+".idx")
}
