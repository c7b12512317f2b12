package query

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"teachdb/internal/bptree"
	"teachdb/internal/heap"
)

// Load bulk-inserts "key,value" lines from filePath into table, creating
// the table if it does not exist yet, and building (or extending) its
// index when withIndex is true. It returns the number of rows loaded.
//
// Each line is an integer key, a comma, and a value that may optionally
// be single- or double-quoted (an unquoted value simply runs to the end
// of the line).
func (e *Executor) Load(table, filePath string, withIndex bool) (int, error) {
	tbl, err := e.cat.OpenTable(table)
	if err != nil {
		return 0, fmt.Errorf("load %s: %w", table, err)
	}
	if withIndex {
		tbl, err = e.cat.EnsureIndex(table)
		if err != nil {
			return 0, fmt.Errorf("load %s: %w", table, err)
		}
	}

	f, err := os.Open(filePath)
	if err != nil {
		return 0, fmt.Errorf("load %s: %w", table, err)
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		key, value, perr := parseLoadLine(line)
		if perr != nil {
			return count, fmt.Errorf("load %s: line %d: %w", table, count+1, perr)
		}

		rid, ierr := tbl.Heap.Insert(heap.Tuple{Key: key, Value: value})
		if ierr != nil {
			return count, fmt.Errorf("load %s: %w", table, ierr)
		}
		if tbl.HasIndex() {
			if ierr := tbl.Index.Insert(key, rid); ierr != nil {
				return count, fmt.Errorf("load %s: %w", table, ierr)
			}
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("load %s: %w", table, err)
	}
	return count, nil
}

// parseLoadLine parses one "<key>,<value>" line. value may optionally be
// wrapped in matching single or double quotes. Key 0 is rejected: the
// index reserves it as its end-of-entries sentinel.
func parseLoadLine(line string) (int32, string, error) {
	i := skipSpace(line, 0)

	start := i
	if i < len(line) && (line[i] == '-' || line[i] == '+') {
		i++
	}
	digitsStart := i
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i == digitsStart {
		return 0, "", fmt.Errorf("%w: missing integer key", bptree.ErrInvalidFileFormat)
	}
	key64, err := strconv.ParseInt(line[start:i], 10, 32)
	if err != nil {
		return 0, "", fmt.Errorf("%w: %v", bptree.ErrInvalidFileFormat, err)
	}
	if key64 == 0 {
		return 0, "", fmt.Errorf("%w: key 0 is reserved", bptree.ErrInvalidFileFormat)
	}

	i = skipSpace(line, i)
	if i >= len(line) || line[i] != ',' {
		return 0, "", fmt.Errorf("%w: expected comma after key", bptree.ErrInvalidFileFormat)
	}
	i++
	i = skipSpace(line, i)

	var value string
	if i < len(line) && (line[i] == '\'' || line[i] == '"') {
		quote := line[i]
		rest := line[i+1:]
		if end := strings.IndexByte(rest, quote); end >= 0 {
			value = rest[:end]
		} else {
			value = rest
		}
	} else {
		value = line[i:]
	}

	return int32(key64), value, nil
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}
