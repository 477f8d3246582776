package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Table holds read-only records indexed by their integer id.
type Table[T any] struct {
	rows map[uint32]*T
}

func newTable[T any](rows []T, key func(*T) uint32) *Table[T] {
	t := &Table[T]{rows: make(map[uint32]*T, len(rows))}
	for i := range rows {
		r := &rows[i]
		t.rows[key(r)] = r
	}
	return t
}

// NewTable builds a table from in-memory records (fixtures, tools).
func NewTable[T any](key func(*T) uint32, rows ...T) *Table[T] {
	return newTable(rows, key)
}

// Get returns the record for id, or nil if not found.
func (t *Table[T]) Get(id uint32) *T {
	if t == nil {
		return nil
	}
	return t.rows[id]
}

// Count returns the number of loaded records.
func (t *Table[T]) Count() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// readYAML decodes one YAML list file into out.
func readYAML(path, what string, out any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", what, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse %s: %w", what, err)
	}
	return nil
}

// Position is a point in a map with an orientation.
type Position struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
	Z float32 `yaml:"z"`
	O float32 `yaml:"o"`
}
