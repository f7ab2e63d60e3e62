// Package persistence provides the storage primitives of the ledger: a generic
// JSON-file backed table, a journal that commits several tables as one unit,
// and connections to the optional archive databases.
package persistence

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// Committable is a table that can be flushed to its backing file
type Committable interface {
	Name() string
	Path() string
	Encode() ([]byte, error)
}

// Cloner is implemented by records holding pointers, maps or slices. The
// table stores and returns clones of such records so no caller shares memory
// with a stored record.
type Cloner[T any] interface {
	Clone() T
}

// Table is an in-memory collection of records of one type, uniquely keyed by
// keyOf and backed by a single JSON file. It is loaded once at construction and
// written back only by Commit. Records are held by value; every read returns a
// copy, so callers change a record by handing an updated value back to Update.
//
// A Table is not safe for concurrent use.
type Table[T any] struct {
	name    string
	path    string
	keyOf   func(T) string
	records []T
	index   map[string]int
	logger  *slog.Logger
}

var _ Committable = (*Table[struct{}])(nil)

// NewTable creates a table bound to path and loads its contents
func NewTable[T any](name, path string, keyOf func(T) string, logger *slog.Logger) (*Table[T], error) {
	if keyOf == nil {
		return nil, errors.New("table key extractor cannot be nil")
	}
	t := &Table[T]{
		name:   name,
		path:   path,
		keyOf:  keyOf,
		logger: logger.With("table", name),
	}
	if err := t.load(); err != nil {
		return nil, err
	}
	return t, nil
}

// load reads the backing file. A missing or blank file is an empty table.
func (t *Table[T]) load() error {
	t.records = []T{}
	t.index = make(map[string]int)

	data, err := os.ReadFile(t.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			t.logger.Info("Backing file not found, starting with empty table", "path", t.path)
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", t.path, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		t.logger.Error("Failed to decode backing file", "path", t.path, "error", err)
		return ErrStorageCorrupt{Path: t.path, Err: err}
	}

	for _, rec := range records {
		key := t.keyOf(rec)
		if _, exists := t.index[key]; exists {
			return ErrStorageCorrupt{Path: t.path, Err: ErrDuplicateKey{Table: t.name, Key: key}}
		}
		t.index[key] = len(t.records)
		t.records = append(t.records, rec)
	}

	t.logger.Info("Table loaded", "path", t.path, "records", len(t.records))
	return nil
}

// Name returns the table name
func (t *Table[T]) Name() string { return t.name }

// Path returns the backing file path
func (t *Table[T]) Path() string { return t.path }

// Add appends rec. It fails with ErrDuplicateKey if the key is taken.
func (t *Table[T]) Add(rec T) error {
	key := t.keyOf(rec)
	if _, exists := t.index[key]; exists {
		return ErrDuplicateKey{Table: t.name, Key: key}
	}
	t.index[key] = len(t.records)
	t.records = append(t.records, t.clone(rec))
	return nil
}

// Update replaces the record with the same key, keeping its position
func (t *Table[T]) Update(rec T) error {
	key := t.keyOf(rec)
	pos, exists := t.index[key]
	if !exists {
		return ErrNotFound{Table: t.name, Key: key}
	}
	t.records[pos] = t.clone(rec)
	return nil
}

// Delete removes the record with the same key as rec
func (t *Table[T]) Delete(rec T) error {
	key := t.keyOf(rec)
	if _, exists := t.index[key]; !exists {
		return ErrNotFound{Table: t.name, Key: key}
	}

	kept := t.records[:0]
	for _, r := range t.records {
		if t.keyOf(r) != key {
			kept = append(kept, r)
		}
	}
	t.records = kept
	t.reindex()
	return nil
}

func (t *Table[T]) reindex() {
	t.index = make(map[string]int, len(t.records))
	for i, r := range t.records {
		t.index[t.keyOf(r)] = i
	}
}

// Get returns the record stored under key
func (t *Table[T]) Get(key string) (T, bool) {
	pos, exists := t.index[key]
	if !exists {
		var zero T
		return zero, false
	}
	return t.clone(t.records[pos]), true
}

// Find returns every record matching pred, in insertion order
func (t *Table[T]) Find(pred func(T) bool) []T {
	out := []T{}
	for _, r := range t.records {
		if pred(r) {
			out = append(out, t.clone(r))
		}
	}
	return out
}

// FindOne returns the first record in insertion order matching pred
func (t *Table[T]) FindOne(pred func(T) bool) (T, bool) {
	for _, r := range t.records {
		if pred(r) {
			return t.clone(r), true
		}
	}
	var zero T
	return zero, false
}

// All returns a copy of every record in insertion order
func (t *Table[T]) All() []T {
	out := make([]T, len(t.records))
	for i, r := range t.records {
		out[i] = t.clone(r)
	}
	return out
}

func (t *Table[T]) clone(rec T) T {
	if c, ok := any(rec).(Cloner[T]); ok {
		return c.Clone()
	}
	return rec
}

// Len returns the number of records
func (t *Table[T]) Len() int { return len(t.records) }

// Encode serializes the whole collection
func (t *Table[T]) Encode() ([]byte, error) {
	return json.MarshalIndent(t.records, "", "  ")
}

// Commit overwrites the backing file with the in-memory collection using
// write-to-temp then rename, so a failed write never truncates the old file.
func (t *Table[T]) Commit() error {
	data, err := t.Encode()
	if err != nil {
		return ErrStorageWriteFailed{Path: t.path, Err: err}
	}
	if err := writeFileAtomic(t.path, data); err != nil {
		t.logger.Error("Failed to commit table", "path", t.path, "error", err)
		return err
	}
	t.logger.Debug("Table committed", "path", t.path, "records", len(t.records))
	return nil
}
