package persistence

import "fmt"

// ErrDuplicateKey indicates a record with the same key is already stored
type ErrDuplicateKey struct {
	Table string
	Key   string
}

func (e ErrDuplicateKey) Error() string {
	return fmt.Sprintf("%s: record with key %q already exists", e.Table, e.Key)
}

// Is matches any ErrDuplicateKey when the target carries no key
func (e ErrDuplicateKey) Is(target error) bool {
	t, ok := target.(ErrDuplicateKey)
	if !ok {
		return false
	}
	if t.Key == "" {
		return true
	}
	return e.Table == t.Table && e.Key == t.Key
}

// ErrNotFound indicates no record with the key is stored
type ErrNotFound struct {
	Table string
	Key   string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s: record with key %q not found", e.Table, e.Key)
}

// Is matches any ErrNotFound when the target carries no key
func (e ErrNotFound) Is(target error) bool {
	t, ok := target.(ErrNotFound)
	if !ok {
		return false
	}
	if t.Key == "" {
		return true
	}
	return e.Table == t.Table && e.Key == t.Key
}

// ErrStorageCorrupt indicates a backing file that cannot be decoded
type ErrStorageCorrupt struct {
	Path string
	Err  error
}

func (e ErrStorageCorrupt) Error() string {
	return fmt.Sprintf("storage file %s is corrupt: %v", e.Path, e.Err)
}

func (e ErrStorageCorrupt) Unwrap() error { return e.Err }

// Is matches any ErrStorageCorrupt
func (e ErrStorageCorrupt) Is(target error) bool {
	_, ok := target.(ErrStorageCorrupt)
	return ok
}

// ErrStorageWriteFailed indicates a commit that did not reach the disk.
// The previous file contents and the in-memory state are both intact.
type ErrStorageWriteFailed struct {
	Path string
	Err  error
}

func (e ErrStorageWriteFailed) Error() string {
	return fmt.Sprintf("failed to write storage file %s: %v", e.Path, e.Err)
}

func (e ErrStorageWriteFailed) Unwrap() error { return e.Err }

// Is matches any ErrStorageWriteFailed
func (e ErrStorageWriteFailed) Is(target error) bool {
	_, ok := target.(ErrStorageWriteFailed)
	return ok
}

// ErrCommitIncomplete indicates a multi-table commit that passed its commit
// point but could not replace every file. The commit is durable: the journal
// finishes it before its next commit, or Recover does on the next start.
// In-memory state must be kept as committed.
type ErrCommitIncomplete struct {
	Err error
}

func (e ErrCommitIncomplete) Error() string {
	return fmt.Sprintf("commit recorded but not fully applied: %v", e.Err)
}

func (e ErrCommitIncomplete) Unwrap() error { return e.Err }

// Is matches any ErrCommitIncomplete
func (e ErrCommitIncomplete) Is(target error) bool {
	_, ok := target.(ErrCommitIncomplete)
	return ok
}
