package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"
)

// JournalFileName is the manifest written inside the data directory while a
// multi-table commit is in flight
const JournalFileName = "commit.journal"

type journalEntry struct {
	Table  string `json:"table"`
	Temp   string `json:"temp"`
	Target string `json:"target"`
}

type journalManifest struct {
	CreatedAt time.Time      `json:"created_at"`
	Entries   []journalEntry `json:"entries"`
}

// Journal commits several tables as one unit. Every table is first staged to
// its temp file; the manifest is then written atomically and marks the commit
// point. Once the manifest exists the commit is rolled forward, either at the
// start of the next Commit or by Recover on the next start.
type Journal struct {
	path    string
	logger  *slog.Logger
	pending *journalManifest
}

// NewJournal creates a journal whose manifest lives at path
func NewJournal(path string, logger *slog.Logger) *Journal {
	return &Journal{
		path:   path,
		logger: logger.With("component", "journal"),
	}
}

// Path returns the manifest location
func (j *Journal) Path() string { return j.path }

// Commit persists all tables or, on failure before the commit point, none of
// them. A failure after the commit point is reported as ErrCommitIncomplete and
// the commit still counts as done.
func (j *Journal) Commit(tables ...Committable) error {
	if err := j.resume(); err != nil {
		return err
	}

	switch len(tables) {
	case 0:
		return nil
	case 1:
		data, err := tables[0].Encode()
		if err != nil {
			return ErrStorageWriteFailed{Path: tables[0].Path(), Err: err}
		}
		return writeFileAtomic(tables[0].Path(), data)
	}

	manifest := journalManifest{
		CreatedAt: time.Now().UTC(),
		Entries:   make([]journalEntry, 0, len(tables)),
	}

	for _, t := range tables {
		data, err := t.Encode()
		if err != nil {
			j.discard(manifest.Entries)
			return ErrStorageWriteFailed{Path: t.Path(), Err: err}
		}
		tmp, err := writeTemp(t.Path(), data)
		if err != nil {
			j.discard(manifest.Entries)
			j.logger.Error("Failed to stage table", "table", t.Name(), "error", err)
			return err
		}
		manifest.Entries = append(manifest.Entries, journalEntry{Table: t.Name(), Temp: tmp, Target: t.Path()})
	}

	data, err := json.Marshal(manifest)
	if err != nil {
		j.discard(manifest.Entries)
		return ErrStorageWriteFailed{Path: j.path, Err: err}
	}
	if err := writeFileAtomic(j.path, data); err != nil {
		j.discard(manifest.Entries)
		j.logger.Error("Failed to write commit manifest", "error", err)
		return err
	}

	if err := j.apply(manifest); err != nil {
		j.pending = &manifest
		j.logger.Error("Commit interrupted after commit point, will roll forward", "error", err)
		return ErrCommitIncomplete{Err: err}
	}
	return nil
}

// resume finishes an earlier commit that stopped after its commit point. Its
// staged files share paths with the next commit's, so nothing new may be
// staged until it is applied.
func (j *Journal) resume() error {
	if j.pending == nil {
		return nil
	}
	if err := j.apply(*j.pending); err != nil {
		j.logger.Error("Interrupted commit still cannot be applied", "error", err)
		return fmt.Errorf("earlier commit still pending: %w", err)
	}
	j.logger.Info("Rolled forward interrupted commit", "tables", len(j.pending.Entries))
	j.pending = nil
	return nil
}

// apply renames every staged file over its target and removes the manifest
func (j *Journal) apply(manifest journalManifest) error {
	for _, e := range manifest.Entries {
		if !fileExists(e.Temp) {
			// already applied by an earlier attempt
			continue
		}
		if err := os.Rename(e.Temp, e.Target); err != nil {
			return ErrStorageWriteFailed{Path: e.Target, Err: err}
		}
	}
	if err := os.Remove(j.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return ErrStorageWriteFailed{Path: j.path, Err: err}
	}
	return nil
}

func (j *Journal) discard(entries []journalEntry) {
	for _, e := range entries {
		if err := os.Remove(e.Temp); err != nil && !errors.Is(err, os.ErrNotExist) {
			j.logger.Warn("Failed to remove staged file", "path", e.Temp, "error", err)
		}
	}
}

// Recover completes a commit that passed its commit point and removes staged
// files left behind by commits that did not. It must run before the tables are
// loaded.
func (j *Journal) Recover(targets ...string) error {
	data, err := os.ReadFile(j.path)
	switch {
	case err == nil:
		var manifest journalManifest
		if err := json.Unmarshal(data, &manifest); err != nil {
			return ErrStorageCorrupt{Path: j.path, Err: err}
		}
		if err := j.apply(manifest); err != nil {
			return fmt.Errorf("failed to roll forward commit: %w", err)
		}
		j.logger.Info("Rolled forward interrupted commit", "tables", len(manifest.Entries), "started_at", manifest.CreatedAt)
	case errors.Is(err, os.ErrNotExist):
	default:
		return fmt.Errorf("failed to read commit manifest: %w", err)
	}

	for _, target := range targets {
		tmp := tempPath(target)
		if !fileExists(tmp) {
			continue
		}
		if err := os.Remove(tmp); err != nil {
			return fmt.Errorf("failed to remove staged file %s: %w", tmp, err)
		}
		j.logger.Info("Discarded staged file from uncommitted write", "path", tmp)
	}
	return nil
}
