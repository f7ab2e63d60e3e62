package persistence

import (
	"os"
)

const tempSuffix = ".tmp"

// tempPath is the staging file used while replacing path
func tempPath(path string) string {
	return path + tempSuffix
}

// writeTemp writes data to the staging file of path and flushes it to disk
func writeTemp(path string, data []byte) (string, error) {
	tmp := tempPath(path)

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return "", ErrStorageWriteFailed{Path: path, Err: err}
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return "", ErrStorageWriteFailed{Path: path, Err: err}
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return "", ErrStorageWriteFailed{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return "", ErrStorageWriteFailed{Path: path, Err: err}
	}
	return tmp, nil
}

// writeFileAtomic replaces path with data via a staging file and rename
func writeFileAtomic(path string, data []byte) error {
	tmp, err := writeTemp(path, data)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return ErrStorageWriteFailed{Path: path, Err: err}
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
