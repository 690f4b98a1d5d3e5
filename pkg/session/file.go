package session

import (
	"errors"
	"os"
	"path/filepath"
)

// FileStorage keeps one file per key inside dir.
type FileStorage struct {
	dir string
}

func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &FileStorage{dir: dir}, nil
}

func (storage *FileStorage) path(key string) string {
	return filepath.Join(storage.dir, key+".json")
}

func (storage *FileStorage) Get(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(storage.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set writes via a temp file then rename.
func (storage *FileStorage) Set(key string, value []byte) error {
	tmp := storage.path(key) + ".tmp"
	if err := os.WriteFile(tmp, value, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, storage.path(key))
}

func (storage *FileStorage) Delete(key string) error {
	err := os.Remove(storage.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
