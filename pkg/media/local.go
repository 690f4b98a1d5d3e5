package media

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage writes files under Root and serves them from MainUrl + "/media/".
type LocalStorage struct {
	Root    string
	MainUrl string
}

func NewLocalStorage(root string, mainUrl string) *LocalStorage {
	return &LocalStorage{
		Root:    root,
		MainUrl: strings.TrimSuffix(mainUrl, "/"),
	}
}

func (storage *LocalStorage) Save(ctx context.Context, key string, contentType string, body io.Reader) (string, error) {
	fullPath := filepath.Join(storage.Root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", err
	}
	dst, err := os.Create(fullPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, body); err != nil {
		return "", err
	}
	return storage.MainUrl + "/media/" + key, nil
}

func (storage *LocalStorage) Delete(ctx context.Context, url string) error {
	prefix := storage.MainUrl + "/media/"
	if !strings.HasPrefix(url, prefix) {
		return nil
	}
	key := strings.TrimPrefix(url, prefix)
	if strings.Contains(key, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(storage.Root, filepath.FromSlash(key)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
