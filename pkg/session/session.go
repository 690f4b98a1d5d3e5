// Package session keeps the signed-in user on the client side: a session token plus a
// display projection of the account, refreshed from the server on demand.
package session

import (
	"encoding/json"
	"errors"
	"imovelhub/pkg/user"
	"sync"
)

// Key is the single slot the session lives under.
const Key = "user"

var ErrNoSession = errors.New("no session")

type Session struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	User         user.User `json:"user"`
}

type Storage interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

type Manager struct {
	storage Storage
}

func NewManager(storage Storage) *Manager {
	return &Manager{storage: storage}
}

func (manager *Manager) Save(session Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return manager.storage.Set(Key, data)
}

// Restore returns ErrNoSession when nothing is stored. A corrupt entry is dropped.
func (manager *Manager) Restore() (*Session, error) {
	data, ok, err := manager.storage.Get(Key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoSession
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		_ = manager.storage.Delete(Key)
		return nil, ErrNoSession
	}
	return &session, nil
}

func (manager *Manager) Clear() error {
	return manager.storage.Delete(Key)
}

// Merge applies a profile patch to the cached projection, as after a successful profile update.
func (manager *Manager) Merge(patch user.Patch) (*Session, error) {
	session, err := manager.Restore()
	if err != nil {
		return nil, err
	}
	session.User.Apply(patch)
	return session, manager.Save(*session)
}

// Refresh replaces the cached projection with the server's current view of the account.
func (manager *Manager) Refresh(current user.User) (*Session, error) {
	session, err := manager.Restore()
	if err != nil {
		return nil, err
	}
	session.User = current
	return session, manager.Save(*session)
}

type MemoryStorage struct {
	mu     sync.Mutex
	values map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: map[string][]byte{}}
}

func (storage *MemoryStorage) Get(key string) ([]byte, bool, error) {
	storage.mu.Lock()
	defer storage.mu.Unlock()
	value, ok := storage.values[key]
	return value, ok, nil
}

func (storage *MemoryStorage) Set(key string, value []byte) error {
	storage.mu.Lock()
	defer storage.mu.Unlock()
	storage.values[key] = append([]byte{}, value...)
	return nil
}

func (storage *MemoryStorage) Delete(key string) error {
	storage.mu.Lock()
	defer storage.mu.Unlock()
	delete(storage.values, key)
	return nil
}
