// Package formstore mirrors in-memory form state into a durable string-keyed
// store so it survives restarts.
//
// Persistence here is a convenience: no operation returns a storage error.
// Failures are logged and the store keeps serving from its in-memory mirror.
package formstore

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Dan9191/finance-service/internal/utils"
)

// ErrNotFound is returned by backends for missing keys.
var ErrNotFound = errors.New("snapshot not found")

// Backend is durable key/value storage for serialized snapshots.
type Backend interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Store persists JSON snapshots through a Backend.
type Store struct {
	backend Backend
	log     *logrus.Logger
	key     []byte

	mu     sync.RWMutex
	mirror map[string][]byte
}

// Option configures a Store.
type Option func(*Store)

// WithEncryption encrypts snapshots at rest with an AES key.
func WithEncryption(key []byte) Option {
	return func(s *Store) {
		s.key = key
	}
}

// NewStore creates a store over backend. A nil backend keeps snapshots in memory only.
func NewStore(backend Backend, log *logrus.Logger, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		log:     log,
		mirror:  make(map[string][]byte),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Persist writes the full state under key.
func (s *Store) Persist(ctx context.Context, key string, state any) {
	data, err := json.Marshal(state)
	if err != nil {
		s.log.WithError(err).WithField("key", key).Error("Error serializing form snapshot")
		return
	}

	s.mu.Lock()
	s.mirror[key] = data
	s.mu.Unlock()

	if s.backend == nil {
		return
	}
	value, err := s.seal(data)
	if err != nil {
		s.log.WithError(err).WithField("key", key).Error("Error encrypting form snapshot")
		return
	}
	if err := s.backend.Set(ctx, key, value); err != nil {
		s.log.WithError(err).WithField("key", key).Error("Error saving form snapshot")
	}
}

// load returns the raw snapshot for key. The mirror holds everything this
// process persisted or cleared, so the backend is only consulted for keys
// untouched since the process started. A nil mirror entry marks a cleared key.
func (s *Store) load(ctx context.Context, key string) ([]byte, bool) {
	s.mu.RLock()
	data, ok := s.mirror[key]
	s.mu.RUnlock()
	if ok {
		return data, data != nil
	}
	if s.backend == nil {
		return nil, false
	}

	value, err := s.backend.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.WithError(err).WithField("key", key).Error("Error loading form snapshot")
		}
		return nil, false
	}
	data, err = s.open(value)
	if err != nil {
		s.log.WithError(err).WithField("key", key).Error("Error decrypting form snapshot")
		return nil, false
	}
	return data, true
}

// remove deletes key from the backend and leaves a tombstone in the mirror,
// so a failed durable delete cannot bring the old snapshot back.
func (s *Store) remove(ctx context.Context, key string) {
	s.mu.Lock()
	s.mirror[key] = nil
	s.mu.Unlock()

	if s.backend == nil {
		return
	}
	if err := s.backend.Delete(ctx, key); err != nil {
		s.log.WithError(err).WithField("key", key).Error("Error clearing form snapshot")
	}
}

func (s *Store) seal(data []byte) (string, error) {
	if s.key == nil {
		return string(data), nil
	}
	return utils.Encrypt(data, s.key)
}

func (s *Store) open(value string) ([]byte, error) {
	if s.key == nil {
		return []byte(value), nil
	}
	return utils.Decrypt(value, s.key)
}

// Restore returns the snapshot stored under key shallow-merged over initial:
// top-level fields present in the snapshot win, every other field keeps its
// initial value. On a missing key or any read or parse failure initial is
// returned unchanged.
func Restore[T any](ctx context.Context, s *Store, key string, initial T) T {
	stored, ok := s.load(ctx, key)
	if !ok {
		return initial
	}

	merged, err := shallowMerge(initial, stored)
	if err != nil {
		s.log.WithError(err).WithField("key", key).Error("Error parsing form snapshot")
		return initial
	}
	return merged
}

// Clear removes the snapshot under key and returns initial.
func Clear[T any](ctx context.Context, s *Store, key string, initial T) T {
	s.remove(ctx, key)
	return initial
}

func shallowMerge[T any](initial T, stored []byte) (T, error) {
	var zero T

	base, err := json.Marshal(initial)
	if err != nil {
		return zero, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(base, &fields); err != nil {
		return zero, err
	}

	overlay := map[string]json.RawMessage{}
	if err := json.Unmarshal(stored, &overlay); err != nil {
		return zero, err
	}
	for k, v := range overlay {
		fields[k] = v
	}

	combined, err := json.Marshal(fields)
	if err != nil {
		return zero, err
	}
	var out T
	if err := json.Unmarshal(combined, &out); err != nil {
		return zero, err
	}
	return out, nil
}
