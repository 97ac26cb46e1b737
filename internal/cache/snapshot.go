// Package cache stores raw wallet transfer history on disk so repeated
// lookups within the freshness window skip the provider entirely.
package cache

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"tokenfolio/internal/model"
)

// DefaultTTL is how long a stored snapshot counts as fresh.
const DefaultTTL = 3 * time.Hour

// FileStore keeps snapshots for all wallets in one gzip-compressed JSON file.
// The whole map is loaded at construction and rewritten on every Put.
type FileStore struct {
	path string
	ttl  time.Duration
	now  func() time.Time

	mu   sync.Mutex
	data map[string]*model.WalletSnapshot
}

// NewFileStore loads the cache file at path, creating an empty store when the
// file does not exist yet. A non-positive ttl falls back to DefaultTTL.
func NewFileStore(path string, ttl time.Duration) (*FileStore, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &FileStore{
		path: path,
		ttl:  ttl,
		now:  time.Now,
		data: make(map[string]*model.WalletSnapshot),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Recent returns the snapshot for an address while its age is within the ttl.
func (s *FileStore) Recent(address string) (*model.WalletSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, ok := s.data[address]
	if !ok {
		return nil, false
	}
	if s.now().Sub(snap.FetchedAt) > s.ttl {
		return nil, false
	}
	return snap, true
}

// Put stores a snapshot and rewrites the cache file.
func (s *FileStore) Put(snapshot *model.WalletSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[snapshot.Address] = snapshot
	return s.save()
}

func (s *FileStore) load() error {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open cache file: %w", err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("open gzip stream: %w", err)
	}
	defer zr.Close()

	if err := json.NewDecoder(zr).Decode(&s.data); err != nil {
		return fmt.Errorf("decode cache file: %w", err)
	}
	return nil
}

// save writes through a temp file and renames it into place so a crash mid
// write never leaves a truncated cache behind.
func (s *FileStore) save() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}

	zw := gzip.NewWriter(f)
	if err := json.NewEncoder(zw).Encode(s.data); err != nil {
		zw.Close()
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode cache: %w", err)
	}
	if err := zw.Close(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("flush gzip stream: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close temp cache file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace cache file: %w", err)
	}
	return nil
}
