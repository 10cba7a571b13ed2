// Package snapshot keeps the most recent classification records in memory
// and persists them through the storage system.
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/JaimeStill/regtriage/internal/classify"
	"github.com/JaimeStill/regtriage/pkg/formatting"
	"github.com/JaimeStill/regtriage/pkg/storage"
)

// DefaultKey is the storage key of the persisted snapshot.
const DefaultKey = "analyzed_testcases.json"

// ErrEmpty indicates no analysis has produced a snapshot yet.
var ErrEmpty = errors.New("no analysis snapshot available")

// Snapshot is the record list of one completed analysis.
type Snapshot struct {
	Populated bool
	Records   []classify.Record
	Taken     time.Time
}

// Store is a single-slot snapshot holder. Each Save replaces the previous
// snapshot; the last writer wins.
type Store struct {
	mu      sync.RWMutex
	current Snapshot

	storage storage.System
	key     string
	logger  *slog.Logger
}

// New creates a store persisting under key. A nil storage keeps the
// snapshot in memory only.
func New(sys storage.System, key string, logger *slog.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{
		storage: sys,
		key:     key,
		logger:  logger.With("system", "snapshot"),
	}
}

// Save replaces the snapshot and persists it as an indented JSON array.
// The in-memory slot is updated even when persisting fails.
func (s *Store) Save(ctx context.Context, records []classify.Record) error {
	if records == nil {
		records = []classify.Record{}
	}

	s.mu.Lock()
	s.current = Snapshot{Populated: true, Records: records, Taken: time.Now()}
	s.mu.Unlock()

	if s.storage == nil {
		return nil
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err := s.storage.Upload(ctx, s.key, bytes.NewReader(data), "application/json"); err != nil {
		return fmt.Errorf("persist snapshot: %w", err)
	}

	s.logger.InfoContext(ctx, "snapshot saved",
		"key", s.key,
		"records", len(records),
		"size", formatting.FormatBytes(int64(len(data)), 1),
	)
	return nil
}

// Current returns the in-memory snapshot.
func (s *Store) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Latest returns the in-memory snapshot. An empty slot is filled from
// storage on first read, so a restarted process serves the last persisted
// analysis. ErrEmpty means neither exists.
func (s *Store) Latest(ctx context.Context) ([]classify.Record, error) {
	if cur := s.Current(); cur.Populated {
		return cur.Records, nil
	}
	if s.storage == nil {
		return nil, ErrEmpty
	}

	records, err := s.load(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.WarnContext(ctx, "snapshot load failed", "key", s.key, "error", err)
		}
		return nil, ErrEmpty
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current.Populated {
		return s.current.Records, nil
	}
	s.current = Snapshot{Populated: true, Records: records, Taken: time.Now()}
	s.logger.DebugContext(ctx, "snapshot loaded", "key", s.key, "records", len(records))
	return records, nil
}

// Reset empties the slot and removes the persisted snapshot, if any.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.current = Snapshot{}
	s.mu.Unlock()

	if s.storage == nil {
		return nil
	}

	exists, err := s.storage.Exists(ctx, s.key)
	if err != nil {
		return fmt.Errorf("check snapshot: %w", err)
	}
	if !exists {
		return nil
	}
	if err := s.storage.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}

	s.logger.InfoContext(ctx, "snapshot reset", "key", s.key)
	return nil
}

func (s *Store) load(ctx context.Context) ([]classify.Record, error) {
	rc, err := s.storage.Download(ctx, s.key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var records []classify.Record
	if err := json.NewDecoder(rc).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if records == nil {
		records = []classify.Record{}
	}
	return records, nil
}
