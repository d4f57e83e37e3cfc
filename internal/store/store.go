// file: internal/store/store.go
// version: 1.0.0
// guid: 5b4c3d2e-1f0a-9b8c-7d6e-5f4a3b2c1d0e

// Package store persists settings overrides and download history using
// PebbleDB (LSM key-value store).
//
// Key Schema:
// - setting:overrides          -> Settings JSON (single record)
// - history:<gid>              -> DownloadRecord JSON
package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/pebble/v2"
)

const (
	settingsKey   = "setting:overrides"
	historyPrefix = "history:"
)

// DownloadRecord is one completed download, keyed by task gid.
type DownloadRecord struct {
	GID         string    `json:"gid"`
	UserID      int64     `json:"user_id"`
	URL         string    `json:"url"`
	Platform    string    `json:"platform"`
	MediaType   string    `json:"media_type"`
	Quality     int       `json:"quality"`
	Codec       string    `json:"codec"`
	Files       int       `json:"files"`
	Leech       bool      `json:"leech"`
	CompletedAt time.Time `json:"completed_at"`
}

// Store wraps a pebble database.
type Store struct {
	db *pebble.DB
}

// Open opens (or creates) the store at path.
func Open(path string) (*Store, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSettings stores the settings overrides blob.
func (s *Store) SaveSettings(data []byte) error {
	if err := s.db.Set([]byte(settingsKey), data, pebble.Sync); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// LoadSettings returns the overrides blob, or ok=false when none was saved.
func (s *Store) LoadSettings() ([]byte, bool, error) {
	value, closer, err := s.db.Get([]byte(settingsKey))
	if err == pebble.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load settings: %w", err)
	}
	defer closer.Close()
	out := append([]byte(nil), value...)
	return out, true, nil
}

// RecordDownload stores a completed download in the history.
func (s *Store) RecordDownload(rec DownloadRecord) error {
	if rec.GID == "" {
		return fmt.Errorf("download record has no gid")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode download record: %w", err)
	}
	key := []byte(historyPrefix + rec.GID)
	if err := s.db.Set(key, data, pebble.Sync); err != nil {
		return fmt.Errorf("failed to record download: %w", err)
	}
	return nil
}

// ListDownloads returns history records, newest first, capped at limit
// (0 means no cap).
func (s *Store) ListDownloads(limit int) ([]DownloadRecord, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(historyPrefix),
		UpperBound: []byte(historyPrefix + "\xff"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}
	defer iter.Close()

	var records []DownloadRecord
	for iter.First(); iter.Valid(); iter.Next() {
		if !strings.HasPrefix(string(iter.Key()), historyPrefix) {
			continue
		}
		var rec DownloadRecord
		if err := json.Unmarshal(iter.Value(), &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CompletedAt.After(records[j].CompletedAt)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}
