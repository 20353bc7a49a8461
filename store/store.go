// Package store persists per-user timezone preferences in a flat JSON file.
// The in-memory map is the authority for the process lifetime; the file is a
// pretty-printed snapshot rewritten after every mutation.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"github.com/onnwee/stampbot/timeparse"
)

// DefaultZone is returned for users who never set a preference.
const DefaultZone = "UTC"

// TimezoneStore maps user IDs to IANA timezone names. A single mutex
// serializes mutation so concurrent sets can't drop each other's entries in
// the whole-file rewrite.
type TimezoneStore struct {
	path string

	mu    sync.Mutex
	zones map[string]string
}

// Open loads preferences from path if the file exists. A missing, malformed,
// or unreadable file yields an empty store rather than an error: corrupted
// preference data must not take the bot down.
func Open(path string) *TimezoneStore {
	s := &TimezoneStore{path: path, zones: map[string]string{}}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("timezone file unreadable, starting empty", slog.String("path", path), slog.Any("err", err))
		}
		return s
	}
	if err := json.Unmarshal(data, &s.zones); err != nil {
		slog.Warn("timezone file malformed, starting empty", slog.String("path", path), slog.Any("err", err))
		s.zones = map[string]string{}
	}
	return s
}

// Get returns the stored timezone for userID, or DefaultZone if unset.
func (s *TimezoneStore) Get(userID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if zone, ok := s.zones[userID]; ok {
		return zone
	}
	return DefaultZone
}

// Set validates zone against the IANA database, records it for userID, and
// rewrites the file. An invalid zone fails with ErrInvalidTimezone and
// leaves the store untouched. A write failure is returned for logging, but
// the in-memory update stands.
func (s *TimezoneStore) Set(userID, zone string) error {
	if _, err := timeparse.LoadZone(zone); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.zones[userID] = zone
	return s.save()
}

// Len returns the number of users with a stored preference.
func (s *TimezoneStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.zones)
}

// Path returns the backing file path.
func (s *TimezoneStore) Path() string {
	return s.path
}

// save writes the whole map pretty-printed. Caller holds mu.
func (s *TimezoneStore) save() error {
	data, err := json.MarshalIndent(s.zones, "", "  ")
	if err != nil {
		return fmt.Errorf("encode timezones: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}
