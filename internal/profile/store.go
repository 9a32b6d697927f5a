package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Store persists one JSON capability profile per application identifier in a
// directory. Expiry is checked at read time; expired and malformed entries
// are removed so the next lookup re-probes. Writes replace the whole entry.
type Store struct {
	dir string
	now func() time.Time
}

// NewStore creates a store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create profile cache dir: %w", err)
	}
	return &Store{dir: dir, now: time.Now}, nil
}

// SetClock replaces the store's time source. Tests only.
func (s *Store) SetClock(now func() time.Time) { s.now = now }

// Dir returns the cache directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) path(appID string) string {
	safe := strings.ReplaceAll(appID, "/", "_")
	safe = strings.ReplaceAll(safe, " ", "_")
	return filepath.Join(s.dir, safe+".json")
}

// Load returns the cached profile for appID, or nil if there is none worth
// using. Expired and corrupt entries are discarded on the spot.
func (s *Store) Load(appID string) (*CapabilityProfile, error) {
	data, err := os.ReadFile(s.path(appID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("load profile %s: %w", appID, err)
	}

	var p CapabilityProfile
	if err := json.Unmarshal(data, &p); err != nil || p.AppID == "" {
		// Corrupt entry: discard so the next lookup re-probes.
		os.Remove(s.path(appID))
		return nil, nil
	}
	if p.Expired(s.now()) {
		os.Remove(s.path(appID))
		return nil, nil
	}
	return &p, nil
}

// Save writes the profile, replacing any existing entry wholesale. The write
// goes through a temp file and rename so readers never see a partial record.
func (s *Store) Save(p CapabilityProfile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile %s: %w", p.AppID, err)
	}
	tmp, err := os.CreateTemp(s.dir, "profile-*.tmp")
	if err != nil {
		return fmt.Errorf("save profile %s: %w", p.AppID, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("save profile %s: %w", p.AppID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("save profile %s: %w", p.AppID, err)
	}
	if err := os.Rename(tmp.Name(), s.path(p.AppID)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("save profile %s: %w", p.AppID, err)
	}
	return nil
}

// Delete removes the cached profile for appID, if present.
func (s *Store) Delete(appID string) error {
	err := os.Remove(s.path(appID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete profile %s: %w", appID, err)
	}
	return nil
}

// List returns the identifiers of all cached, still-valid profiles.
func (s *Store) List() ([]CapabilityProfile, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	var out []CapabilityProfile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			continue
		}
		var p CapabilityProfile
		if err := json.Unmarshal(data, &p); err != nil || p.AppID == "" {
			continue
		}
		if p.Expired(s.now()) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// Clear removes every cached profile.
func (s *Store) Clear() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("clear profiles: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			os.Remove(filepath.Join(s.dir, entry.Name()))
		}
	}
	return nil
}
