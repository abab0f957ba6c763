// Package storage persists contact groups as a JSON file on disk, matching
// the single-user deployment model of the application. All access goes
// through one mutex; writes are atomic via a temp file rename.
package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/onarrival/onarrival/internal/models"
)

const (
	groupsFileName = "groups.json"

	MaxGroups           = 50
	MaxContactsPerGroup = 100
)

// GroupStore is a file-backed store of contact groups.
type GroupStore struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
}

// NewGroupStore creates the data directory and an empty groups file if none
// exists yet.
func NewGroupStore(dataDir string, logger *slog.Logger) (*GroupStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &GroupStore{
		path:   filepath.Join(dataDir, groupsFileName),
		logger: logger,
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		if err := s.writeLocked(nil); err != nil {
			return nil, err
		}
	} else if _, err := s.readLocked(); err != nil {
		return nil, fmt.Errorf("existing groups file is unreadable: %w", err)
	}

	return s, nil
}

// LoadGroups returns all stored groups.
func (s *GroupStore) LoadGroups() ([]models.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.readLocked()
}

// GetGroup returns the group with the given name.
func (s *GroupStore) GetGroup(name string) (*models.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	groups, err := s.readLocked()
	if err != nil {
		return nil, err
	}
	for i := range groups {
		if groups[i].Name == name {
			return &groups[i], nil
		}
	}
	return nil, models.ErrNotFound
}

// AddGroup creates a new empty group.
func (s *GroupStore) AddGroup(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	groups, err := s.readLocked()
	if err != nil {
		return err
	}
	if len(groups) >= MaxGroups {
		return fmt.Errorf("%w: maximum of %d groups reached", models.ErrBadRequest, MaxGroups)
	}
	for _, g := range groups {
		if g.Name == name {
			return models.ErrConflict
		}
	}

	groups = append(groups, models.Group{Name: name, Contacts: []models.Contact{}})
	return s.writeLocked(groups)
}

// DeleteGroup removes a group and all its contacts.
func (s *GroupStore) DeleteGroup(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	groups, err := s.readLocked()
	if err != nil {
		return err
	}
	for i, g := range groups {
		if g.Name == name {
			groups = append(groups[:i], groups[i+1:]...)
			return s.writeLocked(groups)
		}
	}
	return models.ErrNotFound
}

// AddContact appends a contact to a group. Duplicate phone numbers within a
// group are rejected.
func (s *GroupStore) AddContact(groupName string, contact models.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	groups, err := s.readLocked()
	if err != nil {
		return err
	}
	for i := range groups {
		if groups[i].Name != groupName {
			continue
		}
		if len(groups[i].Contacts) >= MaxContactsPerGroup {
			return fmt.Errorf("%w: maximum of %d contacts per group reached", models.ErrBadRequest, MaxContactsPerGroup)
		}
		if groups[i].HasContact(contact.Phone) {
			return models.ErrConflict
		}
		groups[i].Contacts = append(groups[i].Contacts, contact)
		return s.writeLocked(groups)
	}
	return models.ErrNotFound
}

// RemoveContact removes a contact by phone number from a group.
func (s *GroupStore) RemoveContact(groupName, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	groups, err := s.readLocked()
	if err != nil {
		return err
	}
	for i := range groups {
		if groups[i].Name != groupName {
			continue
		}
		for j, c := range groups[i].Contacts {
			if c.Phone == phone {
				groups[i].Contacts = append(groups[i].Contacts[:j], groups[i].Contacts[j+1:]...)
				return s.writeLocked(groups)
			}
		}
		return models.ErrNotFound
	}
	return models.ErrNotFound
}

func (s *GroupStore) readLocked() ([]models.Group, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read groups file: %w", err)
	}

	var groups []models.Group
	if err := json.Unmarshal(data, &groups); err != nil {
		return nil, fmt.Errorf("failed to parse groups file: %w", err)
	}
	return groups, nil
}

// writeLocked persists groups atomically: write to a temp file in the same
// directory, then rename over the target.
func (s *GroupStore) writeLocked(groups []models.Group) error {
	if groups == nil {
		groups = []models.Group{}
	}

	data, err := json.MarshalIndent(groups, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode groups: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "groups-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write groups: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace groups file: %w", err)
	}
	return nil
}
