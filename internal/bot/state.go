package bot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// State is the part of the bot which survives restarts.
type State struct {
	MessageId string `json:"messageId,omitempty"`
}

// StateStore keeps State in a JSON file. Writes are last-writer-wins: every
// change rewrites the whole file.
type StateStore struct {
	mu   sync.Mutex
	path string
	data State
}

func NewStateStore(path string) *StateStore {
	return &StateStore{path: path}
}

// Load reads the state file. A missing file is an empty state; a corrupt
// file is reported but also leaves the store empty, so callers can log the
// error and keep going.
func (s *StateStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = State{}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("cannot read %q: %w", s.path, err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("cannot parse %q: %w", s.path, err)
	}

	s.data = state
	return nil
}

func (s *StateStore) MessageId() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.data.MessageId
}

func (s *StateStore) SetMessageId(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.MessageId = id
	return s.save()
}

func (s *StateStore) ClearMessageId() error {
	return s.SetMessageId("")
}

func (s *StateStore) save() error {
	data, err := json.MarshalIndent(&s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot encode state: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("cannot create directory %q: %w", dir, err)
		}
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("cannot write %q: %w", s.path, err)
	}

	return nil
}
