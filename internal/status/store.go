// Package status persists exercise test statuses in workspace state.
package status

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/AndreyAkinshin/codedrills/internal/exercise"
	"github.com/AndreyAkinshin/codedrills/internal/state"
	"github.com/AndreyAkinshin/codedrills/pkg/codedrills"
)

// Store reads and writes the location → status map kept under a single
// state key. Entries for exercises that are no longer present are kept.
type Store struct {
	mu sync.Mutex
	kv state.KV
}

// NewStore creates a store over kv.
func NewStore(kv state.KV) *Store {
	return &Store{kv: kv}
}

func (s *Store) read() (map[string]exercise.Status, error) {
	data, ok, err := s.kv.Get(codedrills.StatusKey)
	if err != nil {
		return nil, err
	}
	statuses := make(map[string]exercise.Status)
	if !ok {
		return statuses, nil
	}
	if err := json.Unmarshal(data, &statuses); err != nil {
		return nil, fmt.Errorf("corrupted task statuses: %w", err)
	}
	if statuses == nil {
		statuses = make(map[string]exercise.Status)
	}
	return statuses, nil
}

// Load replaces the status of every exercise that has a persisted entry.
// Exercises without an entry are left untouched.
func (s *Store) Load(exercises []*exercise.Exercise) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	statuses, err := s.read()
	if err != nil {
		return err
	}
	for _, ex := range exercises {
		if st, ok := statuses[ex.Path]; ok {
			ex.Status = st
		}
	}
	return nil
}

// Save merges the given location → status entries into the persisted map.
// Saves are serialized so each one observes the previous write.
func (s *Store) Save(updates map[string]exercise.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	statuses, err := s.read()
	if err != nil {
		return err
	}
	for path, st := range updates {
		statuses[path] = st
	}

	data, err := json.Marshal(statuses)
	if err != nil {
		return fmt.Errorf("failed to encode task statuses: %w", err)
	}
	return s.kv.Set(codedrills.StatusKey, data)
}

// Snapshot returns the full persisted map, including entries for exercises
// that no longer exist on disk.
func (s *Store) Snapshot() (map[string]exercise.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}
