package daemon

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"sparrow/internal/schedule"
)

// Snapshot holds the schedule the daemon is currently following. Readers
// always see the last fully written value.
type Snapshot struct {
	mu       sync.RWMutex
	entries  []schedule.Entry
	loadedAt time.Time
}

func NewSnapshot(entries []schedule.Entry) *Snapshot {
	return &Snapshot{entries: slices.Clone(entries), loadedAt: time.Now()}
}

// Entries returns a copy of the current entries.
func (s *Snapshot) Entries() []schedule.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.entries)
}

// LoadedAt is when the entries were last replaced.
func (s *Snapshot) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Update replaces the entries with the result of produce. If produce fails
// or panics, the previous entries stay in place and the failure is returned.
func (s *Snapshot) Update(produce func() ([]schedule.Entry, error)) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("snapshot update panicked: %v", r)
		}
	}()

	entries, err := produce()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.entries = slices.Clone(entries)
	s.loadedAt = time.Now()
	s.mu.Unlock()
	return nil
}
