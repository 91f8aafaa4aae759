package domain

import (
	"fmt"
	"time"
)

// Store owns the three base tables for the life of the process. It is built
// once at startup and exposes no way to change them, so it can be shared by
// concurrent readers without locking.
type Store struct {
	tables   map[Kind]Table
	loadedAt time.Time
}

// NewStore builds a Store from one table per dataset. Every kind must be
// present exactly once.
func NewStore(tables ...Table) (*Store, error) {
	s := &Store{
		tables:   make(map[Kind]Table, len(Kinds)),
		loadedAt: clock.Now(),
	}
	for _, t := range tables {
		if !t.kind.Valid() {
			return nil, fmt.Errorf("new store: %w: %q", ErrUnknownDataset, t.kind)
		}
		if _, dup := s.tables[t.kind]; dup {
			return nil, fmt.Errorf("new store: duplicate %s table", t.kind)
		}
		s.tables[t.kind] = t
	}
	for _, k := range Kinds {
		if _, ok := s.tables[k]; !ok {
			return nil, fmt.Errorf("new store: missing %s table", k)
		}
	}
	return s, nil
}

// Table returns the base table for kind. Unknown kinds return an error
// wrapping ErrUnknownDataset.
func (s *Store) Table(kind Kind) (Table, error) {
	t, ok := s.tables[kind]
	if !ok {
		return Table{}, fmt.Errorf("%w: %q", ErrUnknownDataset, kind)
	}
	return t, nil
}

// DateRange returns the earliest and latest dates across all tables. Both are
// zero when every table is empty.
func (s *Store) DateRange() (first, last Date) {
	seen := false
	for _, k := range Kinds {
		f, l, ok := s.tables[k].DateRange()
		if !ok {
			continue
		}
		if !seen || f.Before(first) {
			first = f
		}
		if !seen || l.After(last) {
			last = l
		}
		seen = true
	}
	return first, last
}

// Counts returns the number of records held per dataset.
func (s *Store) Counts() map[Kind]int {
	out := make(map[Kind]int, len(s.tables))
	for k, t := range s.tables {
		out[k] = t.Len()
	}
	return out
}

// LoadedAt returns when the store was built.
func (s *Store) LoadedAt() time.Time { return s.loadedAt }
