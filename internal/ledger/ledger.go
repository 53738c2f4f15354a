// Package ledger keeps durable success/feedback counters per (field, pattern).
//
// A Ledger is loaded once from its Store and every mutation is written through
// to the Store before the call returns.
package ledger

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrInvalidKey is returned when a field or pattern is empty
var ErrInvalidKey = errors.New("field and pattern are required")

// Stat is the counter for one (field, pattern) pair
type Stat struct {
	Field   string `json:"field"`
	Pattern string `json:"pattern"`
	Count   int    `json:"count"`
	Seq     uint64 `json:"seq"` // insertion order, breaks count ties
}

// Store defines the interface for ledger persistence
type Store interface {
	// Load returns every entry, in insertion order
	Load() ([]Stat, error)
	// Put creates or replaces one entry
	Put(entry Stat) error
	// Close closes the underlying storage
	Close() error
}

type key struct {
	field   string
	pattern string
}

// Ledger is the in-memory view of a Store. It is safe for concurrent use.
type Ledger struct {
	mu      sync.Mutex
	store   Store
	entries map[key]Stat
	nextSeq uint64
}

// New loads all entries from store
func New(store Store) (*Ledger, error) {
	entries, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}

	l := &Ledger{
		store:   store,
		entries: make(map[key]Stat, len(entries)),
		nextSeq: 1,
	}
	for _, e := range entries {
		l.entries[key{e.Field, e.Pattern}] = e
		if e.Seq >= l.nextSeq {
			l.nextSeq = e.Seq + 1
		}
	}
	return l, nil
}

// RecordSuccess increments the counter for (field, pattern), creating it at 1
func (l *Ledger) RecordSuccess(field, pattern string) error {
	return l.update(field, pattern, func(count int) int {
		return count + 1
	})
}

// RecordFeedback increments on correct feedback and decrements, floored at 0, otherwise
func (l *Ledger) RecordFeedback(field, pattern string, correct bool) error {
	return l.update(field, pattern, func(count int) int {
		if correct {
			return count + 1
		}
		return max(0, count-1)
	})
}

// update runs a read-modify-persist cycle under the ledger lock.
// The in-memory entry only changes once the store accepted it.
func (l *Ledger) update(field, pattern string, apply func(int) int) error {
	if field == "" || pattern == "" {
		return ErrInvalidKey
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	k := key{field, pattern}
	entry, ok := l.entries[k]
	if !ok {
		entry = Stat{Field: field, Pattern: pattern, Seq: l.nextSeq}
	}
	entry.Count = apply(entry.Count)

	if err := l.store.Put(entry); err != nil {
		return fmt.Errorf("persisting %s pattern: %w", field, err)
	}

	if !ok {
		l.nextSeq++
	}
	l.entries[k] = entry
	return nil
}

// Count returns the current counter for (field, pattern), 0 when unknown
func (l *Ledger) Count(field, pattern string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.entries[key{field, pattern}].Count
}

// Entries returns the entries of a field ordered by descending count, ties in insertion order
func (l *Ledger) Entries(field string) []Stat {
	l.mu.Lock()
	out := make([]Stat, 0)
	for k, e := range l.entries {
		if k.field == field {
			out = append(out, e)
		}
	}
	l.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Seq < out[j].Seq
	})
	return out
}

// TopPatterns returns up to n patterns of a field, most successful first
func (l *Ledger) TopPatterns(field string, n int) []string {
	entries := l.Entries(field)
	if n < len(entries) {
		entries = entries[:max(n, 0)]
	}
	patterns := make([]string, len(entries))
	for i, e := range entries {
		patterns[i] = e.Pattern
	}
	return patterns
}

// Close closes the underlying store
func (l *Ledger) Close() error {
	return l.store.Close()
}
