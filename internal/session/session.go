// Package session keeps per-session profile overrides and the explain
// text of the last forecast. Storage is in-process; sessions disappear with
// the process.
package session

import (
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Overrides maps profile keys (investment_rate, income_tier, ...) to
// numeric or string values.
type Overrides map[string]any

// Clone returns a shallow copy.
func (o Overrides) Clone() Overrides {
	out := make(Overrides, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

type entry struct {
	overrides Overrides
	explain   string
}

// Store is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*entry
}

// New returns an empty store.
func New() *Store {
	return &Store{sessions: make(map[string]*entry)}
}

// NewID returns a fresh session id.
func NewID() string { return uuid.NewString() }

func (s *Store) get(id string) *entry {
	e, ok := s.sessions[id]
	if !ok {
		e = &entry{overrides: Overrides{}}
		s.sessions[id] = e
	}
	return e
}

// Overrides returns a copy of the session's overrides (empty if unknown).
func (s *Store) Overrides(id string) Overrides {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.sessions[id]; ok {
		return e.overrides.Clone()
	}
	return Overrides{}
}

// Merge adds o to the session's overrides, replacing existing keys, and
// returns the result.
func (s *Store) Merge(id string, o Overrides) Overrides {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.get(id)
	for k, v := range o {
		e.overrides[k] = v
	}
	return e.overrides.Clone()
}

// Reset clears the session's overrides.
func (s *Store) Reset(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.get(id).overrides = Overrides{}
}

// SetExplain records the explain text of the session's latest forecast.
func (s *Store) SetExplain(id, explain string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.get(id).explain = explain
}

// Explain returns the latest explain text, false if none was recorded.
func (s *Store) Explain(id string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[id]
	if !ok || e.explain == "" {
		return "", false
	}
	return e.explain, true
}

// ParseAssignments parses space-separated key:value pairs such as
// "investment_rate:0.30 income_tier:high". Numeric values become float64;
// tokens without a colon or with an empty key are ignored.
func ParseAssignments(s string) Overrides {
	out := Overrides{}
	for _, tok := range strings.Fields(s) {
		k, v, ok := strings.Cut(tok, ":")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			continue
		}
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			out[k] = f
		} else {
			out[k] = v
		}
	}
	return out
}
