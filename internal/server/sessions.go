package server

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/theirongolddev/dealcast/internal/model"
)

// ErrNotFound is returned for unknown or expired upload ids.
var ErrNotFound = errors.New("upload not found")

// UnknownDealError reports disposition updates naming deals not in the upload.
type UnknownDealError struct {
	Keys []string
}

func (e *UnknownDealError) Error() string {
	return fmt.Sprintf("unknown deal keys: %v", e.Keys)
}

// Session is one uploaded deal set and the choices made against it.
// Deals are immutable after creation; choices are guarded by mu.
type Session struct {
	ID        string
	Name      string
	CreatedAt time.Time

	deals []model.Deal
	keys  map[string]struct{}

	mu      sync.Mutex
	choices model.Choices
}

func newSession(name string, deals []model.Deal, now time.Time) *Session {
	keys := make(map[string]struct{}, len(deals))
	for _, d := range deals {
		keys[d.Key] = struct{}{}
	}
	return &Session{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		deals:     deals,
		keys:      keys,
		choices:   make(model.Choices),
	}
}

// Deals returns the uploaded deals in input order.
func (s *Session) Deals() []model.Deal {
	return s.deals
}

// Choices returns a copy of the current dispositions.
func (s *Session) Choices() model.Choices {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.choices.Clone()
}

// SetChoices applies updates atomically: if any key is unknown nothing changes.
func (s *Session) SetChoices(updates model.Choices) error {
	var unknown []string
	for k := range updates {
		if _, ok := s.keys[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return &UnknownDealError{Keys: unknown}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range updates {
		s.choices[k] = v
	}
	return nil
}

// Sessions holds uploads in memory with a sliding idle expiry.
type Sessions struct {
	items *cache.Cache
}

// NewSessions returns a store whose entries expire after ttl without access.
func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{items: cache.New(ttl, ttl/2)}
}

// Create stores a new session for deals.
func (s *Sessions) Create(name string, deals []model.Deal, now time.Time) *Session {
	sess := newSession(name, deals, now)
	s.items.Set(sess.ID, sess, cache.DefaultExpiration)
	return sess
}

// Get returns the session for id and extends its lifetime.
func (s *Sessions) Get(id string) (*Session, error) {
	v, ok := s.items.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	sess := v.(*Session)
	s.items.Set(id, sess, cache.DefaultExpiration)
	return sess, nil
}

// Delete removes the session for id.
func (s *Sessions) Delete(id string) error {
	if _, ok := s.items.Get(id); !ok {
		return ErrNotFound
	}
	s.items.Delete(id)
	return nil
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	return s.items.ItemCount()
}
