// Package session identifies browsing sessions and suppresses duplicate search-history entries.
package session

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Tracker remembers, per session, which searches were recorded within the dedup window.
type Tracker struct {
	window time.Duration
	now    func() time.Time

	mu   sync.Mutex
	seen map[string]time.Time

	stopCh chan struct{}
	once   sync.Once
}

// NewTracker creates a tracker. Call Start to prune expired entries in the background.
func NewTracker(window time.Duration) *Tracker {
	return &Tracker{
		window: window,
		now:    time.Now,
		seen:   make(map[string]time.Time),
		stopCh: make(chan struct{}),
	}
}

// NewID returns a fresh session identifier.
func NewID() string {
	return uuid.NewString()
}

// Session binds id to the tracker.
func (t *Tracker) Session(id string) *Session {
	return &Session{id: id, tracker: t}
}

// CanSearch reports whether a search may be recorded and, if so, marks it as recorded.
// The same session, query and type are allowed once per window.
func (t *Tracker) CanSearch(sessionID, query, searchType string) bool {
	key := sessionID + "\x00" + searchType + "\x00" + strings.ToLower(strings.TrimSpace(query))
	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	if last, ok := t.seen[key]; ok && now.Sub(last) < t.window {
		return false
	}
	t.seen[key] = now
	return true
}

// Len returns the number of remembered searches.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.seen)
}

// Start prunes expired entries every interval until Stop is called. A non-positive interval disables pruning.
func (t *Tracker) Start(interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				t.prune()
			case <-t.stopCh:
				return
			}
		}
	}()
}

// Stop ends the background pruning.
func (t *Tracker) Stop() {
	t.once.Do(func() { close(t.stopCh) })
}

func (t *Tracker) prune() {
	now := t.now()
	t.mu.Lock()
	defer t.mu.Unlock()
	for key, last := range t.seen {
		if now.Sub(last) >= t.window {
			delete(t.seen, key)
		}
	}
}

// Session is one visitor's view of the tracker.
type Session struct {
	id      string
	tracker *Tracker
}

// SessionID returns the session identifier.
func (s *Session) SessionID() string {
	return s.id
}

// CanSearch reports whether this session may record the search.
func (s *Session) CanSearch(query, searchType string) bool {
	return s.tracker.CanSearch(s.id, query, searchType)
}
