package assist

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/moneymind/backend/internal/model"
)

// EntrySession scopes classification requests to the lifetime of one entry
// form. Results arriving after the form closed, after the user picked a
// category themselves, or after a newer request was issued are discarded;
// a stale classification must never overwrite what the user sees.
type EntrySession struct {
	ID        uuid.UUID
	createdAt time.Time

	mu         sync.Mutex
	open       bool
	overridden bool
	seq        uint64
	pending    bool
	category   model.Category
}

// Category returns the session's current category and whether a
// classification request is still outstanding.
func (s *EntrySession) Category() (model.Category, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.category, s.pending
}

// Override records a manual category choice. Any outstanding classification
// result is stale from this point on.
func (s *EntrySession) Override(c model.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !c.Valid() {
		c = model.CategoryUncategorized
	}
	s.category = c
	s.overridden = true
	s.pending = false
}

// beginRequest invalidates earlier in-flight requests and returns the token
// the eventual result must present. It also re-arms the override guard: only
// overrides made after this point invalidate the result, so a request issued
// after a manual pick classifies normally.
func (s *EntrySession) beginRequest() (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return 0, false
	}
	s.seq++
	s.overridden = false
	s.pending = true
	return s.seq, true
}

// deliver applies a classification result if the session is still open, no
// manual override happened since the request was issued, and no newer request
// superseded it. The current request stops being pending either way; only a
// superseded result leaves pending to the newer request. Returns whether the
// result was applied.
func (s *EntrySession) deliver(c model.Category, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return false
	}
	s.pending = false
	if !s.open || s.overridden {
		return false
	}
	s.category = c
	return true
}

func (s *EntrySession) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = false
	s.pending = false
}

// abandonedSessionAge bounds how long an open session survives without being
// closed. Clients that vanish (tab closed, crash) never send the DELETE, so
// the registry reclaims their sessions by age.
const abandonedSessionAge = time.Hour

// SessionRegistry tracks open entry sessions by handle. Closed sessions are
// kept briefly so late results resolve to "discard" instead of "unknown",
// then swept; abandoned open sessions are swept by age.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*EntrySession
	closedAt map[uuid.UUID]time.Time
	ttl      time.Duration
	done     chan struct{}
}

// NewSessionRegistry creates a registry with background sweeping of closed
// sessions.
func NewSessionRegistry(ttl time.Duration) *SessionRegistry {
	r := &SessionRegistry{
		sessions: make(map[uuid.UUID]*EntrySession),
		closedAt: make(map[uuid.UUID]time.Time),
		ttl:      ttl,
		done:     make(chan struct{}),
	}
	go r.sweep()
	return r
}

// Open creates a new session starting at Uncategorized.
func (r *SessionRegistry) Open() *EntrySession {
	s := &EntrySession{
		ID:        uuid.New(),
		createdAt: time.Now(),
		open:      true,
		category:  model.CategoryUncategorized,
	}
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

// Get returns the session with the given handle.
func (r *SessionRegistry) Get(id uuid.UUID) (*EntrySession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session not found: %s", id)
	}
	return s, nil
}

// Close marks the session torn down. Outstanding results for it will be
// dropped on arrival; nothing is cancelled at the transport level.
func (r *SessionRegistry) Close(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		s.close()
		r.closedAt[id] = time.Now()
	}
}

// Stop terminates the background sweeper.
func (r *SessionRegistry) Stop() {
	close(r.done)
}

func (r *SessionRegistry) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			r.sweepOnce(time.Now())
		}
	}
}

func (r *SessionRegistry) sweepOnce(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sessions {
		if closed, ok := r.closedAt[id]; ok {
			if now.Sub(closed) > r.ttl {
				delete(r.sessions, id)
				delete(r.closedAt, id)
			}
			continue
		}
		if now.Sub(s.createdAt) > abandonedSessionAge {
			delete(r.sessions, id)
		}
	}
}

// ClassifyInto issues an asynchronous classification for the session. The
// call returns immediately; the result is applied on arrival subject to the
// reconciliation rule. The returned channel closes once the result has been
// applied or discarded, which tests and callers may wait on.
func (p *Pipeline) ClassifyInto(ctx context.Context, session *EntrySession, description string) <-chan struct{} {
	settled := make(chan struct{})
	seq, ok := session.beginRequest()
	if !ok {
		close(settled)
		return settled
	}

	go func() {
		defer close(settled)
		category := p.Classify(ctx, description)
		if !session.deliver(category, seq) {
			p.logger.Debug("stale classification discarded",
				zap.String("session", session.ID.String()),
				zap.String("category", category.String()))
		}
	}()
	return settled
}
