package buildsvc

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/nervapy-go/armgen/function"
)

// ErrSessionNotFound is returned when a session ID has no matching session.
var ErrSessionNotFound = errors.New("build session not found")

// Session is one tracked build: the request that created it and, once the
// pipeline finishes, its result or failure.
type Session struct {
	ID        string
	Request   BuildRequest
	CreatedAt time.Time

	mu     sync.RWMutex
	status string // "pending", "built", "failed"
	result *function.Result
	err    error
}

func (s *Session) view() SessionView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v := SessionView{
		ID:        s.ID,
		Name:      s.Request.Name,
		CreatedAt: s.CreatedAt,
		Status:    s.status,
	}
	if s.err != nil {
		v.Error = s.err.Error()
	}
	if s.result != nil {
		v.Result = toBuildResponse(s.Request.Name, s.result)
	}
	return v
}

func (s *Session) setResult(res *function.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = "built"
	s.result = res
}

func (s *Session) setError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = "failed"
	s.err = err
}

// SessionManager tracks every build session the service has created,
// mirroring the original emulator's session-table pattern but over build
// results rather than VM instances.
type SessionManager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	broadcaster *Broadcaster
	maxSessions int
}

// NewSessionManager creates a session manager bounded to maxSessions
// (0 means unbounded).
func NewSessionManager(broadcaster *Broadcaster, maxSessions int) *SessionManager {
	return &SessionManager{
		sessions:    make(map[string]*Session),
		broadcaster: broadcaster,
		maxSessions: maxSessions,
	}
}

// ErrTooManySessions is returned when CreateSession would exceed the
// configured session cap.
var ErrTooManySessions = errors.New("too many concurrent build sessions")

// CreateSession allocates a new pending session for req.
func (sm *SessionManager) CreateSession(req BuildRequest) (*Session, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.maxSessions > 0 && len(sm.sessions) >= sm.maxSessions {
		return nil, ErrTooManySessions
	}

	id, err := generateSessionID()
	if err != nil {
		return nil, err
	}

	session := &Session{
		ID:        id,
		Request:   req,
		CreatedAt: time.Now(),
		status:    "pending",
	}
	sm.sessions[id] = session
	return session, nil
}

// GetSession looks a session up by ID.
func (sm *SessionManager) GetSession(id string) (*Session, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	s, ok := sm.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// DestroySession removes a session by ID.
func (sm *SessionManager) DestroySession(id string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if _, ok := sm.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(sm.sessions, id)
	return nil
}

// ListSessions returns every session's current view.
func (sm *SessionManager) ListSessions() []SessionView {
	sm.mu.RLock()
	ids := make([]*Session, 0, len(sm.sessions))
	for _, s := range sm.sessions {
		ids = append(ids, s)
	}
	sm.mu.RUnlock()

	views := make([]SessionView, len(ids))
	for i, s := range ids {
		views[i] = s.view()
	}
	return views
}

// Count reports the number of tracked sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

func generateSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
