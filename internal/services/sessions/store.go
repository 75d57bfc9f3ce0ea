package sessions

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ternarybob/animus/internal/models"
)

// Session holds one user's transient working state: the uploaded
// questionnaire, answers, reference documents, and the last generated
// analysis. Nothing is persisted; a session lives only in memory and is
// discarded with the process.
type Session struct {
	ID            string
	Questionnaire *models.Questionnaire
	Answers       []models.Answer
	Education     *models.ReferenceDocument
	Technique     *models.ReferenceDocument
	Outcome       *models.AnalysisOutcome
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Store is an in-memory session registry. It is the only state shared
// across requests and is guarded by a single mutex; individual generation
// runs read their inputs once at invocation and never touch the store
// mid-flight.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty session store
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
	}
}

// Create registers a new session and returns it.
func (s *Store) Create() *Session {
	now := time.Now().UTC()
	session := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	return session
}

// Get returns a snapshot copy of the session, or ErrSessionNotFound.
// Copies keep readers isolated from concurrent updates.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, models.ErrSessionNotFound
	}

	snapshot := *session
	return &snapshot, nil
}

// Update applies a mutation to the session under the store lock.
func (s *Store) Update(id string, mutate func(*Session)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return models.ErrSessionNotFound
	}

	mutate(session)
	session.UpdatedAt = time.Now().UTC()
	return nil
}

// Delete removes a session.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Count returns the number of live sessions.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
