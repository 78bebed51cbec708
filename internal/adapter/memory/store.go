package memory

import (
	"sync"
	"time"

	"github.com/PeterBarbas/leaply-sub001/internal/domain"
)

type Store struct {
	mu       sync.Mutex
	sessions map[int64]domain.Session
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[int64]domain.Session),
		now:      time.Now,
	}
}

// Get returns the session for chatID unless it has been idle longer than ttl.
// Expired sessions are dropped.
func (s *Store) Get(chatID int64, ttl time.Duration) (domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[chatID]
	if !ok {
		return domain.Session{}, false
	}
	if ttl > 0 && session.UpdatedAt.Before(s.now().Add(-ttl)) {
		delete(s.sessions, chatID)
		return domain.Session{}, false
	}

	session.Transcript = append(domain.Transcript(nil), session.Transcript...)
	return session, true
}

func (s *Store) Save(chatID int64, session domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session.Transcript = append(domain.Transcript(nil), session.Transcript...)
	session.UpdatedAt = s.now()
	s.sessions[chatID] = session
}

func (s *Store) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
}
