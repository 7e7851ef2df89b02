package importer

import (
	"sync"
	"time"

	"github.com/jhoicas/seller-finance-api/internal/domain"
)

// SessionStore sesiones de importación en memoria con vencimiento. Pensado para una única
// instancia; las sesiones no sobreviven a un reinicio.
type SessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*Session
}

// NewSessionStore crea el almacén. ttl <= 0 usa 30 minutos.
func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SessionStore{ttl: ttl, now: time.Now, sessions: make(map[string]*Session)}
}

// Put guarda la sesión y fija su vencimiento.
func (s *SessionStore) Put(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.ExpiresAt = s.now().Add(s.ttl)
	s.sessions[sess.ID] = sess
}

// Get devuelve la sesión del usuario y renueva su vencimiento. Sesiones vencidas o de otro
// usuario se reportan como ErrNotFound.
func (s *SessionStore) Get(userID, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok || sess.UserID != userID {
		return nil, domain.ErrNotFound
	}
	now := s.now()
	if now.After(sess.ExpiresAt) {
		delete(s.sessions, id)
		return nil, domain.ErrNotFound
	}
	sess.ExpiresAt = now.Add(s.ttl)
	return sess, nil
}

// Delete descarta una sesión.
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Sweep elimina las sesiones vencidas y devuelve cuántas quitó.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for id, sess := range s.sessions {
		if now.After(sess.ExpiresAt) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// Len cantidad de sesiones guardadas.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
