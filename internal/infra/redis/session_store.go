package redis

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"waffles-trivia-service/internal/app"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Sessions and their broadcast fan-out stay in process; Redis carries a
// liveness marker per game (value: unix start time) so other instances and
// operators can see which games are running on this node.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	now      func() time.Time
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) GetOrCreate(quizID string) *app.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[quizID]; ok {
		return session
	}
	session := app.NewSession(quizID)
	s.sessions[quizID] = session
	// best-effort liveness marker
	started := strconv.FormatInt(s.now().Unix(), 10)
	_ = s.client.Set(context.Background(), s.key(quizID), started, s.ttl).Err()
	return session
}

func (s *SessionStore) Get(quizID string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[quizID]
	if ok && s.ttl > 0 {
		_ = s.client.Expire(context.Background(), s.key(quizID), s.ttl).Err()
	}
	return session, ok
}

func (s *SessionStore) DeleteIfEmpty(quizID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[quizID]
	if !ok {
		return
	}
	if session.IsEmpty() {
		delete(s.sessions, quizID)
		_ = s.client.Del(context.Background(), s.key(quizID)).Err()
	}
}

func (s *SessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *SessionStore) key(quizID string) string {
	return "quiz:session:" + quizID
}
