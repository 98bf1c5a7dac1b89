package paging

import (
	"errors"
	"fmt"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

var ErrSessionNotFound = errors.New("page session not found or expired")

type session[T any] struct {
	value     T
	expiresAt time.Time
}

// Sessions keeps snapshots reachable by an opaque token until their TTL elapses.
type Sessions[T any] struct {
	mu       sync.Mutex
	sessions map[string]session[T]
	ttl      time.Duration
	now      func() time.Time
	logger   zerolog.Logger
}

func NewSessions[T any](ttl time.Duration, logger zerolog.Logger) *Sessions[T] {
	return &Sessions[T]{
		sessions: make(map[string]session[T]),
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
	}
}

func (s *Sessions[T]) Open(value T) (string, error) {
	token, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[token] = session[T]{
		value:     value,
		expiresAt: s.now().Add(s.ttl),
	}

	s.logger.Debug().Str("session", token).Dur("ttl", s.ttl).Msg("page session opened")
	return token, nil
}

func (s *Sessions[T]) Get(token string) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		var zero T
		return zero, ErrSessionNotFound
	}
	if !s.now().Before(sess.expiresAt) {
		delete(s.sessions, token)
		var zero T
		return zero, ErrSessionNotFound
	}
	return sess.value, nil
}

func (s *Sessions[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops expired sessions and reports how many were removed.
func (s *Sessions[T]) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for token, sess := range s.sessions {
		if !now.Before(sess.expiresAt) {
			delete(s.sessions, token)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Debug().Int("removed", removed).Int("remaining", len(s.sessions)).Msg("expired page sessions swept")
	}
	return removed
}
