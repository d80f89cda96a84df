package identity

import (
	"fmt"
	"sync"

	"vendorhub/contexts/vendor-marketplace/vendor-console/domain/entities"
	domainerrors "vendorhub/contexts/vendor-marketplace/vendor-console/domain/errors"
	"vendorhub/internal/platform/auth"
)

// Session is the console identity provider. It holds the operator's HS256
// session token and streams identity changes on sign-in and sign-out.
type Session struct {
	secret []byte

	mu      sync.Mutex
	token   string
	current entities.Identity
	updates chan entities.Identity
	closed  bool
}

func NewSession(secret string) *Session {
	return &Session{
		secret:  []byte(secret),
		current: entities.UnresolvedIdentity(),
		updates: make(chan entities.Identity, 8),
	}
}

// Identities implements ports.IdentityProvider.
func (s *Session) Identities() <-chan entities.Identity {
	return s.updates
}

// SignIn validates token and publishes its subject. An invalid token signs
// the session out and returns ErrInvalidSession.
func (s *Session) SignIn(token string) error {
	subject, err := auth.ParseSubject(s.secret, token)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.token = ""
		s.publishLocked(entities.NullIdentity())
		return fmt.Errorf("%w: %v", domainerrors.ErrInvalidSession, err)
	}
	s.token = token
	s.publishLocked(entities.SubjectIdentity(subject))
	return nil
}

func (s *Session) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.publishLocked(entities.NullIdentity())
}

// Token returns the bearer token for API calls, empty when signed out.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Session) Current() entities.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Close ends the identity stream. Later sign-ins and sign-outs still update
// Current and Token but are no longer streamed.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.updates)
}

// publishLocked keeps the newest identity when the reader falls behind.
func (s *Session) publishLocked(identity entities.Identity) {
	s.current = identity
	if s.closed {
		return
	}
	select {
	case s.updates <- identity:
		return
	default:
	}
	select {
	case <-s.updates:
	default:
	}
	s.updates <- identity
}
