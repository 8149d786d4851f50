package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/matheus3301/padesk/internal/bus"
	"github.com/matheus3301/padesk/internal/logging"
	"github.com/matheus3301/padesk/internal/metrics"
	"github.com/matheus3301/padesk/internal/store"
	"go.uber.org/zap"
)

var (
	// ErrNoRefreshToken is returned by Refresh when the session has nothing to refresh with.
	ErrNoRefreshToken = errors.New("no refresh token")
	// ErrExpired is returned by Refresh once the session has been expired.
	ErrExpired = errors.New("session expired")
)

// TokenStore persists the session between runs.
type TokenStore interface {
	SaveTokens(t store.Tokens) error
	LoadTokens() (*store.Tokens, error)
	ClearTokens() error
}

// Refresher talks to the backend's authentication endpoints.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (store.Tokens, error)
	Login(ctx context.Context, email, password string) (store.Tokens, error)
}

// LogoutEvent is the payload of session.logged_out.
type LogoutEvent struct {
	Reason string
}

// Session holds the bearer token and runs the refresh protocol.
// It implements apiclient.Authenticator.
type Session struct {
	mu        sync.Mutex
	tokens    store.Tokens
	inflight  *refreshCall
	machine   *Machine
	store     TokenStore
	refresher Refresher
	bus       *bus.Bus
	logger    *zap.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

type refreshCall struct {
	done chan struct{}
	err  error
}

// NewSession restores the persisted session, starting VALID when tokens exist
// and EXPIRED otherwise.
func NewSession(st TokenStore, r Refresher, b *bus.Bus, logger *zap.Logger, m *metrics.Metrics) (*Session, error) {
	s := &Session{
		store:     st,
		refresher: r,
		bus:       b,
		logger:    logging.OrNop(logger),
		metrics:   m,
		now:       time.Now,
	}

	initial := Expired
	if st != nil {
		saved, err := st.LoadTokens()
		if err != nil {
			return nil, fmt.Errorf("load tokens: %w", err)
		}
		if saved != nil && saved.AccessToken != "" {
			s.tokens = *saved
			initial = Valid
		}
	}
	s.machine = NewMachine(initial, b)
	return s, nil
}

// State returns the current protocol state.
func (s *Session) State() State {
	return s.machine.Current()
}

// Subject returns the signed-in principal, if known.
func (s *Session) Subject() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens.Subject
}

// Token returns the bearer token, or "" when the session is expired.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.machine.Current() == Expired {
		return ""
	}
	return s.tokens.AccessToken
}

// ExpiresAt returns the access token's expiry, or the zero time when unknown.
func (s *Session) ExpiresAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tokens.ExpiresAt == 0 {
		return time.Time{}
	}
	return time.UnixMilli(s.tokens.ExpiresAt)
}

// NeedsRefresh reports whether the token expires within skew and can be refreshed.
func (s *Session) NeedsRefresh(skew time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.machine.Current() != Valid || s.tokens.RefreshToken == "" || s.tokens.ExpiresAt == 0 {
		return false
	}
	return !s.now().Add(skew).Before(time.UnixMilli(s.tokens.ExpiresAt))
}

// Refresh exchanges the refresh token for a new access token. Concurrent callers
// share a single backend call. A failure that is not the caller's cancellation
// expires the session.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if call := s.inflight; call != nil {
		s.mu.Unlock()
		select {
		case <-call.done:
			return call.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if s.machine.Current() == Expired {
		s.mu.Unlock()
		return ErrExpired
	}
	refreshToken := s.tokens.RefreshToken
	if refreshToken == "" {
		s.mu.Unlock()
		s.Expire("no refresh token")
		return ErrNoRefreshToken
	}
	if err := s.machine.Transition(Refreshing); err != nil {
		s.mu.Unlock()
		return err
	}
	call := &refreshCall{done: make(chan struct{})}
	s.inflight = call
	s.mu.Unlock()

	tokens, err := s.refresher.Refresh(ctx, refreshToken)
	s.metrics.ObserveRefresh(err == nil)

	s.mu.Lock()
	s.inflight = nil
	switch {
	case s.machine.Current() != Refreshing:
		// Expired while the call was in flight.
		err = ErrExpired
		s.mu.Unlock()
	case err == nil:
		if tokens.RefreshToken == "" {
			tokens.RefreshToken = refreshToken
		}
		if tokens.Subject == "" {
			tokens.Subject = s.tokens.Subject
		}
		s.tokens = complete(tokens)
		if s.store != nil {
			if saveErr := s.store.SaveTokens(s.tokens); saveErr != nil {
				s.logger.Warn("persist refreshed tokens", zap.Error(saveErr))
			}
		}
		_ = s.machine.Transition(Valid)
		s.mu.Unlock()
		s.logger.Info("session refreshed", zap.Time("expires_at", time.UnixMilli(s.tokens.ExpiresAt)))
	case ctx.Err() != nil:
		_ = s.machine.Transition(Valid)
		s.mu.Unlock()
	default:
		s.mu.Unlock()
		s.logger.Warn("session refresh failed", zap.Error(err))
		s.Expire("token refresh failed")
		err = fmt.Errorf("refresh session: %w", err)
	}

	call.err = err
	close(call.done)
	return err
}

// Expire clears the persisted session and publishes session.logged_out.
// Expiring an already expired session does nothing.
func (s *Session) Expire(reason string) {
	s.mu.Lock()
	if s.machine.Current() == Expired {
		s.mu.Unlock()
		return
	}
	s.tokens = store.Tokens{}
	if s.store != nil {
		if err := s.store.ClearTokens(); err != nil {
			s.logger.Warn("clear tokens", zap.Error(err))
		}
	}
	_ = s.machine.Transition(Expired)
	s.mu.Unlock()

	s.logger.Info("session expired", zap.String("reason", reason))
	if s.bus != nil {
		s.bus.Publish(bus.Event{
			Kind:      bus.KindSessionLogout,
			Timestamp: time.Now(),
			Payload:   LogoutEvent{Reason: reason},
		})
	}
}

// SignIn authenticates with email and password and stores the new session.
func (s *Session) SignIn(ctx context.Context, email, password string) error {
	tokens, err := s.refresher.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("sign in: %w", err)
	}
	tokens = complete(tokens)
	if tokens.Subject == "" {
		tokens.Subject = email
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = tokens
	if s.store != nil {
		if err := s.store.SaveTokens(s.tokens); err != nil {
			return fmt.Errorf("save tokens: %w", err)
		}
	}
	if s.machine.Current() != Valid {
		if err := s.machine.Transition(Valid); err != nil {
			return err
		}
	}
	s.logger.Info("signed in", zap.String("subject", s.tokens.Subject))
	return nil
}

// SignOut ends the session locally.
func (s *Session) SignOut() {
	s.Expire("signed out")
}

// complete fills ExpiresAt and Subject from the access token's claims when the
// backend did not report them.
func complete(t store.Tokens) store.Tokens {
	if t.ExpiresAt != 0 && t.Subject != "" {
		return t
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(t.AccessToken, claims); err != nil {
		return t
	}
	if t.ExpiresAt == 0 {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			t.ExpiresAt = exp.UnixMilli()
		}
	}
	if t.Subject == "" {
		if sub, err := claims.GetSubject(); err == nil {
			t.Subject = sub
		}
	}
	return t
}
