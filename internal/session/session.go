// Package session owns the token lifecycle: it hands the current access
// token to the API client, refreshes it when the backend rejects it, and
// tears the session down when the refresh token itself is no longer good.
//
// Concurrent refreshes collapse into a single network call; every waiter
// gets the outcome of that one call.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"

	"github.com/Afiolabi/kaji-whot-client/internal/state"
	"github.com/Afiolabi/kaji-whot-client/pkg/whotapi"
)

// ErrNoSession is returned when a refresh is attempted without a stored
// refresh token.
var ErrNoSession = errors.New("no active session")

// Refresher is the one API call the session layer needs. *whotapi.Client
// satisfies it.
type Refresher interface {
	RefreshToken(ctx context.Context, refreshToken string) (*whotapi.RefreshResult, error)
}

// Manager bridges the auth container and the API client. It implements
// whotapi.TokenSource.
type Manager struct {
	store *state.Store
	api   Refresher
	group singleflight.Group
}

// NewManager creates a session manager reading tokens from the store.
// The API client is attached afterwards with SetAPI because the client
// itself needs the manager as its token source.
func NewManager(store *state.Store) *Manager {
	return &Manager{store: store}
}

// SetAPI attaches the refresh endpoint. Must be called before Refresh.
func (m *Manager) SetAPI(api Refresher) {
	m.api = api
}

// Token returns the current access token, or "" when logged out.
func (m *Manager) Token() string {
	return m.store.State().Auth.Token
}

// Authenticated reports whether a session is active.
func (m *Manager) Authenticated() bool {
	return m.store.State().Auth.Authenticated
}

// Refresh exchanges the stored refresh token for a new access token and
// dispatches it into the store. Concurrent callers share one exchange.
// A rejected refresh token logs the session out.
func (m *Manager) Refresh(ctx context.Context) (string, error) {
	token, err, _ := m.group.Do("refresh", func() (interface{}, error) {
		refreshToken := m.store.State().Auth.RefreshToken
		if refreshToken == "" {
			return "", ErrNoSession
		}

		result, err := m.api.RefreshToken(ctx, refreshToken)
		if err != nil {
			var apiErr *whotapi.APIError
			if errors.As(err, &apiErr) && apiErr.Code == whotapi.CodeInvalidRefresh {
				log.Printf("session: refresh token rejected, logging out")
				m.store.Dispatch(state.LoggedOut{})
			}
			return "", fmt.Errorf("token refresh failed: %w", err)
		}

		m.store.Dispatch(state.TokenRefreshed{Token: result.Token})
		return result.Token, nil
	})
	if err != nil {
		return "", err
	}
	return token.(string), nil
}

// Logout destroys the session locally.
func (m *Manager) Logout() {
	m.store.Dispatch(state.LoggedOut{})
}

// ExpiresAt reads the exp claim of the current access token without
// verifying the signature. Verification is the backend's job; the client
// only needs the deadline to refresh ahead of it.
func (m *Manager) ExpiresAt() (time.Time, bool) {
	return tokenExpiry(m.Token())
}

// ExpiresSoon reports whether the access token is inside the given window
// of its expiry. A token without a readable exp claim is treated as fresh.
func (m *Manager) ExpiresSoon(window time.Duration) bool {
	exp, ok := m.ExpiresAt()
	if !ok {
		return false
	}
	return time.Until(exp) < window
}

func tokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
