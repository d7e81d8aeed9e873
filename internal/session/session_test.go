package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Afiolabi/kaji-whot-client/internal/state"
	"github.com/Afiolabi/kaji-whot-client/pkg/whotapi"
)

// fakeRefresher counts refresh calls and can be told to block until
// released, to prove deduplication.
type fakeRefresher struct {
	calls   int32
	release chan struct{}
	err     error
}

func (f *fakeRefresher) RefreshToken(ctx context.Context, refreshToken string) (*whotapi.RefreshResult, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	return &whotapi.RefreshResult{Token: "fresh-token"}, nil
}

func newTestManager(t *testing.T, api Refresher) (*Manager, *state.Store) {
	t.Helper()
	store := state.NewStore()
	store.Dispatch(state.LoggedIn{Token: "old-token", RefreshToken: "rt-1"})
	mgr := NewManager(store)
	mgr.SetAPI(api)
	return mgr, store
}

func TestRefresh_UpdatesStore(t *testing.T) {
	api := &fakeRefresher{}
	mgr, store := newTestManager(t, api)

	token, err := mgr.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if token != "fresh-token" {
		t.Errorf("Expected 'fresh-token', got %q", token)
	}
	if got := store.State().Auth.Token; got != "fresh-token" {
		t.Errorf("Store token not updated: %q", got)
	}
	if !store.State().Auth.Authenticated {
		t.Error("Refresh must not log the session out")
	}
}

func TestRefresh_ConcurrentCallersShareOneExchange(t *testing.T) {
	api := &fakeRefresher{release: make(chan struct{})}
	mgr, _ := newTestManager(t, api)

	const callers = 8
	var wg sync.WaitGroup
	results := make([]string, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = mgr.Refresh(context.Background())
		}(i)
	}

	// Let all callers pile up behind the in-flight exchange.
	time.Sleep(50 * time.Millisecond)
	close(api.release)
	wg.Wait()

	if n := atomic.LoadInt32(&api.calls); n != 1 {
		t.Fatalf("Expected 1 network refresh, got %d", n)
	}
	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Errorf("Caller %d failed: %v", i, errs[i])
		}
		if results[i] != "fresh-token" {
			t.Errorf("Caller %d got %q", i, results[i])
		}
	}
}

func TestRefresh_InvalidRefreshTokenLogsOut(t *testing.T) {
	api := &fakeRefresher{err: &whotapi.APIError{
		Code:    whotapi.CodeInvalidRefresh,
		Message: "refresh token expired",
	}}
	mgr, store := newTestManager(t, api)

	if _, err := mgr.Refresh(context.Background()); err == nil {
		t.Fatal("Expected error")
	}
	auth := store.State().Auth
	if auth.Authenticated || auth.Token != "" || auth.RefreshToken != "" {
		t.Errorf("Expected session destroyed, got %+v", auth)
	}
}

func TestRefresh_TransientErrorKeepsSession(t *testing.T) {
	api := &fakeRefresher{err: errors.New("connection reset")}
	mgr, store := newTestManager(t, api)

	if _, err := mgr.Refresh(context.Background()); err == nil {
		t.Fatal("Expected error")
	}
	auth := store.State().Auth
	if !auth.Authenticated || auth.RefreshToken != "rt-1" {
		t.Errorf("Transient failure must not destroy the session: %+v", auth)
	}
}

func TestRefresh_NoSession(t *testing.T) {
	store := state.NewStore()
	mgr := NewManager(store)
	mgr.SetAPI(&fakeRefresher{})

	if _, err := mgr.Refresh(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Fatalf("Expected ErrNoSession, got %v", err)
	}
}

func mintToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return signed
}

func TestExpiresSoon(t *testing.T) {
	store := state.NewStore()
	mgr := NewManager(store)

	store.Dispatch(state.LoggedIn{
		Token:        mintToken(t, time.Now().Add(2*time.Minute)),
		RefreshToken: "rt-1",
	})
	if !mgr.ExpiresSoon(5 * time.Minute) {
		t.Error("Token expiring in 2m is inside a 5m window")
	}
	if mgr.ExpiresSoon(30 * time.Second) {
		t.Error("Token expiring in 2m is outside a 30s window")
	}
}

func TestExpiresSoon_OpaqueToken(t *testing.T) {
	store := state.NewStore()
	mgr := NewManager(store)
	store.Dispatch(state.LoggedIn{Token: "not-a-jwt", RefreshToken: "rt-1"})

	if mgr.ExpiresSoon(time.Hour) {
		t.Error("Unreadable token must be treated as fresh")
	}
}
