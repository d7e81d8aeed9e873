package whotapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Afiolabi/kaji-whot-client/internal/domain"
)

const (
	testToken        = "access-token-1"
	testFreshToken   = "access-token-2"
	testRefreshToken = "refresh-token-1"
)

// fakeTokens is an in-memory TokenSource. Refresh swaps in testFreshToken
// and counts calls.
type fakeTokens struct {
	mu       sync.Mutex
	token    string
	refreshN int
	fail     bool
}

func (f *fakeTokens) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeTokens) Refresh(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshN++
	if f.fail {
		return "", errors.New("refresh rejected")
	}
	f.token = testFreshToken
	return f.token, nil
}

// mockServer creates a test server that validates the bearer header and
// returns the given response for the expected path
func mockServer(t *testing.T, expectedMethod, expectedPath string, validateBody func(body []byte) error, response interface{}) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != expectedMethod {
			t.Errorf("Expected %s, got %s", expectedMethod, r.Method)
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if r.URL.Path != expectedPath {
			t.Errorf("Expected path %s, got %s", expectedPath, r.URL.Path)
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}

		if validateBody != nil {
			body, err := io.ReadAll(r.Body)
			if err != nil {
				t.Errorf("Failed to read body: %v", err)
				http.Error(w, "Bad request", http.StatusBadRequest)
				return
			}
			if err := validateBody(body); err != nil {
				t.Errorf("Body validation failed: %v", err)
				http.Error(w, "Bad request", http.StatusBadRequest)
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
}

// newTestClient creates a client configured for testing
func newTestClient(baseURL string, tokens TokenSource) *Client {
	return NewClient(&ClientConfig{
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
	}, tokens)
}

func TestLogin_Success(t *testing.T) {
	expectedResponse := AuthResult{
		Token:        testToken,
		RefreshToken: testRefreshToken,
		User: domain.Profile{
			ID:       "user-1",
			Username: "chidi",
			Email:    "chidi@example.com",
		},
	}

	server := mockServer(t, http.MethodPost, "/auth/login", func(body []byte) error {
		var req LoginRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return err
		}
		if req.Email != "chidi@example.com" {
			t.Errorf("Expected email 'chidi@example.com', got '%s'", req.Email)
		}
		if req.Password != "secret" {
			t.Errorf("Expected password 'secret', got '%s'", req.Password)
		}
		return nil
	}, expectedResponse)
	defer server.Close()

	client := newTestClient(server.URL, &fakeTokens{})
	result, err := client.Login(context.Background(), "chidi@example.com", "secret")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if result.Token != testToken {
		t.Errorf("Expected token %s, got %s", testToken, result.Token)
	}
	if result.User.Username != "chidi" {
		t.Errorf("Expected username 'chidi', got '%s'", result.User.Username)
	}
}

func TestLogin_NoBearerHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "" {
			t.Errorf("Expected no Authorization header on login, got %q", auth)
		}
		json.NewEncoder(w).Encode(AuthResult{Token: testToken})
	}))
	defer server.Close()

	tokens := &fakeTokens{token: "stale-token"}
	client := newTestClient(server.URL, tokens)
	if _, err := client.Login(context.Background(), "a@b.c", "pw"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
}

func TestGetProfile_SendsBearer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer "+testToken {
			t.Errorf("Expected bearer %s, got %q", testToken, auth)
		}
		json.NewEncoder(w).Encode(domain.Profile{ID: "user-1", Username: "chidi"})
	}))
	defer server.Close()

	client := newTestClient(server.URL, &fakeTokens{token: testToken})
	profile, err := client.GetProfile(context.Background())
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if profile.ID != "user-1" {
		t.Errorf("Expected profile id 'user-1', got '%s'", profile.ID)
	}
}

func TestRefreshReplay_ExactlyOnce(t *testing.T) {
	var requests []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		requests = append(requests, auth)
		if auth != "Bearer "+testFreshToken {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(errorEnvelope{Error: &APIError{
				Code:    CodeTokenExpired,
				Message: "token expired",
			}})
			return
		}
		json.NewEncoder(w).Encode(BalanceResult{Balance: 2500})
	}))
	defer server.Close()

	tokens := &fakeTokens{token: testToken}
	client := newTestClient(server.URL, tokens)

	result, err := client.GetWalletBalance(context.Background())
	if err != nil {
		t.Fatalf("GetWalletBalance failed: %v", err)
	}
	if result.Balance != 2500 {
		t.Errorf("Expected balance 2500, got %d", result.Balance)
	}
	if tokens.refreshN != 1 {
		t.Errorf("Expected exactly 1 refresh, got %d", tokens.refreshN)
	}
	if len(requests) != 2 {
		t.Fatalf("Expected 2 requests (original + replay), got %d", len(requests))
	}
	if requests[0] != "Bearer "+testToken {
		t.Errorf("Original request sent %q", requests[0])
	}
	if requests[1] != "Bearer "+testFreshToken {
		t.Errorf("Replay sent %q", requests[1])
	}
}

func TestRefreshReplay_BodyRebuiltOnReplay(t *testing.T) {
	var bodies []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(body))
		if r.Header.Get("Authorization") != "Bearer "+testFreshToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(DepositInitResult{Reference: "ref-1"})
	}))
	defer server.Close()

	client := newTestClient(server.URL, &fakeTokens{token: testToken})
	result, err := client.InitiateDeposit(context.Background(), 1000)
	if err != nil {
		t.Fatalf("InitiateDeposit failed: %v", err)
	}
	if result.Reference != "ref-1" {
		t.Errorf("Expected reference 'ref-1', got '%s'", result.Reference)
	}
	if len(bodies) != 2 {
		t.Fatalf("Expected 2 requests, got %d", len(bodies))
	}
	if bodies[0] != bodies[1] {
		t.Errorf("Replay body differs: %q vs %q", bodies[0], bodies[1])
	}
	if !strings.Contains(bodies[1], "1000") {
		t.Errorf("Replay body lost the payload: %q", bodies[1])
	}
}

func TestRefreshReplay_SecondUnauthorizedIsTerminal(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	tokens := &fakeTokens{token: testToken}
	client := newTestClient(server.URL, tokens)

	_, err := client.GetProfile(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("Expected ErrUnauthorized, got %v", err)
	}
	if hits != 2 {
		t.Errorf("Expected exactly 2 requests, got %d", hits)
	}
	if tokens.refreshN != 1 {
		t.Errorf("Expected exactly 1 refresh, got %d", tokens.refreshN)
	}
}

func TestRefreshReplay_RefreshFailureShortCircuits(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	tokens := &fakeTokens{token: testToken, fail: true}
	client := newTestClient(server.URL, tokens)

	_, err := client.GetProfile(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("Expected ErrUnauthorized, got %v", err)
	}
	if hits != 1 {
		t.Errorf("Expected no replay after failed refresh, got %d requests", hits)
	}
}

func TestErrorEnvelope_Decoded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		json.NewEncoder(w).Encode(errorEnvelope{Error: &APIError{
			Code:    CodeInsufficientFunds,
			Message: "balance too low",
		}})
	}))
	defer server.Close()

	client := newTestClient(server.URL, &fakeTokens{token: testToken})
	_, err := client.InitiateWithdrawal(context.Background(), 100000, BankDetails{})
	if err == nil {
		t.Fatal("Expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Code != CodeInsufficientFunds {
		t.Errorf("Expected code %s, got %s", CodeInsufficientFunds, apiErr.Code)
	}
	if apiErr.Status != http.StatusPaymentRequired {
		t.Errorf("Expected status 402, got %d", apiErr.Status)
	}
}

func TestErrorEnvelope_NonJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "upstream down")
	}))
	defer server.Close()

	client := newTestClient(server.URL, &fakeTokens{token: testToken})
	_, err := client.GetProfile(context.Background())

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Status != http.StatusBadGateway {
		t.Errorf("Expected status 502, got %d", apiErr.Status)
	}
}

func TestGetTransactions_Pagination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("page"); got != "3" {
			t.Errorf("Expected page=3, got %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "50" {
			t.Errorf("Expected limit=50, got %q", got)
		}
		json.NewEncoder(w).Encode(TransactionsResult{
			Transactions: []domain.Transaction{{ID: "tx-1"}},
			Page:         3,
			Total:        130,
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL, &fakeTokens{token: testToken})
	result, err := client.GetTransactions(context.Background(), 3, 50)
	if err != nil {
		t.Fatalf("GetTransactions failed: %v", err)
	}
	if len(result.Transactions) != 1 || result.Total != 130 {
		t.Errorf("Unexpected result: %+v", result)
	}
}

func TestGetRooms_ByMode(t *testing.T) {
	server := mockServer(t, http.MethodGet, "/rooms/rank", nil, []RoomSummary{
		{ID: "room-1", Mode: domain.ModeRank},
	})
	defer server.Close()

	client := newTestClient(server.URL, &fakeTokens{token: testToken})
	rooms, err := client.GetRooms(context.Background(), domain.ModeRank)
	if err != nil {
		t.Fatalf("GetRooms failed: %v", err)
	}
	if len(rooms) != 1 || rooms[0].ID != "room-1" {
		t.Errorf("Unexpected rooms: %+v", rooms)
	}
}

func TestUploadFile_Multipart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("Failed to parse multipart: %v", err)
		}
		if got := r.FormValue("type"); got != "avatar" {
			t.Errorf("Expected type 'avatar', got %q", got)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("Missing file part: %v", err)
		}
		defer file.Close()
		if header.Filename != "me.png" {
			t.Errorf("Expected filename 'me.png', got %q", header.Filename)
		}
		content, _ := io.ReadAll(file)
		if string(content) != "png-bytes" {
			t.Errorf("Unexpected file content: %q", content)
		}
		json.NewEncoder(w).Encode(UploadResult{URL: "https://cdn.example.com/me.png"})
	}))
	defer server.Close()

	client := newTestClient(server.URL, &fakeTokens{token: testToken})
	result, err := client.UploadFile(context.Background(), "me.png", "avatar", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("UploadFile failed: %v", err)
	}
	if result.URL != "https://cdn.example.com/me.png" {
		t.Errorf("Unexpected URL: %s", result.URL)
	}
}
