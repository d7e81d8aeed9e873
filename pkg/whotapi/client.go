package whotapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Afiolabi/kaji-whot-client/internal/domain"
)

// ErrUnauthorized is returned when a request stays unauthorized after the
// single refresh-and-replay attempt.
var ErrUnauthorized = errors.New("unauthorized")

// TokenSource supplies and refreshes the bearer token for authenticated
// calls. Refresh must be safe for concurrent use; the session layer
// deduplicates concurrent refreshes so only one hits the network.
type TokenSource interface {
	Token() string
	Refresh(ctx context.Context) (string, error)
}

// ClientConfig holds Whot API client configuration
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

// Client is a Whot platform API client
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	tokens     TokenSource
}

// NewClient creates a new Whot API client
func NewClient(config *ClientConfig, tokens TokenSource) *Client {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		tokens: tokens,
	}
}

// NewClientWithHTTPClient creates a new Whot API client with a custom HTTP client
func NewClientWithHTTPClient(config *ClientConfig, tokens TokenSource, httpClient *http.Client) *Client {
	return &Client{
		config:     config,
		httpClient: httpClient,
		tokens:     tokens,
	}
}

// send performs one HTTP exchange. A fresh request is built per attempt so a
// replay never reuses a consumed body reader.
func (c *Client) send(ctx context.Context, method, path string, body []byte, token string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.httpClient.Do(req)
}

// doRequest performs a request, decoding the result on success. Authed
// requests get exactly one refresh-and-replay on 401.
func (c *Client) doRequest(ctx context.Context, method, path string, reqBody, result any, authed bool) error {
	var bodyBytes []byte
	if reqBody != nil {
		var err error
		bodyBytes, err = json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	var token string
	if authed && c.tokens != nil {
		token = c.tokens.Token()
	}

	resp, err := c.send(ctx, method, path, bodyBytes, token)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized && authed && c.tokens != nil {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		newToken, refreshErr := c.tokens.Refresh(ctx)
		if refreshErr != nil {
			return fmt.Errorf("%w: %v", ErrUnauthorized, refreshErr)
		}

		resp, err = c.send(ctx, method, path, bodyBytes, newToken)
		if err != nil {
			return fmt.Errorf("request replay failed: %w", err)
		}
	}
	defer resp.Body.Close()

	return decodeResponse(resp, result)
}

func decodeResponse(resp *http.Response, result any) error {
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope errorEnvelope
		if err := json.Unmarshal(respBody, &envelope); err == nil && envelope.Error != nil {
			envelope.Error.Status = resp.StatusCode
			return envelope.Error
		}
		if resp.StatusCode == http.StatusUnauthorized {
			return ErrUnauthorized
		}
		return &APIError{
			Code:    "HTTP_" + strconv.Itoa(resp.StatusCode),
			Message: http.StatusText(resp.StatusCode),
			Status:  resp.StatusCode,
		}
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// Login authenticates with email and password
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var result AuthResult
	err := c.doRequest(ctx, http.MethodPost, "/auth/login", &LoginRequest{Email: email, Password: password}, &result, false)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Signup registers a new account
func (c *Client) Signup(ctx context.Context, req *SignupRequest) (*AuthResult, error) {
	var result AuthResult
	if err := c.doRequest(ctx, http.MethodPost, "/auth/signup", req, &result, false); err != nil {
		return nil, err
	}
	return &result, nil
}

// VerifyEmail confirms an email verification token
func (c *Client) VerifyEmail(ctx context.Context, token string) error {
	return c.doRequest(ctx, http.MethodPost, "/auth/verify-email",
		map[string]string{"token": token}, nil, false)
}

// ResetPassword starts a password reset for the given email
func (c *Client) ResetPassword(ctx context.Context, email string) error {
	return c.doRequest(ctx, http.MethodPost, "/auth/reset-password",
		map[string]string{"email": email}, nil, false)
}

// ResendVerification re-sends the verification email
func (c *Client) ResendVerification(ctx context.Context, email string) error {
	return c.doRequest(ctx, http.MethodPost, "/auth/resend-verification",
		map[string]string{"email": email}, nil, false)
}

// RefreshToken exchanges a refresh token for a new access token.
// This call never triggers the replay path itself.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	var result RefreshResult
	err := c.doRequest(ctx, http.MethodPost, "/auth/refresh",
		map[string]string{"refreshToken": refreshToken}, &result, false)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetProfile retrieves the authenticated user's profile
func (c *Client) GetProfile(ctx context.Context) (*domain.Profile, error) {
	var result domain.Profile
	if err := c.doRequest(ctx, http.MethodGet, "/user/profile", nil, &result, true); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateProfile applies partial profile changes
func (c *Client) UpdateProfile(ctx context.Context, updates map[string]any) (*domain.Profile, error) {
	var result domain.Profile
	if err := c.doRequest(ctx, http.MethodPatch, "/user/profile", updates, &result, true); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetFriends retrieves the friends list
func (c *Client) GetFriends(ctx context.Context) ([]domain.Friend, error) {
	var result []domain.Friend
	if err := c.doRequest(ctx, http.MethodGet, "/user/friends", nil, &result, true); err != nil {
		return nil, err
	}
	return result, nil
}

// AddFriend adds a user to the friends list
func (c *Client) AddFriend(ctx context.Context, userID string) error {
	return c.doRequest(ctx, http.MethodPost, "/user/friends",
		map[string]string{"userId": userID}, nil, true)
}

// RemoveFriend removes a user from the friends list
func (c *Client) RemoveFriend(ctx context.Context, userID string) error {
	return c.doRequest(ctx, http.MethodDelete, "/user/friends/"+url.PathEscape(userID), nil, nil, true)
}

// GetWalletBalance retrieves the current balance
func (c *Client) GetWalletBalance(ctx context.Context) (*BalanceResult, error) {
	var result BalanceResult
	if err := c.doRequest(ctx, http.MethodGet, "/wallet/balance", nil, &result, true); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetTransactions retrieves one page of the wallet ledger
func (c *Client) GetTransactions(ctx context.Context, page, limit int) (*TransactionsResult, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	var result TransactionsResult
	err := c.doRequest(ctx, http.MethodGet, "/wallet/transactions?"+query.Encode(), nil, &result, true)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// InitiateDeposit starts a deposit and returns the payment reference
func (c *Client) InitiateDeposit(ctx context.Context, amount int64) (*DepositInitResult, error) {
	var result DepositInitResult
	err := c.doRequest(ctx, http.MethodPost, "/wallet/deposit",
		map[string]int64{"amount": amount}, &result, true)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// VerifyDeposit confirms a deposit by its payment reference
func (c *Client) VerifyDeposit(ctx context.Context, reference string) (*domain.Transaction, error) {
	var result domain.Transaction
	err := c.doRequest(ctx, http.MethodPost, "/wallet/deposit/verify",
		map[string]string{"reference": reference}, &result, true)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// InitiateWithdrawal starts a withdrawal to the given bank account
func (c *Client) InitiateWithdrawal(ctx context.Context, amount int64, bank BankDetails) (*domain.Transaction, error) {
	var result domain.Transaction
	err := c.doRequest(ctx, http.MethodPost, "/wallet/withdrawal", map[string]any{
		"amount":      amount,
		"bankDetails": bank,
	}, &result, true)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetRooms lists joinable rooms for a mode
func (c *Client) GetRooms(ctx context.Context, mode domain.GameMode) ([]RoomSummary, error) {
	var result []RoomSummary
	err := c.doRequest(ctx, http.MethodGet, "/rooms/"+url.PathEscape(string(mode)), nil, &result, true)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CreateRoom creates a room and returns its pre-join view
func (c *Client) CreateRoom(ctx context.Context, req *CreateRoomRequest) (*RoomDetail, error) {
	var result RoomDetail
	if err := c.doRequest(ctx, http.MethodPost, "/rooms", req, &result, true); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetRoomDetails retrieves the pre-join view of one room
func (c *Client) GetRoomDetails(ctx context.Context, roomID string) (*RoomDetail, error) {
	var result RoomDetail
	err := c.doRequest(ctx, http.MethodGet, "/rooms/"+url.PathEscape(roomID), nil, &result, true)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SubmitCelebrityApplication submits a celebrity account application
func (c *Client) SubmitCelebrityApplication(ctx context.Context, app *CelebrityApplication) (*ApplicationStatus, error) {
	var result ApplicationStatus
	if err := c.doRequest(ctx, http.MethodPost, "/celebrity/apply", app, &result, true); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetCelebrityApplicationStatus retrieves the review state of the caller's application
func (c *Client) GetCelebrityApplicationStatus(ctx context.Context) (*ApplicationStatus, error) {
	var result ApplicationStatus
	err := c.doRequest(ctx, http.MethodGet, "/celebrity/application/status", nil, &result, true)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// UploadFile uploads a file (avatar or verification document) as multipart
// form data. Multipart bodies are not replayed; an expired token surfaces as
// ErrUnauthorized and the caller retries after the session refreshes.
func (c *Client) UploadFile(ctx context.Context, filename, fileType string, content io.Reader) (*UploadResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build form: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if err := writer.WriteField("type", fileType); err != nil {
		return nil, fmt.Errorf("failed to build form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/upload", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.tokens != nil {
		req.Header.Set("Authorization", "Bearer "+c.tokens.Token())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	var result UploadResult
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
