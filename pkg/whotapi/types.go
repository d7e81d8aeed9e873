package whotapi

import (
	"time"

	"github.com/Afiolabi/kaji-whot-client/internal/domain"
)

// Error codes returned by the Whot platform API
const (
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeInvalidRefresh     = "INVALID_REFRESH_TOKEN"
	CodeInsufficientFunds  = "INSUFFICIENT_FUNDS"
	CodeRoomFull           = "ROOM_FULL"
	CodeRoomNotFound       = "ROOM_NOT_FOUND"
	CodeValidation         = "VALIDATION_ERROR"
)

// APIError represents an error response from the API
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *APIError) Error() string {
	return e.Message
}

// errorEnvelope is the wire shape of a failed response
type errorEnvelope struct {
	Error *APIError `json:"error"`
}

// LoginRequest is the request body for /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest is the request body for /auth/signup
type SignupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Username    string `json:"username"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// AuthResult is the result of a successful login or signup
type AuthResult struct {
	Token        string         `json:"token"`
	RefreshToken string         `json:"refreshToken"`
	User         domain.Profile `json:"user"`
}

// RefreshResult is the result of a token refresh
type RefreshResult struct {
	Token string `json:"token"`
}

// MessageResult is a bare acknowledgement
type MessageResult struct {
	Message string `json:"message"`
}

// BalanceResult is the result of a wallet balance query
type BalanceResult struct {
	Balance int64 `json:"balance"`
	Coins   int64 `json:"coins"`
}

// TransactionsResult is one page of the wallet ledger
type TransactionsResult struct {
	Transactions []domain.Transaction `json:"transactions"`
	Page         int                  `json:"page"`
	Total        int                  `json:"total"`
}

// DepositInitResult carries the payment reference for a started deposit
type DepositInitResult struct {
	Reference string `json:"reference"`
	PayURL    string `json:"paymentUrl"`
	Amount    int64  `json:"amount"`
}

// BankDetails identifies the withdrawal destination
type BankDetails struct {
	BankCode      string `json:"bankCode"`
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName"`
}

// CreateRoomRequest is the request body for POST /rooms
type CreateRoomRequest struct {
	Mode     domain.GameMode      `json:"mode"`
	Settings domain.LobbySettings `json:"settings"`
}

// RoomSummary is one row of a room listing
type RoomSummary struct {
	ID          string               `json:"id"`
	HostID      string               `json:"hostId"`
	Mode        domain.GameMode      `json:"mode"`
	Settings    domain.LobbySettings `json:"settings"`
	PlayerCount int                  `json:"playerCount"`
	Status      domain.GameStatus    `json:"status"`
	CreatedAt   time.Time            `json:"createdAt"`
}

// RoomDetail is the full pre-join view of a room
type RoomDetail struct {
	RoomSummary
	Players   []domain.LobbyPlayer `json:"players"`
	Observers []domain.Observer    `json:"observers"`
	VideoURL  string               `json:"videoUrl,omitempty"`
}

// SocialAccount is one social-media entry of a celebrity application
type SocialAccount struct {
	Platform  string `json:"platform"`
	Username  string `json:"username"`
	Followers int64  `json:"followers"`
}

// CelebrityApplication is the request body for /celebrity/apply
type CelebrityApplication struct {
	StageName   string          `json:"stageName"`
	Bio         string          `json:"bio"`
	SocialMedia []SocialAccount `json:"socialMedia"`
	Documents   []string        `json:"documents"`
}

// ApplicationStatus is the review state of a celebrity application
type ApplicationStatus struct {
	Status      string    `json:"status"` // pending, approved, rejected
	SubmittedAt time.Time `json:"submittedAt"`
	Reason      string    `json:"reason,omitempty"`
}

// UploadResult carries the stored location of an uploaded file
type UploadResult struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}
