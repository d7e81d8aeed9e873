// Package domain contains core domain models for the Whot client.
//
// Everything here is a mirror of data owned by the game backend; the client
// never derives game outcomes from these types, it only renders them.
package domain

import "time"

// Game constants shared with the backend contract.
const (
	MaxPlayers             = 4
	MinPlayers             = 2
	InitialCards           = 6
	DefaultTurnSeconds     = 30
	DefaultGameMinutes     = 15
	CountdownBeforeStart   = 5  // seconds
	PlayedHistoryWindow    = 10 // most recent played cards kept client-side
	DisconnectGraceSeconds = 60
	ReplacementTimeoutSecs = 120
)

// Shape is a Whot card shape.
type Shape string

const (
	ShapeCircle   Shape = "circle"
	ShapeTriangle Shape = "triangle"
	ShapeCross    Shape = "cross"
	ShapeSquare   Shape = "square"
	ShapeStar     Shape = "star"
	ShapeWhot     Shape = "whot"
)

// Card is a single Whot card. Number 20 with ShapeWhot is the wildcard.
type Card struct {
	ID      string `json:"id"`
	Shape   Shape  `json:"shape"`
	Number  int    `json:"number"`
	Special bool   `json:"isSpecial,omitempty"` // pick-two, hold-on, general-market, suspension
}

// GameMode selects the matchmaking pool a room belongs to.
type GameMode string

const (
	ModeFree      GameMode = "free"
	ModeRank      GameMode = "rank"
	ModeCelebrity GameMode = "celebrity"
	ModeOffline   GameMode = "offline"
)

// Direction is the turn rotation direction.
type Direction string

const (
	DirectionClockwise        Direction = "clockwise"
	DirectionCounterclockwise Direction = "counterclockwise"
)

// GameStatus represents the lifecycle of a game room.
type GameStatus string

const (
	GameWaiting GameStatus = "waiting"
	GameActive  GameStatus = "active"
	GamePaused  GameStatus = "paused"
	GameEnded   GameStatus = "ended"
)

// RankTier is a player's competitive tier.
type RankTier string

const (
	TierAmateur   RankTier = "amateur"
	TierMaster    RankTier = "whot-master"
	TierLord      RankTier = "whot-lord"
	TierCelebrity RankTier = "celebrity"
)

// LobbyPlayer is a seated player in a pre-game lobby.
type LobbyPlayer struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Ready    bool   `json:"isReady"`
	Host     bool   `json:"isHost"`
}

// Observer watches a lobby or game without holding a hand.
type Observer struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Avatar     string `json:"avatar"`
	HandRaised bool   `json:"handRaised"`
	Unmuted    bool   `json:"isUnmuted"`
}

// LobbySettings are the host-chosen room parameters.
type LobbySettings struct {
	MaxPlayers int      `json:"maxPlayers"`
	EntryFee   int64    `json:"entryFee"`
	Duration   int      `json:"duration"` // minutes
	Private    bool     `json:"isPrivate"`
	Tier       RankTier `json:"tier,omitempty"` // rank mode only
}

// GamePlayer is an in-game participant. Only the local player's hand is ever
// populated (it lives in the game container's MyHand); opponents expose a
// count only.
type GamePlayer struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Avatar        string `json:"avatar"`
	CardCount     int    `json:"cardCount"`
	Disconnected  bool   `json:"isDisconnected"`
	LastCard      bool   `json:"isLastCard"`
	AudioMuted    bool   `json:"audioMuted"`
	VideoDisabled bool   `json:"videoDisabled"`
	Position      int    `json:"position"` // seat 0..3
	MissedTurns   int    `json:"missedTurns,omitempty"`
}

// Ranking is one row of a finished game's result table.
type Ranking struct {
	UserID   string `json:"userId"`
	Position int    `json:"position"`
	Earnings int64  `json:"earnings"`
}

// Payouts is the distribution breakdown for a finished celebrity game.
type Payouts struct {
	Celebrity      int64            `json:"celebrity"`
	Platform       int64            `json:"platform"`
	Winners        int64            `json:"winners"`
	LuckyObservers map[string]int64 `json:"luckyObservers,omitempty"`
}

// GameResults is the terminal summary pushed when a game ends.
type GameResults struct {
	Winner   string    `json:"winner"`
	Rankings []Ranking `json:"rankings"`
	Payouts  Payouts   `json:"payouts"`
	EndedAt  time.Time `json:"endedAt"`
}

// TransactionType classifies wallet transactions.
type TransactionType string

const (
	TxTypeDeposit    TransactionType = "deposit"
	TxTypeWithdrawal TransactionType = "withdrawal"
	TxTypeGameEntry  TransactionType = "game_entry"
	TxTypeGameWin    TransactionType = "game_win"
	TxTypeRefund     TransactionType = "refund"
	TxTypeGiveaway   TransactionType = "giveaway"
)

// Credits reports whether the transaction type increases the balance when it
// completes. Every other type is a debit.
func (t TransactionType) Credits() bool {
	switch t {
	case TxTypeDeposit, TxTypeGameWin, TxTypeRefund, TxTypeGiveaway:
		return true
	}
	return false
}

// TransactionStatus represents transaction state.
type TransactionStatus string

const (
	TxStatusPending   TransactionStatus = "pending"
	TxStatusCompleted TransactionStatus = "completed"
	TxStatusFailed    TransactionStatus = "failed"
	TxStatusCancelled TransactionStatus = "cancelled"
)

// Transaction is one wallet ledger entry as reported by the backend.
type Transaction struct {
	ID          string            `json:"id"`
	Type        TransactionType   `json:"type"`
	Amount      int64             `json:"amount"` // smallest currency unit
	Status      TransactionStatus `json:"status"`
	Description string            `json:"description"`
	Reference   string            `json:"reference,omitempty"`
	GameID      string            `json:"gameId,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// UserStats are aggregate lifetime figures for a profile.
type UserStats struct {
	GamesPlayed   int     `json:"gamesPlayed"`
	GamesWon      int     `json:"gamesWon"`
	TotalEarnings int64   `json:"totalEarnings"`
	WinRate       float64 `json:"winRate"`
}

// Friend is an entry in a profile's friends list.
type Friend struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Online   bool   `json:"isOnline"`
}

// Profile is the authenticated user's account data.
type Profile struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Avatar      string    `json:"avatar"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	Balance     int64     `json:"balance"`
	Coins       int64     `json:"coins"`
	Rank        RankTier  `json:"rank"`
	Celebrity   bool      `json:"isCelebrity"`
	Stats       UserStats `json:"stats"`
	Friends     []Friend  `json:"friends"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Severity classifies UI notifications.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notification is one entry in the ephemeral UI notification queue.
type Notification struct {
	ID       string   `json:"id"`
	Severity Severity `json:"type"`
	Message  string   `json:"message"`
	Action   string   `json:"action,omitempty"` // label for an optional follow-up
}
