package gateway

import (
	"encoding/json"
	"fmt"

	"github.com/Afiolabi/kaji-whot-client/internal/domain"
)

// Event is one message from the game server, decoded into a concrete
// variant. Connection-level transitions (connected, disconnected, terminal
// failure) are synthesized as variants too, so subscribers see one ordered
// stream.
type Event interface {
	isEvent()
}

// Connected is synthesized when the socket comes up.
type Connected struct{}

// Disconnected is synthesized when the socket drops. Reconnection may
// still be in progress.
type Disconnected struct{ Reason string }

// ConnectionFailed is terminal: the reconnect ceiling was exhausted and no
// further automatic attempts will be made.
type ConnectionFailed struct{ Attempts int }

// RoomCreated confirms room creation to the host.
type RoomCreated struct {
	RoomID   string               `json:"roomId"`
	HostID   string               `json:"hostId"`
	Settings domain.LobbySettings `json:"settings"`
}

// RoomJoined carries the full roster on entry to an existing room.
type RoomJoined struct {
	RoomID    string               `json:"roomId"`
	HostID    string               `json:"hostId"`
	Players   []domain.LobbyPlayer `json:"players"`
	Observers []domain.Observer    `json:"observers"`
	Settings  domain.LobbySettings `json:"settings"`
}

// PlayerJoined seats a new player in the lobby.
type PlayerJoined struct {
	Player domain.LobbyPlayer `json:"player"`
}

// PlayerLeft unseats a player.
type PlayerLeft struct {
	UserID string `json:"userId"`
}

// ObserverJoined adds an observer to the room.
type ObserverJoined struct {
	Observer domain.Observer `json:"observer"`
}

// ObserverLeft removes an observer.
type ObserverLeft struct {
	UserID string `json:"userId"`
}

// PlayerReadyChanged flips a player's ready flag.
type PlayerReadyChanged struct {
	UserID string `json:"userId"`
	Ready  bool   `json:"ready"`
}

// RoleSwapped confirms a role change between the player and observer sets.
type RoleSwapped struct {
	UserID  string `json:"userId"`
	NewRole string `json:"newRole"`
}

// GameCountdown announces the pre-start countdown.
type GameCountdown struct {
	Seconds int `json:"seconds"`
}

// GameStarted carries the opening deal.
type GameStarted struct {
	RoomID      string              `json:"roomId"`
	Mode        domain.GameMode     `json:"mode"`
	SelfID      string              `json:"selfId"`
	Players     []domain.GamePlayer `json:"players"`
	Hand        []domain.Card       `json:"hand"`
	MarketCount int                 `json:"marketCount"`
	CurrentTurn string              `json:"currentTurn"`
	Direction   domain.Direction    `json:"direction"`
	TurnTimer   int                 `json:"turnTimer"`
	GameTimer   int                 `json:"gameTimer"`
}

// GameStateUpdated is the server's periodic authoritative snapshot of the
// shared (non-hand) game state.
type GameStateUpdated struct {
	Players     []domain.GamePlayer `json:"players"`
	MarketCount int                 `json:"marketCount"`
	CurrentTurn string              `json:"currentTurn"`
	Direction   domain.Direction    `json:"direction"`
	TurnTimer   int                 `json:"turnTimer"`
	GameTimer   int                 `json:"gameTimer"`
	ActiveShape domain.Shape        `json:"activeShape,omitempty"`
	Paused      bool                `json:"paused"`
}

// TurnChanged hands the turn to a player with a fresh timer.
type TurnChanged struct {
	PlayerID string `json:"playerId"`
	Timer    int    `json:"timer"`
}

// CardPlayed reports a play by any player. Shape is set when a wildcard
// resolved to a declared shape.
type CardPlayed struct {
	PlayerID string       `json:"playerId"`
	Card     domain.Card  `json:"card"`
	Shape    domain.Shape `json:"declaredShape,omitempty"`
}

// CardDrawn reports a draw. Cards is populated only when the local player
// drew; for everyone else the server sends the count alone.
type CardDrawn struct {
	PlayerID string        `json:"playerId"`
	Count    int           `json:"count"`
	Cards    []domain.Card `json:"cards,omitempty"`
}

// PlayerDisconnected marks a player as dropped mid-game.
type PlayerDisconnected struct {
	UserID string `json:"userId"`
}

// PlayerReconnected clears a player's dropped flag.
type PlayerReconnected struct {
	UserID string `json:"userId"`
}

// PlayerReplaced swaps an abandoned seat to a replacement player.
type PlayerReplaced struct {
	OldUserID string            `json:"oldUserId"`
	Player    domain.GamePlayer `json:"player"`
}

// GameEnded is the terminal result push.
type GameEnded struct {
	Results domain.GameResults `json:"results"`
}

// RematchInitiated returns the room to the lobby for another round.
type RematchInitiated struct {
	RoomID string `json:"roomId"`
}

// ObserverHandRaised reports an observer raising or lowering their hand.
type ObserverHandRaised struct {
	UserID string `json:"userId"`
	Raised bool   `json:"raised"`
}

// ObserverUnmuted reports a host decision on an observer's mic.
type ObserverUnmuted struct {
	UserID  string `json:"userId"`
	Unmuted bool   `json:"unmuted"`
}

// ServerError is an application-level error frame.
type ServerError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// UnknownEvent wraps a frame whose name this build does not know. It is
// logged and delivered rather than silently dropped.
type UnknownEvent struct {
	Name string
	Data json.RawMessage
}

func (Connected) isEvent()          {}
func (Disconnected) isEvent()       {}
func (ConnectionFailed) isEvent()   {}
func (RoomCreated) isEvent()        {}
func (RoomJoined) isEvent()         {}
func (PlayerJoined) isEvent()       {}
func (PlayerLeft) isEvent()         {}
func (ObserverJoined) isEvent()     {}
func (ObserverLeft) isEvent()       {}
func (PlayerReadyChanged) isEvent() {}
func (RoleSwapped) isEvent()        {}
func (GameCountdown) isEvent()      {}
func (GameStarted) isEvent()        {}
func (GameStateUpdated) isEvent()   {}
func (TurnChanged) isEvent()        {}
func (CardPlayed) isEvent()         {}
func (CardDrawn) isEvent()          {}
func (PlayerDisconnected) isEvent() {}
func (PlayerReconnected) isEvent()  {}
func (PlayerReplaced) isEvent()     {}
func (GameEnded) isEvent()          {}
func (RematchInitiated) isEvent()   {}
func (ObserverHandRaised) isEvent() {}
func (ObserverUnmuted) isEvent()    {}
func (ServerError) isEvent()        {}
func (UnknownEvent) isEvent()       {}

// frame is the wire shape of every gateway message.
type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// decodeEvent turns a wire frame into its Event variant.
func decodeEvent(f frame) (Event, error) {
	into := func(v Event) (Event, error) {
		if len(f.Data) == 0 {
			return v, nil
		}
		if err := json.Unmarshal(f.Data, v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", f.Event, err)
		}
		return v, nil
	}

	switch f.Event {
	case "roomCreated":
		return into(&RoomCreated{})
	case "roomJoined":
		return into(&RoomJoined{})
	case "playerJoined":
		return into(&PlayerJoined{})
	case "playerLeft":
		return into(&PlayerLeft{})
	case "observerJoined":
		return into(&ObserverJoined{})
	case "observerLeft":
		return into(&ObserverLeft{})
	case "playerReady":
		ev, err := into(&PlayerReadyChanged{})
		if err == nil {
			ev.(*PlayerReadyChanged).Ready = true
		}
		return ev, err
	case "playerUnready":
		ev, err := into(&PlayerReadyChanged{})
		if err == nil {
			ev.(*PlayerReadyChanged).Ready = false
		}
		return ev, err
	case "roleSwapped":
		return into(&RoleSwapped{})
	case "gameStartCountdown":
		return into(&GameCountdown{})
	case "gameStarted":
		return into(&GameStarted{})
	case "gameStateUpdate":
		return into(&GameStateUpdated{})
	case "turnChanged":
		return into(&TurnChanged{})
	case "cardPlayed":
		return into(&CardPlayed{})
	case "cardDrawn":
		return into(&CardDrawn{})
	case "playerDisconnected":
		return into(&PlayerDisconnected{})
	case "playerReconnected":
		return into(&PlayerReconnected{})
	case "playerReplaced":
		return into(&PlayerReplaced{})
	case "gameEnded":
		return into(&GameEnded{})
	case "rematchInitiated":
		return into(&RematchInitiated{})
	case "observerHandRaised":
		return into(&ObserverHandRaised{})
	case "observerUnmuted":
		return into(&ObserverUnmuted{})
	case "error":
		return into(&ServerError{})
	default:
		return &UnknownEvent{Name: f.Event, Data: f.Data}, nil
	}
}
