// Package gateway maintains the client's websocket connection to the game
// server. It owns reconnection (bounded attempts with linear backoff),
// decodes inbound frames into typed events, and exposes a typed outbound
// surface. Outbound messages sent while disconnected are dropped with a
// warning, never queued.
package gateway

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Afiolabi/kaji-whot-client/internal/config"
	"github.com/Afiolabi/kaji-whot-client/internal/domain"
)

// TokenSource supplies the bearer token presented on dial.
type TokenSource interface {
	Token() string
}

// Dialer abstracts websocket dialing so tests can fail or redirect it.
type Dialer func(ctx context.Context, url, token string) (*websocket.Conn, error)

func defaultDialer(ctx context.Context, url, token string) (*websocket.Conn, error) {
	header := map[string][]string{"Authorization": {"Bearer " + token}}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	return conn, err
}

// Client is the dial side of the game server connection.
type Client struct {
	cfg    config.GatewayConfig
	tokens TokenSource
	dial   Dialer

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	closing   bool
	done      chan struct{}

	subMu sync.Mutex
	subs  map[int]chan Event
	next  int
}

// NewClient creates a disconnected gateway client.
func NewClient(cfg config.GatewayConfig, tokens TokenSource) *Client {
	return &Client{
		cfg:    cfg,
		tokens: tokens,
		dial:   defaultDialer,
		subs:   make(map[int]chan Event),
	}
}

// SetDialer replaces the websocket dialer. Used by tests.
func (c *Client) SetDialer(d Dialer) {
	c.dial = d
}

// Connected reports whether the socket is currently up.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Connect dials the server. A no-op when already connected. Without a
// token it logs and returns: the caller is simply not logged in yet.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.connected {
		c.mu.Unlock()
		return nil
	}
	c.closing = false
	c.mu.Unlock()

	token := c.tokens.Token()
	if token == "" {
		log.Printf("gateway: no auth token, skipping connect")
		return nil
	}

	conn, err := c.dial(ctx, c.cfg.URL, token)
	if err != nil {
		return err
	}
	c.attach(conn)
	return nil
}

// Disconnect tears the socket down and suppresses reconnection.
func (c *Client) Disconnect() {
	c.mu.Lock()
	c.closing = true
	conn := c.conn
	done := c.done
	c.mu.Unlock()

	if conn != nil {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		conn.Close()
	}
	if done != nil {
		<-done
	}
}

func (c *Client) attach(conn *websocket.Conn) {
	done := make(chan struct{})
	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.done = done
	c.mu.Unlock()

	c.deliver(&Connected{})
	go c.readLoop(conn, done)
}

func (c *Client) readLoop(conn *websocket.Conn, done chan struct{}) {
	defer close(done)

	conn.SetReadLimit(1 << 20)
	var reason string
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("gateway: read error: %v", err)
			}
			reason = err.Error()
			break
		}

		var f frame
		if err := json.Unmarshal(message, &f); err != nil {
			log.Printf("gateway: malformed frame: %v", err)
			continue
		}

		ev, err := decodeEvent(f)
		if err != nil {
			log.Printf("gateway: %v", err)
			continue
		}
		if unknown, ok := ev.(*UnknownEvent); ok {
			log.Printf("gateway: unknown event %q", unknown.Name)
		}
		c.deliver(ev)
	}

	c.mu.Lock()
	c.connected = false
	c.conn = nil
	closing := c.closing
	c.mu.Unlock()

	c.deliver(&Disconnected{Reason: reason})
	if !closing {
		go c.reconnect()
	}
}

// reconnect retries the dial with linear backoff, starting at
// ReconnectDelay and capped at ReconnectDelayMax. After ReconnectAttempts
// consecutive failures it gives up and emits ConnectionFailed.
func (c *Client) reconnect() {
	for attempt := 1; attempt <= c.cfg.ReconnectAttempts; attempt++ {
		delay := time.Duration(attempt) * c.cfg.ReconnectDelay
		if delay > c.cfg.ReconnectDelayMax {
			delay = c.cfg.ReconnectDelayMax
		}
		time.Sleep(delay)

		c.mu.Lock()
		stop := c.closing || c.connected
		c.mu.Unlock()
		if stop {
			return
		}

		token := c.tokens.Token()
		if token == "" {
			log.Printf("gateway: no auth token, abandoning reconnect")
			return
		}

		conn, err := c.dial(context.Background(), c.cfg.URL, token)
		if err != nil {
			log.Printf("gateway: reconnect attempt %d/%d failed: %v",
				attempt, c.cfg.ReconnectAttempts, err)
			continue
		}

		log.Printf("gateway: reconnected on attempt %d", attempt)
		c.attach(conn)
		return
	}

	log.Printf("gateway: reconnect attempts exhausted")
	c.deliver(&ConnectionFailed{Attempts: c.cfg.ReconnectAttempts})
}

// Subscribe registers an event channel. The returned cancel func is
// idempotent and closes the channel.
func (c *Client) Subscribe() (<-chan Event, func()) {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	id := c.next
	c.next++
	ch := make(chan Event, 64)
	c.subs[id] = ch

	cancel := func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		if existing, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(existing)
		}
	}
	return ch, cancel
}

func (c *Client) deliver(ev Event) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	for _, ch := range c.subs {
		select {
		case ch <- ev:
		default:
			log.Printf("gateway: subscriber full, dropping event")
		}
	}
}

// emit sends one frame, or warns and drops it when disconnected.
func (c *Client) emit(event string, data interface{}) {
	c.mu.Lock()
	conn := c.conn
	connected := c.connected
	c.mu.Unlock()

	if !connected || conn == nil {
		log.Printf("gateway: not connected, dropping %s", event)
		return
	}

	var payload json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			log.Printf("gateway: failed to encode %s: %v", event, err)
			return
		}
		payload = b
	}

	b, err := json.Marshal(frame{Event: event, Data: payload})
	if err != nil {
		log.Printf("gateway: failed to encode %s: %v", event, err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		log.Printf("gateway: not connected, dropping %s", event)
		return
	}
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
		log.Printf("gateway: write %s: %v", event, err)
	}
}

// Room lifecycle

func (c *Client) CreateRoom(mode domain.GameMode, settings domain.LobbySettings) {
	c.emit("createRoom", map[string]interface{}{
		"mode":     mode,
		"settings": settings,
	})
}

func (c *Client) JoinRoom(roomID string, asObserver bool) {
	c.emit("joinRoom", map[string]interface{}{
		"roomId":     roomID,
		"asObserver": asObserver,
	})
}

func (c *Client) LeaveRoom(roomID string) {
	c.emit("leaveRoom", map[string]string{"roomId": roomID})
}

func (c *Client) PlayerReady() {
	c.emit("playerReady", nil)
}

func (c *Client) PlayerUnready() {
	c.emit("playerUnready", nil)
}

func (c *Client) InviteFriend(friendID string) {
	c.emit("inviteFriend", map[string]string{"friendId": friendID})
}

func (c *Client) SwapRole(newRole string) {
	c.emit("swapRole", map[string]string{"newRole": newRole})
}

func (c *Client) KickPlayer(userID string) {
	c.emit("kickPlayer", map[string]string{"userId": userID})
}

func (c *Client) Rematch() {
	c.emit("rematch", nil)
}

// Gameplay

func (c *Client) PlayCard(cardID string, declaredShape domain.Shape) {
	data := map[string]interface{}{"cardId": cardID}
	if declaredShape != "" {
		data["declaredShape"] = declaredShape
	}
	c.emit("playCard", data)
}

func (c *Client) DrawCard() {
	c.emit("drawCard", nil)
}

func (c *Client) DeclareWhot(shape domain.Shape) {
	c.emit("declareWhot", map[string]interface{}{"shape": shape})
}

func (c *Client) PickTwo(accept bool) {
	c.emit("pickTwo", map[string]bool{"accept": accept})
}

func (c *Client) RequestCards(targetID string) {
	c.emit("requestCards", map[string]string{"targetId": targetID})
}

func (c *Client) SuspendPlayer(targetID string) {
	c.emit("suspendPlayer", map[string]string{"targetId": targetID})
}

// Observer

func (c *Client) RaiseHand() {
	c.emit("raiseHand", nil)
}

func (c *Client) LowerHand() {
	c.emit("lowerHand", nil)
}

func (c *Client) ObserverMessage(message string) {
	c.emit("observerMessage", map[string]string{"message": message})
}

// Media

func (c *Client) ToggleAudio(enabled bool) {
	c.emit("toggleAudio", map[string]bool{"enabled": enabled})
}

func (c *Client) ToggleVideo(enabled bool) {
	c.emit("toggleVideo", map[string]bool{"enabled": enabled})
}

func (c *Client) MuteObserver(observerID string) {
	c.emit("muteObserver", map[string]string{"observerId": observerID})
}

func (c *Client) UnmuteObserver(observerID string) {
	c.emit("unmuteObserver", map[string]string{"observerId": observerID})
}
