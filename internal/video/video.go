// Package video manages the in-game video session. The provider (the
// actual conferencing SDK) is an opaque collaborator behind an interface;
// this package owns the join latch, mirrors media state into the rtc
// container, and swallows provider errors into the container's error
// field instead of surfacing them to callers' screens.
package video

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/Afiolabi/kaji-whot-client/internal/state"
)

// ParticipantEventKind classifies a provider participant notification.
type ParticipantEventKind int

const (
	ParticipantJoined ParticipantEventKind = iota
	ParticipantUpdated
	ParticipantLeft
)

// ParticipantEvent is one remote participant notification from the
// provider. Track is unset for ParticipantLeft.
type ParticipantEvent struct {
	Kind      ParticipantEventKind
	SessionID string
	Track     state.RemoteTrack
}

// Provider is the conferencing backend. Join returns a channel of
// participant events that closes when the session ends.
type Provider interface {
	Join(ctx context.Context, roomURL string) (<-chan ParticipantEvent, error)
	Leave(ctx context.Context) error
	SetAudio(ctx context.Context, enabled bool) error
	SetVideo(ctx context.Context, enabled bool) error
}

// Client drives at most one video session, mapped 1:1 to a game room.
type Client struct {
	store    *state.Store
	provider Provider

	mu     sync.Mutex
	joined bool
}

// NewClient creates a video client over the given provider.
func NewClient(store *state.Store, provider Provider) *Client {
	return &Client{store: store, provider: provider}
}

// Joined reports whether a session is live.
func (c *Client) Joined() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.joined
}

// JoinRoom connects to the room's video session. A second call while
// joined is a no-op; the latch is cleared only by LeaveRoom or session
// end. Provider failures are recorded in the rtc container.
func (c *Client) JoinRoom(ctx context.Context, roomURL string) error {
	c.mu.Lock()
	if c.joined {
		c.mu.Unlock()
		return nil
	}
	c.joined = true
	c.mu.Unlock()

	c.store.Dispatch(state.RTCConnecting{Connecting: true})
	c.store.Dispatch(state.RoomURLSet{URL: roomURL})

	events, err := c.provider.Join(ctx, roomURL)
	if err != nil {
		c.mu.Lock()
		c.joined = false
		c.mu.Unlock()
		c.store.Dispatch(state.RTCErrorSet{Err: err.Error()})
		return fmt.Errorf("video join failed: %w", err)
	}

	c.store.Dispatch(state.RTCConnected{Connected: true})
	go c.consume(events)
	return nil
}

func (c *Client) consume(events <-chan ParticipantEvent) {
	for ev := range events {
		switch ev.Kind {
		case ParticipantJoined, ParticipantUpdated:
			c.store.Dispatch(state.RemoteTrackAdded{Track: ev.Track})
		case ParticipantLeft:
			c.store.Dispatch(state.RemoteTrackRemoved{SessionID: ev.SessionID})
		}
	}

	// Provider closed the stream: the session is over even if LeaveRoom
	// was never called.
	c.mu.Lock()
	stillJoined := c.joined
	c.joined = false
	c.mu.Unlock()
	if stillJoined {
		c.store.Dispatch(state.RTCReset{})
	}
}

// LeaveRoom tears the session down. Safe to call while not joined.
func (c *Client) LeaveRoom(ctx context.Context) {
	c.mu.Lock()
	joined := c.joined
	c.joined = false
	c.mu.Unlock()

	if !joined {
		return
	}
	if err := c.provider.Leave(ctx); err != nil {
		log.Printf("video: leave: %v", err)
	}
	c.store.Dispatch(state.RTCReset{})
}

// SetLocalAudio toggles the microphone. The provider call happens first;
// the container is mirrored only when it succeeds, so the rendered state
// never claims a device change that did not happen.
func (c *Client) SetLocalAudio(ctx context.Context, enabled bool) {
	if !c.Joined() {
		return
	}
	if err := c.provider.SetAudio(ctx, enabled); err != nil {
		c.store.Dispatch(state.RTCErrorSet{Err: err.Error()})
		return
	}
	c.store.Dispatch(state.LocalAudioSet{Enabled: enabled})
}

// SetLocalVideo toggles the camera, with the same provider-first contract
// as SetLocalAudio.
func (c *Client) SetLocalVideo(ctx context.Context, enabled bool) {
	if !c.Joined() {
		return
	}
	if err := c.provider.SetVideo(ctx, enabled); err != nil {
		c.store.Dispatch(state.RTCErrorSet{Err: err.Error()})
		return
	}
	c.store.Dispatch(state.LocalVideoSet{Enabled: enabled})
}
