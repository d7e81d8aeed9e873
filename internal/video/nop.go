package video

import (
	"context"
	"sync"
)

// NopProvider is a Provider with no conferencing backend behind it. The
// headless client runs with it so game rooms work without media devices.
type NopProvider struct {
	mu     sync.Mutex
	events chan ParticipantEvent
}

// NewNopProvider creates a provider that joins instantly and never emits
// participants.
func NewNopProvider() *NopProvider {
	return &NopProvider{}
}

func (n *NopProvider) Join(ctx context.Context, roomURL string) (<-chan ParticipantEvent, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = make(chan ParticipantEvent)
	return n.events, nil
}

func (n *NopProvider) Leave(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.events != nil {
		close(n.events)
		n.events = nil
	}
	return nil
}

func (n *NopProvider) SetAudio(ctx context.Context, enabled bool) error { return nil }
func (n *NopProvider) SetVideo(ctx context.Context, enabled bool) error { return nil }
