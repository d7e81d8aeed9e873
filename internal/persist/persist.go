// Package persist is the durability gate for the state store. Exactly two
// containers survive restarts, auth and user; everything else is live
// server state and always starts fresh. Restore runs before anything
// subscribes so rehydration is invisible to the rest of the client.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/Afiolabi/kaji-whot-client/internal/state"
)

// ErrNotFound is returned by a KV backend when the key has never been
// written.
var ErrNotFound = errors.New("key not found")

// KV is the storage backend contract.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

const stateKey = "whot:client:state"

// snapshot is the persisted subset of the store.
type snapshot struct {
	Auth state.AuthState `json:"auth"`
	User state.UserState `json:"user"`
}

// Gate connects the store to a KV backend.
type Gate struct {
	store *state.Store
	kv    KV
}

// NewGate creates a persistence gate over the given backend.
func NewGate(store *state.Store, kv KV) *Gate {
	return &Gate{store: store, kv: kv}
}

// Restore rehydrates the persisted containers into the store. A missing
// key means a first run and restores nothing. Corrupt data is discarded
// rather than wedging startup.
func (g *Gate) Restore(ctx context.Context) error {
	data, err := g.kv.Get(ctx, stateKey)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		log.Printf("persist: discarding corrupt saved state: %v", err)
		if err := g.kv.Delete(ctx, stateKey); err != nil {
			log.Printf("persist: delete corrupt state: %v", err)
		}
		return nil
	}

	g.store.Dispatch(state.AuthRestored{Auth: snap.Auth})
	g.store.Dispatch(state.UserRestored{User: snap.User})
	return nil
}

// Run saves the persisted containers whenever they change, until ctx is
// cancelled. Snapshots where neither container changed are skipped.
func (g *Gate) Run(ctx context.Context) {
	states, cancel := g.store.Subscribe()
	defer cancel()

	last, err := g.encode(g.store.State())
	if err != nil {
		log.Printf("persist: encode: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case s, ok := <-states:
			if !ok {
				return
			}
			data, err := g.encode(s)
			if err != nil {
				log.Printf("persist: encode: %v", err)
				continue
			}
			if string(data) == string(last) {
				continue
			}
			if err := g.kv.Set(ctx, stateKey, data); err != nil {
				log.Printf("persist: save: %v", err)
				continue
			}
			last = data
		}
	}
}

// Save writes the current persisted containers once. Used at shutdown.
func (g *Gate) Save(ctx context.Context) error {
	data, err := g.encode(g.store.State())
	if err != nil {
		return err
	}
	return g.kv.Set(ctx, stateKey, data)
}

// Clear drops the saved state. Used on logout.
func (g *Gate) Clear(ctx context.Context) error {
	return g.kv.Delete(ctx, stateKey)
}

func (g *Gate) encode(s state.State) ([]byte, error) {
	return json.Marshal(snapshot{Auth: s.Auth, User: s.User})
}
