// Package state holds the client-side mirrors of server-authoritative data.
//
// Each container (auth, user, wallet, lobby, game, rtc, ui) is reduced by
// exactly one pure function over a tagged-union action set. The store applies
// actions synchronously and in order; nothing outside this package mutates a
// container, and no reducer ever touches another container's data.
package state

import "sync"

// Action is implemented by every state action. Each concrete action also
// implements the marker interface of the one container that owns it, which
// is how Dispatch routes it.
type Action interface{ isAction() }

// State is the composite client state. Containers are plain values; reducers
// replace slices and maps rather than mutating them in place, so a State
// handed to a subscriber is safe to read without synchronization.
type State struct {
	Auth   AuthState
	User   UserState
	Wallet WalletState
	Lobby  LobbyState
	Game   GameState
	RTC    RTCState
	UI     UIState
}

// Store is the single source of truth consumed by screens.
type Store struct {
	mu    sync.RWMutex
	state State

	subMu sync.Mutex
	subs  map[int]chan State
	next  int
}

// NewStore creates a store with every container at its initial value.
func NewStore() *Store {
	return &Store{
		state: initialState(),
		subs:  make(map[int]chan State),
	}
}

func initialState() State {
	return State{
		User:   initialUserState(),
		Wallet: initialWalletState(),
		Lobby:  initialLobbyState(),
		Game:   initialGameState(),
		RTC:    initialRTCState(),
		UI:     initialUIState(),
	}
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch applies an action to the container that owns it and notifies
// subscribers. Application is atomic: subscribers only ever observe the
// state between dispatches, never mid-reduction.
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	switch act := a.(type) {
	case AuthAction:
		s.state.Auth = reduceAuth(s.state.Auth, act)
	case UserAction:
		s.state.User = reduceUser(s.state.User, act)
	case WalletAction:
		s.state.Wallet = reduceWallet(s.state.Wallet, act)
	case LobbyAction:
		s.state.Lobby = reduceLobby(s.state.Lobby, act)
	case GameAction:
		s.state.Game = reduceGame(s.state.Game, act)
	case RTCAction:
		s.state.RTC = reduceRTC(s.state.RTC, act)
	case UIAction:
		s.state.UI = reduceUI(s.state.UI, act)
	}
	snap := s.state
	s.mu.Unlock()

	s.notify(snap)
}

// Subscribe registers a snapshot channel. The returned cancel func must be
// called on teardown; every subscribe path needs a matching cancel to avoid
// leaking channels across screen navigations.
func (s *Store) Subscribe() (<-chan State, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.next
	s.next++
	ch := make(chan State, 8)
	s.subs[id] = ch

	cancel := func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

func (s *Store) notify(snap State) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			// Subscriber is slow; it will catch up on the next dispatch.
		}
	}
}
