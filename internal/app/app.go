// Package app is the composition root: it wires the store, the session
// manager, the API client, the websocket gateway, the video client and
// the persistence gate together, owns the countdown timers, and maps
// gateway events into store dispatches.
package app

import (
	"context"
	"fmt"
	"log"

	"github.com/Afiolabi/kaji-whot-client/internal/config"
	"github.com/Afiolabi/kaji-whot-client/internal/domain"
	"github.com/Afiolabi/kaji-whot-client/internal/gateway"
	"github.com/Afiolabi/kaji-whot-client/internal/persist"
	"github.com/Afiolabi/kaji-whot-client/internal/session"
	"github.com/Afiolabi/kaji-whot-client/internal/state"
	"github.com/Afiolabi/kaji-whot-client/internal/video"
	"github.com/Afiolabi/kaji-whot-client/pkg/whotapi"
)

// App owns the client's long-lived collaborators.
type App struct {
	cfg     *config.Config
	store   *state.Store
	session *session.Manager
	api     *whotapi.Client
	gateway *gateway.Client
	video   *video.Client
	gate    *persist.Gate

	lobbyCountdown *countdown
	turnTimer      *countdown
	gameTimer      *countdown
}

// New wires an App from its collaborators.
func New(cfg *config.Config, store *state.Store, sess *session.Manager,
	api *whotapi.Client, gw *gateway.Client, vid *video.Client,
	gate *persist.Gate) *App {
	return &App{
		cfg:            cfg,
		store:          store,
		session:        sess,
		api:            api,
		gateway:        gw,
		video:          vid,
		gate:           gate,
		lobbyCountdown: newCountdown(),
		turnTimer:      newCountdown(),
		gameTimer:      newCountdown(),
	}
}

// Bootstrap builds the full collaborator graph from config.
func Bootstrap(cfg *config.Config, provider video.Provider) (*App, error) {
	store := state.NewStore()

	kv, err := persist.Open(context.Background(), cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	gate := persist.NewGate(store, kv)

	sess := session.NewManager(store)
	api := whotapi.NewClient(&whotapi.ClientConfig{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
	}, sess)
	sess.SetAPI(api)

	gw := gateway.NewClient(cfg.Gateway, sess)
	vid := video.NewClient(store, provider)

	return New(cfg, store, sess, api, gw, vid, gate), nil
}

// Store exposes the state store for screens and tests.
func (a *App) Store() *state.Store {
	return a.store
}

// Run restores persisted state, starts the save loop, connects the
// gateway when a session exists, and pumps gateway events until ctx is
// cancelled.
func (a *App) Run(ctx context.Context) error {
	if err := a.gate.Restore(ctx); err != nil {
		return fmt.Errorf("restore state: %w", err)
	}
	go a.gate.Run(ctx)

	// Subscribe before connecting so the frames a server pushes right
	// after the socket opens are not dropped.
	events, cancel := a.gateway.Subscribe()
	defer cancel()

	if a.session.Authenticated() {
		if err := a.gateway.Connect(ctx); err != nil {
			log.Printf("app: initial gateway connect: %v", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			a.shutdown()
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			a.handleEvent(ctx, ev)
		}
	}
}

func (a *App) shutdown() {
	a.lobbyCountdown.cancel()
	a.turnTimer.cancel()
	a.gameTimer.cancel()
	a.video.LeaveRoom(context.Background())
	a.gateway.Disconnect()
	if err := a.gate.Save(context.Background()); err != nil {
		log.Printf("app: final save: %v", err)
	}
}

// Login authenticates, installs the session and connects the gateway.
func (a *App) Login(ctx context.Context, email, password string) error {
	a.store.Dispatch(state.AuthLoadingSet{Loading: true})
	result, err := a.api.Login(ctx, email, password)
	if err != nil {
		a.store.Dispatch(state.AuthLoadingSet{Loading: false})
		return err
	}

	a.store.Dispatch(state.LoggedIn{
		Token:        result.Token,
		RefreshToken: result.RefreshToken,
	})
	a.store.Dispatch(state.ProfileSet{Profile: result.User})
	a.store.Dispatch(state.BalanceSet{Balance: result.User.Balance})

	if err := a.gateway.Connect(ctx); err != nil {
		log.Printf("app: gateway connect after login: %v", err)
	}
	return nil
}

// Logout tears down every session-scoped collaborator.
func (a *App) Logout(ctx context.Context) {
	a.video.LeaveRoom(ctx)
	a.gateway.Disconnect()
	a.session.Logout()
	a.store.Dispatch(state.ProfileCleared{})
	if err := a.gate.Clear(ctx); err != nil {
		log.Printf("app: clear saved state: %v", err)
	}
}

// RefreshProfile re-fetches the profile into the user container.
func (a *App) RefreshProfile(ctx context.Context) error {
	a.store.Dispatch(state.UserLoadingSet{Loading: true})
	profile, err := a.api.GetProfile(ctx)
	if err != nil {
		a.store.Dispatch(state.UserErrorSet{Err: err.Error()})
		return err
	}
	a.store.Dispatch(state.ProfileSet{Profile: *profile})
	return nil
}

// RefreshWallet re-fetches balance and recent transactions.
func (a *App) RefreshWallet(ctx context.Context) error {
	a.store.Dispatch(state.WalletLoadingSet{Loading: true})
	balance, err := a.api.GetWalletBalance(ctx)
	if err != nil {
		a.store.Dispatch(state.WalletErrorSet{Err: err.Error()})
		return err
	}
	a.store.Dispatch(state.BalanceSet{Balance: balance.Balance})

	txs, err := a.api.GetTransactions(ctx, 1, 20)
	if err != nil {
		a.store.Dispatch(state.WalletErrorSet{Err: err.Error()})
		return err
	}
	a.store.Dispatch(state.TransactionsSet{Transactions: txs.Transactions})
	return nil
}

// CreateRoom checks funds locally, then asks the server for a room.
func (a *App) CreateRoom(mode domain.GameMode, settings domain.LobbySettings) {
	if settings.EntryFee > a.store.State().Wallet.Balance {
		a.store.Dispatch(state.ModalShown{ID: state.ModalInsufficientFunds})
		return
	}
	a.gateway.CreateRoom(mode, settings)
}

// JoinRoom asks the server to seat us in an existing room.
func (a *App) JoinRoom(roomID string, asObserver bool) {
	a.gateway.JoinRoom(roomID, asObserver)
}

// LeaveRoom leaves the current room and tears the video session down.
func (a *App) LeaveRoom(ctx context.Context) {
	roomID := a.store.State().Lobby.RoomID
	if roomID != "" {
		a.gateway.LeaveRoom(roomID)
	}
	a.video.LeaveRoom(ctx)
	a.lobbyCountdown.cancel()
	a.store.Dispatch(state.LobbyLeft{})
	a.store.Dispatch(state.GameReset{})
}

// ToggleReady flips the local player's ready state server-side. The
// roster update comes back as an event; nothing is dispatched here.
func (a *App) ToggleReady() {
	s := a.store.State()
	id := selfID(s)
	for _, p := range s.Lobby.Players {
		if p.ID != id {
			continue
		}
		if p.Ready {
			a.gateway.PlayerUnready()
		} else {
			a.gateway.PlayerReady()
		}
		return
	}
}

func selfID(s state.State) string {
	if s.User.Profile != nil {
		return s.User.Profile.ID
	}
	return ""
}

// PlayCard plays a card from the local hand, with an optional declared
// shape for wildcards.
func (a *App) PlayCard(cardID string, declaredShape domain.Shape) {
	a.gateway.PlayCard(cardID, declaredShape)
}

// DrawCard draws from the market.
func (a *App) DrawCard() {
	a.gateway.DrawCard()
}

// SwapRole asks the server to move us between player and observer.
func (a *App) SwapRole(to state.Role) {
	a.gateway.SwapRole(string(to))
}

// SetAudio toggles the local microphone: the video provider first, and
// the room is notified only when the device actually changed.
func (a *App) SetAudio(ctx context.Context, enabled bool) {
	before := a.store.State().RTC.LocalAudio
	a.video.SetLocalAudio(ctx, enabled)
	if a.store.State().RTC.LocalAudio != before {
		a.gateway.ToggleAudio(enabled)
	}
}

// SetVideo toggles the local camera with the same contract as SetAudio.
func (a *App) SetVideo(ctx context.Context, enabled bool) {
	before := a.store.State().RTC.LocalVideo
	a.video.SetLocalVideo(ctx, enabled)
	if a.store.State().RTC.LocalVideo != before {
		a.gateway.ToggleVideo(enabled)
	}
}
