package app

import (
	"context"
	"log"

	"github.com/Afiolabi/kaji-whot-client/internal/domain"
	"github.com/Afiolabi/kaji-whot-client/internal/gateway"
	"github.com/Afiolabi/kaji-whot-client/internal/state"
)

// handleEvent maps one gateway event to its store effect. Every variant
// is handled; unknown frames are already logged by the gateway and carry
// no state change.
func (a *App) handleEvent(ctx context.Context, ev gateway.Event) {
	switch ev := ev.(type) {
	case *gateway.Connected:
		log.Printf("app: gateway connected")

	case *gateway.Disconnected:
		log.Printf("app: gateway disconnected: %s", ev.Reason)

	case *gateway.ConnectionFailed:
		a.store.Dispatch(state.NotificationPushed{
			Severity: domain.SeverityError,
			Message:  "Connection to the game server was lost",
			Action:   "Retry",
		})

	case *gateway.RoomCreated:
		a.store.Dispatch(state.LobbyCreated{
			RoomID:   ev.RoomID,
			HostID:   ev.HostID,
			Settings: ev.Settings,
		})

	case *gateway.RoomJoined:
		a.store.Dispatch(state.LobbyJoined{
			RoomID:    ev.RoomID,
			HostID:    ev.HostID,
			Players:   ev.Players,
			Observers: ev.Observers,
			Settings:  ev.Settings,
		})

	case *gateway.PlayerJoined:
		a.store.Dispatch(state.PlayerAdded{Player: ev.Player})

	case *gateway.PlayerLeft:
		a.store.Dispatch(state.PlayerRemoved{ID: ev.UserID})

	case *gateway.ObserverJoined:
		a.store.Dispatch(state.ObserverAdded{Observer: ev.Observer})

	case *gateway.ObserverLeft:
		a.store.Dispatch(state.ObserverRemoved{ID: ev.UserID})

	case *gateway.PlayerReadyChanged:
		// The reducer toggles; only dispatch when the event actually
		// changes the flag, so a redelivered frame cannot flip it back.
		for _, p := range a.store.State().Lobby.Players {
			if p.ID == ev.UserID && p.Ready != ev.Ready {
				a.store.Dispatch(state.PlayerReadyToggled{ID: ev.UserID})
			}
		}

	case *gateway.RoleSwapped:
		a.store.Dispatch(state.RoleSwapped{
			UserID: ev.UserID,
			To:     state.Role(ev.NewRole),
		})

	case *gateway.GameCountdown:
		a.startLobbyCountdown(ev.Seconds)

	case *gateway.GameStarted:
		a.lobbyCountdown.cancel()
		a.store.Dispatch(state.CountdownSet{Seconds: nil})
		a.store.Dispatch(state.GameInitialized{RoomID: ev.RoomID, Mode: ev.Mode})
		a.store.Dispatch(state.GameStarted{
			SelfID:      ev.SelfID,
			Players:     ev.Players,
			MyHand:      ev.Hand,
			MarketCount: ev.MarketCount,
			CurrentTurn: ev.CurrentTurn,
			Direction:   ev.Direction,
			TurnTimer:   ev.TurnTimer,
			GameTimer:   ev.GameTimer,
		})
		a.startTurnTimer(ev.TurnTimer)
		a.startGameTimer(ev.GameTimer)

	case *gateway.GameStateUpdated:
		a.store.Dispatch(state.GameStateSynced{
			Players:     ev.Players,
			MarketCount: ev.MarketCount,
			CurrentTurn: ev.CurrentTurn,
			Direction:   ev.Direction,
			TurnTimer:   ev.TurnTimer,
			GameTimer:   ev.GameTimer,
			ActiveShape: ev.ActiveShape,
			Paused:      ev.Paused,
		})

	case *gateway.TurnChanged:
		a.store.Dispatch(state.TurnSet{PlayerID: ev.PlayerID, Timer: ev.Timer})
		a.startTurnTimer(ev.Timer)

	case *gateway.CardPlayed:
		a.store.Dispatch(state.CardPlayed{PlayerID: ev.PlayerID, Card: ev.Card})
		if ev.Shape != "" {
			a.store.Dispatch(state.ShapeDeclared{Shape: ev.Shape})
		}

	case *gateway.CardDrawn:
		a.store.Dispatch(state.CardsDrawn{
			PlayerID: ev.PlayerID,
			Count:    ev.Count,
			Cards:    ev.Cards,
		})

	case *gateway.PlayerDisconnected:
		a.store.Dispatch(state.PlayerDisconnected{ID: ev.UserID})

	case *gateway.PlayerReconnected:
		a.store.Dispatch(state.PlayerReconnected{ID: ev.UserID})

	case *gateway.PlayerReplaced:
		a.store.Dispatch(state.PlayerSeatReplaced{
			OldID:  ev.OldUserID,
			Player: ev.Player,
		})

	case *gateway.GameEnded:
		a.turnTimer.cancel()
		a.gameTimer.cancel()
		a.store.Dispatch(state.GameEnded{Results: ev.Results})
		a.video.LeaveRoom(ctx)

	case *gateway.RematchInitiated:
		a.store.Dispatch(state.GameReset{})

	case *gateway.ObserverHandRaised:
		raised := ev.Raised
		a.store.Dispatch(state.ObserverUpdated{ID: ev.UserID, HandRaised: &raised})

	case *gateway.ObserverUnmuted:
		unmuted := ev.Unmuted
		a.store.Dispatch(state.ObserverUpdated{ID: ev.UserID, Unmuted: &unmuted})

	case *gateway.ServerError:
		a.store.Dispatch(state.NotificationPushed{
			Severity: domain.SeverityError,
			Message:  ev.Message,
		})

	case *gateway.UnknownEvent:
		// Logged at decode time.
	}
}

// startLobbyCountdown installs the pre-start countdown: the timer lives
// here, the reducer only stores what it is told. The countdown is not
// cancelled by roster or readiness changes; only game start or leaving
// the room clears it.
func (a *App) startLobbyCountdown(seconds int) {
	secs := seconds
	a.store.Dispatch(state.CountdownSet{Seconds: &secs})
	a.lobbyCountdown.start(seconds,
		func(remaining int) {
			r := remaining
			a.store.Dispatch(state.CountdownSet{Seconds: &r})
		},
		func() {
			a.store.Dispatch(state.CountdownSet{Seconds: nil})
		})
}

func (a *App) startTurnTimer(seconds int) {
	if seconds <= 0 {
		seconds = domain.DefaultTurnSeconds
	}
	a.turnTimer.start(seconds,
		func(remaining int) {
			a.store.Dispatch(state.TurnTimerTicked{Remaining: remaining})
		}, nil)
}

func (a *App) startGameTimer(seconds int) {
	if seconds <= 0 {
		return
	}
	a.gameTimer.start(seconds,
		func(remaining int) {
			a.store.Dispatch(state.GameTimerTicked{Remaining: remaining})
		}, nil)
}
