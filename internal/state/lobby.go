package state

import "github.com/Afiolabi/kaji-whot-client/internal/domain"

// Role names a lobby participant's seat class.
type Role string

const (
	RolePlayer   Role = "player"
	RoleObserver Role = "observer"
)

// LobbyState mirrors a room's pre-game phase. CanStart is derived: it is
// recomputed after every roster or readiness mutation and never set by any
// action directly.
type LobbyState struct {
	RoomID    string
	HostID    string
	Players   []domain.LobbyPlayer
	Observers []domain.Observer
	Settings  *domain.LobbySettings
	Countdown *int // remaining seconds; nil when no countdown is running
	InLobby   bool
	CanStart  bool
}

func initialLobbyState() LobbyState { return LobbyState{} }

// LobbyAction is the action set owned by the lobby container.
type LobbyAction interface {
	Action
	isLobby()
}

// LobbyCreated enters a freshly created room as its host.
type LobbyCreated struct {
	RoomID   string
	HostID   string
	Settings domain.LobbySettings
}

// LobbyJoined enters an existing room with its full roster.
type LobbyJoined struct {
	RoomID    string
	HostID    string
	Players   []domain.LobbyPlayer
	Observers []domain.Observer
	Settings  domain.LobbySettings
}

// LobbyLeft resets the container.
type LobbyLeft struct{}

// PlayerAdded seats a player.
type PlayerAdded struct{ Player domain.LobbyPlayer }

// PlayerRemoved unseats a player by id.
type PlayerRemoved struct{ ID string }

// ObserverAdded adds an observer.
type ObserverAdded struct{ Observer domain.Observer }

// ObserverRemoved removes an observer by id.
type ObserverRemoved struct{ ID string }

// ObserverUpdated applies partial observer changes (hand raise, unmute).
type ObserverUpdated struct {
	ID         string
	HandRaised *bool
	Unmuted    *bool
}

// PlayerReadyToggled flips exactly one player's ready flag.
type PlayerReadyToggled struct{ ID string }

// RoleSwapped moves one user between the player and observer sets
// atomically. An observer-to-player swap at capacity is rejected with no
// state change.
type RoleSwapped struct {
	UserID string
	To     Role
}

// CountdownSet stores the caller-owned countdown's remaining seconds, or
// clears it with nil. The reducer never ticks the countdown itself.
type CountdownSet struct{ Seconds *int }

// SettingsUpdated replaces the room settings.
type SettingsUpdated struct{ Settings domain.LobbySettings }

func (LobbyCreated) isAction()       {}
func (LobbyCreated) isLobby()        {}
func (LobbyJoined) isAction()        {}
func (LobbyJoined) isLobby()         {}
func (LobbyLeft) isAction()          {}
func (LobbyLeft) isLobby()           {}
func (PlayerAdded) isAction()        {}
func (PlayerAdded) isLobby()         {}
func (PlayerRemoved) isAction()      {}
func (PlayerRemoved) isLobby()       {}
func (ObserverAdded) isAction()      {}
func (ObserverAdded) isLobby()       {}
func (ObserverRemoved) isAction()    {}
func (ObserverRemoved) isLobby()     {}
func (ObserverUpdated) isAction()    {}
func (ObserverUpdated) isLobby()     {}
func (PlayerReadyToggled) isAction() {}
func (PlayerReadyToggled) isLobby()  {}
func (RoleSwapped) isAction()        {}
func (RoleSwapped) isLobby()         {}
func (CountdownSet) isAction()       {}
func (CountdownSet) isLobby()        {}
func (SettingsUpdated) isAction()    {}
func (SettingsUpdated) isLobby()     {}

func (s LobbyState) maxPlayers() int {
	if s.Settings != nil && s.Settings.MaxPlayers > 0 {
		return s.Settings.MaxPlayers
	}
	return domain.MaxPlayers
}

func recomputeCanStart(s LobbyState) LobbyState {
	if len(s.Players) < domain.MinPlayers {
		s.CanStart = false
		return s
	}
	for _, p := range s.Players {
		if !p.Ready {
			s.CanStart = false
			return s
		}
	}
	s.CanStart = true
	return s
}

func reduceLobby(s LobbyState, a LobbyAction) LobbyState {
	switch act := a.(type) {
	case LobbyCreated:
		settings := act.Settings
		s = LobbyState{
			RoomID:   act.RoomID,
			HostID:   act.HostID,
			Settings: &settings,
			InLobby:  true,
		}
	case LobbyJoined:
		settings := act.Settings
		s = LobbyState{
			RoomID:    act.RoomID,
			HostID:    act.HostID,
			Players:   append([]domain.LobbyPlayer{}, act.Players...),
			Observers: append([]domain.Observer{}, act.Observers...),
			Settings:  &settings,
			InLobby:   true,
		}
		s = recomputeCanStart(s)
	case LobbyLeft:
		s = initialLobbyState()
	case PlayerAdded:
		s.Players = append(append([]domain.LobbyPlayer{}, s.Players...), act.Player)
		s = recomputeCanStart(s)
	case PlayerRemoved:
		players := make([]domain.LobbyPlayer, 0, len(s.Players))
		for _, p := range s.Players {
			if p.ID != act.ID {
				players = append(players, p)
			}
		}
		s.Players = players
		s = recomputeCanStart(s)
	case ObserverAdded:
		s.Observers = append(append([]domain.Observer{}, s.Observers...), act.Observer)
	case ObserverRemoved:
		observers := make([]domain.Observer, 0, len(s.Observers))
		for _, o := range s.Observers {
			if o.ID != act.ID {
				observers = append(observers, o)
			}
		}
		s.Observers = observers
	case ObserverUpdated:
		observers := append([]domain.Observer{}, s.Observers...)
		for i := range observers {
			if observers[i].ID != act.ID {
				continue
			}
			if act.HandRaised != nil {
				observers[i].HandRaised = *act.HandRaised
			}
			if act.Unmuted != nil {
				observers[i].Unmuted = *act.Unmuted
			}
		}
		s.Observers = observers
	case PlayerReadyToggled:
		players := append([]domain.LobbyPlayer{}, s.Players...)
		for i := range players {
			if players[i].ID == act.ID {
				players[i].Ready = !players[i].Ready
				break
			}
		}
		s.Players = players
		s = recomputeCanStart(s)
	case RoleSwapped:
		s = swapRole(s, act)
	case CountdownSet:
		if act.Seconds == nil {
			s.Countdown = nil
		} else {
			secs := *act.Seconds
			s.Countdown = &secs
		}
	case SettingsUpdated:
		settings := act.Settings
		s.Settings = &settings
	}
	return s
}

// swapRole moves a user between the two seat classes. The sets stay
// disjoint: the user lands in exactly one of them, or the state is returned
// unchanged when the swap is rejected.
func swapRole(s LobbyState, act RoleSwapped) LobbyState {
	switch act.To {
	case RoleObserver:
		idx := -1
		for i, p := range s.Players {
			if p.ID == act.UserID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return s
		}
		player := s.Players[idx]
		players := make([]domain.LobbyPlayer, 0, len(s.Players)-1)
		players = append(players, s.Players[:idx]...)
		players = append(players, s.Players[idx+1:]...)
		s.Players = players
		s.Observers = append(append([]domain.Observer{}, s.Observers...), domain.Observer{
			ID:       player.ID,
			Username: player.Username,
			Avatar:   player.Avatar,
		})
	case RolePlayer:
		if len(s.Players) >= s.maxPlayers() {
			return s // full table, swap rejected
		}
		idx := -1
		for i, o := range s.Observers {
			if o.ID == act.UserID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return s
		}
		observer := s.Observers[idx]
		observers := make([]domain.Observer, 0, len(s.Observers)-1)
		observers = append(observers, s.Observers[:idx]...)
		observers = append(observers, s.Observers[idx+1:]...)
		s.Observers = observers
		s.Players = append(append([]domain.LobbyPlayer{}, s.Players...), domain.LobbyPlayer{
			ID:       observer.ID,
			Username: observer.Username,
			Avatar:   observer.Avatar,
		})
	default:
		return s
	}
	return recomputeCanStart(s)
}
