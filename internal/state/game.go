package state

import "github.com/Afiolabi/kaji-whot-client/internal/domain"

// GameState mirrors authoritative in-game state. The client never decides
// whose turn it is or whether a play is legal; it renders what the server
// pushes. Card identity exists only in MyHand; opponents are counts.
type GameState struct {
	RoomID  string
	Mode    domain.GameMode
	Status  domain.GameStatus
	SelfID  string
	Players []domain.GamePlayer

	MyHand      []domain.Card
	MarketCount int

	// PlayedCards keeps only the most recent domain.PlayedHistoryWindow
	// entries; LastPlayed always mirrors the newest append regardless of
	// trimming.
	PlayedCards []domain.Card
	LastPlayed  *domain.Card

	CurrentTurn string
	Direction   domain.Direction
	TurnTimer   int
	GameTimer   int
	ActiveShape domain.Shape

	Results *domain.GameResults
}

func initialGameState() GameState {
	return GameState{Status: domain.GameWaiting}
}

// GameAction is the action set owned by the game container.
type GameAction interface {
	Action
	isGame()
}

// GameInitialized enters a room before the first deal.
type GameInitialized struct {
	RoomID string
	Mode   domain.GameMode
}

// GameStarted installs the opening deal pushed by the server.
type GameStarted struct {
	SelfID      string
	Players     []domain.GamePlayer
	MyHand      []domain.Card
	MarketCount int
	CurrentTurn string
	Direction   domain.Direction
	TurnTimer   int
	GameTimer   int
}

// GameStateSynced installs the server's periodic authoritative snapshot of
// the shared game state. MyHand is untouched: the server never echoes hand
// contents in shared snapshots.
type GameStateSynced struct {
	Players     []domain.GamePlayer
	MarketCount int
	CurrentTurn string
	Direction   domain.Direction
	TurnTimer   int
	GameTimer   int
	ActiveShape domain.Shape
	Paused      bool
}

// PlayerSeatReplaced hands an abandoned seat to a replacement player.
type PlayerSeatReplaced struct {
	OldID  string
	Player domain.GamePlayer
}

// TurnSet assigns the turn and resets the turn timer to the server-provided
// value. The client never independently decides whose turn it is.
type TurnSet struct {
	PlayerID string
	Timer    int
}

// CardPlayed appends to the played stack and updates the playing player's
// count (and MyHand, when the local player played).
type CardPlayed struct {
	PlayerID string
	Card     domain.Card
}

// CardsDrawn bumps a player's count; Cards is populated only for the local
// player's own draws.
type CardsDrawn struct {
	PlayerID string
	Count    int
	Cards    []domain.Card
}

// DirectionSet changes the rotation direction.
type DirectionSet struct{ Direction domain.Direction }

// ShapeDeclared records the shape a Whot wildcard resolved to.
type ShapeDeclared struct{ Shape domain.Shape }

// TurnTimerTicked stores the remaining turn seconds from the owning timer.
type TurnTimerTicked struct{ Remaining int }

// GameTimerTicked stores the remaining game seconds from the owning timer.
type GameTimerTicked struct{ Remaining int }

// PlayerDisconnected flips one player's disconnect flag. Turn order and hand
// contents are untouched.
type PlayerDisconnected struct{ ID string }

// PlayerReconnected clears the disconnect flag and missed-turn count.
type PlayerReconnected struct{ ID string }

// PlayerMediaSet mirrors a player's audio/video mute flags.
type PlayerMediaSet struct {
	ID            string
	AudioMuted    *bool
	VideoDisabled *bool
}

// GamePausedAction suspends the game.
type GamePausedAction struct{}

// GameResumedAction resumes a paused game.
type GameResumedAction struct{}

// GameEnded is the terminal transition: status becomes ended and the result
// summary is recorded. Gameplay actions dispatched afterwards are ignored.
type GameEnded struct{ Results domain.GameResults }

// GameReset returns the container to its initial value. It is the only way
// out of the ended status.
type GameReset struct{}

func (GameInitialized) isAction()    {}
func (GameInitialized) isGame()      {}
func (GameStarted) isAction()        {}
func (GameStarted) isGame()          {}
func (GameStateSynced) isAction()    {}
func (GameStateSynced) isGame()      {}
func (PlayerSeatReplaced) isAction() {}
func (PlayerSeatReplaced) isGame()   {}
func (TurnSet) isAction()            {}
func (TurnSet) isGame()              {}
func (CardPlayed) isAction()         {}
func (CardPlayed) isGame()           {}
func (CardsDrawn) isAction()         {}
func (CardsDrawn) isGame()           {}
func (DirectionSet) isAction()       {}
func (DirectionSet) isGame()         {}
func (ShapeDeclared) isAction()      {}
func (ShapeDeclared) isGame()        {}
func (TurnTimerTicked) isAction()    {}
func (TurnTimerTicked) isGame()      {}
func (GameTimerTicked) isAction()    {}
func (GameTimerTicked) isGame()      {}
func (PlayerDisconnected) isAction() {}
func (PlayerDisconnected) isGame()   {}
func (PlayerReconnected) isAction()  {}
func (PlayerReconnected) isGame()    {}
func (PlayerMediaSet) isAction()     {}
func (PlayerMediaSet) isGame()       {}
func (GamePausedAction) isAction()   {}
func (GamePausedAction) isGame()     {}
func (GameResumedAction) isAction()  {}
func (GameResumedAction) isGame()    {}
func (GameEnded) isAction()          {}
func (GameEnded) isGame()            {}
func (GameReset) isAction()          {}
func (GameReset) isGame()            {}

func reduceGame(s GameState, a GameAction) GameState {
	// Terminal guard: once ended, gameplay actions are stale. A reset
	// or a freshly initialized game still gets through.
	if s.Status == domain.GameEnded {
		switch a.(type) {
		case GameReset:
			return initialGameState()
		case GameInitialized, GameStarted:
		default:
			return s
		}
	}

	switch act := a.(type) {
	case GameInitialized:
		s = initialGameState()
		s.RoomID = act.RoomID
		s.Mode = act.Mode
	case GameStarted:
		s.SelfID = act.SelfID
		s.Players = append([]domain.GamePlayer{}, act.Players...)
		s.MyHand = append([]domain.Card{}, act.MyHand...)
		s.MarketCount = act.MarketCount
		s.CurrentTurn = act.CurrentTurn
		s.Direction = act.Direction
		s.TurnTimer = act.TurnTimer
		s.GameTimer = act.GameTimer
		s.PlayedCards = nil
		s.LastPlayed = nil
		s.ActiveShape = ""
		s.Results = nil
		s.Status = domain.GameActive
		if s.TurnTimer == 0 {
			s.TurnTimer = domain.DefaultTurnSeconds
		}
	case GameStateSynced:
		s.Players = append([]domain.GamePlayer{}, act.Players...)
		s.MarketCount = act.MarketCount
		s.CurrentTurn = act.CurrentTurn
		s.Direction = act.Direction
		s.TurnTimer = act.TurnTimer
		s.GameTimer = act.GameTimer
		s.ActiveShape = act.ActiveShape
		if act.Paused {
			if s.Status == domain.GameActive {
				s.Status = domain.GamePaused
			}
		} else if s.Status == domain.GamePaused {
			s.Status = domain.GameActive
		}
	case PlayerSeatReplaced:
		players := append([]domain.GamePlayer{}, s.Players...)
		for i := range players {
			if players[i].ID == act.OldID {
				players[i] = act.Player
			}
		}
		s.Players = players
		if s.CurrentTurn == act.OldID {
			s.CurrentTurn = act.Player.ID
		}
	case TurnSet:
		s.CurrentTurn = act.PlayerID
		s.TurnTimer = act.Timer
	case CardPlayed:
		card := act.Card
		s.PlayedCards = appendPlayed(s.PlayedCards, card)
		s.LastPlayed = &card
		s.Players = adjustCardCount(s.Players, act.PlayerID, -1)
		if act.PlayerID == s.SelfID {
			s.MyHand = removeCard(s.MyHand, card.ID)
		}
		// A non-wildcard play clears any declared shape.
		if card.Shape != domain.ShapeWhot {
			s.ActiveShape = ""
		}
	case CardsDrawn:
		s.Players = adjustCardCount(s.Players, act.PlayerID, act.Count)
		if act.PlayerID == s.SelfID && len(act.Cards) > 0 {
			s.MyHand = append(append([]domain.Card{}, s.MyHand...), act.Cards...)
		}
		if s.MarketCount >= act.Count {
			s.MarketCount -= act.Count
		} else {
			s.MarketCount = 0
		}
	case DirectionSet:
		s.Direction = act.Direction
	case ShapeDeclared:
		s.ActiveShape = act.Shape
	case TurnTimerTicked:
		s.TurnTimer = act.Remaining
	case GameTimerTicked:
		s.GameTimer = act.Remaining
	case PlayerDisconnected:
		s.Players = setDisconnected(s.Players, act.ID, true)
	case PlayerReconnected:
		s.Players = setDisconnected(s.Players, act.ID, false)
	case PlayerMediaSet:
		players := append([]domain.GamePlayer{}, s.Players...)
		for i := range players {
			if players[i].ID != act.ID {
				continue
			}
			if act.AudioMuted != nil {
				players[i].AudioMuted = *act.AudioMuted
			}
			if act.VideoDisabled != nil {
				players[i].VideoDisabled = *act.VideoDisabled
			}
		}
		s.Players = players
	case GamePausedAction:
		if s.Status == domain.GameActive {
			s.Status = domain.GamePaused
		}
	case GameResumedAction:
		if s.Status == domain.GamePaused {
			s.Status = domain.GameActive
		}
	case GameEnded:
		results := act.Results
		s.Results = &results
		s.Status = domain.GameEnded
	case GameReset:
		s = initialGameState()
	}
	return s
}

// appendPlayed appends with the bounded recent window: once the stack
// exceeds domain.PlayedHistoryWindow entries only the most recent ones
// survive, bounding memory for long games.
func appendPlayed(stack []domain.Card, card domain.Card) []domain.Card {
	out := append(append([]domain.Card{}, stack...), card)
	if n := len(out); n > domain.PlayedHistoryWindow {
		out = out[n-domain.PlayedHistoryWindow:]
	}
	return out
}

func removeCard(hand []domain.Card, cardID string) []domain.Card {
	out := make([]domain.Card, 0, len(hand))
	removed := false
	for _, c := range hand {
		if !removed && c.ID == cardID {
			removed = true
			continue
		}
		out = append(out, c)
	}
	return out
}

func adjustCardCount(players []domain.GamePlayer, id string, delta int) []domain.GamePlayer {
	out := append([]domain.GamePlayer{}, players...)
	for i := range out {
		if out[i].ID != id {
			continue
		}
		out[i].CardCount += delta
		if out[i].CardCount < 0 {
			out[i].CardCount = 0
		}
		out[i].LastCard = out[i].CardCount == 1
	}
	return out
}

func setDisconnected(players []domain.GamePlayer, id string, down bool) []domain.GamePlayer {
	out := append([]domain.GamePlayer{}, players...)
	for i := range out {
		if out[i].ID != id {
			continue
		}
		out[i].Disconnected = down
		if !down {
			out[i].MissedTurns = 0
		}
	}
	return out
}
