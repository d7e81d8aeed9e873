package state

import "github.com/Afiolabi/kaji-whot-client/internal/domain"

// UserState holds the authenticated user's profile mirror.
type UserState struct {
	Profile *domain.Profile `json:"user"`
	Loading bool            `json:"-"`
	Err     string          `json:"-"`
}

func initialUserState() UserState { return UserState{} }

// UserAction is the action set owned by the user container.
type UserAction interface {
	Action
	isUser()
}

// ProfileSet replaces the profile after a fetch or login.
type ProfileSet struct{ Profile domain.Profile }

// ProfileCleared drops the profile on logout.
type ProfileCleared struct{}

// ProfileBalanceSet mirrors a server-pushed balance onto the profile. The
// wallet container owns the transactional balance; this is only updated by
// explicit profile pushes.
type ProfileBalanceSet struct{ Balance int64 }

// StatsUpdated replaces the aggregate stats block.
type StatsUpdated struct{ Stats domain.UserStats }

// FriendAdded appends a friend.
type FriendAdded struct{ Friend domain.Friend }

// FriendRemoved removes a friend by id.
type FriendRemoved struct{ ID string }

// FriendOnlineSet updates one friend's presence flag.
type FriendOnlineSet struct {
	ID     string
	Online bool
}

// CelebritySet flips celebrity status and the matching rank tier.
type CelebritySet struct{ Celebrity bool }

// UserRestored rehydrates the container from durable storage at startup.
type UserRestored struct{ User UserState }

// UserLoadingSet flips the profile-loading flag.
type UserLoadingSet struct{ Loading bool }

// UserErrorSet records a profile fetch failure.
type UserErrorSet struct{ Err string }

func (ProfileSet) isAction()        {}
func (ProfileSet) isUser()          {}
func (ProfileCleared) isAction()    {}
func (ProfileCleared) isUser()      {}
func (ProfileBalanceSet) isAction() {}
func (ProfileBalanceSet) isUser()   {}
func (StatsUpdated) isAction()      {}
func (StatsUpdated) isUser()        {}
func (FriendAdded) isAction()       {}
func (FriendAdded) isUser()         {}
func (FriendRemoved) isAction()     {}
func (FriendRemoved) isUser()       {}
func (FriendOnlineSet) isAction()   {}
func (FriendOnlineSet) isUser()     {}
func (CelebritySet) isAction()      {}
func (CelebritySet) isUser()        {}
func (UserRestored) isAction()      {}
func (UserRestored) isUser()        {}
func (UserLoadingSet) isAction()    {}
func (UserLoadingSet) isUser()      {}
func (UserErrorSet) isAction()      {}
func (UserErrorSet) isUser()        {}

func reduceUser(s UserState, a UserAction) UserState {
	switch act := a.(type) {
	case ProfileSet:
		p := act.Profile
		s.Profile = &p
		s.Err = ""
		s.Loading = false
	case ProfileCleared:
		s.Profile = nil
		s.Err = ""
	case ProfileBalanceSet:
		if s.Profile != nil {
			p := *s.Profile
			p.Balance = act.Balance
			s.Profile = &p
		}
	case StatsUpdated:
		if s.Profile != nil {
			p := *s.Profile
			p.Stats = act.Stats
			s.Profile = &p
		}
	case FriendAdded:
		if s.Profile != nil {
			p := *s.Profile
			p.Friends = append(append([]domain.Friend{}, p.Friends...), act.Friend)
			s.Profile = &p
		}
	case FriendRemoved:
		if s.Profile != nil {
			p := *s.Profile
			friends := make([]domain.Friend, 0, len(p.Friends))
			for _, f := range p.Friends {
				if f.ID != act.ID {
					friends = append(friends, f)
				}
			}
			p.Friends = friends
			s.Profile = &p
		}
	case FriendOnlineSet:
		if s.Profile != nil {
			p := *s.Profile
			friends := append([]domain.Friend{}, p.Friends...)
			for i := range friends {
				if friends[i].ID == act.ID {
					friends[i].Online = act.Online
				}
			}
			p.Friends = friends
			s.Profile = &p
		}
	case CelebritySet:
		if s.Profile != nil {
			p := *s.Profile
			p.Celebrity = act.Celebrity
			if act.Celebrity {
				p.Rank = domain.TierCelebrity
			} else {
				p.Rank = domain.TierAmateur
			}
			s.Profile = &p
		}
	case UserRestored:
		s = act.User
		s.Loading = false
		s.Err = ""
	case UserLoadingSet:
		s.Loading = act.Loading
	case UserErrorSet:
		s.Err = act.Err
		s.Loading = false
	}
	return s
}
