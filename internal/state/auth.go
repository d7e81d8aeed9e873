package state

// AuthState holds the session tokens. Created on login, refreshed in place,
// destroyed on logout or refresh failure.
type AuthState struct {
	Token         string `json:"token"`
	RefreshToken  string `json:"refreshToken"`
	Authenticated bool   `json:"isAuthenticated"`
	Loading       bool   `json:"-"`
}

// AuthAction is the action set owned by the auth container.
type AuthAction interface {
	Action
	isAuth()
}

// LoggedIn records a successful login response.
type LoggedIn struct {
	Token        string
	RefreshToken string
}

// TokenRefreshed replaces the access token after a refresh.
type TokenRefreshed struct{ Token string }

// LoggedOut destroys the session.
type LoggedOut struct{}

// AuthLoadingSet flips the login-in-progress flag.
type AuthLoadingSet struct{ Loading bool }

// AuthRestored rehydrates the container from durable storage at startup.
type AuthRestored struct{ Auth AuthState }

func (LoggedIn) isAction()       {}
func (LoggedIn) isAuth()         {}
func (TokenRefreshed) isAction() {}
func (TokenRefreshed) isAuth()   {}
func (LoggedOut) isAction()      {}
func (LoggedOut) isAuth()        {}
func (AuthLoadingSet) isAction() {}
func (AuthLoadingSet) isAuth()   {}
func (AuthRestored) isAction()   {}
func (AuthRestored) isAuth()     {}

func reduceAuth(s AuthState, a AuthAction) AuthState {
	switch act := a.(type) {
	case LoggedIn:
		s.Token = act.Token
		s.RefreshToken = act.RefreshToken
		s.Authenticated = true
		s.Loading = false
	case TokenRefreshed:
		s.Token = act.Token
	case LoggedOut:
		s = AuthState{}
	case AuthLoadingSet:
		s.Loading = act.Loading
	case AuthRestored:
		s = act.Auth
		s.Loading = false
	}
	return s
}
