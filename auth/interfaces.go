package auth

import "context"

// Application routes used for post-login and post-logout navigation.
const (
	EntryRoute = "/"
	HomeRoute  = "/"
	LoginRoute = "/login"
)

// LoginResult is what the backend returns on a successful credential or
// authorization-code login.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	MemberID     int64
	MemberName   string
	Nickname     string
	Email        string
}

// Backend is the slice of the REST API the session manager consumes.
type Backend interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	ExchangeAuthCode(ctx context.Context, provider, code string) (*LoginResult, error)
}

// Notifier surfaces blocking, user-visible messages (the alert() of the
// browser rendition).
type Notifier interface {
	Alert(message string)
}

// Navigator performs full-page navigation. Session teardown itself never
// depends on it; it is the external "reset the app" effect.
type Navigator interface {
	NavigateTo(route string)
}
