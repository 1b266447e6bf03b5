package client

// Decision is a route guard's verdict for the current session state.
type Decision int

const (
	// Wait means the identity check has not resolved; render nothing yet.
	Wait Decision = iota
	// Allow lets the view render.
	Allow
	// RedirectLogin sends anonymous users to the login view.
	RedirectLogin
	// RedirectHome sends authenticated non-admins back home.
	RedirectHome
)

// RequireAuth gates a view on an authenticated session.
func RequireAuth(s *Session) Decision {
	switch s.State() {
	case StateChecking:
		return Wait
	case StateAuthenticated:
		return Allow
	default:
		return RedirectLogin
	}
}

// RequireAdmin gates a view on a superuser session.
func RequireAdmin(s *Session) Decision {
	switch s.State() {
	case StateChecking:
		return Wait
	case StateAuthenticated:
		if s.IsAdmin() {
			return Allow
		}
		return RedirectHome
	default:
		return RedirectLogin
	}
}
