package client

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// SessionState tracks where the session is in its lifecycle. Pages gate on
// Checking so nothing renders before the identity check resolves.
type SessionState int

const (
	StateAnonymous SessionState = iota
	StateChecking
	StateAuthenticated
)

// User is the identity record returned by the backend.
type User struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	IsActive    bool      `json:"is_active"`
	IsSuperuser bool      `json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
}

// TokenStore persists the bearer token across runs. It is read once when the
// session is constructed and written only by Login and Logout.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// MemoryTokenStore keeps the token in memory only.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

func (s *MemoryTokenStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryTokenStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	return s.Save("")
}

// FileTokenStore persists the token to a file, written atomically via a
// temp-file rename.
type FileTokenStore struct {
	Path string
}

func (s *FileTokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *FileTokenStore) Save(token string) error {
	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, ".token-*")
	if err != nil {
		return err
	}
	if _, err := tmp.WriteString(token); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.Path)
}

func (s *FileTokenStore) Clear() error {
	err := os.Remove(s.Path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Session is the single source of truth for the bearer token and the current
// identity. One instance lives for the whole process; every other component
// reads it, only Login/Logout/Restore write it.
type Session struct {
	client *Client
	store  TokenStore

	mu    sync.Mutex
	token string
	user  *User
	state SessionState
}

func newSession(c *Client, store TokenStore) *Session {
	s := &Session{client: c, store: store, state: StateAnonymous}
	if store != nil {
		if token, err := store.Load(); err == nil {
			s.token = token
		}
	}
	return s
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsAuthenticated reports whether the session holds a validated identity.
func (s *Session) IsAuthenticated() bool {
	return s.State() == StateAuthenticated
}

// IsAdmin reports whether the current user is a superuser.
func (s *Session) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil && s.user.IsSuperuser
}

// CurrentUser returns a copy of the identity record, or nil when anonymous.
func (s *Session) CurrentUser() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// AuthHeaders returns the headers to merge into authenticated requests. It
// is empty when no token is held.
func (s *Session) AuthHeaders() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return map[string]string{}
	}
	return map[string]string{"Authorization": "Bearer " + s.token}
}

// Restore drives anonymous -> checking -> {authenticated | anonymous} from a
// persisted token. A 401 from the identity check clears the persisted token;
// other failures leave it in place for the next run but still resolve to
// anonymous.
func (s *Session) Restore(ctx context.Context) SessionState {
	s.mu.Lock()
	if s.token == "" {
		s.state = StateAnonymous
		s.mu.Unlock()
		return StateAnonymous
	}
	s.state = StateChecking
	s.mu.Unlock()

	var user User
	err := s.client.do(ctx, http.MethodGet, "/users/me", nil, "", &user)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		// A 401 already went through expire(); everything else keeps the
		// token but resolves to anonymous for this page lifecycle.
		s.user = nil
		s.state = StateAnonymous
		return StateAnonymous
	}
	s.user = &user
	s.state = StateAuthenticated
	return StateAuthenticated
}

// Login exchanges credentials for a token, persists it and fetches the
// identity record. It returns false on any failure.
func (s *Session) Login(ctx context.Context, email, password string) bool {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var res struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	err := s.client.do(ctx, http.MethodPost, "/auth/jwt/login",
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", &res)
	if err != nil || res.AccessToken == "" {
		return false
	}

	s.mu.Lock()
	s.token = res.AccessToken
	s.mu.Unlock()
	if s.store != nil {
		_ = s.store.Save(res.AccessToken)
	}

	var user User
	if err := s.client.do(ctx, http.MethodGet, "/users/me", nil, "", &user); err != nil {
		return false
	}

	s.mu.Lock()
	s.user = &user
	s.state = StateAuthenticated
	s.mu.Unlock()
	return true
}

// Register creates an account from a display name plus credentials. The
// first whitespace-delimited token becomes the first name and the remainder
// the last name; a single-word name leaves the last name empty.
func (s *Session) Register(ctx context.Context, name, email, password string) bool {
	first, last := splitName(name)
	payload := map[string]string{
		"email":      email,
		"password":   password,
		"first_name": first,
		"last_name":  last,
	}
	body, contentType, err := jsonBody(payload)
	if err != nil {
		return false
	}
	return s.client.do(ctx, http.MethodPost, "/auth/register", body, contentType, nil) == nil
}

// Logout clears the token and identity. No network traffic.
func (s *Session) Logout() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.state = StateAnonymous
	s.mu.Unlock()
	if s.store != nil {
		_ = s.store.Clear()
	}
}

// expire is the 401 hook: any rejected authenticated call drops the session
// and the persisted token.
func (s *Session) expire() {
	s.mu.Lock()
	had := s.token != ""
	s.token = ""
	s.user = nil
	s.state = StateAnonymous
	s.mu.Unlock()
	if had && s.store != nil {
		_ = s.store.Clear()
	}
}

func splitName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
