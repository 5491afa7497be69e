package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"ramesh-admin/api"
	"ramesh-admin/models"
	"ramesh-admin/notify"
	"ramesh-admin/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// LoginRoute is where the global teardown navigates to.
const LoginRoute = "/login"

// DefaultLogoutDelay is how long a password change waits before forcing
// logout, so the success notification stays visible.
const DefaultLogoutDelay = 2 * time.Second

// Controller owns the current identity. It is created on boot, installs
// itself as the transport's session-expiry hook, and is the single place
// session teardown happens.
type Controller struct {
	mu sync.Mutex

	client   *api.Client
	store    *store.Store
	notifier notify.Notifier
	navigate func(route string)
	log      *logrus.Entry

	user          *models.Admin
	authenticated bool
	loading       bool
	err           string

	// LogoutDelay is the pause between a successful password change and the
	// forced logout. Tests shorten it.
	LogoutDelay time.Duration
}

// New wires a session controller and installs the expiry hook on the client.
// navigate may be nil when no UI shell is embedding the SDK.
func New(client *api.Client, st *store.Store, notifier notify.Notifier, navigate func(route string)) *Controller {
	c := &Controller{
		client:      client,
		store:       st,
		notifier:    notifier,
		navigate:    navigate,
		log:         logrus.WithField("component", "session"),
		LogoutDelay: DefaultLogoutDelay,
	}
	client.OnSessionExpired = c.HandleTokenExpiration
	return c
}

// User returns the current admin, or nil.
func (c *Controller) User() *models.Admin {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

// UserID returns the current admin's id, or uuid.Nil.
func (c *Controller) UserID() uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return uuid.Nil
	}
	return c.user.ID
}

// IsAuthenticated reports whether a session is active.
func (c *Controller) IsAuthenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authenticated
}

// IsSuperAdmin reports whether the current admin holds the super admin role.
func (c *Controller) IsSuperAdmin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user.IsSuperAdmin()
}

// Loading reports whether a session operation is in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns the last session error message, if any.
func (c *Controller) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// CheckAuth restores the session from persisted state without a network
// round-trip: the token is assumed valid until it is used and rejected.
// Structurally corrupt persisted data clears the session instead.
func (c *Controller) CheckAuth() bool {
	token := c.store.AccessToken()
	user := c.store.LoadUser()
	if token == "" || user == nil {
		return false
	}
	if _, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{}); err != nil {
		c.log.WithError(err).Warn("persisted token corrupt, clearing session")
		c.store.ClearSession()
		return false
	}

	c.mu.Lock()
	c.user = user
	c.authenticated = true
	c.mu.Unlock()
	return true
}

// Resume is the visibility-regain check: it forces logout only when the
// persisted token or user has vanished underneath us. It never checks
// expiry against a clock.
func (c *Controller) Resume() {
	if c.store.AccessToken() == "" || c.store.LoadUser() == nil {
		c.clearLocal()
	}
}

type loginData struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	User         *models.Admin `json:"user"`
}

// Login authenticates and persists the session. On failure the server
// message is returned as the error.
func (c *Controller) Login(ctx context.Context, email, password string) (*models.Admin, error) {
	c.begin()
	defer c.end()

	env, err := c.client.Post(ctx, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		msg := "Login failed"
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			msg = apiErr.Message
		}
		c.setErr(msg)
		return nil, errors.New(msg)
	}

	var data loginData
	if err := env.DecodeData(&data); err != nil || data.User == nil || data.AccessToken == "" {
		c.setErr("Login failed")
		return nil, errors.New("Login failed")
	}

	c.store.SetTokens(data.AccessToken, data.RefreshToken)
	c.store.SaveUser(data.User)

	c.mu.Lock()
	c.user = data.User
	c.authenticated = true
	c.mu.Unlock()
	return data.User, nil
}

// Logout clears local session state regardless of whether the server call
// succeeds.
func (c *Controller) Logout(ctx context.Context) {
	if _, err := c.client.Post(ctx, "/api/auth/logout", nil); err != nil && !errors.Is(err, api.ErrSessionExpired) {
		c.log.WithError(err).Debug("server logout failed, clearing locally anyway")
	}
	c.clearLocal()
}

// ChangePassword updates the password and, on success, schedules a forced
// logout and redirect after LogoutDelay so the success notification is seen
// first.
func (c *Controller) ChangePassword(ctx context.Context, current, newPassword, confirm string) bool {
	if newPassword != confirm {
		c.setErr("New password and confirmation do not match")
		return false
	}

	c.begin()
	defer c.end()

	_, err := c.client.Post(ctx, "/api/auth/change-password", map[string]string{
		"current_password": current,
		"new_password":     newPassword,
	})
	if err != nil {
		if errors.Is(err, api.ErrSessionExpired) {
			return false
		}
		msg := "Failed to change password"
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			msg = apiErr.Message
		}
		c.setErr(msg)
		c.notifier.Error(msg)
		return false
	}

	c.notifier.Success("Password changed. Please sign in again.")
	time.AfterFunc(c.LogoutDelay, func() {
		c.clearLocal()
		if c.navigate != nil {
			c.navigate(LoginRoute)
		}
	})
	return true
}

// HandleTokenExpiration is the process-wide teardown any controller may
// trigger through the transport. It is idempotent.
func (c *Controller) HandleTokenExpiration() {
	c.mu.Lock()
	wasAuthenticated := c.authenticated
	c.user = nil
	c.authenticated = false
	c.mu.Unlock()

	c.store.ClearSession()

	if wasAuthenticated {
		c.notifier.Error("Your session has expired. Please sign in again.")
	}
	if c.navigate != nil {
		c.navigate(LoginRoute)
	}
}

func (c *Controller) clearLocal() {
	c.store.ClearSession()
	c.mu.Lock()
	c.user = nil
	c.authenticated = false
	c.mu.Unlock()
}

func (c *Controller) begin() {
	c.mu.Lock()
	c.loading = true
	c.err = ""
	c.mu.Unlock()
}

func (c *Controller) end() {
	c.mu.Lock()
	c.loading = false
	c.mu.Unlock()
}

func (c *Controller) setErr(msg string) {
	c.mu.Lock()
	c.err = msg
	c.mu.Unlock()
}
