package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"ramesh-admin/models"

	"github.com/sirupsen/logrus"
)

// TokenStore supplies and persists the bearer tokens the client attaches to
// every request.
type TokenStore interface {
	AccessToken() string
	RefreshToken() string
	SetTokens(access, refresh string) error
}

// Client issues HTTP requests against the Ramesh admin API and decodes the
// response envelope. On a rejected token it attempts a single refresh and
// retry; if that fails it invokes the session-expiry hook and returns
// ErrSessionExpired.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore

	// OnSessionExpired is the process-wide teardown hook. It must be
	// idempotent; the session controller installs it.
	OnSessionExpired func()

	log *logrus.Entry

	refreshMu sync.Mutex
}

// NewClient creates a client for the given base URL (no trailing slash
// required).
func NewClient(baseURL string, tokens TokenStore) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		tokens:     tokens,
		log:        logrus.WithField("component", "api"),
	}
}

// SetHTTPClient overrides the underlying HTTP client (tests, custom
// transports).
func (c *Client) SetHTTPClient(hc *http.Client) { c.httpClient = hc }

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) Get(ctx context.Context, path string, query url.Values) (*models.Envelope, error) {
	return c.Do(ctx, http.MethodGet, path, query, nil)
}

func (c *Client) Post(ctx context.Context, path string, body interface{}) (*models.Envelope, error) {
	return c.Do(ctx, http.MethodPost, path, nil, body)
}

func (c *Client) Put(ctx context.Context, path string, body interface{}) (*models.Envelope, error) {
	return c.Do(ctx, http.MethodPut, path, nil, body)
}

func (c *Client) Delete(ctx context.Context, path string) (*models.Envelope, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// Do executes one request. It returns the decoded envelope whenever one was
// received, alongside a nil error only for a success envelope. Failure
// envelopes come back with an *APIError so callers can inspect either form.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body interface{}) (*models.Envelope, error) {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		payload = b
	}

	// A 401 only means the session expired when the request actually carried
	// a bearer token. An unauthenticated call (login, most notably) rejected
	// with 401 is an ordinary failure envelope.
	authed := c.tokens != nil && c.tokens.AccessToken() != ""

	env, status, err := c.send(ctx, method, path, query, payload)
	if err != nil {
		return nil, err
	}

	message := ""
	if env != nil {
		message = env.Message
	}
	if authed && IsSessionExpiry(status, message) {
		env, status, err = c.retryAfterRefresh(ctx, method, path, query, payload)
		if err != nil {
			return env, err
		}
		if env != nil {
			message = env.Message
		} else {
			message = ""
		}
		if IsSessionExpiry(status, message) {
			c.expireSession()
			return env, ErrSessionExpired
		}
	}

	if env == nil {
		return nil, fmt.Errorf("%s %s: malformed response (status %d)", method, path, status)
	}
	if !env.OK() {
		return env, &APIError{StatusCode: status, Message: env.Message}
	}
	return env, nil
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte) (*models.Envelope, int, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WithError(err).WithFields(logrus.Fields{"method": method, "path": path}).Warn("request failed")
		return nil, 0, err
	}
	defer resp.Body.Close()

	var env models.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		// A body that is not a valid envelope still matters when the
		// status line already tells us the session is gone.
		return nil, resp.StatusCode, nil
	}
	return &env, resp.StatusCode, nil
}

// retryAfterRefresh exchanges the refresh token for a new token pair and
// replays the original request once. Refresh failures surface as session
// expiry at the call site.
func (c *Client) retryAfterRefresh(ctx context.Context, method, path string, query url.Values, payload []byte) (*models.Envelope, int, error) {
	if c.tokens == nil || c.tokens.RefreshToken() == "" || path == "/api/auth/refresh" {
		c.expireSession()
		return nil, 0, ErrSessionExpired
	}

	c.refreshMu.Lock()
	refreshErr := c.refreshTokens(ctx)
	c.refreshMu.Unlock()
	if refreshErr != nil {
		c.expireSession()
		return nil, 0, ErrSessionExpired
	}

	return c.send(ctx, method, path, query, payload)
}

func (c *Client) refreshTokens(ctx context.Context) error {
	body, err := json.Marshal(map[string]string{"refresh_token": c.tokens.RefreshToken()})
	if err != nil {
		return err
	}
	env, status, err := c.send(ctx, http.MethodPost, "/api/auth/refresh", nil, body)
	if err != nil {
		return err
	}
	if env == nil || !env.OK() {
		return fmt.Errorf("refresh rejected (status %d)", status)
	}

	var data struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := env.DecodeData(&data); err != nil {
		return err
	}
	if data.AccessToken == "" {
		return fmt.Errorf("refresh response missing access token")
	}
	return c.tokens.SetTokens(data.AccessToken, data.RefreshToken)
}

func (c *Client) expireSession() {
	c.log.Warn("session expired, invoking teardown")
	if c.OnSessionExpired != nil {
		c.OnSessionExpired()
	}
}
