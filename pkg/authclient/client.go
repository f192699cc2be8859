// Package authclient is the Go client for the account system's session
// state machine. It keeps a reactive authentication state consistent under
// concurrent login/logout/navigation by re-deriving truth from the identity
// provider after every mutation: the result of the latest session sync
// always wins, there is no other source of "is logged in".
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
)

// ErrNoSessionUser is returned when a login or signup succeeded at the
// transport level but the follow-up session sync produced no user.
var ErrNoSessionUser = errors.New("authclient: missing session user")

// Client maintains the session state machine against one API base URL.
// All exported methods are safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client

	mu               sync.Mutex
	state            State
	epoch            uint64
	initialResolved  bool
	hadSessionOnInit bool
	subs             map[int]func(State)
	nextSub          int
}

// New builds a Client. When httpClient is nil a cookie-jar client is
// created; the jar is what carries the session cookie between calls.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		jar, _ := cookiejar.New(nil)
		httpClient = &http.Client{Jar: jar}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		state:   State{Status: StatusUnresolved},
		subs:    make(map[int]func(State)),
	}
}

// State returns a snapshot of the current state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// LoggedIn reports whether the latest sync found an authenticated session.
func (c *Client) LoggedIn() bool { return c.State().LoggedIn() }

// User returns the current user, or nil when not authenticated.
func (c *Client) User() *AuthUser { return c.State().User }

// InitialSessionResolved reports whether the first session sync completed.
func (c *Client) InitialSessionResolved() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initialResolved
}

// HadSessionOnInit reports whether the first session sync found a session.
// It is a snapshot of that first resolution only and never updates again;
// callers use it to decide an initial redirect.
func (c *Client) HadSessionOnInit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hadSessionOnInit
}

// Subscribe registers fn to run on every state change and returns its
// unsubscribe function. fn is called outside the client's lock.
func (c *Client) Subscribe(fn func(State)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// Init performs the initial session restore. The first completed resolution
// sets InitialSessionResolved exactly once and snapshots HadSessionOnInit.
func (c *Client) Init(ctx context.Context) {
	user := c.syncSession(ctx)

	c.mu.Lock()
	if !c.initialResolved {
		c.initialResolved = true
		c.hadSessionOnInit = user != nil
	}
	c.mu.Unlock()
}

// LoginRequest carries the login form fields. Email holds whatever the user
// typed into the identifier field: an email or a username.
type LoginRequest struct {
	Email    string
	Password string
}

// SignupRequest carries the signup form fields.
type SignupRequest struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	BirthDate string
}

// LoginResponse is returned by Login and Signup on success.
type LoginResponse struct {
	Success bool      `json:"success"`
	User    *AuthUser `json:"user"`
}

// Login submits credentials and re-syncs the session. The login response
// body is never trusted directly: the user comes from the follow-up sync,
// so exactly one code path maps provider data to AuthUser. On any failure
// the error code is CodeInvalidCredentials; loading is cleared on every
// exit path.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	c.beginOperation()
	defer c.endOperation()

	status, err := c.postJSON(ctx, "/api/auth/login", map[string]string{
		"identifier": req.Email,
		"password":   req.Password,
	})
	if err != nil || status != http.StatusOK {
		c.failOperation(CodeInvalidCredentials)
		if err == nil {
			err = fmt.Errorf("authclient: login failed with status %d", status)
		}
		return nil, err
	}

	user := c.syncSession(ctx)
	if user == nil {
		c.failOperation(CodeInvalidCredentials)
		return nil, ErrNoSessionUser
	}

	return &LoginResponse{Success: true, User: user}, nil
}

// Signup registers an account through the provider's sign-up operation and
// hydrates state the same way Login does: via a fresh session sync.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*LoginResponse, error) {
	c.beginOperation()
	defer c.endOperation()

	name := strings.TrimSpace(strings.TrimSpace(req.FirstName) + " " + strings.TrimSpace(req.LastName))
	status, err := c.postJSON(ctx, "/api/auth/sign-up/email", map[string]string{
		"name":      name,
		"email":     req.Email,
		"password":  req.Password,
		"username":  req.Username,
		"firstName": req.FirstName,
		"lastName":  req.LastName,
		"birthDate": req.BirthDate,
	})
	if err != nil || status != http.StatusOK {
		c.failOperation(CodeSignupFailed)
		if err == nil {
			err = fmt.Errorf("authclient: signup failed with status %d", status)
		}
		return nil, err
	}

	user := c.syncSession(ctx)
	if user == nil {
		c.failOperation(CodeSignupFailed)
		return nil, ErrNoSessionUser
	}

	return &LoginResponse{Success: true, User: user}, nil
}

// Logout flips local state to anonymous immediately and fires the provider
// sign-out without waiting for it. A failed network call leaves the
// server-side session to expire naturally; the user-visible effect never
// depends on network completion. Bumping the epoch makes any in-flight sync
// stale, so a slow login resolving after logout cannot resurrect the user.
func (c *Client) Logout() {
	c.mu.Lock()
	c.epoch++
	c.state.Status = StatusAnonymous
	c.state.User = nil
	c.notifyLocked()
	c.mu.Unlock()

	go func() {
		_, _ = c.postJSON(context.Background(), "/api/auth/sign-out", struct{}{})
	}()
}

// syncSession re-derives the authentication state from the provider's
// get-session operation. Each call captures the epoch at start; if a newer
// epoch has started by the time the response arrives, the result is
// discarded and nil is returned.
func (c *Client) syncSession(ctx context.Context) *AuthUser {
	c.mu.Lock()
	c.epoch++
	epoch := c.epoch
	c.mu.Unlock()

	user := c.fetchSessionUser(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return nil
	}

	if user != nil {
		c.state.Status = StatusAuthenticated
		c.state.User = user
	} else {
		c.state.Status = StatusAnonymous
		c.state.User = nil
	}
	c.notifyLocked()
	return user
}

func (c *Client) fetchSessionUser(ctx context.Context) *AuthUser {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/auth/get-session", nil)
	if err != nil {
		return nil
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var payload struct {
		User *Profile `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.User == nil {
		return nil
	}

	user := MapUser(*payload.User)
	return &user
}

func (c *Client) postJSON(ctx context.Context, path string, body any) (int, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

func (c *Client) beginOperation() {
	c.mu.Lock()
	c.state.Loading = true
	c.state.ErrorCode = ""
	c.notifyLocked()
	c.mu.Unlock()
}

func (c *Client) endOperation() {
	c.mu.Lock()
	c.state.Loading = false
	c.notifyLocked()
	c.mu.Unlock()
}

func (c *Client) failOperation(code string) {
	c.mu.Lock()
	c.state.ErrorCode = code
	c.notifyLocked()
	c.mu.Unlock()
}

// notifyLocked dispatches the current state to subscribers. The caller
// holds mu; callbacks run on their own goroutine so a subscriber may call
// back into the client without deadlocking.
func (c *Client) notifyLocked() {
	snapshot := c.state.clone()
	for _, fn := range c.subs {
		fn := fn
		go fn(snapshot)
	}
}
