package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/docudefense/internal/client/models"
	"github.com/dmitrijs2005/docudefense/internal/common"
	"github.com/dmitrijs2005/docudefense/internal/logging"
)

// State is the top-level session state.
type State int

const (
	StateLoggedOut State = iota
	StateLoggedIn
)

func (s State) String() string {
	if s == StateLoggedIn {
		return "logged in"
	}
	return "logged out"
}

// API is the part of the backend client the controller needs.
type API interface {
	Login(ctx context.Context, email, password string) (*models.LoginResult, error)
	CreateUser(ctx context.Context, input models.UserInput) (*models.User, error)
	FetchUserIDByEmail(ctx context.Context, email string) (string, error)
}

// Controller tracks whether a user is logged in and who it is. Email and
// user id are always re-derived from the stored token, never kept apart
// from it across a login or logout.
type Controller struct {
	mu     sync.Mutex
	tokens *TokenStore
	api    API
	logger logging.Logger

	state  State
	email  string
	userID string
	modal  bool
}

func NewController(tokens *TokenStore, api API, logger logging.Logger) *Controller {
	return &Controller{tokens: tokens, api: api, logger: logger}
}

// Init restores the session from storage. The controller ends up logged in
// only when a token is present and its email claim decodes.
func (c *Controller) Init(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.revalidate(ctx)
}

// Revalidate re-derives the email from the stored token. A decode failure
// forces the logged-out state.
func (c *Controller) Revalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.revalidate(ctx)
}

func (c *Controller) revalidate(ctx context.Context) error {
	email, err := c.tokens.UserEmail(ctx)
	switch {
	case err == nil:
		if email != c.email {
			c.userID = ""
		}
		c.state, c.email = StateLoggedIn, email
		return nil
	case errors.Is(err, common.ErrNotLoggedIn):
		c.reset()
		return nil
	case errors.Is(err, common.ErrInvalidToken):
		c.logger.Warn(ctx, "stored session token is invalid, logging out", "error", err)
		c.reset()
		return err
	default:
		return err
	}
}

// Login authenticates, stores the returned token and enters the logged-in
// state. On failure the previous state is left untouched.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	res, err := c.api.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err := c.tokens.SetToken(ctx, res.Token); err != nil {
		return err
	}
	c.userID = ""
	if err := c.revalidate(ctx); err != nil {
		return err
	}

	c.modal = false
	c.logger.Info(ctx, "logged in", "email", c.email)
	return nil
}

// Register creates the account and then logs in with the same credentials.
func (c *Controller) Register(ctx context.Context, input models.UserInput) (*models.User, error) {
	if input.Email == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrorValidation)
	}

	user, err := c.api.CreateUser(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}
	if err := c.Login(ctx, input.Email, input.Password); err != nil {
		return user, err
	}
	return user, nil
}

// Logout clears the stored token. It is safe to call when logged out.
func (c *Controller) Logout(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.tokens.ClearToken(ctx); err != nil {
		return err
	}
	c.reset()
	return nil
}

// UserID resolves the backend id of the logged-in user on first use and
// caches it until the session changes.
func (c *Controller) UserID(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateLoggedIn {
		return "", common.ErrNotLoggedIn
	}
	if c.userID != "" {
		return c.userID, nil
	}

	id, err := c.api.FetchUserIDByEmail(ctx, c.email)
	if err != nil {
		return "", fmt.Errorf("resolve user id: %w", err)
	}
	c.userID = id
	return id, nil
}

func (c *Controller) reset() {
	c.state = StateLoggedOut
	c.email = ""
	c.userID = ""
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) LoggedIn() bool {
	return c.State() == StateLoggedIn
}

// Email is the email of the logged-in user, or "".
func (c *Controller) Email() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.email
}

// OpenAuthModal shows the login/register form. It never changes State.
func (c *Controller) OpenAuthModal() {
	c.mu.Lock()
	c.modal = true
	c.mu.Unlock()
}

func (c *Controller) CloseAuthModal() {
	c.mu.Lock()
	c.modal = false
	c.mu.Unlock()
}

func (c *Controller) AuthModalOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.modal
}
