package session

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/docudefense/internal/client/models"
	"github.com/dmitrijs2005/docudefense/internal/common"
	"github.com/dmitrijs2005/docudefense/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	tokens map[string]string // email -> token
	ids    map[string]string // email -> id

	loginCalls  int
	createCalls int
	fetchCalls  int

	createErr error
	fetchErr  error
}

func (f *fakeAPI) Login(_ context.Context, email, password string) (*models.LoginResult, error) {
	f.loginCalls++
	tok, ok := f.tokens[email]
	if !ok || password != "pw" {
		return nil, errors.New("unauthorized")
	}
	return &models.LoginResult{Message: "ok", Token: tok}, nil
}

func (f *fakeAPI) CreateUser(_ context.Context, in models.UserInput) (*models.User, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.User{ID: "new", Email: in.Email}, nil
}

func (f *fakeAPI) FetchUserIDByEmail(_ context.Context, email string) (string, error) {
	f.fetchCalls++
	if f.fetchErr != nil {
		return "", f.fetchErr
	}
	return f.ids[email], nil
}

func newController(t *testing.T, api *fakeAPI) (*Controller, *TokenStore) {
	t.Helper()
	store := NewTokenStore(newMemRepo())
	return NewController(store, api, logging.Discard()), store
}

func TestController_InitWithoutToken(t *testing.T) {
	c, _ := newController(t, &fakeAPI{})

	require.NoError(t, c.Init(context.Background()))
	assert.Equal(t, StateLoggedOut, c.State())
	assert.Empty(t, c.Email())
}

func TestController_InitWithValidToken(t *testing.T) {
	ctx := context.Background()
	c, store := newController(t, &fakeAPI{})
	require.NoError(t, store.SetToken(ctx, mintToken(t, "ann@x.io")))

	require.NoError(t, c.Init(ctx))
	assert.True(t, c.LoggedIn())
	assert.Equal(t, "ann@x.io", c.Email())
}

func TestController_InitWithBrokenToken(t *testing.T) {
	ctx := context.Background()
	c, store := newController(t, &fakeAPI{})
	require.NoError(t, store.SetToken(ctx, "garbage"))

	err := c.Init(ctx)
	require.ErrorIs(t, err, common.ErrInvalidToken)
	assert.False(t, c.LoggedIn())

	ok, err := store.IsLoggedIn(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestController_LoginLogout(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{
		tokens: map[string]string{"ann@x.io": mintToken(t, "ann@x.io")},
		ids:    map[string]string{"ann@x.io": "u1"},
	}
	c, store := newController(t, api)
	c.OpenAuthModal()

	require.NoError(t, c.Login(ctx, "ann@x.io", "pw"))
	assert.True(t, c.LoggedIn())
	assert.Equal(t, "ann@x.io", c.Email())
	assert.False(t, c.AuthModalOpen())

	tok, err := store.GetToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, api.tokens["ann@x.io"], tok)

	require.NoError(t, c.Logout(ctx))
	assert.Equal(t, StateLoggedOut, c.State())
	assert.Empty(t, c.Email())

	ok, err := store.IsLoggedIn(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Logout(ctx))
}

func TestController_LoginFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	c, _ := newController(t, &fakeAPI{tokens: map[string]string{}})

	err := c.Login(ctx, "ann@x.io", "bad")
	require.Error(t, err)
	assert.False(t, c.LoggedIn())
}

func TestController_LoginWithUndecodableToken(t *testing.T) {
	ctx := context.Background()
	c, store := newController(t, &fakeAPI{tokens: map[string]string{"ann@x.io": "opaque"}})

	err := c.Login(ctx, "ann@x.io", "pw")
	require.ErrorIs(t, err, common.ErrInvalidToken)
	assert.False(t, c.LoggedIn())

	tok, err := store.GetToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestController_Register(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{tokens: map[string]string{"bea@x.io": mintToken(t, "bea@x.io")}}
	c, _ := newController(t, api)

	user, err := c.Register(ctx, models.UserInput{FirstName: "Bea", Email: "bea@x.io", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "new", user.ID)
	assert.Equal(t, 1, api.createCalls)
	assert.Equal(t, 1, api.loginCalls)
	assert.True(t, c.LoggedIn())
}

func TestController_RegisterValidation(t *testing.T) {
	api := &fakeAPI{}
	c, _ := newController(t, api)

	_, err := c.Register(context.Background(), models.UserInput{Email: "bea@x.io"})
	require.ErrorIs(t, err, common.ErrorValidation)
	assert.Zero(t, api.createCalls)
}

func TestController_RegisterCreateFails(t *testing.T) {
	api := &fakeAPI{createErr: errors.New("email taken")}
	c, _ := newController(t, api)

	_, err := c.Register(context.Background(), models.UserInput{Email: "bea@x.io", Password: "pw"})
	require.Error(t, err)
	assert.Zero(t, api.loginCalls)
	assert.False(t, c.LoggedIn())
}

func TestController_UserIDIsCached(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{
		tokens: map[string]string{"ann@x.io": mintToken(t, "ann@x.io")},
		ids:    map[string]string{"ann@x.io": "u1"},
	}
	c, _ := newController(t, api)

	_, err := c.UserID(ctx)
	require.ErrorIs(t, err, common.ErrNotLoggedIn)

	require.NoError(t, c.Login(ctx, "ann@x.io", "pw"))
	for i := 0; i < 3; i++ {
		id, err := c.UserID(ctx)
		require.NoError(t, err)
		assert.Equal(t, "u1", id)
	}
	assert.Equal(t, 1, api.fetchCalls)

	require.NoError(t, c.Logout(ctx))
	_, err = c.UserID(ctx)
	require.ErrorIs(t, err, common.ErrNotLoggedIn)
}

func TestController_UserIDError(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("offline")
	api := &fakeAPI{
		tokens:   map[string]string{"ann@x.io": mintToken(t, "ann@x.io")},
		fetchErr: boom,
	}
	c, _ := newController(t, api)
	require.NoError(t, c.Login(ctx, "ann@x.io", "pw"))

	_, err := c.UserID(ctx)
	require.ErrorIs(t, err, boom)
	assert.True(t, c.LoggedIn())
}

func TestController_RevalidateAfterTokenCorruption(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{tokens: map[string]string{"ann@x.io": mintToken(t, "ann@x.io")}}
	c, store := newController(t, api)
	require.NoError(t, c.Login(ctx, "ann@x.io", "pw"))

	require.NoError(t, store.SetToken(ctx, "broken"))
	require.ErrorIs(t, c.Revalidate(ctx), common.ErrInvalidToken)
	assert.False(t, c.LoggedIn())
}

func TestController_ModalDoesNotChangeState(t *testing.T) {
	c, _ := newController(t, &fakeAPI{})

	c.OpenAuthModal()
	assert.True(t, c.AuthModalOpen())
	assert.Equal(t, StateLoggedOut, c.State())

	c.CloseAuthModal()
	assert.False(t, c.AuthModalOpen())
	assert.Equal(t, StateLoggedOut, c.State())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "logged in", StateLoggedIn.String())
	assert.Equal(t, "logged out", StateLoggedOut.String())
}
