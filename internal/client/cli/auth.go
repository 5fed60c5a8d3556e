package cli

import (
	"context"
	"errors"

	"github.com/notesvault/notesvault/internal/client/session"
	"github.com/notesvault/notesvault/internal/common"
)

// getSimpleText and getPassword point at the interactive helpers and can be
// swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

func (a *App) credentials() (string, string, error) {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return "", "", err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return "", "", err
	}
	return username, password, nil
}

// Register creates an account and signs in with it straight away.
func (a *App) Register(ctx context.Context) error {
	username, password, err := a.credentials()
	if err != nil {
		return err
	}

	if err := a.api.Register(ctx, username, password); err != nil {
		if errors.Is(err, common.ErrorConflict) {
			a.printf("Username %q is taken.\n", username)
			return err
		}
		return a.check(ctx, err)
	}

	a.printf("Registered.\n")
	return a.signIn(ctx, username, password)
}

// Login exchanges credentials for a token and stores the session.
func (a *App) Login(ctx context.Context) error {
	username, password, err := a.credentials()
	if err != nil {
		return err
	}
	return a.signIn(ctx, username, password)
}

func (a *App) signIn(ctx context.Context, username, password string) error {
	token, err := a.api.Login(ctx, username, password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			a.printf("Invalid username or password.\n")
			return err
		}
		return a.check(ctx, err)
	}

	if err := a.sessions.Save(ctx, session.Session{Username: username, Token: token}); err != nil {
		return a.check(ctx, err)
	}

	a.api.SetToken(token)
	a.username = username
	a.loggedIn = true
	a.printf("Logged in as %s.\n", username)
	return nil
}

// Logout forgets the stored token. Tokens are stateless, so the server is
// not involved.
func (a *App) Logout(ctx context.Context) error {
	if err := a.forget(ctx); err != nil {
		return a.check(ctx, err)
	}
	a.printf("Logged out.\n")
	return nil
}

// WhoAmI asks the server who the stored token belongs to.
func (a *App) WhoAmI(ctx context.Context) error {
	user, err := a.api.Profile(ctx)
	if err != nil {
		return a.check(ctx, err)
	}
	a.printf("%s\n", user)
	return nil
}
