package cli

import (
	"context"

	"github.com/dmitrijs2005/moodkeeper/internal/common"
)

// getSimpleText and getPassword are swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) readCredentials() (string, string, error) {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return "", "", err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return "", "", err
	}
	defer common.WipeByteArray(password)
	return username, string(password), nil
}

// Register prompts for credentials and creates an account.
func (a *App) Register(ctx context.Context) error {
	username, password, err := a.readCredentials()
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	if err := a.authService.Register(ctx, username, password); err != nil {
		return err
	}
	a.println("Registered. You can log in now.")
	return nil
}

// Login prompts for credentials, logs in and loads the entries.
func (a *App) Login(ctx context.Context) error {
	username, password, err := a.readCredentials()
	if err != nil {
		return err
	}

	lctx, cancel := a.withTimeout(ctx)
	sess, err := a.authService.Login(lctx, username, password)
	cancel()
	if err != nil {
		return err
	}
	a.store.Reset()
	a.println("Logged in as", sess.Username)

	if err := a.Refresh(ctx); err != nil {
		a.warn("Could not load entries: %v", err)
	}
	return nil
}

// Logout ends the session and drops the entries loaded for it.
func (a *App) Logout(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	err := a.authService.Logout(ctx)
	a.store.Reset()
	a.println("Logged out.")
	return err
}
