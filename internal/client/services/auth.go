// Package services holds the client's application services. AuthService
// wraps the remote store's account calls and keeps the session in the
// local metadata table so a restart does not force a new login.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/moodkeeper/internal/client/client"
	"github.com/dmitrijs2005/moodkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/moodkeeper/internal/common"
	"github.com/dmitrijs2005/moodkeeper/internal/logging"
)

// SessionKey is the metadata key holding the persisted session.
const SessionKey = "session"

const persistTimeout = 5 * time.Second

// SessionRestorer is implemented by remote stores that can adopt a session
// loaded from disk.
type SessionRestorer interface {
	RestoreSession(sess *client.Session)
}

type AuthService struct {
	remote client.RemoteStore
	meta   metadata.Repository
	logger logging.Logger
}

func NewAuthService(remote client.RemoteStore, meta metadata.Repository, logger logging.Logger) *AuthService {
	if logger == nil {
		logger = logging.NewDiscard()
	}
	return &AuthService{remote: remote, meta: meta, logger: logger.With("module", "auth")}
}

// PersistSessionHook returns a session hook for client.WithSessionHook that
// writes every session change to meta. It is separate from AuthService
// because the hook has to exist before the remote client is built.
func PersistSessionHook(meta metadata.Repository, logger logging.Logger) func(*client.Session) {
	if logger == nil {
		logger = logging.NewDiscard()
	}
	return func(sess *client.Session) {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := saveSession(ctx, meta, sess); err != nil {
			logger.Warn(ctx, "session not persisted", "error", err)
		}
	}
}

func saveSession(ctx context.Context, meta metadata.Repository, sess *client.Session) error {
	if sess == nil {
		return meta.Delete(ctx, SessionKey)
	}
	return metadata.SetJSON(ctx, meta, SessionKey, sess)
}

func validateCredentials(username, password string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("%w: username is required", common.ErrorValidation)
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", common.ErrorValidation)
	}
	return nil
}

// Register creates an account. It does not log in.
func (a *AuthService) Register(ctx context.Context, username, password string) error {
	if err := validateCredentials(username, password); err != nil {
		return err
	}
	if err := a.remote.Register(ctx, client.Credentials{Username: username, Password: password}); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	a.logger.Info(ctx, "registered", "username", username)
	return nil
}

// Login authenticates and persists the resulting session.
func (a *AuthService) Login(ctx context.Context, username, password string) (*client.Session, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}
	sess, err := a.remote.Login(ctx, client.Credentials{Username: username, Password: password})
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if err := saveSession(ctx, a.meta, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	a.logger.Info(ctx, "logged in", "username", sess.Username)
	return sess, nil
}

// Logout ends the session remotely and forgets it locally. The local copy
// is removed even when the server call fails.
func (a *AuthService) Logout(ctx context.Context) error {
	remoteErr := a.remote.Logout(ctx)
	if err := a.meta.Delete(ctx, SessionKey); err != nil {
		return errors.Join(remoteErr, fmt.Errorf("forget session: %w", err))
	}
	if remoteErr != nil && !errors.Is(remoteErr, client.ErrNoSession) {
		return fmt.Errorf("logout: %w", remoteErr)
	}
	return nil
}

// Restore loads a persisted session and hands it to the remote store. It
// reports whether a session was found.
func (a *AuthService) Restore(ctx context.Context) (*client.Session, bool, error) {
	sess, err := metadata.GetJSON[client.Session](ctx, a.meta, SessionKey)
	if err != nil {
		return nil, false, fmt.Errorf("load session: %w", err)
	}
	if sess == nil || sess.AccessToken == "" {
		return nil, false, nil
	}
	if r, ok := a.remote.(SessionRestorer); ok {
		r.RestoreSession(sess)
	}
	a.logger.Debug(ctx, "session restored", "username", sess.Username)
	return sess, true, nil
}

// InvalidateSession drops the session after a failed write. It satisfies
// store.SessionInvalidator.
func (a *AuthService) InvalidateSession(ctx context.Context, cause error) {
	a.logger.Warn(ctx, "session invalidated", "cause", cause)
	if err := a.remote.Logout(ctx); err != nil && !errors.Is(err, client.ErrNoSession) {
		a.logger.Debug(ctx, "remote logout failed", "error", err)
	}
	if err := a.meta.Delete(ctx, SessionKey); err != nil {
		a.logger.Error(ctx, "forget session failed", "error", err)
	}
}

// Session returns the active session, if any.
func (a *AuthService) Session() (*client.Session, bool) {
	return a.remote.CurrentSession()
}

func (a *AuthService) Ping(ctx context.Context) error {
	return a.remote.Ping(ctx)
}
