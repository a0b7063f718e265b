package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/moodkeeper/internal/client/client"
)

// WritePolicy decides whether a failed write ends the session.
type WritePolicy string

const (
	// PolicyLogout invalidates the session on any write failure.
	PolicyLogout WritePolicy = "logout"
	// PolicyAuthOnly invalidates the session only when the remote store
	// rejected the credentials.
	PolicyAuthOnly WritePolicy = "auth-only"
)

func ParseWritePolicy(s string) (WritePolicy, error) {
	switch p := WritePolicy(s); p {
	case PolicyLogout, PolicyAuthOnly:
		return p, nil
	case "":
		return PolicyLogout, nil
	}
	return "", fmt.Errorf("unknown write policy %q (want %q or %q)", s, PolicyLogout, PolicyAuthOnly)
}

// invalidates reports whether err should end the session under p.
func (p WritePolicy) invalidates(err error) bool {
	if err == nil {
		return false
	}
	if p == PolicyAuthOnly {
		return errors.Is(err, client.ErrUnauthorized) || errors.Is(err, client.ErrNoSession)
	}
	return true
}

// SessionInvalidator ends the current session after a failed write.
type SessionInvalidator interface {
	InvalidateSession(ctx context.Context, cause error)
}

// InvalidatorFunc adapts a function to SessionInvalidator.
type InvalidatorFunc func(ctx context.Context, cause error)

func (f InvalidatorFunc) InvalidateSession(ctx context.Context, cause error) { f(ctx, cause) }
