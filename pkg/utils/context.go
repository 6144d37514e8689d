package utils

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type contextKey struct{}

var callerKey contextKey

// Caller is the authenticated principal of a request.
type Caller struct {
	UserID    uuid.UUID
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey, c)
}

func CallerFromContext(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerKey).(Caller)
	if !ok || c.UserID == uuid.Nil {
		return Caller{}, false
	}
	return c, true
}

// SetUserContext attaches a caller without token details.
func SetUserContext(ctx context.Context, userID uuid.UUID, role string) context.Context {
	return WithCaller(ctx, Caller{UserID: userID, Role: role})
}
