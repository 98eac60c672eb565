package context

import (
	"context"
	"strings"
)

type requestIDKey struct{}
type actorKey struct{}

type actor struct {
	userID   string
	username string
	role     string
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(requestIDKey{}).(string)
	return value
}

// WithActor records the authenticated caller for log correlation.
func WithActor(ctx context.Context, userID, username, role string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor{
		userID:   strings.TrimSpace(userID),
		username: strings.TrimSpace(username),
		role:     strings.TrimSpace(role),
	})
}

func ActorFromContext(ctx context.Context) (userID, username, role string) {
	if ctx == nil {
		return "", "", ""
	}
	a, _ := ctx.Value(actorKey{}).(actor)
	return a.userID, a.username, a.role
}
