// Package http authenticates envelope API callers by bearer token, checks
// their policies and issues tokens.
package http

import (
	"context"

	authDomain "github.com/allisson/qrseal/internal/auth/domain"
)

type clientKey struct{}

// WithClient stores the authenticated client in ctx.
func WithClient(ctx context.Context, client *authDomain.Client) context.Context {
	return context.WithValue(ctx, clientKey{}, client)
}

// GetClient returns the client stored by AuthenticationMiddleware.
func GetClient(ctx context.Context) (*authDomain.Client, bool) {
	client, ok := ctx.Value(clientKey{}).(*authDomain.Client)
	return client, ok
}
