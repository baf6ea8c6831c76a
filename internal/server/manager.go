package server

import (
	"context"

	"github.com/preston-bernstein/court-live-service/internal/http/handlers"
	"github.com/preston-bernstein/court-live-service/internal/subscriptions"
)

// Manager is the subscription manager behavior the server drives.
type Manager interface {
	handlers.Subscriptions
	SetUpdateCallback(fn subscriptions.UpdateFunc)
	Start(ctx context.Context)
	Stop(ctx context.Context) error
}
