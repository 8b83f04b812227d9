package testutil

import (
	"context"
	"time"

	"order-gateway/pkg/requestcontext"
)

// FixedClock is a stable timestamp used across tests so document-validity
// and history assertions don't race the wall clock.
var FixedClock = time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)

// Ctx returns a background context carrying the fixed clock, a request ID,
// and a default actor, mirroring what the middleware chain sets up.
func Ctx() context.Context {
	ctx := context.Background()
	ctx = requestcontext.WithTime(ctx, FixedClock)
	ctx = requestcontext.WithRequestID(ctx, "test-request")
	ctx = requestcontext.WithActor(ctx, "test-operator")
	return ctx
}
