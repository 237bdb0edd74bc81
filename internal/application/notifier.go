package application

import "context"

// Notifier delivers templated notifications. Implementations are
// fire-and-forget: they report success as a bool and never fail the calling
// operation.
type Notifier interface {
	Send(ctx context.Context, kind, to string, data map[string]any) bool
}
