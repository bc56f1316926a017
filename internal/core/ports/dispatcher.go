package ports

import "context"

// Dispatcher delivers a batch of alert messages to the notification
// endpoint. Delivery failures are handled by the implementation.
type Dispatcher interface {
	Dispatch(ctx context.Context, messages []string)
	Enabled() bool
}
