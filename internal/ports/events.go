package ports

import (
	"context"

	"package-visibility/internal/types"
)

// EventSinkPort receives one event per committed store mutation.
// Implementations must not block; the store invokes the sink while
// holding the writer lock.
type EventSinkPort interface {
	Record(ctx context.Context, event types.MutationEvent) error
}
