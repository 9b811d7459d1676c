package application

import (
	"context"
	"time"

	domoutbox "github.com/felipeshurrab/Harmonia/internal/domain/outbox"
	"github.com/felipeshurrab/Harmonia/internal/observability"
)

const publishTimeout = 300 * time.Millisecond

// Publish hands e to the publisher with a short deadline. Failures are
// reported to the caller and counted but are never fatal to a committed unit.
func (in Instrumentation) Publish(ctx context.Context, pub domoutbox.Publisher, e domoutbox.Event) error {
	if pub == nil || e == nil {
		return nil
	}

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err := pub.Publish(pubCtx, e)
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	} else if pubCtx.Err() != nil {
		outcome = "canceled"
		err = pubCtx.Err()
	}

	in.metrics.Counter(observability.MEventsPublished).Add(1,
		observability.L("event", e.EventName()),
		observability.L("outcome", outcome),
	)
	return err
}
