package scheduler

import (
	"context"

	"procurement_backend/internal/events"
	"procurement_backend/platform/logger"
)

// Subscriber arms an RFQ deadline task whenever an RFQ round goes out.
type Subscriber struct {
	scheduler DeadlineScheduler
	log       *logger.Logger
}

// NewSubscriber creates a subscriber over the given scheduler client.
func NewSubscriber(scheduler DeadlineScheduler, log *logger.Logger) *Subscriber {
	return &Subscriber{scheduler: scheduler, log: log}
}

// RegisterHandlers subscribes to the RFQ-sent event.
func (s *Subscriber) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.RfqSent{}.EventName(), s)
}

// Handle routes events to the appropriate handler method.
func (s *Subscriber) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.RfqSent:
		return s.handleRfqSent(ctx, e)
	default:
		return nil
	}
}

func (s *Subscriber) handleRfqSent(ctx context.Context, e events.RfqSent) error {
	if s.scheduler == nil || e.ResponseDeadline == nil {
		return nil
	}

	err := s.scheduler.ScheduleRfqDeadline(ctx, RfqDeadlinePayload{
		PurchaseRequestID: e.PurchaseRequestID.String(),
		RequestNumber:     e.RequestNumber,
	}, *e.ResponseDeadline)
	if err != nil {
		// The RFQ itself went out; a lost deadline task only means the
		// round will not expire automatically.
		s.log.Error("failed to schedule rfq deadline",
			"requestId", e.PurchaseRequestID, "error", err)
		return nil
	}

	s.log.Info("rfq deadline scheduled",
		"requestId", e.PurchaseRequestID, "deadline", e.ResponseDeadline)
	return nil
}
