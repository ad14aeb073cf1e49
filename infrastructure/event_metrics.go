package infrastructure

import (
	"context"

	"townbank/domain/events"
	"townbank/infrastructure/observability"
)

// RegisterMetricsHandlers feeds committed domain events into the metrics provider
func RegisterMetricsHandlers(registry LocalHandlerRegistry, metrics *observability.MetricsProvider) {
	registry.RegisterLocalHandler(events.EventTypeBalanceChange, func(_ context.Context, event events.Event) error {
		if e, ok := event.(events.BalanceChangeEvent); ok {
			metrics.RecordBalanceTransaction(string(e.TransactionType))
		}
		return nil
	})

	registry.RegisterLocalHandler(events.EventTypeWagerResolved, func(_ context.Context, event events.Event) error {
		if e, ok := event.(events.WagerResolvedEvent); ok {
			metrics.RecordWagerResolved(string(e.Outcome))
		}
		return nil
	})

	registry.RegisterLocalHandler(events.EventTypeCycleAdvanced, func(_ context.Context, event events.Event) error {
		if e, ok := event.(events.CycleAdvancedEvent); ok {
			metrics.RecordCycleAdvance(string(e.Direction), e.TotalPaid)
		}
		return nil
	})
}
