package events

import (
	"context"
	"log/slog"
)

// Controller is the slice of the view controller the bus drives.
type Controller interface {
	SetSymbol(ctx context.Context, symbol string) (bool, error)
	SetRange(ctx context.Context, rng, interval string) (bool, error)
	Refresh(ctx context.Context) bool
}

// Attach subscribes the controller to selection and view-ready events. The
// returned detach function removes every subscription; call it exactly once
// on teardown.
func Attach(bus *Bus, ctrl Controller) (detach func()) {
	unsubs := []func() error{
		bus.SubscribeSymbolSelected(func(e SymbolSelected) {
			accepted, err := ctrl.SetSymbol(context.Background(), e.Symbol)
			if err != nil {
				slog.Warn("symbol selection rejected", "symbol", e.Symbol, "error", err)
			}
			e.Reply.settle(accepted, err)
		}),
		bus.SubscribeRangeSelected(func(e RangeSelected) {
			accepted, err := ctrl.SetRange(context.Background(), e.Range, e.Interval)
			if err != nil {
				slog.Warn("range selection rejected", "range", e.Range, "interval", e.Interval, "error", err)
			}
			e.Reply.settle(accepted, err)
		}),
		bus.SubscribeViewReady(func(e ViewReady) {
			e.Reply.settle(ctrl.Refresh(context.Background()), nil)
		}),
	}
	return func() {
		for _, unsub := range unsubs {
			if err := unsub(); err != nil {
				slog.Debug("event unsubscribe failed", "error", err)
			}
		}
	}
}
