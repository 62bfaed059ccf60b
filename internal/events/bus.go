// Package events carries the typed selection events that drive the view
// controller. Selection controls publish; the controller subscribes once at
// startup and detaches on teardown.
package events

import (
	evbus "github.com/asaskevich/EventBus"
)

const (
	topicSymbolSelected = "view:symbol_selected"
	topicRangeSelected  = "view:range_selected"
	topicViewReady      = "view:ready"
)

// Result captures the controller's disposition of one published event.
// Publishing is synchronous, so the fields are settled when Publish returns.
type Result struct {
	Accepted bool
	Err      error
}

func (r *Result) settle(accepted bool, err error) {
	if r == nil {
		return
	}
	r.Accepted = accepted
	r.Err = err
}

// SymbolSelected is published when a symbol control is activated. Reply, when
// non-nil, receives whether the triggered refresh was accepted or dropped.
type SymbolSelected struct {
	Symbol string
	Reply  *Result
}

// RangeSelected is published when a range control is activated. Interval may
// be empty, in which case the range's default cadence applies.
type RangeSelected struct {
	Range    string
	Interval string
	Reply    *Result
}

// ViewReady is published when the markets page is ready for a (re)load.
type ViewReady struct {
	Reply *Result
}

// Bus is a typed façade over the process-wide event bus. Publishing is
// synchronous: handlers have run by the time Publish returns.
type Bus struct {
	bus evbus.Bus
}

func NewBus() *Bus {
	return &Bus{bus: evbus.New()}
}

func (b *Bus) PublishSymbolSelected(e SymbolSelected) {
	b.bus.Publish(topicSymbolSelected, e)
}

func (b *Bus) PublishRangeSelected(e RangeSelected) {
	b.bus.Publish(topicRangeSelected, e)
}

func (b *Bus) PublishViewReady(e ViewReady) {
	b.bus.Publish(topicViewReady, e)
}

// SubscribeSymbolSelected registers fn and returns its unsubscribe function.
func (b *Bus) SubscribeSymbolSelected(fn func(SymbolSelected)) func() error {
	_ = b.bus.Subscribe(topicSymbolSelected, fn)
	return func() error { return b.bus.Unsubscribe(topicSymbolSelected, fn) }
}

// SubscribeRangeSelected registers fn and returns its unsubscribe function.
func (b *Bus) SubscribeRangeSelected(fn func(RangeSelected)) func() error {
	_ = b.bus.Subscribe(topicRangeSelected, fn)
	return func() error { return b.bus.Unsubscribe(topicRangeSelected, fn) }
}

// SubscribeViewReady registers fn and returns its unsubscribe function.
func (b *Bus) SubscribeViewReady(fn func(ViewReady)) func() error {
	_ = b.bus.Subscribe(topicViewReady, fn)
	return func() error { return b.bus.Unsubscribe(topicViewReady, fn) }
}
