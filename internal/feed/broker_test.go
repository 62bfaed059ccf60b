package feed

import (
	"strings"
	"testing"

	"github.com/tjenkins47/ai-news-agent/internal/market"
)

func TestBrokerFanOut(t *testing.T) {
	b := NewBroker()
	id1, ch1 := b.Subscribe()
	id2, ch2 := b.Subscribe()
	defer b.Unsubscribe(id1)
	defer b.Unsubscribe(id2)

	b.Publish(Event{Name: "rendered", Payload: `{"symbol":"TSM"}`})

	for i, ch := range []<-chan Event{ch1, ch2} {
		select {
		case evt := <-ch:
			if evt.Name != "rendered" {
				t.Fatalf("subscriber %d got event %q; want rendered", i, evt.Name)
			}
		default:
			t.Fatalf("subscriber %d received nothing", i)
		}
	}
}

func TestBrokerUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroker()
	id, ch := b.Subscribe()
	b.Unsubscribe(id)

	if _, ok := <-ch; ok {
		t.Fatalf("channel still open after Unsubscribe")
	}
	if n := b.ClientCount(); n != 0 {
		t.Fatalf("ClientCount() = %d; want 0", n)
	}
}

func TestBrokerDropsWhenSubscriberFull(t *testing.T) {
	b := NewBroker()
	id, ch := b.Subscribe()
	defer b.Unsubscribe(id)

	// Fill the buffer, then publish one more: it must not block.
	for i := 0; i < subscriberBufSize+10; i++ {
		b.Publish(Event{Name: "rendered"})
	}
	if len(ch) != subscriberBufSize {
		t.Fatalf("buffered events = %d; want %d", len(ch), subscriberBufSize)
	}
}

func TestNotifierPublishesSelection(t *testing.T) {
	b := NewBroker()
	id, ch := b.Subscribe()
	defer b.Unsubscribe(id)

	n := NewNotifier(b)
	n.Notify("failed", market.Selection{Symbol: "TSM", Range: "6mo", Interval: "1d"}, "HTTP 502")

	select {
	case evt := <-ch:
		if evt.Name != "failed" {
			t.Fatalf("event name = %q; want failed", evt.Name)
		}
		for _, want := range []string{`"symbol":"TSM"`, `"range":"6mo"`, `"detail":"HTTP 502"`} {
			if !strings.Contains(evt.Payload, want) {
				t.Fatalf("payload %q missing %q", evt.Payload, want)
			}
		}
	default:
		t.Fatalf("no event published")
	}
}
