package feed

import (
	"encoding/json"
	"time"

	"github.com/tjenkins47/ai-news-agent/internal/market"
)

// Notifier adapts the broker to the controller's lifecycle hook.
type Notifier struct {
	broker *Broker
}

func NewNotifier(broker *Broker) *Notifier {
	return &Notifier{broker: broker}
}

// Notify publishes one lifecycle event with the selection it applied to.
func (n *Notifier) Notify(event string, sel market.Selection, detail string) {
	payload, err := json.Marshal(struct {
		Symbol   string    `json:"symbol"`
		Range    string    `json:"range"`
		Interval string    `json:"interval"`
		Detail   string    `json:"detail,omitempty"`
		At       time.Time `json:"at"`
	}{
		Symbol:   sel.Symbol,
		Range:    sel.Range,
		Interval: sel.Interval,
		Detail:   detail,
		At:       time.Now().UTC(),
	})
	if err != nil {
		return
	}
	n.broker.Publish(Event{Name: event, Payload: string(payload)})
}
