package feed

import (
	"fmt"
	"net/http"
	"strings"
)

// SSEHandler returns an http.HandlerFunc that streams refresh lifecycle
// events as SSE. Clients may filter event names via ?events=name1,name2.
func SSEHandler(broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming not supported", http.StatusInternalServerError)
			return
		}

		var eventFilter map[string]bool
		if q := r.URL.Query().Get("events"); q != "" {
			eventFilter = make(map[string]bool)
			for _, name := range strings.Split(q, ",") {
				if name = strings.TrimSpace(name); name != "" {
					eventFilter[name] = true
				}
			}
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		flusher.Flush()

		id, ch := broker.Subscribe()
		defer broker.Unsubscribe(id)

		for {
			select {
			case <-r.Context().Done():
				return
			case evt, ok := <-ch:
				if !ok {
					return
				}
				if eventFilter != nil && !eventFilter[evt.Name] {
					continue
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Name, evt.Payload)
				flusher.Flush()
			}
		}
	}
}
