package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/tjenkins47/ai-news-agent/internal/events"
	"github.com/tjenkins47/ai-news-agent/internal/market"
)

// The mutating endpoints publish typed selection events; the controller
// reacts synchronously, so the status returned in the response already
// reflects the outcome of the triggered refresh (or its drop).
func registerViewHandlers(api huma.API, view ViewService, bus *events.Bus) {
	type selectionOutput struct {
		Body market.Selection
	}
	huma.Register(api, huma.Operation{OperationID: "get-selection", Method: http.MethodGet, Path: "/api/v1/view/selection", Summary: "Get the active selection tuple", Tags: []string{"View"}},
		func(ctx context.Context, input *struct{}) (*selectionOutput, error) {
			out := &selectionOutput{}
			out.Body = view.Selection()
			return out, nil
		})

	type statusOutput struct {
		Body market.Status
	}
	huma.Register(api, huma.Operation{OperationID: "get-view-status", Method: http.MethodGet, Path: "/api/v1/view/status", Summary: "Get controller status", Tags: []string{"View"}},
		func(ctx context.Context, input *struct{}) (*statusOutput, error) {
			out := &statusOutput{}
			out.Body = view.Status()
			return out, nil
		})

	// Accepted is false when the controller dropped the triggered refresh
	// because another one was already in flight.
	type refreshOutput struct {
		Body struct {
			Accepted bool          `json:"accepted"`
			Status   market.Status `json:"status"`
		}
	}

	type setSymbolInput struct {
		Body struct {
			Symbol string `json:"symbol" doc:"Ticker symbol to chart (e.g. TSM)"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "set-symbol", Method: http.MethodPut, Path: "/api/v1/view/symbol", Summary: "Select a symbol and refresh the chart", Tags: []string{"View"}},
		func(ctx context.Context, input *setSymbolInput) (*refreshOutput, error) {
			symbol := strings.TrimSpace(input.Body.Symbol)
			if symbol == "" {
				return nil, huma.Error400BadRequest("symbol is required")
			}
			reply := &events.Result{}
			bus.PublishSymbolSelected(events.SymbolSelected{Symbol: symbol, Reply: reply})
			if reply.Err != nil {
				return nil, mapErr(reply.Err)
			}
			out := &refreshOutput{}
			out.Body.Accepted = reply.Accepted
			out.Body.Status = view.Status()
			return out, nil
		})

	type setRangeInput struct {
		Body struct {
			Range    string `json:"range" doc:"Range token: 1d, 5d, 1mo, 6mo, ytd, 1y, 5y, max"`
			Interval string `json:"interval,omitempty" doc:"Sampling cadence; empty resolves to the range default"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "set-range", Method: http.MethodPut, Path: "/api/v1/view/range", Summary: "Select a range (and interval) and refresh the chart", Tags: []string{"View"}},
		func(ctx context.Context, input *setRangeInput) (*refreshOutput, error) {
			rng := strings.ToLower(strings.TrimSpace(input.Body.Range))
			if rng == "" {
				return nil, huma.Error400BadRequest("range is required")
			}
			if !market.ValidRange(rng) {
				return nil, huma.Error400BadRequest("unknown range token: " + rng)
			}
			reply := &events.Result{}
			bus.PublishRangeSelected(events.RangeSelected{Range: rng, Interval: input.Body.Interval, Reply: reply})
			if reply.Err != nil {
				return nil, mapErr(reply.Err)
			}
			out := &refreshOutput{}
			out.Body.Accepted = reply.Accepted
			out.Body.Status = view.Status()
			return out, nil
		})

	huma.Register(api, huma.Operation{OperationID: "refresh-view", Method: http.MethodPost, Path: "/api/v1/view/refresh", Summary: "Refresh the chart for the current selection", Tags: []string{"View"}},
		func(ctx context.Context, input *struct{}) (*refreshOutput, error) {
			reply := &events.Result{}
			bus.PublishViewReady(events.ViewReady{Reply: reply})
			out := &refreshOutput{}
			out.Body.Accepted = reply.Accepted
			out.Body.Status = view.Status()
			return out, nil
		})

	type healthOutput struct {
		Body struct {
			Status string `json:"status"`
			Busy   bool   `json:"busy"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "health", Method: http.MethodGet, Path: "/api/v1/health", Summary: "Health check", Tags: []string{"Health"}},
		func(ctx context.Context, input *struct{}) (*healthOutput, error) {
			out := &healthOutput{}
			out.Body.Status = "ok"
			out.Body.Busy = view.Status().Busy
			return out, nil
		})
}
