// Package api exposes the HTTP control surface for the markets view agent.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tjenkins47/ai-news-agent/internal/events"
	"github.com/tjenkins47/ai-news-agent/internal/feed"
	"github.com/tjenkins47/ai-news-agent/internal/market"
	"github.com/tjenkins47/ai-news-agent/internal/news"
)

// ViewService is the slice of the view controller the API reads from.
// Mutations go through the event bus, not this interface.
type ViewService interface {
	Selection() market.Selection
	Status() market.Status
}

// NewsService localizes stories for the news endpoint.
type NewsService interface {
	Localized(ctx context.Context, lang string, limit int) ([]news.LocalizedStory, error)
}

func NewServer(view ViewService, newsSvc NewsService, bus *events.Bus, broker *feed.Broker) http.Handler {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(requestLogger)
	router.Use(middleware.Recoverer)

	cfg := huma.DefaultConfig("Markets View Agent API", "1.0.0")
	cfg.DocsPath = ""
	api := humachi.New(router, cfg)

	router.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		if _, err := w.Write([]byte(docsHTML)); err != nil {
			slog.Debug("docs response write failed", "error", err)
		}
	})
	router.Get("/api/v1/feed", feed.SSEHandler(broker))

	registerViewHandlers(api, view, bus)
	registerNewsHandlers(api, newsSvc)

	return router
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	var coded *market.CodedError
	if errors.As(err, &coded) {
		switch coded.Code {
		case market.CodeValidation:
			return huma.Error400BadRequest(coded.Message)
		case market.CodeSurfaceTimeout:
			return huma.Error504GatewayTimeout(coded.Message)
		case market.CodeUpstreamUnreachable, market.CodeUpstreamStatus, market.CodeBadPayload, market.CodeCDPUnavailable:
			return huma.Error502BadGateway(coded.Message)
		default:
			return huma.Error500InternalServerError(fmt.Sprintf("%s: %s", coded.Code, coded.Message))
		}
	}
	return huma.Error500InternalServerError(err.Error())
}
