// Package watcher attaches to the markets page tab over chromedp and turns
// page load events into view-ready events, so the controller performs the
// initial chart load and rebuilds after every reload.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"

	"github.com/tjenkins47/ai-news-agent/internal/events"
)

// Watcher owns one chromedp session on the markets tab.
type Watcher struct {
	cdpURL    string
	urlFilter string
	bus       *events.Bus

	mu          sync.Mutex
	allocCtx    context.Context
	allocCancel context.CancelFunc
	tabCancel   context.CancelFunc
	targetID    target.ID
}

func New(cdpURL, urlFilter string, bus *events.Bus) *Watcher {
	return &Watcher{
		cdpURL:    cdpURL,
		urlFilter: strings.ToLower(strings.TrimSpace(urlFilter)),
		bus:       bus,
	}
}

// Connect finds the markets tab, enables the page domain, and starts
// listening for load events. It publishes one view-ready event immediately so
// an already-loaded page gets its initial chart. ctx bounds the connect and
// target-discovery phase only; the listener outlives it.
func (w *Watcher) Connect(ctx context.Context) error {
	slog.Info("watcher connecting", "cdp_url", w.cdpURL, "url_filter", w.urlFilter)

	w.mu.Lock()
	defer w.mu.Unlock()

	// The allocator and tab contexts must survive Connect returning, so
	// they hang off Background rather than ctx.
	w.allocCtx, w.allocCancel = chromedp.NewRemoteAllocator(context.Background(), w.cdpURL)

	tempCtx, tempCancel := chromedp.NewContext(w.allocCtx)
	defer tempCancel()
	stop := context.AfterFunc(ctx, tempCancel)
	defer stop()

	if err := chromedp.Run(tempCtx); err != nil {
		w.closeLocked()
		return fmt.Errorf("failed to connect to browser: %w", err)
	}

	targets, err := chromedp.Targets(tempCtx)
	if err != nil {
		w.closeLocked()
		return fmt.Errorf("failed to enumerate targets: %w", err)
	}

	for _, t := range targets {
		if t.Type != "page" {
			continue
		}
		if !w.matchesTabURL(t.URL) {
			slog.Debug("watcher skipping tab", "url", t.URL)
			continue
		}
		if err := w.attachLocked(t.TargetID, t.URL); err != nil {
			w.closeLocked()
			return err
		}
		slog.Info("watcher attached", "target_id", t.TargetID, "url", t.URL)
		w.bus.PublishViewReady(events.ViewReady{})
		return nil
	}

	w.closeLocked()
	return fmt.Errorf("no tab found matching url filter %q", w.urlFilter)
}

func (w *Watcher) attachLocked(targetID target.ID, url string) error {
	tabCtx, tabCancel := chromedp.NewContext(w.allocCtx, chromedp.WithTargetID(targetID))
	if err := chromedp.Run(tabCtx, page.Enable()); err != nil {
		tabCancel()
		return fmt.Errorf("failed to enable page domain: %w", err)
	}

	w.targetID = targetID
	w.tabCancel = tabCancel

	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		switch e := ev.(type) {
		case *page.EventLoadEventFired:
			slog.Info("markets page loaded", "target_id", targetID)
			w.bus.PublishViewReady(events.ViewReady{})
		case *page.EventFrameNavigated:
			if e.Frame.ParentID == "" {
				slog.Debug("markets tab navigated", "target_id", targetID, "url", e.Frame.URL)
			}
		case *page.EventNavigatedWithinDocument:
			slog.Debug("markets tab navigated (SPA)", "target_id", targetID, "url", e.URL)
			w.bus.PublishViewReady(events.ViewReady{})
		}
	})
	return nil
}

// Close drops the chromedp session without closing the tab.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closeLocked()
	slog.Info("watcher closed")
	return nil
}

func (w *Watcher) closeLocked() {
	if w.tabCancel != nil {
		w.tabCancel()
		w.tabCancel = nil
	}
	if w.allocCancel != nil {
		w.allocCancel()
		w.allocCancel = nil
	}
	w.targetID = ""
}

func (w *Watcher) matchesTabURL(url string) bool {
	if w.urlFilter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(url), w.urlFilter)
}
