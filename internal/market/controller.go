package market

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const busyOpacity = 0.5

// SeriesFetcher is the slice of the proxy client the controller needs.
type SeriesFetcher interface {
	FetchSeries(ctx context.Context, sel Selection) ([]RawPoint, error)
}

// Renderer is the slice of the chart view the controller drives.
type Renderer interface {
	Render(ctx context.Context, points []PlotPoint, axisUnit, tooltipFormat, label string) error
}

// BusySignal dims the drawing surface while a refresh is outstanding.
type BusySignal interface {
	SetOpacity(ctx context.Context, opacity float64) error
}

// Notifier receives refresh lifecycle notifications.
type Notifier interface {
	Notify(event string, sel Selection, detail string)
}

// ChartState describes the chart instance currently bound to the canvas.
type ChartState struct {
	Live          bool   `json:"live"`
	AxisUnit      string `json:"axis_unit,omitempty"`
	TooltipFormat string `json:"tooltip_format,omitempty"`
	Label         string `json:"label,omitempty"`
}

// ChartReporter is implemented by renderers that can report the
// configuration of their live chart instance.
type ChartReporter interface {
	ChartState() ChartState
}

type noopNotifier struct{}

func (noopNotifier) Notify(string, Selection, string) {}

// Lifecycle event names published to the Notifier.
const (
	EventRefreshStarted = "refresh_started"
	EventRendered       = "rendered"
	EventFailed         = "failed"
	EventDropped        = "dropped"
)

// Status is a point-in-time snapshot of the controller.
type Status struct {
	Selection     Selection  `json:"selection"`
	Busy          bool       `json:"busy"`
	Chart         ChartState `json:"chart"`
	LastRefreshAt time.Time  `json:"last_refresh_at,omitempty"`
	LastOutcome   string     `json:"last_outcome,omitempty"`
	LastError     string     `json:"last_error,omitempty"`
	Dropped       uint64     `json:"dropped_refreshes"`
}

// Controller reacts to selection changes: it fetches the matching series,
// converts the payload into plot points, and hands them to the chart view.
// A single busy flag guards against overlapping fetches. Refreshes arriving
// while one is outstanding are dropped, not queued, so the rendered chart can
// lag the last selection until the next accepted refresh.
type Controller struct {
	sel     *selectionState
	fetcher SeriesFetcher
	view    Renderer
	dim     BusySignal
	notify  Notifier

	busy    atomic.Bool
	dropped atomic.Uint64

	mu          sync.Mutex
	lastAt      time.Time
	lastOutcome string
	lastErr     string
}

// NewController wires a controller over the given collaborators. dim and
// notify may be nil.
func NewController(initial Selection, fetcher SeriesFetcher, view Renderer, dim BusySignal, notify Notifier) *Controller {
	if notify == nil {
		notify = noopNotifier{}
	}
	return &Controller{
		sel:     newSelectionState(initial),
		fetcher: fetcher,
		view:    view,
		dim:     dim,
		notify:  notify,
	}
}

// Selection returns the live selection tuple.
func (c *Controller) Selection() Selection { return c.sel.Current() }

// Status returns a snapshot of the controller's observable state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := Status{
		Selection:     c.sel.Current(),
		Busy:          c.busy.Load(),
		LastRefreshAt: c.lastAt,
		LastOutcome:   c.lastOutcome,
		LastError:     c.lastErr,
		Dropped:       c.dropped.Load(),
	}
	if r, ok := c.view.(ChartReporter); ok {
		st.Chart = r.ChartState()
	}
	return st
}

// SetSymbol updates the selected symbol and requests a refresh. It reports
// whether the refresh was accepted.
func (c *Controller) SetSymbol(ctx context.Context, symbol string) (bool, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return false, newError(CodeValidation, "symbol is required", nil)
	}
	c.sel.SetSymbol(symbol)
	return c.Refresh(ctx), nil
}

// SetRange updates the selected range and interval together and requests a
// refresh. An empty interval resolves to the range's default cadence.
func (c *Controller) SetRange(ctx context.Context, rng, interval string) (bool, error) {
	rng = strings.ToLower(strings.TrimSpace(rng))
	if rng == "" {
		return false, newError(CodeValidation, "range is required", nil)
	}
	if !ValidRange(rng) {
		return false, newError(CodeValidation, "unknown range token: "+rng, nil)
	}
	interval = strings.ToLower(strings.TrimSpace(interval))
	if interval == "" {
		interval = DefaultInterval(rng)
	}
	c.sel.SetRange(rng, interval)
	return c.Refresh(ctx), nil
}

// Refresh fetches the series for the current selection and re-renders the
// chart. It reports whether the refresh was accepted; a call arriving while
// another refresh is in flight is dropped with no side effects. Failures are
// logged and leave the previously rendered chart untouched.
func (c *Controller) Refresh(ctx context.Context) bool {
	if !c.busy.CompareAndSwap(false, true) {
		c.dropped.Add(1)
		sel := c.sel.Current()
		slog.Debug("refresh dropped, fetch already in flight",
			"symbol", sel.Symbol, "range", sel.Range)
		c.notify.Notify(EventDropped, sel, "fetch already in flight")
		return false
	}
	defer c.busy.Store(false)

	// The selection is captured once here; a mutation racing with this
	// refresh takes effect on the next accepted refresh.
	sel := c.sel.Current()
	c.notify.Notify(EventRefreshStarted, sel, "")

	c.setOpacity(ctx, busyOpacity)
	defer c.setOpacity(ctx, 1.0)

	err := c.refresh(ctx, sel)
	c.record(err)
	if err != nil {
		slog.Error("series refresh failed",
			"symbol", sel.Symbol, "range", sel.Range, "interval", sel.Interval, "error", err)
		c.notify.Notify(EventFailed, sel, err.Error())
		return true
	}
	c.notify.Notify(EventRendered, sel, "")
	return true
}

func (c *Controller) refresh(ctx context.Context, sel Selection) error {
	raw, err := c.fetcher.FetchSeries(ctx, sel)
	if err != nil {
		return err
	}
	pts := ToPlotPoints(raw)
	if len(pts) == 0 {
		return newError(CodeEmptySeries, "series contained no plottable points", nil)
	}
	if err := c.view.Render(ctx, pts, TimeUnit(sel.Range), TooltipFormat(sel.Range), sel.Symbol); err != nil {
		return err
	}
	slog.Info("series rendered",
		"symbol", sel.Symbol, "range", sel.Range, "interval", sel.Interval,
		"points", len(pts), "dropped", len(raw)-len(pts))
	return nil
}

func (c *Controller) setOpacity(ctx context.Context, opacity float64) {
	if c.dim == nil {
		return
	}
	if err := c.dim.SetOpacity(ctx, opacity); err != nil {
		slog.Debug("canvas opacity not applied", "opacity", opacity, "error", err)
	}
}

func (c *Controller) record(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastAt = time.Now().UTC()
	if err != nil {
		c.lastOutcome = EventFailed
		c.lastErr = err.Error()
		return
	}
	c.lastOutcome = EventRendered
	c.lastErr = ""
}
