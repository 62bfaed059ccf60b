// Package chart owns the lifecycle of the single chart instance bound to the
// markets page canvas: created on the first successful refresh, updated in
// place while the axis configuration holds, destroyed and rebuilt when it
// changes.
package chart

import (
	"context"
	"log/slog"
	"sync"

	"github.com/tjenkins47/ai-news-agent/internal/market"
)

// View drives at most one live chart instance on one surface. Renders are
// serialized by the controller's busy guard; the mutex exists because status
// snapshots read the live state concurrently.
type View struct {
	surface Surface

	mu   sync.Mutex
	live bool
	cfg  Config
}

func NewView(surface Surface) *View {
	return &View{surface: surface}
}

// Live reports whether a chart instance currently exists.
func (v *View) Live() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.live
}

// Config returns the configuration of the live instance. Zero value when no
// instance exists.
func (v *View) Config() Config {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.live {
		return Config{}
	}
	return v.cfg
}

// ChartState reports the live instance for controller status snapshots.
func (v *View) ChartState() market.ChartState {
	cfg := v.Config()
	return market.ChartState{
		Live:          v.Live(),
		AxisUnit:      cfg.AxisUnit,
		TooltipFormat: cfg.TooltipFormat,
		Label:         cfg.Label,
	}
}

// Render drives the chart toward the given dataset. A live instance whose
// axis unit and tooltip format are unchanged is updated in place; any axis
// change (and the very first render) constructs a fresh instance, recomputing
// the fill gradient from the canvas's height at that moment. On error the
// surface is left with whatever was previously rendered.
func (v *View) Render(ctx context.Context, points []market.PlotPoint, axisUnit, tooltipFormat, label string) error {
	cfg := Config{AxisUnit: axisUnit, TooltipFormat: tooltipFormat, Label: label}

	v.mu.Lock()
	live, cur := v.live, v.cfg
	v.mu.Unlock()

	if live && cur.AxisUnit == cfg.AxisUnit && cur.TooltipFormat == cfg.TooltipFormat {
		if err := v.surface.UpdateChart(ctx, label, points); err != nil {
			return err
		}
		v.setState(true, cfg)
		slog.Debug("chart updated in place", "label", label, "points", len(points))
		return nil
	}

	if live {
		if err := v.surface.DestroyChart(ctx); err != nil {
			return err
		}
		v.setState(false, Config{})
	}
	height, err := v.surface.Height(ctx)
	if err != nil {
		return err
	}
	if err := v.surface.CreateChart(ctx, cfg, points, height); err != nil {
		return err
	}
	v.setState(true, cfg)
	slog.Debug("chart constructed", "label", label, "unit", axisUnit, "points", len(points))
	return nil
}

// Teardown destroys the live instance if one exists.
func (v *View) Teardown(ctx context.Context) error {
	if !v.Live() {
		return nil
	}
	if err := v.surface.DestroyChart(ctx); err != nil {
		return err
	}
	v.setState(false, Config{})
	return nil
}

func (v *View) setState(live bool, cfg Config) {
	v.mu.Lock()
	v.live = live
	v.cfg = cfg
	v.mu.Unlock()
}
