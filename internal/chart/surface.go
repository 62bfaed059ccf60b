package chart

import (
	"context"

	"github.com/tjenkins47/ai-news-agent/internal/market"
)

// Config describes how a chart instance is constructed on the surface.
type Config struct {
	AxisUnit      string `json:"axis_unit"`
	TooltipFormat string `json:"tooltip_format"`
	Label         string `json:"label"`
}

// Surface is the minimal capability the view needs from a drawing target.
// An implementation owns exactly one canvas; every call mutates that canvas.
type Surface interface {
	// Height reports the canvas's current rendered height in pixels.
	Height(ctx context.Context) (float64, error)
	// CreateChart builds a fresh chart instance with the given dataset. The
	// gradient height is the canvas height measured just before the call.
	CreateChart(ctx context.Context, cfg Config, points []market.PlotPoint, gradientHeight float64) error
	// UpdateChart swaps the live instance's label and dataset in place and
	// redraws, keeping axis and tooltip configuration.
	UpdateChart(ctx context.Context, label string, points []market.PlotPoint) error
	// DestroyChart tears down the live instance, leaving the canvas blank.
	DestroyChart(ctx context.Context) error
}
