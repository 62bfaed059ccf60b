package chart

import (
	"context"
	"errors"
	"testing"

	"github.com/tjenkins47/ai-news-agent/internal/market"
)

type fakeSurface struct {
	height    float64
	heightErr error
	createErr error
	updateErr error

	creates   int
	updates   int
	destroys  int
	lastCfg   Config
	lastGradH float64
	lastLabel string
	lastLen   int
}

func (s *fakeSurface) Height(context.Context) (float64, error) {
	if s.heightErr != nil {
		return 0, s.heightErr
	}
	return s.height, nil
}

func (s *fakeSurface) CreateChart(_ context.Context, cfg Config, points []market.PlotPoint, gradientHeight float64) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.creates++
	s.lastCfg = cfg
	s.lastGradH = gradientHeight
	s.lastLabel = cfg.Label
	s.lastLen = len(points)
	return nil
}

func (s *fakeSurface) UpdateChart(_ context.Context, label string, points []market.PlotPoint) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updates++
	s.lastLabel = label
	s.lastLen = len(points)
	return nil
}

func (s *fakeSurface) DestroyChart(context.Context) error {
	s.destroys++
	return nil
}

var somePoints = []market.PlotPoint{{X: 1000, Y: 10}, {X: 2000, Y: 11}}

func TestRenderCreatesOnFirstCall(t *testing.T) {
	s := &fakeSurface{height: 320}
	v := NewView(s)

	if err := v.Render(context.Background(), somePoints, "day", "MMM d, yyyy", "TSM"); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if s.creates != 1 || s.updates != 0 || s.destroys != 0 {
		t.Fatalf("creates/updates/destroys = %d/%d/%d; want 1/0/0", s.creates, s.updates, s.destroys)
	}
	if s.lastGradH != 320 {
		t.Fatalf("gradient height = %v; want 320", s.lastGradH)
	}
	if !v.Live() {
		t.Fatalf("Live() = false after successful render")
	}
}

func TestRenderUpdatesInPlaceWhenAxisUnchanged(t *testing.T) {
	s := &fakeSurface{height: 320}
	v := NewView(s)

	if err := v.Render(context.Background(), somePoints, "day", "MMM d, yyyy", "TSM"); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	// Same unit and format, new symbol: data-only change.
	if err := v.Render(context.Background(), somePoints, "day", "MMM d, yyyy", "NVDA"); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if s.creates != 1 || s.updates != 1 || s.destroys != 0 {
		t.Fatalf("creates/updates/destroys = %d/%d/%d; want 1/1/0", s.creates, s.updates, s.destroys)
	}
	if s.lastLabel != "NVDA" {
		t.Fatalf("updated label = %q; want %q", s.lastLabel, "NVDA")
	}
	if got := v.Config().Label; got != "NVDA" {
		t.Fatalf("Config().Label = %q; want %q", got, "NVDA")
	}
}

func TestRenderReconstructsOnAxisChange(t *testing.T) {
	s := &fakeSurface{height: 320}
	v := NewView(s)

	if err := v.Render(context.Background(), somePoints, "day", "MMM d, yyyy", "TSM"); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	// Range flipped to intraday: both unit and tooltip format change.
	s.height = 480 // canvas was resized between renders
	if err := v.Render(context.Background(), somePoints, "hour", "MMM d, HH:mm", "TSM"); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if s.creates != 2 || s.destroys != 1 || s.updates != 0 {
		t.Fatalf("creates/updates/destroys = %d/%d/%d; want 2/0/1", s.creates, s.updates, s.destroys)
	}
	if s.lastGradH != 480 {
		t.Fatalf("gradient height on rebuild = %v; want 480", s.lastGradH)
	}
	if got := v.Config().AxisUnit; got != "hour" {
		t.Fatalf("Config().AxisUnit = %q; want %q", got, "hour")
	}
}

func TestRenderCreateFailureLeavesViewNotLive(t *testing.T) {
	s := &fakeSurface{height: 320, createErr: errors.New("canvas missing")}
	v := NewView(s)

	if err := v.Render(context.Background(), somePoints, "day", "MMM d, yyyy", "TSM"); err == nil {
		t.Fatalf("Render() error = nil; want create failure")
	}
	if v.Live() {
		t.Fatalf("Live() = true after failed create")
	}
}

func TestRenderUpdateFailureKeepsInstance(t *testing.T) {
	s := &fakeSurface{height: 320}
	v := NewView(s)

	if err := v.Render(context.Background(), somePoints, "day", "MMM d, yyyy", "TSM"); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	s.updateErr = errors.New("eval failed")
	if err := v.Render(context.Background(), somePoints, "day", "MMM d, yyyy", "TSM"); err == nil {
		t.Fatalf("Render() error = nil; want update failure")
	}
	// The previous chart stays live for the next attempt.
	if !v.Live() {
		t.Fatalf("Live() = false after failed in-place update")
	}
	if s.destroys != 0 {
		t.Fatalf("destroys = %d; want 0", s.destroys)
	}
}

func TestChartStateTracksLiveInstance(t *testing.T) {
	s := &fakeSurface{height: 320}
	v := NewView(s)

	if st := v.ChartState(); st.Live {
		t.Fatalf("ChartState() before first render = %+v; want not live", st)
	}
	if err := v.Render(context.Background(), somePoints, "day", "MMM d, yyyy", "TSM"); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	st := v.ChartState()
	if !st.Live || st.AxisUnit != "day" || st.TooltipFormat != "MMM d, yyyy" || st.Label != "TSM" {
		t.Fatalf("ChartState() = %+v; want live day/MMM d, yyyy/TSM", st)
	}
	if err := v.Teardown(context.Background()); err != nil {
		t.Fatalf("Teardown() error = %v", err)
	}
	if st := v.ChartState(); st.Live || st.AxisUnit != "" {
		t.Fatalf("ChartState() after teardown = %+v; want zero value", st)
	}
}

func TestTeardown(t *testing.T) {
	s := &fakeSurface{height: 320}
	v := NewView(s)

	if err := v.Teardown(context.Background()); err != nil {
		t.Fatalf("Teardown() with no instance error = %v", err)
	}
	if err := v.Render(context.Background(), somePoints, "day", "MMM d, yyyy", "TSM"); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if err := v.Teardown(context.Background()); err != nil {
		t.Fatalf("Teardown() error = %v", err)
	}
	if v.Live() || s.destroys != 1 {
		t.Fatalf("Live()/destroys = %v/%d; want false/1", v.Live(), s.destroys)
	}
}
