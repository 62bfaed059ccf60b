// Package cdpsurface drives the Chart.js canvas on the markets page over raw
// CDP. It owns one flattened session to the markets tab and evaluates
// envelope-wrapped JS snippets on it.
package cdpsurface

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/tjenkins47/ai-news-agent/internal/chart"
	"github.com/tjenkins47/ai-news-agent/internal/market"
)

// Surface implements chart.Surface against the single markets page tab.
type Surface struct {
	cdpURL      string
	tabFilter   string
	selector    string
	evalTimeout time.Duration

	mu        sync.Mutex
	cdp       *wire
	targetID  string
	sessionID string
}

type evalEnvelope struct {
	OK           bool            `json:"ok"`
	Data         json.RawMessage `json:"data,omitempty"`
	ErrorCode    string          `json:"error_code,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
}

// New builds a surface over the browser at cdpURL. tabFilter is a substring
// matched against page URLs to locate the markets tab; selector locates the
// chart canvas within it.
func New(cdpURL, tabFilter, selector string, evalTimeout time.Duration) *Surface {
	return &Surface{
		cdpURL:      cdpURL,
		tabFilter:   strings.ToLower(strings.TrimSpace(tabFilter)),
		selector:    selector,
		evalTimeout: evalTimeout,
	}
}

// Connect dials the browser endpoint and attaches to the markets tab.
func (s *Surface) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connectLocked(ctx)
}

func (s *Surface) connectLocked(ctx context.Context) error {
	if s.cdpURL == "" {
		return newError(market.CodeCDPUnavailable, "missing CDP URL", nil)
	}

	slog.Info("cdpsurface connect start", "cdp_url", s.cdpURL, "tab_filter", s.tabFilter)
	s.cleanupLocked()

	s.cdp = newWire(s.cdpURL)
	if err := s.cdp.connect(ctx); err != nil {
		s.cdp = nil
		return newError(market.CodeCDPUnavailable, "connect to CDP failed", err)
	}

	if err := s.resolveTargetLocked(ctx); err != nil {
		s.cleanupLocked()
		return err
	}

	slog.Info("cdpsurface connect ok", "cdp_url", s.cdpURL, "target_id", s.targetID)
	return nil
}

// Close detaches from the tab without closing it and drops the connection.
func (s *Surface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleanupLocked()
	return nil
}

func (s *Surface) cleanupLocked() {
	if s.cdp != nil {
		if s.sessionID != "" {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			_ = s.cdp.detachFromTarget(ctx, s.sessionID)
			cancel()
		}
		s.cdp.close()
		s.cdp = nil
	}
	s.targetID = ""
	s.sessionID = ""
}

// resolveTargetLocked finds the markets page tab via /json/list.
func (s *Surface) resolveTargetLocked(ctx context.Context) error {
	targets, err := s.cdp.listTargets(ctx)
	if err != nil {
		return newError(market.CodeCDPUnavailable, "failed to list targets", err)
	}
	for _, t := range targets {
		if t.Type != "page" {
			continue
		}
		if s.tabFilter != "" && !strings.Contains(strings.ToLower(t.URL), s.tabFilter) {
			continue
		}
		s.targetID = string(t.TargetID)
		s.sessionID = ""
		slog.Debug("cdpsurface tab resolved", "target_id", s.targetID, "url", t.URL)
		return nil
	}
	return newError(market.CodeCDPUnavailable, "markets page tab not found", nil)
}

// Height implements chart.Surface.
func (s *Surface) Height(ctx context.Context) (float64, error) {
	var out struct {
		Height float64 `json:"height"`
	}
	if err := s.evalJSON(ctx, jsHeight(s.selector), &out); err != nil {
		return 0, err
	}
	return out.Height, nil
}

// CreateChart implements chart.Surface.
func (s *Surface) CreateChart(ctx context.Context, cfg chart.Config, points []market.PlotPoint, gradientHeight float64) error {
	return s.evalJSON(ctx, jsCreateChart(s.selector, cfg, points, gradientHeight), nil)
}

// UpdateChart implements chart.Surface.
func (s *Surface) UpdateChart(ctx context.Context, label string, points []market.PlotPoint) error {
	return s.evalJSON(ctx, jsUpdateChart(s.selector, label, points), nil)
}

// DestroyChart implements chart.Surface.
func (s *Surface) DestroyChart(ctx context.Context) error {
	return s.evalJSON(ctx, jsDestroyChart(s.selector), nil)
}

// SetOpacity implements the controller's busy affordance.
func (s *Surface) SetOpacity(ctx context.Context, opacity float64) error {
	return s.evalJSON(ctx, jsSetOpacity(s.selector, opacity), nil)
}

// evalJSON evaluates an envelope-wrapped snippet on the markets tab and
// decodes the data field into out. A transient failure triggers one
// reconnect-and-retry.
func (s *Surface) evalJSON(ctx context.Context, js string, out any) error {
	err := s.evalOnce(ctx, js, out)
	if err == nil || !s.shouldRetry(err) {
		return err
	}

	slog.Warn("cdpsurface eval retry after transient failure", "error", err)
	s.mu.Lock()
	recErr := s.connectLocked(ctx)
	s.mu.Unlock()
	if recErr != nil {
		return recErr
	}
	return s.evalOnce(ctx, js, out)
}

func (s *Surface) evalOnce(ctx context.Context, js string, out any) error {
	s.mu.Lock()
	cdp := s.cdp
	s.mu.Unlock()
	if cdp == nil {
		return newError(market.CodeCDPUnavailable, "surface not connected", nil)
	}

	sessionID, err := s.ensureSession(ctx, cdp)
	if err != nil {
		return err
	}

	evalCtx, evalCancel := context.WithTimeout(ctx, s.evalTimeout)
	defer evalCancel()

	raw, err := cdp.evaluate(evalCtx, sessionID, js)
	if err != nil {
		slog.Warn("cdpsurface eval failed", "target_id", s.targetID, "error", err)
		// Reset session so a fresh attach happens on retry.
		s.mu.Lock()
		s.sessionID = ""
		s.mu.Unlock()

		if errors.Is(err, context.DeadlineExceeded) || errors.Is(evalCtx.Err(), context.DeadlineExceeded) {
			return newError(market.CodeSurfaceTimeout, "evaluation timed out", err)
		}
		return newError(market.CodeSurfaceFailure, "evaluation failed", err)
	}

	var env evalEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return newError(market.CodeSurfaceFailure, "invalid evaluation envelope", err)
	}
	if !env.OK {
		code := env.ErrorCode
		if code == "" {
			code = market.CodeSurfaceFailure
		}
		return newError(code, env.ErrorMessage, nil)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return newError(market.CodeSurfaceFailure, "invalid evaluation data", err)
	}
	return nil
}

// ensureSession returns a session ID for the markets tab, attaching if needed.
func (s *Surface) ensureSession(ctx context.Context, cdp *wire) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sessionID != "" {
		return s.sessionID, nil
	}
	if s.targetID == "" {
		if err := s.resolveTargetLocked(ctx); err != nil {
			return "", err
		}
	}

	sid, err := cdp.attachToTarget(ctx, s.targetID)
	if err != nil {
		return "", newError(market.CodeCDPUnavailable, "attach to target failed", err)
	}
	s.sessionID = sid
	slog.Debug("cdpsurface session attached", "target_id", s.targetID, "session_id", sid)
	return sid, nil
}

// transientHints are substrings in error causes that indicate a failure worth
// one reconnect attempt.
var transientHints = []string{
	"target closed",
	"session closed",
	"websocket",
	"connection reset",
	"broken pipe",
	"eof",
	"connection refused",
	"connection closed",
	"not connected",
}

func (s *Surface) shouldRetry(err error) bool {
	var coded *market.CodedError
	if !errors.As(err, &coded) {
		return false
	}
	if coded.Code == market.CodeCDPUnavailable {
		return true
	}
	if coded.Code != market.CodeSurfaceFailure || coded.Cause == nil {
		return false
	}
	cause := strings.ToLower(coded.Cause.Error())
	for _, hint := range transientHints {
		if strings.Contains(cause, hint) {
			return true
		}
	}
	return false
}

func newError(code, msg string, cause error) error {
	return &market.CodedError{Code: code, Message: msg, Cause: cause}
}
