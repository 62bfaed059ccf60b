package cdpsurface

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/tjenkins47/ai-news-agent/internal/chart"
	"github.com/tjenkins47/ai-news-agent/internal/market"
)

func TestJSStringAndJSONHelpers(t *testing.T) {
	if got := jsString("hello\nworld"); got != "\"hello\\nworld\"" {
		t.Fatalf("jsString = %q, want %q", got, "\"hello\\nworld\"")
	}

	got := jsJSON([]market.PlotPoint{{X: 1, Y: 2.5}})
	var pts []market.PlotPoint
	if err := json.Unmarshal([]byte(got), &pts); err != nil {
		t.Fatalf("jsJSON returned invalid JSON: %v", err)
	}
	if len(pts) != 1 || pts[0].Y != 2.5 {
		t.Fatalf("jsJSON decoded points = %v, want one point with y=2.5", pts)
	}
}

func TestJSEvalWrapper(t *testing.T) {
	expr := wrapJSEval("return 1;")
	if !strings.Contains(expr, "(function(){\ntry {") {
		t.Fatalf("unexpected wrapper: %s", expr)
	}
	if !strings.Contains(expr, "return 1;") {
		t.Fatalf("wrapper lost body: %s", expr)
	}
	if !strings.Contains(expr, market.CodeSurfaceFailure) {
		t.Fatalf("wrapper catch should report %s: %s", market.CodeSurfaceFailure, expr)
	}
}

func TestCreateChartScript(t *testing.T) {
	cfg := chart.Config{AxisUnit: "day", TooltipFormat: "MMM d, yyyy", Label: "TSM"}
	script := jsCreateChart("#market-chart", cfg, []market.PlotPoint{{X: 1000, Y: 98.4}}, 480)

	for _, want := range []string{
		`"#market-chart"`,
		`unit: "day"`,
		`tooltipFormat: "MMM d, yyyy"`,
		`label: "TSM"`,
		"createLinearGradient(0, 0, 0, 480)",
		chartHandle + " = new Chart",
	} {
		if !strings.Contains(script, want) {
			t.Fatalf("create script missing %q:\n%s", want, script)
		}
	}
}

func TestUpdateChartScriptKeepsHandle(t *testing.T) {
	script := jsUpdateChart("#market-chart", "NVDA", nil)
	if strings.Contains(script, "new Chart") {
		t.Fatalf("update script must not construct a chart:\n%s", script)
	}
	if !strings.Contains(script, `handle.update("none")`) {
		t.Fatalf("update script should update in place without animation:\n%s", script)
	}
}
