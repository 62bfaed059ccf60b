package cdpsurface

import (
	"encoding/json"

	"github.com/tjenkins47/ai-news-agent/internal/chart"
	"github.com/tjenkins47/ai-news-agent/internal/market"
)

// Every snippet runs inside a try/catch IIFE and returns a JSON envelope
// {ok, data, error_code, error_message}; the live Chart.js instance is kept
// on a window handle so successive evaluations can reach it.

const chartHandle = "window.__marketviewChart"

const gradientTopColor = "rgba(59,130,246,0.35)"
const gradientBottomColor = "rgba(59,130,246,0.02)"
const lineColor = "#3b82f6"

func jsCanvasPreamble(selector string) string {
	return `
var canvas = document.querySelector(` + jsString(selector) + `);
if (!canvas) {
  return JSON.stringify({ok:false,error_code:"` + market.CodeSurfaceFailure + `",error_message:"canvas not found"});
}
var handle = ` + chartHandle + ` || null;`
}

func jsHeight(selector string) string {
	return wrapJSEval(jsCanvasPreamble(selector) + `
var h = canvas.clientHeight || canvas.height || 0;
return JSON.stringify({ok:true,data:{height:h}});`)
}

func jsCreateChart(selector string, cfg chart.Config, points []market.PlotPoint, gradientHeight float64) string {
	return wrapJSEval(jsCanvasPreamble(selector) + `
if (typeof Chart !== "function") {
  return JSON.stringify({ok:false,error_code:"` + market.CodeSurfaceFailure + `",error_message:"Chart.js not loaded"});
}
if (handle) { try { handle.destroy(); } catch(_) {} ` + chartHandle + ` = null; }
var ctx2d = canvas.getContext("2d");
var gradient = ctx2d.createLinearGradient(0, 0, 0, ` + jsJSON(gradientHeight) + `);
gradient.addColorStop(0, ` + jsString(gradientTopColor) + `);
gradient.addColorStop(1, ` + jsString(gradientBottomColor) + `);
` + chartHandle + ` = new Chart(ctx2d, {
  type: "line",
  data: { datasets: [{
    label: ` + jsString(cfg.Label) + `,
    data: ` + jsJSON(points) + `,
    borderColor: ` + jsString(lineColor) + `,
    borderWidth: 2,
    pointRadius: 0,
    fill: true,
    backgroundColor: gradient,
    tension: 0.25
  }] },
  options: {
    animation: false,
    responsive: true,
    maintainAspectRatio: false,
    parsing: false,
    interaction: { mode: "index", intersect: false },
    scales: {
      x: { type: "time", time: { unit: ` + jsString(cfg.AxisUnit) + `, tooltipFormat: ` + jsString(cfg.TooltipFormat) + ` } },
      y: { beginAtZero: false, ticks: { callback: function(v) { return "$" + Number(v).toFixed(2); } } }
    },
    plugins: {
      legend: { display: false },
      tooltip: { callbacks: { label: function(c) { return "$" + Number(c.parsed.y).toFixed(2); } } }
    }
  }
});
return JSON.stringify({ok:true,data:{points:` + jsJSON(len(points)) + `}});`)
}

func jsUpdateChart(selector, label string, points []market.PlotPoint) string {
	return wrapJSEval(jsCanvasPreamble(selector) + `
if (!handle) {
  return JSON.stringify({ok:false,error_code:"` + market.CodeSurfaceFailure + `",error_message:"no live chart instance"});
}
handle.data.datasets[0].label = ` + jsString(label) + `;
handle.data.datasets[0].data = ` + jsJSON(points) + `;
handle.update("none");
return JSON.stringify({ok:true,data:{points:` + jsJSON(len(points)) + `}});`)
}

func jsDestroyChart(selector string) string {
	return wrapJSEval(jsCanvasPreamble(selector) + `
if (handle) { try { handle.destroy(); } catch(_) {} ` + chartHandle + ` = null; }
return JSON.stringify({ok:true});`)
}

func jsSetOpacity(selector string, opacity float64) string {
	return wrapJSEval(jsCanvasPreamble(selector) + `
canvas.style.opacity = ` + jsJSON(opacity) + `;
return JSON.stringify({ok:true});`)
}

func jsString(v string) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func jsJSON(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func wrapJSEval(body string) string {
	return `(function(){
try {
` + body + `
} catch (err) {
return JSON.stringify({ok:false,error_code:"` + market.CodeSurfaceFailure + `",error_message:String(err && err.message || err)});
}
})()`
}
