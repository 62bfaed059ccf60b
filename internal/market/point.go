package market

import "math"

// RawPoint is one entry of the proxy's aggregated series. Field types are
// deliberately loose: well-formed feeds carry numbers, but the proxy has
// historically delivered strings and nulls in either slot, and those entries
// must be dropped rather than defaulted.
type RawPoint struct {
	T any `json:"t"`
	C any `json:"c"`
}

// PlotPoint is the normalized {x: epoch ms, y: close} form the chart consumes.
type PlotPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// asFinite coerces a decoded JSON value to a finite float64.
func asFinite(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ToPlotPoints maps raw entries to plot points, dropping any entry whose
// timestamp or close is missing or non-finite. Input order is preserved;
// the proxy is trusted to deliver points already sorted by time.
func ToPlotPoints(raw []RawPoint) []PlotPoint {
	pts := make([]PlotPoint, 0, len(raw))
	for _, p := range raw {
		x, ok := asFinite(p.T)
		if !ok {
			continue
		}
		y, ok := asFinite(p.C)
		if !ok {
			continue
		}
		pts = append(pts, PlotPoint{X: x, Y: y})
	}
	return pts
}
