package market

import "testing"

func TestTimeUnit(t *testing.T) {
	tests := []struct {
		rng  string
		want string
	}{
		{"1d", "hour"},
		{"5d", "hour"},
		{"1mo", "day"},
		{"6mo", "day"},
		{"ytd", "day"},
		{"1y", "day"},
		{"5y", "month"},
		{"max", "year"},
		{"unknown", "year"},
		{"", "year"},
	}
	for _, tt := range tests {
		if got := TimeUnit(tt.rng); got != tt.want {
			t.Fatalf("TimeUnit(%q) = %q; want %q", tt.rng, got, tt.want)
		}
	}
}

// The tooltip format must bucket ranges exactly the way the axis unit does:
// a range that moves between hour/day/coarser buckets must switch tooltip
// style at the same boundary.
func TestTooltipFormatAgreesWithTimeUnit(t *testing.T) {
	unitGroup := map[string]int{"hour": 0, "day": 1, "month": 2, "year": 2}
	formatGroup := map[string]int{"MMM d, HH:mm": 0, "MMM d, yyyy": 1, "MMM yyyy": 2}

	ranges := []string{"1d", "5d", "1mo", "6mo", "ytd", "1y", "5y", "max", "bogus"}
	for _, rng := range ranges {
		ug, ok := unitGroup[TimeUnit(rng)]
		if !ok {
			t.Fatalf("TimeUnit(%q) = %q; not a known unit", rng, TimeUnit(rng))
		}
		fg, ok := formatGroup[TooltipFormat(rng)]
		if !ok {
			t.Fatalf("TooltipFormat(%q) = %q; not a known format", rng, TooltipFormat(rng))
		}
		if ug != fg {
			t.Fatalf("range %q: unit group %d and format group %d disagree", rng, ug, fg)
		}
	}
}

func TestDefaultInterval(t *testing.T) {
	tests := []struct {
		rng  string
		want string
	}{
		{"1d", "5m"},
		{"5d", "15m"},
		{"1mo", "1d"},
		{"6mo", "1d"},
		{"ytd", "1d"},
		{"1y", "1d"},
		{"5y", "1wk"},
		{"max", "1mo"},
		{"bogus", "1d"},
	}
	for _, tt := range tests {
		if got := DefaultInterval(tt.rng); got != tt.want {
			t.Fatalf("DefaultInterval(%q) = %q; want %q", tt.rng, got, tt.want)
		}
	}
}

func TestValidRange(t *testing.T) {
	for _, rng := range []string{"1d", "5d", "1mo", "6mo", "ytd", "1y", "5y", "max"} {
		if !ValidRange(rng) {
			t.Fatalf("ValidRange(%q) = false; want true", rng)
		}
	}
	for _, rng := range []string{"", "2d", "MAX", "ytd "} {
		if ValidRange(rng) {
			t.Fatalf("ValidRange(%q) = true; want false", rng)
		}
	}
}
