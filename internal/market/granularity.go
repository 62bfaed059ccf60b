package market

// Range tokens understood by the proxy's /api/ohlc endpoint.
var validRanges = map[string]bool{
	"1d":  true,
	"5d":  true,
	"1mo": true,
	"6mo": true,
	"ytd": true,
	"1y":  true,
	"5y":  true,
	"max": true,
}

// ValidRange reports whether rng is an accepted range token.
func ValidRange(rng string) bool { return validRanges[rng] }

// TimeUnit returns the x-axis bucket unit for a range token. Unknown tokens
// fall through to the coarsest bucket.
func TimeUnit(rng string) string {
	switch rng {
	case "1d", "5d":
		return "hour"
	case "1mo", "6mo", "ytd", "1y":
		return "day"
	case "5y":
		return "month"
	default:
		return "year"
	}
}

// TooltipFormat returns the tooltip date format for a range token. It
// partitions ranges exactly the way TimeUnit does: intraday ranges get
// date+time, mid ranges a full date, and everything coarser month+year.
func TooltipFormat(rng string) string {
	switch rng {
	case "1d", "5d":
		return "MMM d, HH:mm"
	case "1mo", "6mo", "ytd", "1y":
		return "MMM d, yyyy"
	default:
		return "MMM yyyy"
	}
}

// DefaultInterval returns the sampling cadence the proxy applies to a range
// when the caller does not pin one.
func DefaultInterval(rng string) string {
	switch rng {
	case "1d":
		return "5m"
	case "5d":
		return "15m"
	case "1mo", "6mo", "ytd", "1y":
		return "1d"
	case "5y":
		return "1wk"
	case "max":
		return "1mo"
	default:
		return "1d"
	}
}
