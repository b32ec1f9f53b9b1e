package quotes

// Base prices anchor the simulated random walk; change and change percent
// are always computed against these, never against the previous tick.
var basePrices = map[string]float64{
	"AAPL":  178.50,
	"GOOGL": 141.20,
	"MSFT":  378.90,
	"TSLA":  248.40,
	"NVDA":  495.20,
	"AMZN":  151.90,
	"META":  355.60,
	"SPY":   456.80,
	"QQQ":   389.40,
	"JPM":   158.30,
}

// Per-tick volatility constants, as a fraction of the base price. These
// bound the walk's range statistically, not strictly; the only hard bound
// is the MinPrice clamp.
var volatilities = map[string]float64{
	"AAPL":  0.008,
	"GOOGL": 0.010,
	"MSFT":  0.007,
	"TSLA":  0.025,
	"NVDA":  0.020,
	"AMZN":  0.012,
	"META":  0.015,
	"SPY":   0.004,
	"QQQ":   0.006,
	"JPM":   0.009,
}

const (
	defaultBasePrice  = 50.0
	defaultVolatility = 0.01
)

// DefaultSymbols is the watch-list views subscribe to when the user has
// none of their own.
var DefaultSymbols = []string{"AAPL", "GOOGL", "MSFT", "TSLA", "NVDA", "AMZN", "META", "SPY"}

// BasePrice returns the anchor price for a symbol, 50.0 for unknowns.
func BasePrice(symbol string) float64 {
	if p, ok := basePrices[symbol]; ok {
		return p
	}
	return defaultBasePrice
}

// Volatility returns the per-tick volatility constant, 1% for unknowns.
func Volatility(symbol string) float64 {
	if v, ok := volatilities[symbol]; ok {
		return v
	}
	return defaultVolatility
}
