package service

import (
	"math/rand"
	"sync"
	"time"

	"quantdesk/internal/domain"
	"quantdesk/internal/quotes"
)

// MockMarketService generates the canned payloads dashboards render:
// OHLCV candles, trading signals, backtest summaries, and support tickets.
// Everything is regenerated on request; there is no lifecycle beyond
// "replace on refresh".
type MockMarketService struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewMockMarketService creates a MockMarketService. seed=0 seeds from the
// clock.
func NewMockMarketService(seed int64) *MockMarketService {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &MockMarketService{rng: rand.New(rand.NewSource(seed))}
}

// Candle is one OHLCV bar.
type Candle struct {
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// Candles returns limit daily bars for a symbol, newest last. The walk
// starts from the symbol's base price so candle charts and the quote feed
// agree on scale.
func (s *MockMarketService) Candles(symbol string, limit int) []Candle {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 90
	}
	base := quotes.BasePrice(symbol)
	vol := quotes.Volatility(symbol)
	price := base
	now := time.Now().Truncate(24 * time.Hour)

	candles := make([]Candle, 0, limit)
	for i := limit - 1; i >= 0; i-- {
		open := price
		drift := (s.rng.Float64()*2 - 1) * vol * 3 * base
		closing := open + drift
		if closing < domain.MinPrice {
			closing = domain.MinPrice
		}
		high := maxf(open, closing) * (1 + s.rng.Float64()*vol)
		low := minf(open, closing) * (1 - s.rng.Float64()*vol)
		if low < domain.MinPrice {
			low = domain.MinPrice
		}
		candles = append(candles, Candle{
			Time:   now.AddDate(0, 0, -i).Unix(),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closing,
			Volume: 500_000 + s.rng.Int63n(5_000_000),
		})
		price = closing
	}
	return candles
}

// Signal is one mock strategy signal.
type Signal struct {
	Symbol     string    `json:"symbol"`
	Side       string    `json:"side"`
	Price      float64   `json:"price"`
	Confidence int       `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
}

// Signals returns one mock signal per symbol.
func (s *MockMarketService) Signals(symbols []string) []Signal {
	s.mu.Lock()
	defer s.mu.Unlock()

	sides := []string{"BUY", "SELL", "HOLD"}
	out := make([]Signal, 0, len(symbols))
	for _, sym := range symbols {
		base := quotes.BasePrice(sym)
		out = append(out, Signal{
			Symbol:     sym,
			Side:       sides[s.rng.Intn(len(sides))],
			Price:      base * (1 + (s.rng.Float64()*2-1)*0.01),
			Confidence: 50 + s.rng.Intn(50),
			CreatedAt:  time.Now().Add(-time.Duration(s.rng.Intn(3600)) * time.Second),
		})
	}
	return out
}

// BacktestResult is a mock backtest summary with an equity curve.
type BacktestResult struct {
	Strategy    string    `json:"strategy"`
	TotalReturn float64   `json:"total_return"`
	SharpeRatio float64   `json:"sharpe_ratio"`
	MaxDrawdown float64   `json:"max_drawdown"`
	WinRate     float64   `json:"win_rate"`
	Trades      int       `json:"trades"`
	Equity      []float64 `json:"equity"`
	FinishedAt  time.Time `json:"finished_at"`
}

// Backtest returns a plausible-looking result for a strategy name.
func (s *MockMarketService) Backtest(strategy string) BacktestResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strategy == "" {
		strategy = "momentum"
	}

	equity := make([]float64, 0, 120)
	value := 100.0
	peak := value
	maxDD := 0.0
	for i := 0; i < 120; i++ {
		value *= 1 + (s.rng.Float64()*2-1)*0.02 + 0.001
		equity = append(equity, value)
		if value > peak {
			peak = value
		}
		if dd := (peak - value) / peak; dd > maxDD {
			maxDD = dd
		}
	}

	return BacktestResult{
		Strategy:    strategy,
		TotalReturn: (value - 100.0) / 100.0,
		SharpeRatio: 0.5 + s.rng.Float64()*2,
		MaxDrawdown: maxDD,
		WinRate:     0.4 + s.rng.Float64()*0.3,
		Trades:      50 + s.rng.Intn(400),
		Equity:      equity,
		FinishedAt:  time.Now(),
	}
}

// Ticket is one mock support ticket for the staff dashboard.
type Ticket struct {
	ID            string    `json:"id"`
	Subject       string    `json:"subject"`
	Status        string    `json:"status"`
	Priority      string    `json:"priority"`
	CustomerEmail string    `json:"customer_email"`
	CreatedAt     time.Time `json:"created_at"`
}

var ticketSubjects = []string{
	"Cannot complete identity verification",
	"Deposit not showing on dashboard",
	"How do I enable paper trading?",
	"Backtest stuck at 99%",
	"Request to close account",
	"Two-factor reset",
}

// Tickets returns limit mock support tickets, newest first.
func (s *MockMarketService) Tickets(limit int) []Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 || limit > 50 {
		limit = 10
	}
	statuses := []string{"open", "pending", "resolved"}
	priorities := []string{"low", "normal", "high"}

	out := make([]Ticket, 0, limit)
	for i := 0; i < limit; i++ {
		out = append(out, Ticket{
			ID:            formatTicketID(1000 + i),
			Subject:       ticketSubjects[s.rng.Intn(len(ticketSubjects))],
			Status:        statuses[s.rng.Intn(len(statuses))],
			Priority:      priorities[s.rng.Intn(len(priorities))],
			CustomerEmail: "customer@test.com",
			CreatedAt:     time.Now().Add(-time.Duration(i) * 6 * time.Hour),
		})
	}
	return out
}

func formatTicketID(n int) string {
	const digits = "0123456789"
	buf := [4]byte{}
	for i := 3; i >= 0; i-- {
		buf[i] = digits[n%10]
		n /= 10
	}
	return "TCK-" + string(buf[:])
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
