package http

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"quantdesk/internal/quotes"
	"quantdesk/internal/service"
)

// MarketHandler serves the mock market/backtest payloads dashboards chart.
// The data is passed through to the client unchanged; no view logic lives
// here.
type MarketHandler struct {
	market *service.MockMarketService
}

// NewMarketHandler creates a new MarketHandler
func NewMarketHandler(market *service.MockMarketService) *MarketHandler {
	return &MarketHandler{market: market}
}

// GetCandles returns OHLCV bars for a symbol
// GET /api/market/candles?symbol=AAPL&limit=90
func (h *MarketHandler) GetCandles(c echo.Context) error {
	symbol := strings.ToUpper(c.QueryParam("symbol"))
	if symbol == "" {
		return BadRequestResponse(c, "symbol query parameter is required")
	}

	limit := 90
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 500 {
			return BadRequestResponse(c, "limit must be between 1 and 500")
		}
		limit = n
	}

	return SuccessResponse(c, map[string]interface{}{
		"symbol":  symbol,
		"candles": h.market.Candles(symbol, limit),
	})
}

// GetSignals returns mock strategy signals for the default watch-list
// GET /api/market/signals
func (h *MarketHandler) GetSignals(c echo.Context) error {
	return SuccessResponse(c, map[string]interface{}{
		"signals": h.market.Signals(quotes.DefaultSymbols),
	})
}

// GetBacktest returns a mock backtest summary
// GET /api/backtest/results?strategy=momentum
func (h *MarketHandler) GetBacktest(c echo.Context) error {
	strategy := c.QueryParam("strategy")
	return SuccessResponse(c, h.market.Backtest(strategy))
}
