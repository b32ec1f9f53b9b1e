package domain

import (
	"math"
	"sort"
)

// MinPrice is the floor applied to every simulated price. Prices never go
// to zero or negative regardless of the volatility constant.
const MinPrice = 0.01

// Quote is an ephemeral per-symbol market snapshot. Change and
// ChangePercent are always relative to the symbol's fixed base price, not
// the previous tick.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Volume        int64   `json:"volume"`
	IsFavorite    bool    `json:"is_favorite"`
}

// SortQuotes orders quotes the way watch-list views render them:
// favorites first, then by descending absolute change percent. Ties fall
// back to symbol order so the result is stable across ticks.
func SortQuotes(quotes []Quote) {
	sort.SliceStable(quotes, func(i, j int) bool {
		if quotes[i].IsFavorite != quotes[j].IsFavorite {
			return quotes[i].IsFavorite
		}
		ai, aj := math.Abs(quotes[i].ChangePercent), math.Abs(quotes[j].ChangePercent)
		if ai != aj {
			return ai > aj
		}
		return quotes[i].Symbol < quotes[j].Symbol
	})
}
