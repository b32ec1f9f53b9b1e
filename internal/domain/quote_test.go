package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortQuotes_MagnitudeNotSign(t *testing.T) {
	quotes := []Quote{
		{Symbol: "UP", ChangePercent: 1.0},
		{Symbol: "DOWN", ChangePercent: -5.0},
		{Symbol: "FLAT", ChangePercent: 0.0},
	}
	SortQuotes(quotes)

	// A -5% mover outranks a +1% mover; sign is irrelevant.
	assert.Equal(t, []string{"DOWN", "UP", "FLAT"}, symbols(quotes))
}

func TestSortQuotes_FavoritesFirst(t *testing.T) {
	quotes := []Quote{
		{Symbol: "BIG", ChangePercent: 9.0},
		{Symbol: "FAV", ChangePercent: 0.1, IsFavorite: true},
		{Symbol: "MID", ChangePercent: 3.0},
	}
	SortQuotes(quotes)

	assert.Equal(t, []string{"FAV", "BIG", "MID"}, symbols(quotes))
}

func TestSortQuotes_TiesBreakBySymbol(t *testing.T) {
	quotes := []Quote{
		{Symbol: "BBB", ChangePercent: 2.0},
		{Symbol: "AAA", ChangePercent: -2.0},
	}
	SortQuotes(quotes)

	assert.Equal(t, []string{"AAA", "BBB"}, symbols(quotes))
}

func symbols(quotes []Quote) []string {
	out := make([]string, len(quotes))
	for i, q := range quotes {
		out[i] = q.Symbol
	}
	return out
}
