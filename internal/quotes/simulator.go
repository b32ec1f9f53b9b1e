package quotes

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"quantdesk/internal/domain"
)

const (
	// Initial offset from the base price, applied once per (re)initialize.
	initialOffsetRange = 0.02 // +/- 2%

	// Default tick interval bounds; each cycle draws a fresh interval.
	DefaultMinTick = 2 * time.Second
	DefaultMaxTick = 5 * time.Second
)

// symbolState is one tracked symbol. base never changes after Initialize;
// price walks around it.
type symbolState struct {
	base   float64
	vol    float64
	price  float64
	volume int64
}

// Simulator produces plausible-looking price data for a watch-list with no
// external data source: a bounded random walk around a fixed anchor,
// clamped at domain.MinPrice. A seeded RNG makes runs reproducible.
type Simulator struct {
	mu        sync.Mutex
	rng       *rand.Rand
	symbols   []string
	state     map[string]*symbolState
	favorites map[string]bool
	minTick   time.Duration
	maxTick   time.Duration
	subs      map[int]chan []domain.Quote
	nextSub   int
}

// NewSimulator creates a Simulator for the given watch-list. seed=0 seeds
// from the clock; any other value gives a deterministic run.
func NewSimulator(symbols []string, seed int64, minTick, maxTick time.Duration) *Simulator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if minTick <= 0 {
		minTick = DefaultMinTick
	}
	if maxTick < minTick {
		maxTick = minTick
	}
	s := &Simulator{
		rng:       rand.New(rand.NewSource(seed)),
		favorites: make(map[string]bool),
		minTick:   minTick,
		maxTick:   maxTick,
		subs:      make(map[int]chan []domain.Quote),
	}
	s.Initialize(symbols)
	return s
}

// Initialize (re)builds the tracked symbol set. Every symbol gets its base
// price from the static table (50.0 for unknowns) and an initial snapshot
// offset by up to +/-2%. Favorites for symbols no longer tracked are
// dropped.
func (s *Simulator) Initialize(symbols []string) {
	s.mu.Lock()
	s.symbols = append([]string(nil), symbols...)
	s.state = make(map[string]*symbolState, len(symbols))
	for _, sym := range symbols {
		base := BasePrice(sym)
		offset := (s.rng.Float64()*2 - 1) * initialOffsetRange
		price := base * (1 + offset)
		if price < domain.MinPrice {
			price = domain.MinPrice
		}
		s.state[sym] = &symbolState{
			base:   base,
			vol:    Volatility(sym),
			price:  price,
			volume: 100_000 + s.rng.Int63n(900_000),
		}
	}
	for sym := range s.favorites {
		if _, ok := s.state[sym]; !ok {
			delete(s.favorites, sym)
		}
	}
	s.mu.Unlock()
	s.publish()
}

// Tick advances every tracked symbol by one random step. The delta is
// bounded by the symbol's volatility constant; change stays anchored to
// the original base price and volume only grows.
func (s *Simulator) Tick() {
	s.mu.Lock()
	for _, st := range s.state {
		delta := (s.rng.Float64()*2 - 1) * st.vol * st.base
		st.price += delta
		if st.price < domain.MinPrice {
			st.price = domain.MinPrice
		}
		st.volume += 1_000 + s.rng.Int63n(50_000)
	}
	s.mu.Unlock()
	s.publish()
}

// Run ticks until ctx is cancelled, drawing a fresh interval in
// [minTick, maxTick] each cycle.
func (s *Simulator) Run(ctx context.Context) {
	timer := time.NewTimer(s.nextInterval())
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			s.Tick()
			timer.Reset(s.nextInterval())
		}
	}
}

func (s *Simulator) nextInterval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	spread := s.maxTick - s.minTick
	if spread <= 0 {
		return s.minTick
	}
	return s.minTick + time.Duration(s.rng.Int63n(int64(spread)))
}

// Snapshot returns the current quotes sorted for display.
func (s *Simulator) Snapshot() []domain.Quote {
	s.mu.Lock()
	quotes := s.snapshotLocked()
	s.mu.Unlock()
	return quotes
}

func (s *Simulator) snapshotLocked() []domain.Quote {
	quotes := make([]domain.Quote, 0, len(s.symbols))
	for _, sym := range s.symbols {
		st := s.state[sym]
		change := st.price - st.base
		quotes = append(quotes, domain.Quote{
			Symbol:        sym,
			Price:         st.price,
			Change:        change,
			ChangePercent: change / st.base * 100,
			Volume:        st.volume,
			IsFavorite:    s.favorites[sym],
		})
	}
	domain.SortQuotes(quotes)
	return quotes
}

// ToggleFavorite flips a symbol's favorite flag and returns the new state.
// ok=false means the symbol is not tracked and nothing changed.
func (s *Simulator) ToggleFavorite(symbol string) (bool, bool) {
	s.mu.Lock()
	if _, tracked := s.state[symbol]; !tracked {
		s.mu.Unlock()
		return false, false
	}
	s.favorites[symbol] = !s.favorites[symbol]
	fav := s.favorites[symbol]
	s.mu.Unlock()
	s.publish()
	return fav, true
}

// ResetFavorites clears the favorites set.
func (s *Simulator) ResetFavorites() {
	s.mu.Lock()
	s.favorites = make(map[string]bool)
	s.mu.Unlock()
	s.publish()
}

// Subscribe registers a push consumer. The channel holds one snapshot; a
// consumer that falls behind gets the freshest cycle, not a backlog.
func (s *Simulator) Subscribe() (<-chan []domain.Quote, func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan []domain.Quote, 1)
	s.subs[id] = ch
	s.mu.Unlock()
	return ch, func() {
		s.mu.Lock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
		s.mu.Unlock()
	}
}

func (s *Simulator) publish() {
	s.mu.Lock()
	if len(s.subs) == 0 {
		s.mu.Unlock()
		return
	}
	quotes := s.snapshotLocked()
	for _, ch := range s.subs {
		select {
		case ch <- quotes:
		default:
			// Drop the stale snapshot so the fresh one fits.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- quotes:
			default:
			}
		}
	}
	s.mu.Unlock()
}
