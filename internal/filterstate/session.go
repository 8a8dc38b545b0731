package filterstate

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/forkful/restaurant-finder/internal/logging"
	"github.com/forkful/restaurant-finder/internal/models"
	"go.uber.org/zap"
)

// DefaultFetchTimeout bounds every fetch issued by a Session
const DefaultFetchTimeout = 10 * time.Second

// Fetcher is the part of the API a Session reads from
type Fetcher interface {
	ListRestaurants(ctx context.Context, params url.Values) (*models.RestaurantListResult, error)
	GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error)
	GetFilterOptions(ctx context.Context) (*models.FilterOptions, error)
}

// Session owns one browsing state and the fetches that update it.
// It is safe for concurrent use; a newer list fetch cancels and
// supersedes the one in flight.
type Session struct {
	fetcher Fetcher
	logger  *logging.SafeLogger
	timeout time.Duration

	mu           sync.Mutex
	state        State
	seq          uint64
	cancelList   context.CancelFunc
	cancelDetail context.CancelFunc
	subscribers  map[int]func(State)
	nextSub      int
	closed       bool
}

// SessionOption configures a Session
type SessionOption func(*Session)

// WithFetchTimeout sets the per-fetch timeout
func WithFetchTimeout(d time.Duration) SessionOption {
	return func(s *Session) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithSessionLogger sets the session logger
func WithSessionLogger(logger *logging.SafeLogger) SessionOption {
	return func(s *Session) { s.logger = logger }
}

// NewSession creates a session in the initial state
func NewSession(fetcher Fetcher, opts ...SessionOption) *Session {
	s := &Session{
		fetcher:     fetcher,
		logger:      logging.Logger,
		timeout:     DefaultFetchTimeout,
		state:       Initial(),
		subscribers: map[int]func(State){},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("filterstate")
	return s
}

// State returns a snapshot of the current state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to receive every new state. The returned
// function removes the subscription.
func (s *Session) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// Close cancels in-flight fetches and drops subscribers. Events arriving
// after Close are ignored.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	if s.cancelList != nil {
		s.cancelList()
	}
	if s.cancelDetail != nil {
		s.cancelDetail()
	}
	s.subscribers = map[int]func(State){}
}

// dispatch reduces e into the state and notifies subscribers outside the lock
func (s *Session) dispatch(e Event) State {
	s.mu.Lock()
	if s.closed {
		state := s.state
		s.mu.Unlock()
		return state
	}
	s.state = Reduce(s.state, e)
	state, subs := s.state, s.snapshotSubscribers()
	s.mu.Unlock()

	notify(subs, state)
	return state
}

func (s *Session) snapshotSubscribers() []func(State) {
	subs := make([]func(State), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	return subs
}

func notify(subs []func(State), state State) {
	for _, fn := range subs {
		fn(state)
	}
}

// SetFilter replaces one filter and reloads the listing
func (s *Session) SetFilter(ctx context.Context, key FilterKey, value interface{}) State {
	return s.loadRestaurants(ctx, SetFilter{Key: key, Value: value})
}

// ClearFilter resets one filter and reloads the listing
func (s *Session) ClearFilter(ctx context.Context, key FilterKey) State {
	return s.loadRestaurants(ctx, ClearFilter{Key: key})
}

// ClearAllFilters resets every filter and reloads the listing
func (s *Session) ClearAllFilters(ctx context.Context) State {
	return s.loadRestaurants(ctx, ClearAllFilters{})
}

// SetPage moves to page and reloads the listing
func (s *Session) SetPage(ctx context.Context, page int) State {
	return s.loadRestaurants(ctx, SetPage{Page: page})
}

// SetSort changes the ordering and reloads the listing
func (s *Session) SetSort(ctx context.Context, field, order string) State {
	return s.loadRestaurants(ctx, SetSort{Field: field, Order: order})
}

// SetLimit changes the page size and reloads the listing
func (s *Session) SetLimit(ctx context.Context, limit int) State {
	return s.loadRestaurants(ctx, SetLimit{Limit: limit})
}

// LoadRestaurants fetches the page for the current selection. Failures
// are recorded in the state and prior results are kept.
func (s *Session) LoadRestaurants(ctx context.Context) State {
	return s.loadRestaurants(ctx, nil)
}

// loadRestaurants applies change, when set, and stamps the new fetch in the
// same critical section so no older response can land in between
func (s *Session) loadRestaurants(ctx context.Context, change Event) State {
	s.mu.Lock()
	if s.closed {
		state := s.state
		s.mu.Unlock()
		return state
	}
	if change != nil {
		s.state = Reduce(s.state, change)
	}
	s.seq++
	seq := s.seq
	if s.cancelList != nil {
		s.cancelList()
	}
	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	s.cancelList = cancel
	params := BuildParams(s.state)
	s.state = Reduce(s.state, FetchStarted{Seq: seq})
	state, subs := s.state, s.snapshotSubscribers()
	s.mu.Unlock()
	notify(subs, state)

	defer cancel()

	start := time.Now()
	result, err := s.fetcher.ListRestaurants(fetchCtx, params)
	if err != nil {
		info := Classify(err)
		s.logger.Debug("restaurant fetch failed",
			zap.Uint64("seq", seq),
			zap.String("params", params.Encode()),
			zap.String("kind", string(info.Kind)),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return s.dispatch(FetchFailed{Seq: seq, Err: info})
	}

	s.logger.Debug("restaurant fetch completed",
		zap.Uint64("seq", seq),
		zap.String("params", params.Encode()),
		zap.Int("count", len(result.Restaurants)),
		zap.Duration("duration", time.Since(start)))
	return s.dispatch(FetchSucceeded{Seq: seq, Result: result})
}

// LoadRestaurant fetches one restaurant into CurrentRestaurant
func (s *Session) LoadRestaurant(ctx context.Context, id string) State {
	s.mu.Lock()
	if s.closed {
		state := s.state
		s.mu.Unlock()
		return state
	}
	s.seq++
	seq := s.seq
	if s.cancelDetail != nil {
		s.cancelDetail()
	}
	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	s.cancelDetail = cancel
	s.state = Reduce(s.state, DetailStarted{Seq: seq})
	state, subs := s.state, s.snapshotSubscribers()
	s.mu.Unlock()
	notify(subs, state)

	defer cancel()

	restaurant, err := s.fetcher.GetRestaurant(fetchCtx, id)
	if err != nil {
		return s.dispatch(DetailFailed{Seq: seq, Err: Classify(err)})
	}
	return s.dispatch(DetailSucceeded{Seq: seq, Restaurant: restaurant})
}

// LoadFilterOptions fetches the available filter values. Failures are
// logged and leave the state unchanged.
func (s *Session) LoadFilterOptions(ctx context.Context) State {
	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	options, err := s.fetcher.GetFilterOptions(fetchCtx)
	if err != nil {
		s.logger.Warn("failed to load filter options", zap.Error(err))
		return s.State()
	}
	if options == nil {
		options = &models.FilterOptions{}
	}
	return s.dispatch(FilterOptionsLoaded{Options: *options})
}
