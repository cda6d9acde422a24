package dashboard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/i474232898/weather-dashboard/internal/geo"
)

const (
	// DefaultDebounce is how long typing must pause before a search is sent.
	DefaultDebounce = 500 * time.Millisecond
	// MinQueryLength is the shortest settled query that is searched.
	MinQueryLength = 2
	// MaxResults caps the candidate list.
	MaxResults = 5

	msgNoLocations = "No locations found. Try a different search term."
	msgSearchError = "Error searching locations. Please try again."
)

// ErrNoSuchResult is returned by Select for an out-of-range index.
var ErrNoSuchResult = errors.New("no such search result")

// LocationFinder runs a location search.
type LocationFinder interface {
	Locations(ctx context.Context, query string) ([]geo.Location, error)
}

// SearchState is what the search box shows.
type SearchState struct {
	Query     string
	Results   []geo.Location
	Error     string
	Searching bool
}

// Searcher debounces typed queries into location searches. Only the answer
// to the most recent query is ever shown.
type Searcher struct {
	finder   LocationFinder
	ctx      context.Context
	debounce time.Duration

	// OnChange is called with the new state after every visible change.
	OnChange func(SearchState)
	// OnSelect is called with the chosen location.
	OnSelect func(geo.Location)

	mu    sync.Mutex
	timer *time.Timer
	seq   uint64
	state SearchState
}

// NewSearcher creates a Searcher. Searches run under ctx.
func NewSearcher(ctx context.Context, finder LocationFinder, debounce time.Duration) *Searcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Searcher{finder: finder, ctx: ctx, debounce: debounce}
}

// State returns a copy of the current state.
func (s *Searcher) State() SearchState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyState()
}

// SetQuery records typed text and restarts the debounce timer.
func (s *Searcher) SetQuery(text string) {
	s.mu.Lock()
	s.state.Query = text
	s.seq++
	token := s.seq
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, func() { s.settle(token) })
	s.mu.Unlock()
}

// Select picks result i, clears the search box and reports the location.
func (s *Searcher) Select(i int) error {
	s.mu.Lock()
	if i < 0 || i >= len(s.state.Results) {
		s.mu.Unlock()
		return ErrNoSuchResult
	}
	loc := s.state.Results[i]
	s.seq++
	if s.timer != nil {
		s.timer.Stop()
	}
	s.state = SearchState{}
	state := s.copyState()
	s.mu.Unlock()

	s.notify(state)
	if s.OnSelect != nil {
		s.OnSelect(loc)
	}
	return nil
}

// Close stops any pending search.
func (s *Searcher) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	if s.timer != nil {
		s.timer.Stop()
	}
}

func (s *Searcher) settle(token uint64) {
	s.mu.Lock()
	if token != s.seq {
		s.mu.Unlock()
		return
	}
	query := strings.TrimSpace(s.state.Query)
	if utf8.RuneCountInString(query) < MinQueryLength {
		s.state.Results = nil
		s.state.Error = ""
		s.state.Searching = false
		state := s.copyState()
		s.mu.Unlock()
		s.notify(state)
		return
	}
	s.state.Searching = true
	s.mu.Unlock()

	results, err := s.finder.Locations(s.ctx, query)

	s.mu.Lock()
	if token != s.seq {
		s.mu.Unlock()
		return
	}
	s.state.Searching = false
	switch {
	case err != nil:
		s.state.Results = nil
		s.state.Error = msgSearchError
	case len(results) == 0:
		s.state.Results = nil
		s.state.Error = msgNoLocations
	default:
		if len(results) > MaxResults {
			results = results[:MaxResults]
		}
		s.state.Results = results
		s.state.Error = ""
	}
	state := s.copyState()
	s.mu.Unlock()
	s.notify(state)
}

func (s *Searcher) copyState() SearchState {
	st := s.state
	st.Results = append([]geo.Location(nil), s.state.Results...)
	return st
}

func (s *Searcher) notify(state SearchState) {
	if s.OnChange != nil {
		s.OnChange(state)
	}
}
