package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/advocates-api/internal/models"
	"github.com/noah-isme/advocates-api/pkg/textsearch"
)

// State is the controller lifecycle state.
type State string

const (
	StateIdle        State = "idle"
	StateLoading     State = "loading"
	StateLoaded      State = "loaded"
	StateLoadingMore State = "loadingMore"
	StateError       State = "error"
)

// Field names a filter input.
type Field string

const (
	FieldQuery     Field = "q"
	FieldCity      Field = "city"
	FieldDegree    Field = "degree"
	FieldSpecialty Field = "specialty"
	FieldMinYears  Field = "minYears"
	FieldMaxYears  Field = "maxYears"
)

// DefaultDebounce is the quiet period applied to filter edits.
const DefaultDebounce = 250 * time.Millisecond

// Searcher fetches one page of results.
type Searcher interface {
	Search(ctx context.Context, filters Filters, cursor string, limit int) (*Page, error)
}

// Snapshot is a point-in-time copy of the controller state.
type Snapshot struct {
	State         State
	Filters       Filters
	Advocates     []models.Advocate
	HasNextPage   bool
	NextCursor    string
	Err           string
	CursorIgnored bool
}

// ControllerOption customises a Controller.
type ControllerOption func(*Controller)

// WithDebounce overrides the filter debounce delay.
func WithDebounce(d time.Duration) ControllerOption {
	return func(c *Controller) {
		if d >= 0 {
			c.debounceDelay = d
		}
	}
}

// WithPageSize sets the page size requested from the server.
func WithPageSize(limit int) ControllerOption {
	return func(c *Controller) { c.limit = limit }
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) ControllerOption {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// Controller drives an interactive search: debounced filter edits restart
// from the first page, LoadMore appends, and stale responses are dropped.
type Controller struct {
	searcher      Searcher
	limit         int
	debounceDelay time.Duration
	logger        *zap.Logger
	debouncer     *Debouncer

	mu            sync.Mutex
	base          context.Context
	stop          context.CancelFunc
	genCtx        context.Context
	genCancel     context.CancelFunc
	generation    uint64
	filters       Filters
	state         State
	advocates     []models.Advocate
	nextCursor    string
	hasNext       bool
	errMsg        string
	cursorIgnored bool
	subscribers   map[int]chan Snapshot
	nextSubID     int
	closed        bool
}

// NewController builds a controller over searcher.
func NewController(searcher Searcher, opts ...ControllerOption) *Controller {
	base, stop := context.WithCancel(context.Background())
	c := &Controller{
		searcher:      searcher,
		debounceDelay: DefaultDebounce,
		logger:        zap.NewNop(),
		base:          base,
		stop:          stop,
		state:         StateIdle,
		advocates:     []models.Advocate{},
		subscribers:   make(map[int]chan Snapshot),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.debouncer = NewDebouncer(c.debounceDelay)
	return c
}

// SetFilter records a filter edit. The search restarts once the field has
// been quiet for the debounce delay, and only if its trimmed value changed.
func (c *Controller) SetFilter(field Field, value string) {
	value = strings.TrimSpace(value)
	c.debouncer.Trigger(string(field), func() {
		c.applyFilter(field, value)
	})
}

// Search immediately restarts from the first page with the current filters.
func (c *Controller) Search() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.restartLocked()
}

// Apply replaces every filter and restarts from the first page without
// debouncing.
func (c *Controller) Apply(filters Filters) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters = filters
	c.restartLocked()
}

// LoadMore fetches the next page and appends it. It is a no-op when there
// is no next page or a request is already in flight.
func (c *Controller) LoadMore() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || !c.hasNext || c.state == StateLoading || c.state == StateLoadingMore {
		return
	}
	c.state = StateLoadingMore
	c.errMsg = ""
	c.notifyLocked()
	go c.fetch(c.genCtx, c.generation, c.filters, c.nextCursor, true)
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe returns a channel that always holds the latest snapshot, and a
// function that unsubscribes and closes it.
func (c *Controller) Subscribe() (<-chan Snapshot, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan Snapshot, 1)
	if c.closed {
		close(ch)
		return ch, func() {}
	}
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = ch
	ch <- c.snapshotLocked()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if sub, ok := c.subscribers[id]; ok {
				delete(c.subscribers, id)
				close(sub)
			}
		})
	}
}

// FilterLocal narrows the loaded results with the tolerant local matcher.
// It is the degraded path used when the server is unreachable.
func (c *Controller) FilterLocal(term string) []models.Advocate {
	c.mu.Lock()
	loaded := append([]models.Advocate(nil), c.advocates...)
	c.mu.Unlock()
	return textsearch.Filter(loaded, term)
}

// Close cancels pending work and closes every subscriber channel.
func (c *Controller) Close() {
	c.debouncer.Stop()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.stop()
	for id, ch := range c.subscribers {
		delete(c.subscribers, id)
		close(ch)
	}
}

func (c *Controller) applyFilter(field Field, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	target := c.fieldRef(field)
	if target == nil || *target == value {
		return
	}
	*target = value
	c.restartLocked()
}

func (c *Controller) fieldRef(field Field) *string {
	switch field {
	case FieldQuery:
		return &c.filters.Query
	case FieldCity:
		return &c.filters.City
	case FieldDegree:
		return &c.filters.Degree
	case FieldSpecialty:
		return &c.filters.Specialty
	case FieldMinYears:
		return &c.filters.MinYears
	case FieldMaxYears:
		return &c.filters.MaxYears
	}
	return nil
}

func (c *Controller) restartLocked() {
	if c.closed {
		return
	}
	if c.genCancel != nil {
		c.genCancel()
	}
	c.generation++
	c.genCtx, c.genCancel = context.WithCancel(c.base)
	c.state = StateLoading
	c.errMsg = ""
	c.nextCursor = ""
	c.hasNext = false
	c.notifyLocked()
	go c.fetch(c.genCtx, c.generation, c.filters, "", false)
}

func (c *Controller) fetch(ctx context.Context, gen uint64, filters Filters, cursor string, appendPage bool) {
	page, err := c.searcher.Search(ctx, filters, cursor, c.limit)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.generation {
		return
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		c.logger.Warn("advocate search failed", zap.Bool("loadMore", appendPage), zap.Error(err))
		c.state = StateError
		c.errMsg = describeError(err)
		if !appendPage {
			c.advocates = []models.Advocate{}
			c.nextCursor = ""
			c.hasNext = false
		}
		c.notifyLocked()
		return
	}

	if appendPage {
		c.advocates = append(c.advocates, page.Advocates...)
	} else {
		c.advocates = append([]models.Advocate{}, page.Advocates...)
	}
	c.hasNext = page.PageInfo.HasNextPage
	c.nextCursor = ""
	if page.PageInfo.NextCursor != nil {
		c.nextCursor = *page.PageInfo.NextCursor
	}
	if !c.hasNext {
		c.nextCursor = ""
	}
	c.cursorIgnored = page.CursorIgnored()
	c.state = StateLoaded
	c.errMsg = ""
	c.notifyLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		State:         c.state,
		Filters:       c.filters,
		Advocates:     append([]models.Advocate{}, c.advocates...),
		HasNextPage:   c.hasNext,
		NextCursor:    c.nextCursor,
		Err:           c.errMsg,
		CursorIgnored: c.cursorIgnored,
	}
}

func (c *Controller) notifyLocked() {
	if len(c.subscribers) == 0 {
		return
	}
	snap := c.snapshotLocked()
	for _, ch := range c.subscribers {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

func describeError(err error) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		if statusErr.Message != "" {
			return fmt.Sprintf("Failed to load advocates: %s", statusErr.Message)
		}
		return fmt.Sprintf("Failed to load advocates (status %d)", statusErr.StatusCode)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "Failed to load advocates: request timed out"
	}
	return "Failed to load advocates. Please try again."
}
