package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/advocates-api/internal/models"
	"github.com/noah-isme/advocates-api/pkg/pagination"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

type searchCall struct {
	ctx     context.Context
	filters Filters
	cursor  string
	limit   int
}

type scriptedSearcher struct {
	mu      sync.Mutex
	calls   []searchCall
	respond func(call searchCall, n int) (*Page, error)
}

func (s *scriptedSearcher) Search(ctx context.Context, filters Filters, cursor string, limit int) (*Page, error) {
	call := searchCall{ctx: ctx, filters: filters, cursor: cursor, limit: limit}
	s.mu.Lock()
	s.calls = append(s.calls, call)
	n := len(s.calls)
	s.mu.Unlock()
	return s.respond(call, n)
}

func (s *scriptedSearcher) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *scriptedSearcher) call(i int) searchCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[i]
}

func advocatePage(ids []int64, next string) *Page {
	advocates := make([]models.Advocate, 0, len(ids))
	for _, id := range ids {
		advocates = append(advocates, models.Advocate{ID: id, FirstName: fmt.Sprintf("Advocate %d", id), City: "Austin"})
	}
	info := pagination.PageInfo{Limit: len(ids)}
	if next != "" {
		info.HasNextPage = true
		info.NextCursor = &next
	}
	return &Page{Advocates: advocates, PageInfo: info}
}

func snapshotIDs(s Snapshot) []int64 {
	out := make([]int64, 0, len(s.Advocates))
	for _, a := range s.Advocates {
		out = append(out, a.ID)
	}
	return out
}

func waitState(t *testing.T, c *Controller, want State) Snapshot {
	t.Helper()
	require.Eventually(t, func() bool { return c.Snapshot().State == want }, waitFor, tick)
	return c.Snapshot()
}

func TestControllerDebouncesFilterEdits(t *testing.T) {
	searcher := &scriptedSearcher{respond: func(searchCall, int) (*Page, error) {
		return advocatePage([]int64{1}, ""), nil
	}}
	c := NewController(searcher, WithDebounce(30*time.Millisecond), WithPageSize(10))
	defer c.Close()

	c.SetFilter(FieldQuery, "a")
	c.SetFilter(FieldQuery, "an")
	c.SetFilter(FieldQuery, "anx")
	c.SetFilter(FieldCity, "Austin")

	require.Eventually(t, func() bool {
		snap := c.Snapshot()
		return snap.State == StateLoaded && snap.Filters.City == "Austin"
	}, waitFor, tick)
	assert.Never(t, func() bool { return searcher.callCount() > 2 }, 100*time.Millisecond, tick)
	snap := c.Snapshot()

	assert.Equal(t, "anx", snap.Filters.Query)
	assert.Equal(t, "Austin", snap.Filters.City)
	last := searcher.call(searcher.callCount() - 1)
	assert.Equal(t, "anx", last.filters.Query)
	assert.Equal(t, "", last.cursor)
	assert.Equal(t, 10, last.limit)
}

func TestControllerIgnoresUnchangedValue(t *testing.T) {
	searcher := &scriptedSearcher{respond: func(searchCall, int) (*Page, error) {
		return advocatePage([]int64{1}, ""), nil
	}}
	c := NewController(searcher, WithDebounce(5*time.Millisecond))
	defer c.Close()

	c.SetFilter(FieldDegree, "MD")
	waitState(t, c, StateLoaded)
	require.Equal(t, 1, searcher.callCount())

	c.SetFilter(FieldDegree, "MD")
	assert.Never(t, func() bool { return searcher.callCount() > 1 }, 60*time.Millisecond, tick)
}

func TestControllerIgnoresWhitespaceOnlyEdit(t *testing.T) {
	searcher := &scriptedSearcher{respond: func(searchCall, int) (*Page, error) {
		return advocatePage([]int64{2, 1}, "c1"), nil
	}}
	c := NewController(searcher, WithDebounce(5*time.Millisecond))
	defer c.Close()

	c.SetFilter(FieldCity, "Austin")
	waitState(t, c, StateLoaded)
	require.Equal(t, 1, searcher.callCount())

	c.SetFilter(FieldCity, "Austin ")
	c.SetFilter(FieldQuery, "  ")
	assert.Never(t, func() bool { return searcher.callCount() > 1 }, 60*time.Millisecond, tick)

	snap := c.Snapshot()
	assert.Equal(t, "Austin", snap.Filters.City)
	assert.Equal(t, []int64{2, 1}, snapshotIDs(snap))
	assert.Equal(t, "Austin", searcher.call(0).filters.City)
}

func TestControllerLoadMoreAppends(t *testing.T) {
	searcher := &scriptedSearcher{respond: func(call searchCall, _ int) (*Page, error) {
		switch call.cursor {
		case "":
			return advocatePage([]int64{5, 4}, "c1"), nil
		case "c1":
			return advocatePage([]int64{3, 2}, "c2"), nil
		default:
			return advocatePage([]int64{1}, ""), nil
		}
	}}
	c := NewController(searcher, WithPageSize(2))
	defer c.Close()

	c.Search()
	snap := waitState(t, c, StateLoaded)
	assert.True(t, snap.HasNextPage)
	assert.Equal(t, "c1", snap.NextCursor)

	c.LoadMore()
	require.Eventually(t, func() bool { return len(c.Snapshot().Advocates) == 4 }, waitFor, tick)
	c.LoadMore()
	require.Eventually(t, func() bool { return len(c.Snapshot().Advocates) == 5 }, waitFor, tick)

	snap = waitState(t, c, StateLoaded)
	assert.Equal(t, []int64{5, 4, 3, 2, 1}, snapshotIDs(snap))
	assert.False(t, snap.HasNextPage)
	assert.Empty(t, snap.NextCursor)

	calls := searcher.callCount()
	c.LoadMore()
	assert.Equal(t, calls, searcher.callCount())
	assert.Equal(t, StateLoaded, c.Snapshot().State)
}

func TestControllerLoadMoreIgnoredWhileLoading(t *testing.T) {
	release := make(chan struct{})
	searcher := &scriptedSearcher{respond: func(call searchCall, n int) (*Page, error) {
		if n == 2 {
			<-release
		}
		return advocatePage([]int64{int64(10 - n)}, "next"), nil
	}}
	c := NewController(searcher)
	defer c.Close()

	c.Search()
	waitState(t, c, StateLoaded)

	c.LoadMore()
	require.Equal(t, StateLoadingMore, c.Snapshot().State)
	c.LoadMore()
	c.LoadMore()
	close(release)

	waitState(t, c, StateLoaded)
	assert.Equal(t, 2, searcher.callCount())
}

func TestControllerDropsStaleResponses(t *testing.T) {
	releaseFirst := make(chan struct{})
	firstDone := make(chan struct{})
	searcher := &scriptedSearcher{respond: func(call searchCall, n int) (*Page, error) {
		if n == 1 {
			defer close(firstDone)
			<-releaseFirst
			return advocatePage([]int64{100}, ""), nil
		}
		return advocatePage([]int64{200}, ""), nil
	}}
	c := NewController(searcher)
	defer c.Close()

	c.Search()
	require.Eventually(t, func() bool { return searcher.callCount() == 1 }, waitFor, tick)
	c.Search()

	snap := waitState(t, c, StateLoaded)
	assert.Equal(t, []int64{200}, snapshotIDs(snap))

	close(releaseFirst)
	<-firstDone
	assert.Never(t, func() bool {
		ids := snapshotIDs(c.Snapshot())
		return len(ids) != 1 || ids[0] != 200
	}, 50*time.Millisecond, tick)
	assert.ErrorIs(t, searcher.call(0).ctx.Err(), context.Canceled)
}

func TestControllerSuppressesCancellation(t *testing.T) {
	searcher := &scriptedSearcher{respond: func(call searchCall, n int) (*Page, error) {
		if n == 1 {
			<-call.ctx.Done()
			return nil, fmt.Errorf("search advocates: %w", call.ctx.Err())
		}
		return advocatePage([]int64{7}, ""), nil
	}}
	c := NewController(searcher)
	defer c.Close()

	c.Search()
	require.Eventually(t, func() bool { return searcher.callCount() == 1 }, waitFor, tick)
	c.Search()

	snap := waitState(t, c, StateLoaded)
	assert.Empty(t, snap.Err)
	assert.Never(t, func() bool { return c.Snapshot().State == StateError }, 50*time.Millisecond, tick)
}

func TestControllerFirstPageErrorClearsResults(t *testing.T) {
	searcher := &scriptedSearcher{respond: func(call searchCall, n int) (*Page, error) {
		if n == 1 {
			return advocatePage([]int64{1, 2}, ""), nil
		}
		return nil, &StatusError{StatusCode: 500, Code: "INTERNAL_ERROR", Message: "failed to search advocates"}
	}}
	c := NewController(searcher)
	defer c.Close()

	c.Search()
	waitState(t, c, StateLoaded)
	c.Search()

	snap := waitState(t, c, StateError)
	assert.Empty(t, snap.Advocates)
	assert.False(t, snap.HasNextPage)
	assert.Contains(t, snap.Err, "failed to search advocates")
}

func TestControllerLoadMoreErrorKeepsResults(t *testing.T) {
	searcher := &scriptedSearcher{respond: func(call searchCall, _ int) (*Page, error) {
		if call.cursor == "" {
			return advocatePage([]int64{9, 8}, "c1"), nil
		}
		return nil, errors.New("connection reset")
	}}
	c := NewController(searcher)
	defer c.Close()

	c.Search()
	waitState(t, c, StateLoaded)
	c.LoadMore()

	snap := waitState(t, c, StateError)
	assert.Equal(t, []int64{9, 8}, snapshotIDs(snap))
	assert.True(t, snap.HasNextPage)
	assert.NotEmpty(t, snap.Err)
}

func TestControllerSubscribeDeliversLatest(t *testing.T) {
	searcher := &scriptedSearcher{respond: func(searchCall, int) (*Page, error) {
		return advocatePage([]int64{3}, ""), nil
	}}
	c := NewController(searcher)

	updates, unsubscribe := c.Subscribe()
	first := <-updates
	assert.Equal(t, StateIdle, first.State)

	c.Search()
	require.Eventually(t, func() bool {
		select {
		case snap := <-updates:
			return snap.State == StateLoaded && len(snap.Advocates) == 1
		default:
			return false
		}
	}, waitFor, tick)

	unsubscribe()
	_, open := <-updates
	assert.False(t, open)
	unsubscribe()
	c.Close()
}

func TestControllerCloseClosesSubscribers(t *testing.T) {
	c := NewController(&scriptedSearcher{respond: func(searchCall, int) (*Page, error) {
		return advocatePage(nil, ""), nil
	}})
	updates, _ := c.Subscribe()
	<-updates

	c.Close()
	_, open := <-updates
	assert.False(t, open)

	c.SetFilter(FieldQuery, "ignored")
	c.Search()
	assert.Equal(t, StateIdle, c.Snapshot().State)
}

func TestControllerFilterLocal(t *testing.T) {
	searcher := &scriptedSearcher{respond: func(searchCall, int) (*Page, error) {
		return &Page{Advocates: []models.Advocate{
			{ID: 1, FirstName: "Ana", LastName: "García", City: "San José", Degree: "MD", Specialties: []string{"Trauma & PTSD"}},
			{ID: 2, FirstName: "Bob", LastName: "Lee", City: "Boston", Degree: "PhD", Specialties: []string{"Eating disorders"}},
		}}, nil
	}}
	c := NewController(searcher)
	defer c.Close()

	c.Search()
	waitState(t, c, StateLoaded)

	assert.Len(t, c.FilterLocal(""), 2)
	matched := c.FilterLocal("san jose")
	require.Len(t, matched, 1)
	assert.Equal(t, int64(1), matched[0].ID)
	matched = c.FilterLocal("disorder")
	require.Len(t, matched, 1)
	assert.Equal(t, int64(2), matched[0].ID)
}
