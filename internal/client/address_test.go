package client

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_QueryTooShort(t *testing.T) {
	s := NewPickupSearcher(nil, 0, 3)

	_, err := s.Search(context.Background(), "42", " ab ")

	assert.ErrorIs(t, err, ErrQueryTooShort)
}

func TestSearch_NormalizesMultiShapeResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search-pvz", r.URL.Path)
		assert.Equal(t, "tverskaya", r.URL.Query().Get("q"))
		w.Write([]byte(`{"rows":[{"name":"PVZ-1","city":"Moscow","address":"Tverskaya 1"}]}`))
	})
	s := NewPickupSearcher(c, 0, 3)

	points, err := s.Search(context.Background(), "42", "tverskaya")

	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, "PVZ-1", points[0].Name)
	assert.Equal(t, "Moscow", points[0].City)
}

func TestSearch_SupersededDuringDebounce(t *testing.T) {
	served := make(chan string, 2)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		served <- r.URL.Query().Get("q")
		w.Write([]byte(`[]`))
	})
	s := NewPickupSearcher(c, 50*time.Millisecond, 3)

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = s.Search(context.Background(), "42", "tverskaya")
	}()

	// A second query arrives inside the first one's debounce window.
	time.Sleep(10 * time.Millisecond)
	points, err := s.Search(context.Background(), "42", "arbat")
	wg.Wait()

	assert.ErrorIs(t, firstErr, ErrQuerySuperseded)
	assert.NoError(t, err)
	assert.Empty(t, points)
	// Only the newer query reached the collaborator.
	assert.Equal(t, "arbat", <-served)
	select {
	case q := <-served:
		t.Fatalf("stale query %q should not have been issued", q)
	default:
	}
}

func TestSearch_UsersDoNotSupersedeEachOther(t *testing.T) {
	served := make(chan string, 2)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		served <- r.URL.Query().Get("q")
		w.Write([]byte(`[]`))
	})
	s := NewPickupSearcher(c, 50*time.Millisecond, 3)

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = s.Search(context.Background(), "42", "tverskaya")
	}()

	// A different user searches while the first user's debounce is running.
	time.Sleep(10 * time.Millisecond)
	_, secondErr := s.Search(context.Background(), "77", "arbat")
	wg.Wait()

	assert.NoError(t, firstErr)
	assert.NoError(t, secondErr)
	assert.ElementsMatch(t, []string{"tverskaya", "arbat"}, []string{<-served, <-served})
}

func TestSearch_ContextCancelledDuringDebounce(t *testing.T) {
	s := NewPickupSearcher(nil, time.Second, 3)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := s.Search(ctx, "42", "tverskaya")
		done <- err
	}()
	cancel()

	assert.ErrorIs(t, <-done, context.Canceled)
}
