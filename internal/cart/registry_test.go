package cart

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gpt716169-creator/sheinwibe/internal/models"
	"github.com/gpt716169-creator/sheinwibe/internal/pricing"
)

func TestGetOrBootstrap_PublishesOnlyAfterSuccess(t *testing.T) {
	r := NewRegistry(pricing.NewCalculator(50))

	_, err := r.GetOrBootstrap("42", func(*Session) error {
		return errors.New("cart backend down")
	})
	assert.Error(t, err)
	assert.Empty(t, r.Snapshot())

	s, err := r.GetOrBootstrap("42", func(s *Session) error {
		s.ReplaceItems([]models.LineItem{availableItem("a", 100, 1)})
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, s.View().Items, 1)
	assert.Len(t, r.Snapshot(), 1)
}

func TestGetOrBootstrap_ExistingSessionSkipsBootstrap(t *testing.T) {
	r := NewRegistry(pricing.NewCalculator(50))
	_, err := r.GetOrBootstrap("42", func(s *Session) error {
		s.ReplaceItems([]models.LineItem{availableItem("a", 100, 1)})
		return nil
	})
	require.NoError(t, err)

	s, err := r.GetOrBootstrap("42", func(*Session) error {
		t.Fatal("bootstrap ran for an existing session")
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, s.View().Items, 1)
}

func TestGetOrBootstrap_ConcurrentCallersShareOneBootstrap(t *testing.T) {
	r := NewRegistry(pricing.NewCalculator(50))

	started := make(chan struct{})
	release := make(chan struct{})
	var calls int32
	bootstrap := func(s *Session) error {
		atomic.AddInt32(&calls, 1)
		close(started)
		<-release
		s.ReplaceItems([]models.LineItem{availableItem("a", 100, 1)})
		return nil
	}

	var wg sync.WaitGroup
	sessions := make([]*Session, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sessions[i], errs[i] = r.GetOrBootstrap("42", bootstrap)
		}(i)
	}

	<-started
	close(release)
	wg.Wait()

	for i := 0; i < 2; i++ {
		require.NoError(t, errs[i])
		require.NotNil(t, sessions[i])
		// No caller sees the session before its cart is loaded.
		assert.Len(t, sessions[i].View().Items, 1)
	}
	assert.Same(t, sessions[0], sessions[1])
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
