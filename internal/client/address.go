package client

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gpt716169-creator/sheinwibe/internal/models"
)

var (
	ErrQueryTooShort   = errors.New("search query is too short")
	ErrQuerySuperseded = errors.New("search query was superseded by a newer one")
)

// PickupSearcher queries the pickup-point collaborator with a debounce:
// rapid successive queries from one user collapse into their latest one, and
// a response that arrives after that user issued a newer query is discarded
// instead of overwriting fresher results. Generations are tracked per user,
// so different users never supersede each other.
type PickupSearcher struct {
	client   *Client
	debounce time.Duration
	minQuery int

	mu          sync.Mutex
	generations map[string]uint64
}

func NewPickupSearcher(client *Client, debounce time.Duration, minQuery int) *PickupSearcher {
	return &PickupSearcher{
		client:      client,
		debounce:    debounce,
		minQuery:    minQuery,
		generations: make(map[string]uint64),
	}
}

// Search runs one debounced lookup for the given user. The call sleeps for
// the debounce window first; if the same user started a newer Search
// meanwhile (before or during the network round trip), this one returns
// ErrQuerySuperseded and its results are dropped.
func (s *PickupSearcher) Search(ctx context.Context, userID, query string) ([]models.PickupPoint, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < s.minQuery {
		return nil, ErrQueryTooShort
	}

	s.mu.Lock()
	s.generations[userID]++
	myGeneration := s.generations[userID]
	s.mu.Unlock()

	if s.debounce > 0 {
		timer := time.NewTimer(s.debounce)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.superseded(userID, myGeneration) {
		return nil, ErrQuerySuperseded
	}

	var envelope listEnvelope
	if err := s.client.getJSON(ctx, "search-pvz", url.Values{"q": {query}}, &envelope); err != nil {
		return nil, err
	}
	if s.superseded(userID, myGeneration) {
		return nil, ErrQuerySuperseded
	}

	var points []models.PickupPoint
	if err := envelope.Decode(&points); err != nil {
		return nil, err
	}
	return points, nil
}

func (s *PickupSearcher) superseded(userID string, generation uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[userID] != generation
}
