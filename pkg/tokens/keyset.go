package tokens

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-jose/go-jose/v4"
	"golang.org/x/time/rate"
)

var (
	ErrKeyNotFound    = errors.New("tokens: signing key not found")
	ErrFetchThrottled = errors.New("tokens: key set refresh rate limited")
)

// KeyProvider resolves a verification key by its key id.
type KeyProvider interface {
	Key(ctx context.Context, kid string) (any, error)
}

// KeySet caches the public keys of a JSON Web Key Set. Lookups for an unknown
// kid refresh the set, and refreshes are bounded by a token bucket so a flood
// of forged kids cannot hammer the upstream endpoint.
type KeySet struct {
	url     string
	client  *http.Client
	limiter *rate.Limiter

	mu   sync.RWMutex
	keys map[string]jose.JSONWebKey

	fetchMu sync.Mutex
}

func NewKeySet(url string, requestsPerMinute int, client *http.Client) *KeySet {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 10
	}
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &KeySet{
		url:     url,
		client:  client,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), requestsPerMinute),
		keys:    map[string]jose.JSONWebKey{},
	}
}

func (s *KeySet) Key(ctx context.Context, kid string) (any, error) {
	if k, ok := s.lookup(kid); ok {
		return k.Key, nil
	}

	s.fetchMu.Lock()
	defer s.fetchMu.Unlock()

	// another request may have refreshed while we waited
	if k, ok := s.lookup(kid); ok {
		return k.Key, nil
	}

	if !s.limiter.Allow() {
		return nil, ErrFetchThrottled
	}
	if err := s.refresh(ctx); err != nil {
		return nil, err
	}

	if k, ok := s.lookup(kid); ok {
		return k.Key, nil
	}
	return nil, fmt.Errorf("%w: kid %q", ErrKeyNotFound, kid)
}

func (s *KeySet) lookup(kid string) (jose.JSONWebKey, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	k, ok := s.keys[kid]
	return k, ok
}

func (s *KeySet) refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch key set: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch key set: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read key set: %w", err)
	}

	var set jose.JSONWebKeySet
	if err := json.Unmarshal(body, &set); err != nil {
		return fmt.Errorf("decode key set: %w", err)
	}

	keys := make(map[string]jose.JSONWebKey, len(set.Keys))
	for _, k := range set.Keys {
		if k.KeyID == "" || !k.IsPublic() || !k.Valid() {
			continue
		}
		if k.Use != "" && k.Use != "sig" {
			continue
		}
		keys[k.KeyID] = k
	}

	s.mu.Lock()
	s.keys = keys
	s.mu.Unlock()
	return nil
}
