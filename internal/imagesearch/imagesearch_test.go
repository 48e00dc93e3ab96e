package imagesearch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"TRAVELPACK_BACK-END/internal/config"
	"TRAVELPACK_BACK-END/internal/logger"
)

type mapCache struct {
	mu sync.Mutex
	m  map[string][]Image
}

func (c *mapCache) Get(_ context.Context, q string) ([]Image, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	imgs, ok := c.m[q]
	return imgs, ok
}

func (c *mapCache) Set(_ context.Context, q string, imgs []Image, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[q] = imgs
	return nil
}

const unsplashBody = `{"results":[{"id":"abc","description":"","alt_description":"beach at dusk",
"urls":{"regular":"https://images.example.com/abc","thumb":"https://images.example.com/abc-t"},
"user":{"name":"Ravi"}}]}`

func newSearcher(t *testing.T, h http.HandlerFunc) (*Unsplash, *mapCache) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cache := &mapCache{m: map[string][]Image{}}
	cfg := config.ImageSearchConfig{BaseURL: srv.URL, AccessKey: "key", Timeout: time.Second, PerPage: 9}
	return NewUnsplash(cfg, cache, time.Hour, logger.Discard(), nil), cache
}

func TestSearchCachesByNormalizedQuery(t *testing.T) {
	var calls int32
	s, cache := newSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.Header.Get("Authorization") != "Client-ID key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("query") != "goa beach" {
			t.Errorf("query = %q", r.URL.Query().Get("query"))
		}
		w.Write([]byte(unsplashBody))
	})

	imgs, err := s.Search(context.Background(), "  Goa   Beach ")
	if err != nil {
		t.Fatal(err)
	}
	if len(imgs) != 1 || imgs[0].Description != "beach at dusk" || imgs[0].Author != "Ravi" {
		t.Fatalf("imgs = %+v", imgs)
	}
	if _, ok := cache.m["goa beach"]; !ok {
		t.Fatal("result not cached")
	}

	if _, err := s.Search(context.Background(), "goa beach"); err != nil {
		t.Fatal(err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("provider called %d times", n)
	}
}

func TestSearchOpensBreaker(t *testing.T) {
	var calls int32
	s, _ := newSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	})

	for i := 0; i < 3; i++ {
		if _, err := s.Search(context.Background(), "paris"); err == nil || errors.Is(err, ErrUnavailable) {
			t.Fatalf("attempt %d: err = %v", i, err)
		}
	}
	if _, err := s.Search(context.Background(), "paris"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Fatalf("provider called %d times", n)
	}
}

func TestSearchNotConfigured(t *testing.T) {
	s := NewUnsplash(config.ImageSearchConfig{}, nil, time.Hour, logger.Discard(), nil)
	if _, err := s.Search(context.Background(), "rome"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v", err)
	}
}
