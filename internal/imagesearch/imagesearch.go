// Package imagesearch suggests destination photos for package listings.
package imagesearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"TRAVELPACK_BACK-END/internal/config"
	"TRAVELPACK_BACK-END/internal/logger"
	"TRAVELPACK_BACK-END/internal/tracing"
)

var (
	// ErrNotConfigured is returned when no provider key is set
	ErrNotConfigured = errors.New("image search not configured")
	// ErrUnavailable is returned while the provider is failing
	ErrUnavailable = errors.New("image search temporarily unavailable")
)

// Image is one search result
type Image struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	Thumb       string `json:"thumb"`
	Description string `json:"description"`
	Author      string `json:"author"`
}

// Searcher finds images for a free-text query
type Searcher interface {
	Search(ctx context.Context, query string) ([]Image, error)
}

// Unsplash queries the Unsplash search API through a circuit breaker and
// caches results per normalized query.
type Unsplash struct {
	cfg    config.ImageSearchConfig
	client *http.Client
	cb     *gobreaker.CircuitBreaker
	cache  Cache
	ttl    time.Duration
	log    *logger.Logger
	tracer trace.Tracer
}

// NewUnsplash builds the client. cache may be nil.
func NewUnsplash(cfg config.ImageSearchConfig, cache Cache, ttl time.Duration, log *logger.Logger, tracer trace.Tracer) *Unsplash {
	if cache == nil {
		cache = NoCache{}
	}
	if tracer == nil {
		tracer = tracing.Noop()
	}
	u := &Unsplash{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		cache:  cache,
		ttl:    ttl,
		log:    log,
		tracer: tracer,
	}
	u.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "unsplash",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.LogSystem("circuit_breaker", "state_change", to != gobreaker.StateOpen, logger.Fields{
				"name": name,
				"from": from.String(),
				"to":   to.String(),
			})
		},
	})
	return u
}

// Normalize lowercases and collapses whitespace so equivalent queries share a cache entry
func Normalize(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}

func (u *Unsplash) Search(ctx context.Context, query string) ([]Image, error) {
	ctx, span := u.tracer.Start(ctx, "imagesearch.Search")
	defer span.End()

	if u.cfg.AccessKey == "" {
		return nil, ErrNotConfigured
	}
	q := Normalize(query)
	span.SetAttributes(attribute.String("query", q))

	if imgs, ok := u.cache.Get(ctx, q); ok {
		span.SetAttributes(attribute.Bool("cache_hit", true))
		return imgs, nil
	}

	res, err := u.cb.Execute(func() (interface{}, error) {
		return u.fetch(ctx, q)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, tracing.Fail(span, ErrUnavailable)
		}
		return nil, tracing.Fail(span, err)
	}
	imgs := res.([]Image)

	if err := u.cache.Set(ctx, q, imgs, u.ttl); err != nil {
		u.log.WithFields(logger.Fields{"query": q, "error": err.Error()}).Warn("Failed to cache image search result")
	}
	return imgs, nil
}

type searchResponse struct {
	Results []struct {
		ID             string `json:"id"`
		Description    string `json:"description"`
		AltDescription string `json:"alt_description"`
		URLs           struct {
			Regular string `json:"regular"`
			Thumb   string `json:"thumb"`
		} `json:"urls"`
		User struct {
			Name string `json:"name"`
		} `json:"user"`
	} `json:"results"`
}

func (u *Unsplash) fetch(ctx context.Context, q string) ([]Image, error) {
	params := url.Values{}
	params.Set("query", q)
	params.Set("orientation", "landscape")
	params.Set("per_page", strconv.Itoa(u.cfg.PerPage))

	endpoint := strings.TrimRight(u.cfg.BaseURL, "/") + "/search/photos?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Client-ID "+u.cfg.AccessKey)
	req.Header.Set("Accept-Version", "v1")

	start := time.Now()
	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unsplash request failed: %w", err)
	}
	defer resp.Body.Close()

	u.log.WithFields(logger.Fields{
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("Unsplash search")

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unsplash returned status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode unsplash response: %w", err)
	}

	imgs := make([]Image, 0, len(body.Results))
	for _, r := range body.Results {
		desc := r.Description
		if desc == "" {
			desc = r.AltDescription
		}
		imgs = append(imgs, Image{
			ID:          r.ID,
			URL:         r.URLs.Regular,
			Thumb:       r.URLs.Thumb,
			Description: desc,
			Author:      r.User.Name,
		})
	}
	return imgs, nil
}
