package util

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/ppiankov/veracity/internal/cache"
	"github.com/temoto/robotstxt"
)

// maxRobotsBytes caps how much of a robots.txt is read
const maxRobotsBytes = 512 << 10

// RobotsChecker checks robots.txt compliance.
// Raw robots files are kept in the shared cache; parsed rules are memoized per host.
type RobotsChecker struct {
	parsed     map[string]*robotstxt.RobotsData
	mu         sync.RWMutex
	store      cache.Cache
	ttl        time.Duration
	httpClient *http.Client
	userAgent  string
}

type robotsEntry struct {
	Status int    `json:"status"`
	Body   []byte `json:"body"`
}

// NewRobotsChecker creates a new robots.txt checker; nil store disables caching
func NewRobotsChecker(client *http.Client, userAgent string, store cache.Cache, ttl time.Duration) *RobotsChecker {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if store == nil {
		store = cache.Noop{}
	}
	return &RobotsChecker{
		parsed:     make(map[string]*robotstxt.RobotsData),
		store:      store,
		ttl:        ttl,
		httpClient: client,
		userAgent:  userAgent,
	}
}

// CanFetch reports whether rawURL may be fetched and the crawl delay to honor.
// An unreachable robots.txt allows fetching.
func (r *RobotsChecker) CanFetch(ctx context.Context, rawURL string) (bool, time.Duration, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false, 0, fmt.Errorf("parse URL: %w", err)
	}

	origin := parsed.Scheme + "://" + parsed.Host
	data, err := r.robotsFor(ctx, origin)
	if err != nil {
		return true, 0, nil
	}

	agent := NormalizeUserAgent(r.userAgent)
	path := parsed.EscapedPath()
	if path == "" {
		path = "/"
	}
	if parsed.RawQuery != "" {
		path += "?" + parsed.RawQuery
	}

	allowed := data.TestAgent(path, agent)

	var crawlDelay time.Duration
	if group := data.FindGroup(agent); group != nil {
		crawlDelay = group.CrawlDelay
	}

	return allowed, crawlDelay, nil
}

func (r *RobotsChecker) robotsFor(ctx context.Context, origin string) (*robotstxt.RobotsData, error) {
	r.mu.RLock()
	data, ok := r.parsed[origin]
	r.mu.RUnlock()
	if ok {
		return data, nil
	}

	robotsURL := origin + "/robots.txt"
	key := cache.Key("robots", robotsURL)

	var entry robotsEntry
	if !cache.GetJSON(r.store, key, &entry) {
		fetched, err := r.fetch(ctx, robotsURL)
		if err != nil {
			return nil, err
		}
		entry = *fetched
		_ = cache.SetJSON(r.store, key, entry, r.ttl)
	}

	data, err := robotstxt.FromStatusAndBytes(entry.Status, entry.Body)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}

	r.mu.Lock()
	r.parsed[origin] = data
	r.mu.Unlock()

	return data, nil
}

func (r *RobotsChecker) fetch(ctx context.Context, robotsURL string) (*robotsEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsBytes))
	if err != nil {
		return nil, fmt.Errorf("read robots.txt: %w", err)
	}

	return &robotsEntry{Status: resp.StatusCode, Body: body}, nil
}

// Clear forgets parsed rules; cached robots files expire on their own
func (r *RobotsChecker) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsed = make(map[string]*robotstxt.RobotsData)
}

// NormalizeUserAgent returns the product token of a user agent, without version
func NormalizeUserAgent(ua string) string {
	parts := strings.Fields(ua)
	if len(parts) > 0 {
		return strings.Split(parts[0], "/")[0]
	}
	return ua
}
