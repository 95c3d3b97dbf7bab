package linkcheck

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"
)

// Result is the probe outcome for one link occurrence.
type Result struct {
	URL    string `json:"url"`
	Page   string `json:"page"`
	Status int    `json:"status,omitempty"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
}

// Checker probes URLs with bounded concurrency. Repeated URLs are probed once
// per run and the outcome reused.
type Checker struct {
	client  *http.Client
	workers int
	log     *slog.Logger

	mu    sync.Mutex
	cache map[string]probe
}

type probe struct {
	status int
	err    error
}

// Options configures a Checker.
type Options struct {
	Workers int
	Timeout time.Duration
}

func New(opts Options, log *slog.Logger) *Checker {
	if opts.Workers <= 0 {
		opts.Workers = 8
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &Checker{
		client:  &http.Client{Timeout: opts.Timeout},
		workers: opts.Workers,
		log:     log,
		cache:   make(map[string]probe),
	}
}

// Check probes every link and returns one Result per occurrence, ordered by
// page then URL.
func (c *Checker) Check(ctx context.Context, links []Link) []Result {
	unique := make(map[string]bool, len(links))
	for _, l := range links {
		unique[l.URL] = true
	}

	sem := make(chan struct{}, c.workers)
	var wg sync.WaitGroup
	for u := range unique {
		sem <- struct{}{}
		wg.Add(1)
		go func(u string) {
			defer wg.Done()
			defer func() { <-sem }()
			status, err := c.probeWithRetry(ctx, u)
			c.mu.Lock()
			c.cache[u] = probe{status: status, err: err}
			c.mu.Unlock()
		}(u)
	}
	wg.Wait()

	results := make([]Result, 0, len(links))
	for _, l := range links {
		c.mu.Lock()
		p := c.cache[l.URL]
		c.mu.Unlock()
		r := Result{URL: l.URL, Page: l.Page, Status: p.status}
		if p.err != nil {
			r.Error = p.err.Error()
		} else {
			r.OK = p.status >= 200 && p.status < 400
			if !r.OK {
				r.Error = fmt.Sprintf("status %d", p.status)
			}
		}
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Page != results[j].Page {
			return results[i].Page < results[j].Page
		}
		return results[i].URL < results[j].URL
	})
	return results
}

func (c *Checker) probeWithRetry(ctx context.Context, url string) (int, error) {
	var status int
	var err error
	for attempt := range MaxRetries {
		status, err = c.probe(ctx, url)
		if err == nil && !retryableStatus(status) {
			return status, nil
		}
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		c.log.Debug("retrying link probe", "url", url, "attempt", attempt, "status", status, "error", err)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	return status, err
}

// probe tries HEAD first and falls back to GET for servers that reject HEAD.
func (c *Checker) probe(ctx context.Context, url string) (int, error) {
	status, err := c.do(ctx, http.MethodHead, url)
	if err == nil && (status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented) {
		return c.do(ctx, http.MethodGet, url)
	}
	return status, err
}

func (c *Checker) do(ctx context.Context, method, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "outbook-linkcheck/1.0")
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}

// Broken filters results down to failures.
func Broken(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.OK {
			out = append(out, r)
		}
	}
	return out
}
