// Package ratioregistry looks up per-region estimator ratios from a remote
// registry service.
package ratioregistry

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"covid-estimator/internal/model"
)

// Client fetches ratio percentages per region. Results, including failed
// lookups, are cached for the lifetime of the client. A Client with an
// empty base URL answers every lookup with no overrides. Safe for
// concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	cache   sync.Map // region name -> model.RatioPercentages
	logger  *slog.Logger
}

func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{baseURL: baseURL, logger: logger}
	if baseURL != "" {
		c.http = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	return c
}

// Enabled reports whether the client talks to a registry.
func (c *Client) Enabled() bool {
	return c != nil && c.baseURL != ""
}

type regionResponse struct {
	Region string `json:"region"`
	model.RatioPercentages
}

// Lookup returns the registry's ratio overrides for each named region.
// Regions the registry does not know, or that fail to load, map to an
// empty RatioPercentages. Uncached regions are fetched concurrently.
func (c *Client) Lookup(ctx context.Context, regions []string) map[string]model.RatioPercentages {
	result := make(map[string]model.RatioPercentages, len(regions))
	if !c.Enabled() {
		for _, r := range regions {
			result[r] = model.RatioPercentages{}
		}
		return result
	}

	var toFetch []string
	seen := make(map[string]bool, len(regions))
	for _, r := range regions {
		if seen[r] {
			continue
		}
		seen[r] = true
		if v, ok := c.cache.Load(r); ok {
			result[r] = v.(model.RatioPercentages)
		} else {
			toFetch = append(toFetch, r)
		}
	}

	if len(toFetch) == 0 {
		return result
	}

	if len(toFetch) == 1 {
		p := c.fetch(ctx, toFetch[0])
		c.cache.Store(toFetch[0], p)
		result[toFetch[0]] = p
		return result
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	for _, r := range toFetch {
		wg.Add(1)
		go func(region string) {
			defer wg.Done()
			p := c.fetch(ctx, region)
			c.cache.Store(region, p)
			mu.Lock()
			result[region] = p
			mu.Unlock()
		}(r)
	}
	wg.Wait()

	return result
}

func (c *Client) fetch(ctx context.Context, region string) model.RatioPercentages {
	if region == "" {
		return model.RatioPercentages{}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/regions/"+url.PathEscape(region), nil)
	if err != nil {
		c.logger.Warn("ratioregistry: bad request", "region", region, "err", err)
		return model.RatioPercentages{}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("ratioregistry: lookup failed", "region", region, "err", err)
		return model.RatioPercentages{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		if resp.StatusCode != http.StatusNotFound {
			c.logger.Warn("ratioregistry: unexpected status", "region", region, "status", resp.StatusCode)
		}
		return model.RatioPercentages{}
	}

	var rr regionResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		c.logger.Warn("ratioregistry: bad response", "region", region, "err", err)
		return model.RatioPercentages{}
	}
	return rr.RatioPercentages
}
