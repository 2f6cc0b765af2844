package client

// This file defines functional options that configure the Client during
// construction. Keeping them in a standalone file makes it easy to discover
// all available knobs at a glance.

import (
	"fmt"
	"time"
)

// Option configures a Client during construction in New.
// Options must be deterministic and side-effect free.
type Option func(*Client) error

// WithHTTPTimeout bounds the total time spent on a single HTTP request,
// including connection setup and reading the response body.
// The value must be greater than zero.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.rest.SetTimeout(d)
		return nil
	}
}

// WithPageLimit sets the page size requested while walking the cursor chain.
// The server clamps the value to its own bounds, so anything in 1..100 is safe.
func WithPageLimit(n int) Option {
	return func(c *Client) error {
		if n <= 0 {
			return fmt.Errorf("page limit must be > 0")
		}
		c.pageLimit = n
		return nil
	}
}

// WithMaxMoments caps how many moments FetchTimeline collects before it
// stops following nextCursor.
func WithMaxMoments(n int) Option {
	return func(c *Client) error {
		if n <= 0 {
			return fmt.Errorf("max moments must be > 0")
		}
		c.maxMoments = n
		return nil
	}
}

// WithMaxRetries sets how many additional attempts a failed call gets.
// Retries are immediate and apply only to recoverable failures; zero
// disables retrying entirely.
func WithMaxRetries(n int) Option {
	return func(c *Client) error {
		if n < 0 {
			return fmt.Errorf("max retries must be >= 0")
		}
		c.maxRetries = n
		return nil
	}
}

// WithHydrateWorkers sets the size of the worker pool used to upgrade
// summary records into full moments.
func WithHydrateWorkers(n int) Option {
	return func(c *Client) error {
		if n <= 0 {
			return fmt.Errorf("hydrate workers must be > 0")
		}
		c.hydrateWorkers = n
		return nil
	}
}

// WithCacheTTL sets how long a fetched timeline snapshot is considered fresh.
// A stale snapshot is still served while a background refresh runs.
func WithCacheTTL(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("cache ttl must be > 0")
		}
		c.cacheTTL = d
		return nil
	}
}

// WithDebugLogging turns on request/response logging in the underlying
// HTTP client. Do not enable this option in production environments.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		c.rest.SetDebug(enabled)
		return nil
	}
}
