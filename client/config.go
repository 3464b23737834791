package client

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Conf is the remote API configuration resolved at startup.
type Conf struct {
	BaseURL  string
	Policy   RetryPolicy
	PageSize int
}

const (
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 3
	DefaultRetryDelay = time.Second
	DefaultPageSize   = 25
)

func DefaultConf() Conf {
	return Conf{
		Policy: RetryPolicy{
			MaxRetries: DefaultMaxRetries,
			BaseDelay:  DefaultRetryDelay,
			Timeout:    DefaultTimeout,
		},
		PageSize: DefaultPageSize,
	}
}

// RetryPolicy bounds every remote call. It is immutable once built and shared
// read-only by all calls.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	// Timeout bounds a whole call, every attempt and backoff included.
	Timeout time.Duration
}

func (p RetryPolicy) Validate() error {
	switch {
	case p.MaxRetries < 0:
		return fmt.Errorf("max retries must be >= 0, got %d", p.MaxRetries)
	case p.BaseDelay <= 0:
		return fmt.Errorf("retry delay must be > 0, got %s", p.BaseDelay)
	case p.Timeout <= 0:
		return fmt.Errorf("timeout must be > 0, got %s", p.Timeout)
	}
	return nil
}

// Attempts is the total number of tries a call gets.
func (p RetryPolicy) Attempts() uint {
	return uint(p.MaxRetries) + 1
}

// maxBackoffShift keeps BaseDelay << n from overflowing time.Duration.
const maxBackoffShift = 30

// Backoff is the delay after attempt n (0-indexed): BaseDelay * 2^n.
func (p RetryPolicy) Backoff(n uint) time.Duration {
	if n > maxBackoffShift {
		n = maxBackoffShift
	}
	d := p.BaseDelay << n
	if d>>n != p.BaseDelay {
		// overflowed; the call timeout cuts the wait short anyway
		return p.Timeout
	}
	return d
}

func (c Conf) Validate() (*url.URL, error) {
	if strings.TrimSpace(c.BaseURL) == "" {
		return nil, errors.New("remote API base URL is not set")
	}
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(c.BaseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid remote API base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("remote API base URL must be absolute http(s), got %q", c.BaseURL)
	}
	if err := c.Policy.Validate(); err != nil {
		return nil, err
	}
	if c.PageSize <= 0 {
		return nil, fmt.Errorf("page size must be > 0, got %d", c.PageSize)
	}
	return u, nil
}
