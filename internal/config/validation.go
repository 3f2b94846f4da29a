package config

import (
	"fmt"
	"net"
	"strings"
)

// Validate checks the full configuration. Called before serving.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.AI.Model) == "" {
		return fmt.Errorf("%w: model name is empty", ErrInvalidModelName)
	}
	if strings.ContainsAny(c.AI.Model, " \t\n") {
		return fmt.Errorf("%w: %q contains whitespace", ErrInvalidModelName, c.AI.Model)
	}
	if c.AI.RateLimit <= 0 {
		return fmt.Errorf("%w: %v requests/sec", ErrInvalidRateLimit, c.AI.RateLimit)
	}
	if c.AI.RateBurst <= 0 {
		return fmt.Errorf("%w: burst %d", ErrInvalidRateLimit, c.AI.RateBurst)
	}

	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidAddr, c.Server.Addr, err)
	}

	if c.News.CacheTTL <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidCacheTTL, c.News.CacheTTL)
	}
	for _, src := range c.News.Sources {
		if strings.TrimSpace(src.URL) == "" {
			return fmt.Errorf("%w: source %q has no URL", ErrInvalidNewsSource, src.Name)
		}
		if !strings.HasPrefix(src.URL, "http://") && !strings.HasPrefix(src.URL, "https://") {
			return fmt.Errorf("%w: source %q URL must be http(s)", ErrInvalidNewsSource, src.Name)
		}
	}

	return nil
}
