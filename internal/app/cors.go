package app

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-contrib/cors"

	"github.com/stockdesk/server/internal/config"
)

func corsConfig(cfg *config.AppConfig) cors.Config {
	c := cors.Config{
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Idempotence-Key"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}
	if len(cfg.AllowedOrigins) == 0 || cfg.IsDev() {
		c.AllowOriginFunc = func(string) bool { return true }
		return c
	}
	patterns := cfg.AllowedOrigins
	c.AllowOriginFunc = func(origin string) bool {
		host := extractOriginHost(origin)
		for _, pattern := range patterns {
			if matchOriginPattern(pattern, host) {
				return true
			}
		}
		return false
	}
	return c
}

// extractOriginHost returns the "host[:port]" portion of an origin URL.
func extractOriginHost(origin string) string {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return origin
	}
	return u.Host
}

// matchOriginPattern reports whether host matches pattern. Patterns are an
// exact host, "*.example.com" or "localhost:*".
func matchOriginPattern(pattern, host string) bool {
	if pattern == host {
		return true
	}
	if strings.HasPrefix(pattern, "*.") {
		return strings.HasSuffix(host, pattern[1:])
	}
	if strings.HasSuffix(pattern, ":*") {
		return strings.HasPrefix(host, pattern[:len(pattern)-1])
	}
	return false
}
