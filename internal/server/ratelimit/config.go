package ratelimit

import (
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig is the limit for one route. Paths ending in "/" match as prefixes.
// A zero Limit leaves the route unlimited.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int
	Window time.Duration
	Burst  int // defaults to Limit
}

// Build endpoints render and publish a whole site, so they get the tightest budget.
const (
	defaultBuildsPerHour = 10
	defaultBuildBurst    = 2
)

// LoadConfig reads rate limiting settings from the process environment.
func LoadConfig() *Config {
	return LoadConfigFrom(os.Getenv)
}

// LoadConfigFrom reads rate limiting settings through getenv. Malformed values fall back
// to their defaults.
func LoadConfigFrom(getenv func(string) string) *Config {
	env := envReader(getenv)
	if !env.bool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	builds := env.int("RATE_LIMIT_BUILDS_PER_HOUR", defaultBuildsPerHour)
	return &Config{
		Enabled:         true,
		DefaultLimit:    env.int("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   env.duration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: env.duration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       parseIPList(getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: endpointConfigs(builds),
	}
}

// DefaultEndpointConfigs returns the per-route limits of the build API.
func DefaultEndpointConfigs() []EndpointConfig {
	return endpointConfigs(defaultBuildsPerHour)
}

func endpointConfigs(buildsPerHour int) []EndpointConfig {
	burst := min(defaultBuildBurst, buildsPerHour)
	return []EndpointConfig{
		{Path: "/build-site", Method: "POST", Limit: buildsPerHour, Window: time.Hour, Burst: burst},
		{Path: "/build-site/stream", Method: "POST", Limit: buildsPerHour, Window: time.Hour, Burst: burst},

		// clients poll while a build runs
		{Path: "/build-status/", Method: "GET", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/preview/", Method: "GET", Limit: 60, Window: time.Minute, Burst: 10},

		// probes and scrapers
		{Path: "/health", Method: "GET"},
		{Path: "/metrics", Method: "GET"},
	}
}

type envReader func(string) string

func (e envReader) int(key string, def int) int {
	if n, err := strconv.Atoi(e(key)); err == nil {
		return n
	}
	return def
}

func (e envReader) bool(key string, def bool) bool {
	if b, err := strconv.ParseBool(e(key)); err == nil {
		return b
	}
	return def
}

func (e envReader) duration(key string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(e(key)); err == nil {
		return d
	}
	return def
}

// parseIPList turns "10.0.0.1, 10.0.0.2" into a set. Entries that are not IP addresses are skipped,
// since clients are keyed by their remote IP.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		ip = strings.TrimSpace(ip)
		if net.ParseIP(ip) != nil {
			result[ip] = true
		}
	}
	return result
}
