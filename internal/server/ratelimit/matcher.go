package ratelimit

import "strings"

// MatchEndpoint returns the configuration governing method and path, or nil when the
// default limit applies. An exact path wins over a prefix ("/preview/" covers
// "/preview/{id}"); among prefixes the longest wins.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	var best *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if c.Method != method {
			continue
		}
		if c.Path == path {
			return c
		}
		if !strings.HasSuffix(c.Path, "/") || !strings.HasPrefix(path, c.Path) {
			continue
		}
		if best == nil || len(c.Path) > len(best.Path) {
			best = c
		}
	}
	return best
}
