package ratelimit

import (
	"net/http"
	"strings"
)

// unlimited is returned for probes that must never be throttled
var unlimited = EndpointConfig{}

// MatchEndpoint finds the endpoint configuration for a request.
// An exact path wins; otherwise the longest configured prefix ending in "/"
// applies. A trailing slash on the request path is ignored, and an empty
// Method in a config matches any method. Returns nil when nothing matches.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if path != "/" {
		path = strings.TrimSuffix(path, "/")
	}

	if path == "/health" && (method == http.MethodGet || method == http.MethodHead) {
		cfg := unlimited
		return &cfg
	}

	var best *EndpointConfig
	for i := range configs {
		cfg := &configs[i]
		if cfg.Method != "" && cfg.Method != method {
			continue
		}
		if cfg.Path == path {
			return cfg
		}
		if strings.HasSuffix(cfg.Path, "/") && strings.HasPrefix(path+"/", cfg.Path) {
			if best == nil || len(cfg.Path) > len(best.Path) {
				best = cfg
			}
		}
	}
	return best
}
