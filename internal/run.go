package internal

import (
	"errors"
	"sort"
)

// Run starts a multi-host HTTP server and blocks until shutdown. Each
// Host pattern mounts an App behind a host gate on a shared root
// router; an unmatched host falls through to the Fallback app, or 404s.
//
// Example:
//
//	api := farrow.New(
//	    farrow.WithRoutes(handlers.NewAPIHandler()),
//	)
//
//	website := farrow.New(
//	    farrow.WithRoutes(handlers.NewLandingHandler()),
//	)
//
//	err := farrow.Run(
//	    farrow.Host("api.acme.com", api),
//	    farrow.Host("*.acme.com", website),
//	    farrow.Address(":8080"),
//	    farrow.Logger(slog),
//	)
func Run(opts ...RunOption) error {
	cfg := buildRunConfig(opts...)

	if len(cfg.hosts) == 0 && cfg.fallback == nil {
		return errors.New("run: no hosts or fallback configured")
	}

	root := NewRouter()

	// Exact patterns before wildcards, alphabetical within each group,
	// so registration order is deterministic from a map.
	for _, pattern := range sortedHostPatterns(cfg.hosts) {
		root.Use(MatchHost(pattern, cfg.hosts[pattern].Middleware()))
	}
	if cfg.fallback != nil {
		root.Use(cfg.fallback.Middleware())
	}

	return runServer(runtimeConfig{
		handler:         NewHTTPHandler(root, cfg.logger),
		address:         cfg.address,
		logger:          cfg.logger,
		shutdownTimeout: cfg.shutdownTimeout,
		startupHooks:    cfg.startupHooks,
		shutdownHooks:   cfg.shutdownHooks,
		baseCtx:         cfg.baseCtx,
	})
}

func sortedHostPatterns(hosts map[string]*App) []string {
	patterns := make([]string, 0, len(hosts))
	for p := range hosts {
		patterns = append(patterns, p)
	}
	sort.Slice(patterns, func(i, j int) bool {
		wi, wj := patterns[i][0] == '*', patterns[j][0] == '*'
		if wi != wj {
			return !wi
		}
		return patterns[i] < patterns[j]
	})
	return patterns
}
