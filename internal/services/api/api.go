// Package api provides the HTTP API for the application
package api

import (
	"repocred/internal/platform/config"
	"repocred/internal/platform/logger"
	phttp "repocred/internal/platform/net/http"
	"repocred/internal/platform/store"

	"repocred/internal/modkit"
	"repocred/internal/modkit/httpkit"
	"repocred/internal/modkit/module"
	"repocred/internal/modkit/swaggerkit"

	metamod "repocred/internal/services/api/meta/module"
	verifmod "repocred/internal/services/verification/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		CH:  opt.Store.CH,
	}

	mods := []module.Module{
		metamod.New(deps),
		verifmod.New(deps),
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
