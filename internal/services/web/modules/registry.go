package modules

import (
	module "github.com/louisbranch/signin/internal/services/web/module"
	"github.com/louisbranch/signin/internal/services/web/modules/authapi"
)

// Default returns the stable web modules.
func Default(deps Dependencies) []Module {
	return []Module{
		authapi.New(authapi.Config{
			Adapter: deps.Adapter,
			Codec:   deps.Codec,
			Audit:   deps.Audit,
			Policy:  deps.Policy,
			Debug:   deps.Debug,
		}),
	}
}

// Healthy reports whether every module that reports health is healthy.
func Healthy(mods []Module) bool {
	for _, m := range mods {
		reporter, ok := m.(module.HealthReporter)
		if ok && !reporter.Healthy() {
			return false
		}
	}
	return true
}
