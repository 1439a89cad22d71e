// Package modules defines web module registry helpers.
package modules

import (
	module "github.com/louisbranch/signin/internal/services/web/module"
	"github.com/louisbranch/signin/internal/services/web/modules/credentials"
	"github.com/louisbranch/signin/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/signin/internal/services/web/session"
	"github.com/louisbranch/signin/internal/services/web/storage"
)

// Mount aliases the module mount contract.
type Mount = module.Mount

// Module aliases the module interface contract.
type Module = module.Module

// Dependencies carries the shared collaborators required to compose the web
// module registry.
type Dependencies struct {
	Adapter *credentials.Adapter
	Codec   *session.Codec
	// Audit is optional.
	Audit  storage.LoginAttemptRecorder
	Policy requestmeta.SchemePolicy
	Debug  bool
}
