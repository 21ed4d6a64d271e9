package api

import (
	"github.com/aquaguardian/aquaguardian/internal/classifier"
	"github.com/aquaguardian/aquaguardian/internal/config"
	"github.com/aquaguardian/aquaguardian/internal/identity"
	"github.com/aquaguardian/aquaguardian/internal/infrastructure"
	"github.com/aquaguardian/aquaguardian/internal/ledger"
	"github.com/aquaguardian/aquaguardian/internal/notify"
	"github.com/aquaguardian/aquaguardian/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Identity   identity.Config
	Classifier classifier.Config
	Ledger     ledger.Config
	Notify     notify.Config
	Pagination pagination.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
		},
		Identity:   cfg.Identity,
		Classifier: cfg.Classifier,
		Ledger:     cfg.Ledger,
		Notify:     cfg.Notify,
		Pagination: cfg.API.Pagination,
	}
}
