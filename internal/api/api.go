// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/aquaguardian/aquaguardian/internal/config"
	"github.com/aquaguardian/aquaguardian/internal/identity"
	"github.com/aquaguardian/aquaguardian/internal/infrastructure"
	"github.com/aquaguardian/aquaguardian/pkg/middleware"
	"github.com/aquaguardian/aquaguardian/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// Every API route requires an authenticated actor; health endpoints live on
// the native router outside this module.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(identity.RequireAuth(domain.Identity, runtime.Logger))

	return m, nil
}
