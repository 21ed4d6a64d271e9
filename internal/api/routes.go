package api

import (
	"net/http"

	"github.com/aquaguardian/aquaguardian/internal/config"
	"github.com/aquaguardian/aquaguardian/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
) {
	maxUpload := cfg.API.MaxUploadSizeBytes()

	routes.Register(
		mux,
		domain.Reports.Handler(maxUpload).Routes(),
		domain.Discussions.Handler(maxUpload).Routes(),
		domain.Cleanups.Handler(maxUpload).Routes(),
		domain.Jurisdictions.Handler().Routes(),
	)
}
