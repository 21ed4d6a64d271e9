package api

import (
	"github.com/aquaguardian/aquaguardian/internal/classifier"
	"github.com/aquaguardian/aquaguardian/internal/cleanups"
	"github.com/aquaguardian/aquaguardian/internal/discussions"
	"github.com/aquaguardian/aquaguardian/internal/escalation"
	"github.com/aquaguardian/aquaguardian/internal/identity"
	"github.com/aquaguardian/aquaguardian/internal/jurisdictions"
	"github.com/aquaguardian/aquaguardian/internal/ledger"
	"github.com/aquaguardian/aquaguardian/internal/notify"
	"github.com/aquaguardian/aquaguardian/internal/reports"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Identity      identity.System
	Jurisdictions jurisdictions.System
	Discussions   discussions.System
	Reports       reports.System
	Cleanups      cleanups.System
}

// NewDomain creates all domain systems from the API runtime. Systems are
// constructed in dependency order so workflow cascades and escalation tasks
// share the same instances.
func NewDomain(runtime *Runtime) *Domain {
	db := runtime.Database.Connection()
	dispatcher := escalation.NewDispatcher(runtime.Lifecycle, runtime.Logger)

	identitySystem := identity.New(runtime.Identity, db, runtime.Logger)
	classifierSystem := classifier.New(runtime.Classifier, runtime.Logger)
	ledgerSystem := ledger.New(runtime.Ledger, runtime.Logger)
	notifySystem := notify.New(runtime.Notify, runtime.Logger)

	jurisdictionsSystem := jurisdictions.New(db, runtime.Logger)
	discussionsSystem := discussions.New(db, runtime.Storage, dispatcher, runtime.Logger)

	reportsSystem := reports.New(
		db,
		runtime.Storage,
		classifierSystem,
		jurisdictionsSystem,
		ledgerSystem,
		notifySystem,
		dispatcher,
		runtime.Logger,
		runtime.Pagination,
	)

	cleanupsSystem := cleanups.New(
		db,
		runtime.Storage,
		reportsSystem,
		identitySystem,
		ledgerSystem,
		dispatcher,
		runtime.Logger,
	)

	return &Domain{
		Identity:      identitySystem,
		Jurisdictions: jurisdictionsSystem,
		Discussions:   discussionsSystem,
		Reports:       reportsSystem,
		Cleanups:      cleanupsSystem,
	}
}
