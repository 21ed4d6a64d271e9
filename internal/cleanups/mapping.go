package cleanups

import (
	"encoding/json"

	"github.com/aquaguardian/aquaguardian/pkg/query"
	"github.com/aquaguardian/aquaguardian/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "cleanup_actions", "c").
	Project("id", "ID").
	Project("report_id", "ReportID").
	Project("actor_id", "ActorID").
	Project("organization", "Organization").
	Project("status", "Status").
	Project("progress", "Progress").
	Project("completion_remark", "CompletionRemark").
	Project("completion_photos", "CompletionPhotos").
	Project("token_id", "TokenID").
	Project("ledger_tx", "LedgerTx").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt").
	Join("public", "reports", "r", "INNER JOIN", "c.report_id = r.id").
	Project("description", "ReportDescription").
	Project("status", "ReportStatus").
	Project("latitude", "ReportLatitude").
	Project("longitude", "ReportLongitude").
	Project("ai_class", "ReportAIClass").
	Project("severity", "ReportSeverity")

var boardSort = query.SortField{
	Field:      "UpdatedAt",
	Descending: true,
}

func scanAction(s repository.Scanner) (Action, error) {
	var a Action
	var photos []byte

	err := s.Scan(
		&a.ID,
		&a.ReportID,
		&a.ActorID,
		&a.Organization,
		&a.Status,
		&a.Progress,
		&a.CompletionRemark,
		&photos,
		&a.TokenID,
		&a.LedgerTx,
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.ReportDescription,
		&a.ReportStatus,
		&a.ReportLatitude,
		&a.ReportLongitude,
		&a.ReportAIClass,
		&a.ReportSeverity,
	)
	if err != nil {
		return a, err
	}

	if len(photos) > 0 {
		if err := json.Unmarshal(photos, &a.CompletionPhotos); err != nil {
			return a, err
		}
	}
	if a.CompletionPhotos == nil {
		a.CompletionPhotos = []string{}
	}

	return a, nil
}
