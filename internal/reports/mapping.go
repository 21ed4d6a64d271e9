package reports

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/aquaguardian/aquaguardian/pkg/query"
	"github.com/aquaguardian/aquaguardian/pkg/repository"
)

// firstPhoto pins the joined photo to the report's original evidence image
// regardless of how many proof photos follow.
const firstPhoto = `p.report_id = r.id AND p.id = (
	SELECT ph.id FROM public.photos ph
	WHERE ph.report_id = r.id
	ORDER BY ph.created_at, ph.id
	LIMIT 1)`

var projection = query.
	NewProjectionMap("public", "reports", "r").
	Project("id", "ID").
	Project("user_id", "UserID").
	Project("latitude", "Latitude").
	Project("longitude", "Longitude").
	Project("description", "Description").
	Project("severity", "Severity").
	Project("status", "Status").
	Project("ai_class", "AIClass").
	Project("ai_confidence", "AIConfidence").
	Project("jurisdiction_id", "JurisdictionID").
	Project("assigned_at", "AssignedAt").
	Project("action_note", "ActionNote").
	Project("ledger_tx", "LedgerTx").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt").
	Join("public", "photos", "p", "LEFT JOIN", firstPhoto).
	Project("url", "PhotoURL")

var mapProjection = query.
	NewProjectionMap("public", "reports", "r").
	Project("id", "ID").
	Project("latitude", "Latitude").
	Project("longitude", "Longitude").
	Project("severity", "Severity").
	Project("ai_class", "AIClass").
	Project("status", "Status")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// triageSort surfaces the worst verified reports first.
var triageSort = []query.SortField{
	{Field: "Severity", Descending: true},
	{Field: "CreatedAt", Descending: true},
}

// Filters contains optional filtering criteria for report queries.
// Nil fields are ignored.
type Filters struct {
	Status         *string    `json:"status,omitempty"`
	AIClass        *string    `json:"ai_class,omitempty"`
	UserID         *uuid.UUID `json:"user_id,omitempty"`
	JurisdictionID *uuid.UUID `json:"jurisdiction_id,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("AIClass", f.AIClass).
		WhereEquals("UserID", f.UserID).
		WhereEquals("JurisdictionID", f.JurisdictionID)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if c := values.Get("ai_class"); c != "" {
		f.AIClass = &c
	}

	if u := values.Get("user_id"); u != "" {
		if id, err := uuid.Parse(u); err == nil {
			f.UserID = &id
		}
	}

	if j := values.Get("jurisdiction_id"); j != "" {
		if id, err := uuid.Parse(j); err == nil {
			f.JurisdictionID = &id
		}
	}

	return f
}

func scanReport(s repository.Scanner) (Report, error) {
	var r Report
	err := s.Scan(
		&r.ID,
		&r.UserID,
		&r.Latitude,
		&r.Longitude,
		&r.Description,
		&r.Severity,
		&r.Status,
		&r.AIClass,
		&r.AIConfidence,
		&r.JurisdictionID,
		&r.AssignedAt,
		&r.ActionNote,
		&r.LedgerTx,
		&r.CreatedAt,
		&r.UpdatedAt,
		&r.PhotoURL,
	)
	return r, err
}

func scanMapPoint(s repository.Scanner) (MapPoint, error) {
	var p MapPoint
	var status string
	err := s.Scan(
		&p.ID,
		&p.Latitude,
		&p.Longitude,
		&p.Severity,
		&p.AIClass,
		&status,
	)
	return p, err
}

func scanPhoto(s repository.Scanner) (Photo, error) {
	var p Photo
	err := s.Scan(
		&p.ID,
		&p.ReportID,
		&p.URL,
		&p.Label,
		&p.CreatedAt,
	)
	return p, err
}
