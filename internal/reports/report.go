// Package reports implements the report lifecycle: citizen submission with
// classification and jurisdiction routing, the guarded status state machine,
// and the read surface backing dashboards and the map.
package reports

import (
	"time"

	"github.com/google/uuid"
)

// Report is a citizen pollution report. Severity, classification, and
// jurisdiction are fixed at creation; only status, action note, ledger
// reference, and updated_at change afterwards.
type Report struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"user_id"`
	Latitude       float64    `json:"latitude"`
	Longitude      float64    `json:"longitude"`
	Description    string     `json:"description"`
	Severity       int        `json:"severity"`
	Status         Status     `json:"status"`
	AIClass        string     `json:"ai_class"`
	AIConfidence   float64    `json:"ai_confidence"`
	JurisdictionID *uuid.UUID `json:"jurisdiction_id"`
	AssignedAt     *time.Time `json:"assigned_at"`
	ActionNote     *string    `json:"action_note"`
	LedgerTx       *string    `json:"ledger_tx"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	PhotoURL       *string    `json:"photo_url"`
}

// Photo is an evidence image attached to a report. The first photo is the
// original evidence; later photos are proof-of-work.
type Photo struct {
	ID        uuid.UUID `json:"id"`
	ReportID  uuid.UUID `json:"report_id"`
	URL       string    `json:"url"`
	Label     *string   `json:"label"`
	CreatedAt time.Time `json:"created_at"`
}

// MapPoint is the lightweight shape served to the heatmap.
type MapPoint struct {
	ID        uuid.UUID `json:"id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Severity  int       `json:"severity"`
	AIClass   string    `json:"ai_class"`
}

// CreateCommand carries a citizen submission. Image holds the raw evidence
// bytes.
type CreateCommand struct {
	Latitude    float64
	Longitude   float64
	Description string
	Severity    int
	Image       []byte
	Filename    string
	ContentType string
}

// Validate checks submission fields before any collaborator is consulted.
func (c CreateCommand) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return ErrInvalidReport
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return ErrInvalidReport
	}
	if c.Severity < 1 || c.Severity > 10 {
		return ErrInvalidReport
	}
	if c.Description == "" {
		return ErrInvalidReport
	}
	if len(c.Image) == 0 {
		return ErrInvalidReport
	}
	return nil
}

// UpdateStatusCommand carries a status transition request. ProofImage is
// optional; when present it is persisted as a "cleanup proof" photo.
type UpdateStatusCommand struct {
	Target      Status
	ActionNote  *string
	ProofImage  []byte
	Filename    string
	ContentType string
}
