// Package cleanups implements the remediation workflow: starting and
// advancing cleanup actions under the severity safety gate, participation,
// campaigns, and the completion cascade that closes the originating report
// and mints a contribution proof.
package cleanups

import (
	"time"

	"github.com/google/uuid"
)

// Cleanup action states.
const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// DefaultOrganization labels actions started without an explicit
// organization.
const DefaultOrganization = "Aqua Guardian Partner"

// Action tracks on-the-ground remediation work for a report. At most one
// action exists per report, enforced by upsert-by-report-id. Report fields
// are joined for the public board.
type Action struct {
	ID               uuid.UUID `json:"id"`
	ReportID         uuid.UUID `json:"report_id"`
	ActorID          uuid.UUID `json:"actor_id"`
	Organization     string    `json:"organization"`
	Status           string    `json:"status"`
	Progress         int       `json:"progress"`
	CompletionRemark *string   `json:"completion_remark"`
	CompletionPhotos []string  `json:"completion_photos"`
	TokenID          *int64    `json:"token_id"`
	LedgerTx         *string   `json:"ledger_tx"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	ReportDescription string  `json:"report_description"`
	ReportStatus      string  `json:"report_status"`
	ReportLatitude    float64 `json:"report_latitude"`
	ReportLongitude   float64 `json:"report_longitude"`
	ReportAIClass     string  `json:"report_ai_class"`
	ReportSeverity    int     `json:"report_severity"`
}

// Participant records a user who joined a cleanup.
type Participant struct {
	CleanupID uuid.UUID `json:"cleanup_id"`
	UserID    uuid.UUID `json:"user_id"`
	Role      string    `json:"role"`
	JoinedAt  time.Time `json:"joined_at"`
}

// StartCommand carries a request to start or restart cleanup work.
type StartCommand struct {
	ReportID     uuid.UUID
	Organization string
}

// ProgressCommand carries a progress update. Photos holds completion images
// uploaded alongside the update.
type ProgressCommand struct {
	Progress int
	Remark   *string
	Photos   []ProgressPhoto
}

// ProgressPhoto is a single completion image.
type ProgressPhoto struct {
	Data        []byte
	Filename    string
	ContentType string
}

// CampaignCommand carries a request to create a cleanup campaign from
// scratch. The campaign anchors to a pre-verified placeholder report.
type CampaignCommand struct {
	Title        string `json:"title"`
	Location     string `json:"location"`
	Description  string `json:"description"`
	Organization string `json:"organization"`
	Date         string `json:"date"`
}

// Validate checks campaign fields.
func (c CampaignCommand) Validate() error {
	if c.Title == "" || c.Location == "" || c.Description == "" || c.Organization == "" {
		return ErrInvalidCleanup
	}
	return nil
}
