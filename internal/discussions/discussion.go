// Package discussions implements the append-only discussion thread attached
// to every report. The thread doubles as the report's audit trail: status
// changes write STATUS_UPDATE entries here and nothing is ever edited or
// deleted.
package discussions

import (
	"time"

	"github.com/google/uuid"
)

// Message types, gated by actor role.
const (
	TypeClarification = "CLARIFICATION"
	TypeProofUpload   = "PROOF_UPLOAD"
	TypeFieldUpdate   = "FIELD_UPDATE"
	TypeInfoRequest   = "INFO_REQUEST"
	TypeStatusUpdate  = "STATUS_UPDATE"
	TypeClosureNote   = "CLOSURE_NOTE"
)

// Discussion is a single immutable entry on a report's thread. AuthorName
// and AuthorRole are joined from the users table for display.
type Discussion struct {
	ID          uuid.UUID `json:"id"`
	ReportID    uuid.UUID `json:"report_id"`
	UserID      uuid.UUID `json:"user_id"`
	MessageType string    `json:"message_type"`
	Content     string    `json:"content"`
	PhotoURL    *string   `json:"photo_url"`
	CreatedAt   time.Time `json:"created_at"`
	AuthorName  string    `json:"author_name"`
	AuthorRole  string    `json:"author_role"`
}

// PostCommand carries the data needed to append a discussion entry. The
// attachment arrives as multipart bytes; its public URL is derived from the
// storage key, never supplied by the client.
type PostCommand struct {
	ReportID    uuid.UUID
	MessageType string
	Content     string
	Photo       []byte
	Filename    string
	ContentType string
}
