package discussions

import (
	"database/sql"

	"github.com/aquaguardian/aquaguardian/pkg/query"
	"github.com/aquaguardian/aquaguardian/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "report_discussions", "rd").
	Project("id", "ID").
	Project("report_id", "ReportID").
	Project("user_id", "UserID").
	Project("message_type", "MessageType").
	Project("content", "Content").
	Project("photo_url", "PhotoURL").
	Project("created_at", "CreatedAt").
	Join("public", "users", "u", "LEFT JOIN", "rd.user_id = u.id").
	Project("full_name", "AuthorName").
	Project("email", "AuthorEmail").
	Project("role", "AuthorRole")

var threadOrder = query.SortField{
	Field: "CreatedAt",
}

func scanDiscussion(s repository.Scanner) (Discussion, error) {
	var d Discussion
	var name, email sql.NullString
	err := s.Scan(
		&d.ID,
		&d.ReportID,
		&d.UserID,
		&d.MessageType,
		&d.Content,
		&d.PhotoURL,
		&d.CreatedAt,
		&name,
		&email,
		&d.AuthorRole,
	)

	// full_name is optional; fall back to the author's email for display.
	d.AuthorName = name.String
	if d.AuthorName == "" {
		d.AuthorName = email.String
	}

	return d, err
}
