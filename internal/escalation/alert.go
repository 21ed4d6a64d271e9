package escalation

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ReportAlert carries the report fields rendered into an authority
// notification.
type ReportAlert struct {
	ReportID    uuid.UUID
	Label       string
	Confidence  float64
	Latitude    float64
	Longitude   float64
	Description string
	Severity    int
	Status      string
}

// Subject returns the alert subject line.
func (a ReportAlert) Subject() string {
	return fmt.Sprintf("High-Confidence Pollution Alert: %s", strings.ToUpper(a.Label))
}

// Body returns the plain-text alert body.
func (a ReportAlert) Body() string {
	var b strings.Builder

	b.WriteString("POLLUTION ALERT - IMMEDIATE ATTENTION REQUIRED\n\n")
	fmt.Fprintf(&b, "Pollution Type: %s\n", strings.ToUpper(a.Label))
	fmt.Fprintf(&b, "AI Confidence: %.1f%%\n\n", a.Confidence*100)
	fmt.Fprintf(&b, "Location:\n  Latitude: %f\n  Longitude: %f\n\n", a.Latitude, a.Longitude)
	fmt.Fprintf(&b, "Description: %s\n\n", a.Description)
	fmt.Fprintf(&b, "Report ID: %s\n", a.ReportID)
	fmt.Fprintf(&b, "Severity: %d/10\n", a.Severity)
	fmt.Fprintf(&b, "Status: %s\n\n", a.Status)
	fmt.Fprintf(&b, "Timestamp: %s\n\n", time.Now().UTC().Format("2006-01-02 15:04:05 UTC"))
	b.WriteString("This is an automated alert from the Aqua Guardian monitoring system.\n")
	b.WriteString("Please take appropriate action as soon as possible.\n")

	return b.String()
}
