package cleanups

import (
	"github.com/aquaguardian/aquaguardian/internal/identity"
)

// HazmatSeverity is the severity floor above which cleanup work is
// restricted to government agencies.
const HazmatSeverity = 8

// CheckSeverityGate rejects non-government actors on high-severity
// incidents. Callers that fail to read the severity at all skip the gate
// with a logged warning, trading strictness for availability.
func CheckSeverityGate(severity int, role identity.Role) error {
	if severity >= HazmatSeverity && role != identity.RoleGovernment {
		return ErrHazmatClearance
	}
	return nil
}
