package discussions

import (
	"fmt"
	"strings"

	"github.com/aquaguardian/aquaguardian/internal/identity"
)

// allowedTypes is the role-message matrix. An absent role posts nothing.
var allowedTypes = map[identity.Role][]string{
	identity.RoleCitizen:    {TypeClarification, TypeProofUpload},
	identity.RoleNGO:        {TypeFieldUpdate, TypeProofUpload},
	identity.RoleGovernment: {TypeInfoRequest, TypeStatusUpdate, TypeProofUpload, TypeClosureNote},
}

// attachmentTypes are the message types that may carry a photo.
var attachmentTypes = map[string]bool{
	TypeProofUpload:   true,
	TypeClarification: true,
	TypeFieldUpdate:   true,
}

// AllowedTypes returns the message types the given role may post.
func AllowedTypes(role identity.Role) []string {
	return allowedTypes[role]
}

// ValidateMessage checks the role-message matrix and the attachment rule.
// Rejections name the allowed set so callers can self-correct.
func ValidateMessage(role identity.Role, messageType string, hasAttachment bool) error {
	allowed := allowedTypes[role]

	permitted := false
	for _, t := range allowed {
		if t == messageType {
			permitted = true
			break
		}
	}
	if !permitted {
		return fmt.Errorf("%w: role %s may post %s",
			ErrTypeNotAllowed, role, strings.Join(allowed, ", "))
	}

	if hasAttachment && !attachmentTypes[messageType] {
		return fmt.Errorf("%w: %s entries cannot carry a photo",
			ErrAttachmentNotAllowed, messageType)
	}

	return nil
}
