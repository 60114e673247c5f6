package auth

import (
	"net/http"

	"github.com/spec-kit/bizops-service/internal/domain"
	apperrors "github.com/spec-kit/bizops-service/pkg/util"
)

// FieldPolicy maps a mutable field to the minimum role allowed to change it.
// Fields not present in the table are open to anyone who may perform the
// update at all. Keeping the table declarative makes the authorization
// surface auditable in one place instead of scattered per-field checks.
type FieldPolicy map[string]domain.Role

// UserFieldPolicy gates account mutations.
var UserFieldPolicy = FieldPolicy{
	"role":   domain.RoleAdmin,
	"active": domain.RoleAdmin,
}

// EmployeeFieldPolicy gates staff profile mutations.
var EmployeeFieldPolicy = FieldPolicy{
	"salary":   domain.RoleAdmin,
	"position": domain.RoleManager,
}

// Check validates every requested field against the actor's role and reports
// all violations at once.
func (p FieldPolicy) Check(role domain.Role, fields []string) error {
	var denied []string
	for _, field := range fields {
		min, gated := p[field]
		if !gated {
			continue
		}
		if !role.AtLeast(min) {
			denied = append(denied, field)
		}
	}
	if len(denied) > 0 {
		return apperrors.NewDomainError(
			"INSUFFICIENT_ROLE",
			"role not permitted to modify these fields",
			http.StatusForbidden,
			map[string]any{"fields": denied},
		)
	}
	return nil
}
