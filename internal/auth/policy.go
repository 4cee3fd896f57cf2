package auth

import (
	"slices"

	"github.com/Shivanand-hulikatti/ticketdesk/internal/model"
)

// CanAccess reports whether claims may reach an operation restricted to
// required. Absent claims are always denied; an empty role list admits any
// authenticated identity.
func CanAccess(claims *model.Claims, required ...model.Role) bool {
	if claims == nil {
		return false
	}
	if len(required) == 0 {
		return true
	}
	return slices.Contains(required, claims.Role)
}
