package permission

import "github.com/gildedline/atelier/internal/domain/model"

// Permission names a single administrative capability.
type Permission string

const (
	ManageCustomDesigns Permission = "manage_custom_designs"
	ViewCustomDesigns   Permission = "view_custom_designs"
	ViewInternalNotes   Permission = "view_internal_notes"
	RecordPayments      Permission = "record_payments"
)

// Set is the effective capability set of an identity. Sets are always
// derived from a role on demand and never persisted.
type Set struct {
	all   bool
	perms map[Permission]struct{}
}

// Has reports whether the set grants the named permission.
// A set derived from the admin role satisfies every check.
func (s Set) Has(p Permission) bool {
	if s.all {
		return true
	}
	_, ok := s.perms[p]
	return ok
}

func newSet(perms ...Permission) Set {
	m := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		m[p] = struct{}{}
	}
	return Set{perms: m}
}

// ForRole resolves the capability set derived from a role. Pure: same
// role always yields the same set.
func ForRole(role model.Role) Set {
	switch role {
	case model.RoleAdmin:
		return Set{all: true}
	case model.RoleManager:
		return newSet(ManageCustomDesigns, ViewCustomDesigns, ViewInternalNotes, RecordPayments)
	case model.RoleDesigner:
		return newSet(ManageCustomDesigns, ViewCustomDesigns, ViewInternalNotes)
	case model.RoleSupport:
		return newSet(ViewCustomDesigns, ViewInternalNotes)
	default:
		return Set{}
	}
}
