package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Role represents a staff rank in the privilege hierarchy.
type Role string

const (
	RoleLecturer   Role = "Lecturer"
	RoleHOD        Role = "HOD"
	RoleDean       Role = "Dean"
	RoleAdmin      Role = "Admin"
	RoleSuperAdmin Role = "SuperAdmin"
)

// Roles is the total order of staff ranks, lowest first. Ceiling checks are
// index-based: a role may be granted only by staff at that index or above.
var Roles = []Role{RoleLecturer, RoleHOD, RoleDean, RoleAdmin, RoleSuperAdmin}

// RoleIndex returns the position of r in the hierarchy, or -1 for an unknown
// role.
func RoleIndex(r Role) int {
	for i, role := range Roles {
		if role == r {
			return i
		}
	}
	return -1
}

// ValidRole reports whether r is a known staff role.
func ValidRole(r Role) bool {
	return RoleIndex(r) >= 0
}

// AtOrBelow reports whether r ranks at or below ceiling. Unknown roles never
// pass.
func (r Role) AtOrBelow(ceiling Role) bool {
	ri, ci := RoleIndex(r), RoleIndex(ceiling)
	return ri >= 0 && ci >= 0 && ri <= ci
}

// Privileges is the capability set derived from a staff role. It is never
// accepted from caller input; DerivePrivileges recomputes it before every
// persist.
type Privileges struct {
	ApproveResult  bool `json:"approveResult"`
	AssignCourse   bool `json:"assignCourse"`
	SetCourses     bool `json:"setCourses"`
	CreateNew      bool `json:"createNew"`
	UpdateExisting bool `json:"updateExisting"`
	CreateMany     bool `json:"createMany"`
	DeleteExisting bool `json:"deleteExisting"`
}

// PrivilegeTable maps each role to its fixed capability set. Capabilities
// compound upward: every role holds at least the capabilities of the roles
// below it.
var PrivilegeTable = map[Role]Privileges{
	RoleLecturer: {},
	RoleHOD: {
		ApproveResult: true,
		AssignCourse:  true,
		SetCourses:    true,
	},
	RoleDean: {
		ApproveResult: true,
		AssignCourse:  true,
		SetCourses:    true,
	},
	RoleAdmin: {
		ApproveResult:  true,
		AssignCourse:   true,
		SetCourses:     true,
		CreateNew:      true,
		UpdateExisting: true,
		CreateMany:     true,
	},
	RoleSuperAdmin: {
		ApproveResult:  true,
		AssignCourse:   true,
		SetCourses:     true,
		CreateNew:      true,
		UpdateExisting: true,
		CreateMany:     true,
		DeleteExisting: true,
	},
}

// DerivePrivileges returns the capability set for a role. Unknown roles get
// the empty set.
func DerivePrivileges(r Role) Privileges {
	return PrivilegeTable[r]
}

// Value marshals the capability set to JSON for persistence.
func (p Privileges) Value() (driver.Value, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal privileges: %w", err)
	}
	return data, nil
}

// Scan unmarshals a JSON payload into the capability set.
func (p *Privileges) Scan(value interface{}) error {
	*p = Privileges{}
	return scanJSON(value, p, "Privileges")
}
