package models

// EntityType is the closed set of entity kinds the object gateway serves.
type EntityType string

const (
	EntityFaculty    EntityType = "faculty"
	EntityDepartment EntityType = "department"
	EntityCourse     EntityType = "course"
	EntityStaff      EntityType = "staff"
	EntityStudent    EntityType = "student"
	EntityProject    EntityType = "project"
	EntityRecord     EntityType = "record"
)

// entityInfo describes how the gateway persists and guards one entity type.
// settable is the whitelist of caller-writable columns; everything else is
// system-owned and stripped before any write. JSON columns are marshalled
// before binding.
type entityInfo struct {
	table           string
	settable        map[string]bool
	jsonCols        map[string]bool
	hasCreatedBy    bool
	ownerAuthorized bool
}

var entityRegistry = map[EntityType]entityInfo{
	EntityFaculty: {
		table:    "faculties",
		settable: set("name"),
		jsonCols: set("available_courses"),
	},
	EntityDepartment: {
		table:    "departments",
		settable: set("name", "faculty_id"),
		jsonCols: set("available_courses"),
	},
	EntityCourse: {
		table:    "courses",
		settable: set("name", "code", "department_id", "level", "semester", "unit"),
	},
	EntityStaff: {
		table: "staff",
		settable: set("first_name", "last_name", "middle_name", "email", "staff_id",
			"role", "department_id", "phone", "gender", "nationality",
			"state_of_origin", "lga", "picture"),
		jsonCols: set("privileges", "assigned_courses"),
	},
	EntityStudent: {
		table: "students",
		settable: set("first_name", "last_name", "middle_name", "email", "matric_no",
			"level", "department_id", "phone", "gender", "nationality",
			"state_of_origin", "lga", "picture"),
		jsonCols: set("registered_courses"),
	},
	EntityProject: {
		table:        "projects",
		settable:     set("name", "course_id", "year", "description", "deadline"),
		jsonCols:     set("submissions"),
		hasCreatedBy: true,
		// course assignment is the authorization for projects
		ownerAuthorized: true,
	},
	EntityRecord: {
		table:           "records",
		settable:        set("course_id", "year", "entries"),
		jsonCols:        set("entries"),
		hasCreatedBy:    true,
		ownerAuthorized: true,
	},
}

func set(keys ...string) map[string]bool {
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}

// ParseEntityType validates a gateway type discriminator.
func ParseEntityType(raw string) (EntityType, bool) {
	if _, ok := entityRegistry[EntityType(raw)]; ok {
		return EntityType(raw), true
	}
	return "", false
}

// Valid reports whether t is a registered entity type.
func (t EntityType) Valid() bool {
	_, ok := entityRegistry[t]
	return ok
}

// Table returns the backing table name.
func (t EntityType) Table() string {
	return entityRegistry[t].table
}

// HasCreatedBy reports whether rows of this type carry a created_by owner
// column.
func (t EntityType) HasCreatedBy() bool {
	return entityRegistry[t].hasCreatedBy
}

// OwnerAuthorized reports whether writes to this type are authorized by
// course assignment and ownership instead of the generic privilege flags.
func (t EntityType) OwnerAuthorized() bool {
	return entityRegistry[t].ownerAuthorized
}

// IsJSONColumn reports whether col persists as JSONB. Such columns are
// marshalled before binding and surfaced as raw JSON when read back.
func (t EntityType) IsJSONColumn(col string) bool {
	return entityRegistry[t].jsonCols[col]
}

// StripImmutable returns a copy of attrs holding only caller-writable
// columns. Identifiers, timestamps and system-owned fields never survive
// this filter, regardless of the caller's privileges.
func (t EntityType) StripImmutable(attrs map[string]interface{}) map[string]interface{} {
	settable := entityRegistry[t].settable
	out := make(map[string]interface{}, len(attrs))
	for k, v := range attrs {
		if settable[k] {
			out[k] = v
		}
	}
	return out
}
