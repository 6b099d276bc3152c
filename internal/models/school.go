package models

import "time"

// Faculty owns faculty-wide available-course buckets.
type Faculty struct {
	ID               string        `db:"id" json:"id"`
	Name             string        `db:"name" json:"name"`
	AvailableCourses CourseBuckets `db:"available_courses" json:"available_courses"`
	CreatedAt        time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time     `db:"updated_at" json:"updated_at"`
}

// Department belongs to one faculty and owns department-level
// available-course buckets.
type Department struct {
	ID               string        `db:"id" json:"id"`
	Name             string        `db:"name" json:"name"`
	FacultyID        string        `db:"faculty_id" json:"faculty_id"`
	AvailableCourses CourseBuckets `db:"available_courses" json:"available_courses"`
	CreatedAt        time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time     `db:"updated_at" json:"updated_at"`
}

// CatalogOwnerKind selects which table a course-availability operation
// targets.
type CatalogOwnerKind string

const (
	CatalogOwnerDepartment CatalogOwnerKind = "department"
	CatalogOwnerFaculty    CatalogOwnerKind = "faculty"
)

// ParseCatalogOwnerKind validates a catalog owner discriminator.
func ParseCatalogOwnerKind(raw string) (CatalogOwnerKind, bool) {
	switch CatalogOwnerKind(raw) {
	case CatalogOwnerDepartment, CatalogOwnerFaculty:
		return CatalogOwnerKind(raw), true
	}
	return "", false
}
