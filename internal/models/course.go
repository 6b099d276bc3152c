package models

import "time"

// Course belongs to one department and is unique per department by code.
type Course struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Code         string    `db:"code" json:"code"`
	DepartmentID string    `db:"department_id" json:"department_id"`
	Level        int       `db:"level" json:"level"`
	Semester     int       `db:"semester" json:"semester"`
	Unit         int       `db:"unit" json:"unit"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// CourseWithFaculty carries the owning faculty id resolved through the
// department join.
type CourseWithFaculty struct {
	Course
	FacultyID string `db:"faculty_id" json:"faculty_id"`
}

// Levels enumerates the academic levels.
var Levels = []int{100, 200, 300, 400, 500, 600}

// ValidLevel reports whether l is one of the academic levels.
func ValidLevel(l int) bool {
	return l >= 100 && l <= 600 && l%100 == 0
}

// ValidSemester reports whether s is a known semester.
func ValidSemester(s int) bool {
	return s == 1 || s == 2
}
