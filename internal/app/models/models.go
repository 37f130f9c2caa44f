package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent    RoleType = "STUDENT"
	RoleInstructor RoleType = "INSTRUCTOR"
)

// Permission names gate the course management operations. They form a closed
// set; permissions are granted per user and checked before any data access.
type Permission string

const (
	PermViewCourse   Permission = "view_course"
	PermAddCourse    Permission = "add_course"
	PermChangeCourse Permission = "change_course"
	PermDeleteCourse Permission = "delete_course"
)

// InstructorPermissions are granted to instructors at registration.
var InstructorPermissions = []Permission{
	PermViewCourse,
	PermAddCourse,
	PermChangeCourse,
	PermDeleteCourse,
}
