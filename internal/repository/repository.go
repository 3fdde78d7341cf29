package repository

import (
	"studytrack/internal/models"
)

// Repository encapsulates the logic to access courses and assignments from a database.
type Repository interface {
	// ListCourses returns every course with its assignments nested.
	ListCourses() ([]models.Course, error)
	// GetCourse returns the course corresponding to the specified course ID.
	GetCourse(id models.ID) (*models.Course, error)
	// CreateCourse saves a new course into the database.
	CreateCourse(c models.Course) (*models.Course, error)
	// UpdateCourse replaces a course's fields. The returned course does not carry assignments.
	UpdateCourse(c models.Course) (*models.Course, error)
	// DeleteCourse deletes a course and every assignment that belongs to it.
	DeleteCourse(id models.ID) error

	// ListAssignments returns every assignment across all courses.
	ListAssignments() ([]models.Assignment, error)
	// CreateAssignment saves a new assignment under the given course.
	CreateAssignment(courseID models.ID, a models.Assignment) (*models.Assignment, error)
	// UpdateAssignment applies a partial update to an assignment.
	UpdateAssignment(id models.ID, patch models.AssignmentPatch) (*models.Assignment, error)
	// DeleteAssignment deletes an assignment.
	DeleteAssignment(id models.ID) error
}
