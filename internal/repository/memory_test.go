package repository

import (
	"reflect"
	"testing"

	"studytrack/internal/models"
	"studytrack/internal/qerrors"
)

func seed(t *testing.T) (*MemoryRepository, *models.Course, *models.Course) {
	t.Helper()
	r := NewMemoryRepository()

	math, err := r.CreateCourse(models.Course{Name: "Math", CourseLink: "https://math.example.com"})
	if err != nil {
		t.Fatalf("CreateCourse() failed, %v", err)
	}
	physics, err := r.CreateCourse(models.Course{Name: "Physics", CourseLink: "https://physics.example.com"})
	if err != nil {
		t.Fatalf("CreateCourse() failed, %v", err)
	}
	for _, a := range []struct {
		course *models.Course
		name   string
		due    string
	}{
		{math, "HW1", "2024-01-10"},
		{math, "HW2", "2024-01-17"},
		{physics, "Lab1", "2024-01-10"},
	} {
		if _, err := r.CreateAssignment(a.course.ID, models.Assignment{Name: a.name, DueDate: a.due}); err != nil {
			t.Fatalf("CreateAssignment() failed, %v", err)
		}
	}
	return r, math, physics
}

func TestMemoryRepositoryListCourses(t *testing.T) {
	r, math, physics := seed(t)

	courses, err := r.ListCourses()
	if err != nil {
		t.Fatalf("ListCourses() failed, %v", err)
	}
	if len(courses) != 2 {
		t.Fatalf("Expected 2 courses, got %d", len(courses))
	}
	if courses[0].ID != math.ID || courses[1].ID != physics.ID {
		t.Errorf("Expected courses in creation order, got %v and %v", courses[0].ID, courses[1].ID)
	}

	var names []string
	for _, a := range courses[0].Assignments {
		names = append(names, a.Name)
	}
	if expected := []string{"HW1", "HW2"}; !reflect.DeepEqual(names, expected) {
		t.Errorf("Expected math assignments to be %v, got %v", expected, names)
	}
	if courses[0].Assignments[0].CourseID != math.ID {
		t.Errorf("Expected assignment course_id %v, got %v", math.ID, courses[0].Assignments[0].CourseID)
	}
}

func TestMemoryRepositoryUpdateCourseOmitsAssignments(t *testing.T) {
	r, math, _ := seed(t)

	updated, err := r.UpdateCourse(models.Course{ID: math.ID, Name: "Calculus", CourseLink: math.CourseLink, StudyHours: 1.5})
	if err != nil {
		t.Fatalf("UpdateCourse() failed, %v", err)
	}
	if updated.Name != "Calculus" || updated.StudyHours != 1.5 {
		t.Errorf("Unexpected updated course %+v", updated)
	}
	if updated.Assignments != nil {
		t.Errorf("Expected update response without nested assignments, got %v", updated.Assignments)
	}

	if _, err := r.UpdateCourse(models.Course{ID: "999"}); err != qerrors.ErrCourseNotFound {
		t.Errorf("Expected ErrCourseNotFound, got %v", err)
	}
}

func TestMemoryRepositoryDeleteCourseCascades(t *testing.T) {
	r, math, physics := seed(t)

	if err := r.DeleteCourse(math.ID); err != nil {
		t.Fatalf("DeleteCourse() failed, %v", err)
	}

	assignments, _ := r.ListAssignments()
	if len(assignments) != 1 {
		t.Fatalf("Expected 1 remaining assignment, got %d", len(assignments))
	}
	if assignments[0].CourseID != physics.ID {
		t.Errorf("Expected remaining assignment to belong to %v, got %v", physics.ID, assignments[0].CourseID)
	}

	if _, err := r.GetCourse(math.ID); err != qerrors.ErrCourseNotFound {
		t.Errorf("Expected ErrCourseNotFound, got %v", err)
	}
	if err := r.DeleteCourse(math.ID); err != qerrors.ErrCourseNotFound {
		t.Errorf("Expected ErrCourseNotFound on second delete, got %v", err)
	}
}

func TestMemoryRepositoryAssignments(t *testing.T) {
	r, math, _ := seed(t)

	if _, err := r.CreateAssignment("999", models.Assignment{Name: "Orphan"}); err != qerrors.ErrCourseNotFound {
		t.Errorf("Expected ErrCourseNotFound, got %v", err)
	}

	course, _ := r.GetCourse(math.ID)
	hw1 := course.Assignments[0]

	done := true
	updated, err := r.UpdateAssignment(hw1.ID, models.AssignmentPatch{IsCompleted: &done})
	if err != nil {
		t.Fatalf("UpdateAssignment() failed, %v", err)
	}
	if !updated.IsCompleted || updated.Name != "HW1" || updated.DueDate != "2024-01-10" {
		t.Errorf("Expected only is_completed to change, got %+v", updated)
	}

	if err := r.DeleteAssignment(hw1.ID); err != nil {
		t.Fatalf("DeleteAssignment() failed, %v", err)
	}
	if _, err := r.UpdateAssignment(hw1.ID, models.AssignmentPatch{}); err != qerrors.ErrAssignmentNotFound {
		t.Errorf("Expected ErrAssignmentNotFound, got %v", err)
	}
	course, _ = r.GetCourse(math.ID)
	if len(course.Assignments) != 1 {
		t.Errorf("Expected 1 assignment after delete, got %d", len(course.Assignments))
	}
}
