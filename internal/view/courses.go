// Package view holds the state owned by each screen of the tracker: form fields, per-course
// input buffers and flags, and the calendar's projection. Views read and write course data only
// through the store.
package view

import (
	"context"
	"fmt"
	"io"
	"sync"

	"studytrack/internal/models"
	"studytrack/internal/store"
)

// AssignmentInput is the pending new-assignment form of one course.
type AssignmentInput struct {
	Name    string
	DueDate string
}

// CoursesView is the course list and editor.
type CoursesView struct {
	store *store.Store

	lock       sync.Mutex
	name       string
	courseLink string
	editing    models.ID

	inputs    *Keyed[AssignmentInput]
	minimized *Keyed[bool]

	unregister func()
}

// NewCoursesView creates the view and registers it to drop keyed state for deleted courses.
func NewCoursesView(s *store.Store) *CoursesView {
	v := &CoursesView{
		store:     s,
		inputs:    NewKeyed[AssignmentInput](),
		minimized: NewKeyed[bool](),
	}
	v.unregister = s.OnCourseDeleted(v.purge)
	return v
}

// Close detaches the view from the store.
func (v *CoursesView) Close() {
	v.unregister()
}

// SetForm fills the course form.
func (v *CoursesView) SetForm(name, courseLink string) {
	v.lock.Lock()
	defer v.lock.Unlock()
	v.name, v.courseLink = name, courseLink
}

// Form returns the course form's fields.
func (v *CoursesView) Form() (name, courseLink string) {
	v.lock.Lock()
	defer v.lock.Unlock()
	return v.name, v.courseLink
}

// Editing returns the index of the course being edited, or -1.
func (v *CoursesView) Editing() int {
	v.lock.Lock()
	editing := v.editing
	v.lock.Unlock()

	if editing.IsZero() {
		return -1
	}
	for i, c := range v.store.Courses() {
		if c.ID == editing {
			return i
		}
	}
	return -1
}

// StartEdit switches the form to editing the course at index and loads its fields.
func (v *CoursesView) StartEdit(index int) error {
	course, err := v.store.CourseAt(index)
	if err != nil {
		return err
	}

	v.lock.Lock()
	defer v.lock.Unlock()
	v.editing = course.ID
	v.name, v.courseLink = course.Name, course.CourseLink
	return nil
}

// CancelEdit clears the form and leaves editing mode.
func (v *CoursesView) CancelEdit() {
	v.lock.Lock()
	defer v.lock.Unlock()
	v.resetForm()
}

// Submit adds a course from the form, or saves the course being edited. The form is cleared only
// when the store accepts the change.
func (v *CoursesView) Submit(ctx context.Context) error {
	v.lock.Lock()
	editing, name, courseLink := v.editing, v.name, v.courseLink
	v.lock.Unlock()

	var err error
	if !editing.IsZero() {
		err = v.store.EditCourse(ctx, models.EditCourseRequest{
			CourseID:   editing,
			Name:       name,
			CourseLink: courseLink,
		})
	} else {
		err = v.store.AddCourse(ctx, &models.CreateCourseRequest{Name: name, CourseLink: courseLink})
	}
	if err != nil {
		return err
	}

	v.lock.Lock()
	v.resetForm()
	v.lock.Unlock()
	return nil
}

// SetAssignmentInput fills the new-assignment form of a course.
func (v *CoursesView) SetAssignmentInput(courseID models.ID, name, dueDate string) {
	v.inputs.Set(courseID, AssignmentInput{Name: name, DueDate: dueDate})
}

func (v *CoursesView) AssignmentInput(courseID models.ID) AssignmentInput {
	in, _ := v.inputs.Get(courseID)
	return in
}

// SubmitAssignment adds an assignment from the course's input buffer and clears the buffer on success.
func (v *CoursesView) SubmitAssignment(ctx context.Context, courseID models.ID) error {
	in, _ := v.inputs.Get(courseID)
	err := v.store.AddAssignment(ctx, &models.CreateAssignmentRequest{
		CourseID: courseID,
		Name:     in.Name,
		DueDate:  in.DueDate,
	})
	if err != nil {
		return err
	}
	v.inputs.Delete(courseID)
	return nil
}

// ToggleMinimized collapses or expands a course's assignment list and returns the new state.
func (v *CoursesView) ToggleMinimized(courseID models.ID) bool {
	return v.minimized.Update(courseID, func(m bool) bool { return !m })
}

func (v *CoursesView) Minimized(courseID models.ID) bool {
	m, _ := v.minimized.Get(courseID)
	return m
}

// Delete deletes a course. Its keyed state is dropped by the purge hook once the server confirms.
func (v *CoursesView) Delete(ctx context.Context, courseID models.ID) error {
	return v.store.DeleteCourse(ctx, courseID)
}

// Render writes the course list as text.
func (v *CoursesView) Render(w io.Writer) error {
	courses := v.store.Courses()
	if len(courses) == 0 {
		_, err := fmt.Fprintln(w, "No courses yet.")
		return err
	}

	for i, c := range courses {
		if _, err := fmt.Fprintf(w, "[%d] %s (%s)\n    Total Study Hours: %g\n", i, c.Name, c.CourseLink, c.StudyHours); err != nil {
			return err
		}
		if v.Minimized(c.ID) {
			if _, err := fmt.Fprintf(w, "    %d assignments hidden\n", len(c.Assignments)); err != nil {
				return err
			}
			continue
		}
		for j, a := range c.Assignments {
			mark := " "
			if a.IsCompleted {
				mark = "x"
			}
			if _, err := fmt.Fprintf(w, "    %d. [%s] %s  Due: %s\n", j, mark, a.Name, a.DueDate); err != nil {
				return err
			}
		}
	}
	return nil
}

func (v *CoursesView) purge(id models.ID) {
	v.inputs.Delete(id)
	v.minimized.Delete(id)

	v.lock.Lock()
	defer v.lock.Unlock()
	if v.editing == id {
		v.resetForm()
	}
}

// resetForm clears the form. Callers hold the lock.
func (v *CoursesView) resetForm() {
	v.name, v.courseLink = "", ""
	v.editing = ""
}
