package models

const (
	FirestoreCoursesCollection     = "courses"
	FirestoreAssignmentsCollection = "assignments"
)

type Course struct {
	ID          ID           `json:"id,omitempty" mapstructure:"id"`
	Name        string       `json:"name" mapstructure:"name"`
	CourseLink  string       `json:"course_link" mapstructure:"course_link"`
	StudyHours  float64      `json:"study_hours" mapstructure:"study_hours"`
	Assignments []Assignment `json:"assignments" mapstructure:"-"`
}

// Clone returns a deep copy of the course, including its assignment sequence.
func (c Course) Clone() Course {
	out := c
	out.Assignments = make([]Assignment, len(c.Assignments))
	copy(out.Assignments, c.Assignments)
	return out
}

// AssignmentIndex returns the position of the assignment with the given ID, or -1.
func (c Course) AssignmentIndex(id ID) int {
	for i, a := range c.Assignments {
		if a.ID == id {
			return i
		}
	}
	return -1
}

type Assignment struct {
	ID          ID     `json:"id,omitempty" mapstructure:"id"`
	Name        string `json:"name" mapstructure:"name"`
	DueDate     string `json:"due_date" mapstructure:"due_date"`
	IsCompleted bool   `json:"is_completed" mapstructure:"is_completed"`
	CourseID    ID     `json:"course_id,omitempty" mapstructure:"course_id"`
}

// CreateCourseRequest is the parameter struct for the CreateCourse function.
type CreateCourseRequest struct {
	Name       string `json:"name" validate:"required"`
	CourseLink string `json:"course_link" validate:"required"`
}

// EditCourseRequest is the parameter struct for the EditCourse function. Empty fields keep
// the course's current value.
type EditCourseRequest struct {
	CourseID   ID     `json:"-"`
	Name       string `json:"name"`
	CourseLink string `json:"course_link"`
}

// CreateAssignmentRequest is the parameter struct for the CreateAssignment function.
type CreateAssignmentRequest struct {
	CourseID ID     `json:"course_id"`
	Name     string `json:"name" validate:"required"`
	DueDate  string `json:"due_date" validate:"required,datetime=2006-01-02"`
}

// AssignmentPatch is a partial assignment update. Only non-nil fields are sent.
type AssignmentPatch struct {
	Name        *string `json:"name,omitempty" mapstructure:"name,omitempty"`
	DueDate     *string `json:"due_date,omitempty" mapstructure:"due_date,omitempty"`
	IsCompleted *bool   `json:"is_completed,omitempty" mapstructure:"is_completed,omitempty"`
}

// Apply copies the patch's set fields onto a.
func (p AssignmentPatch) Apply(a *Assignment) {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.DueDate != nil {
		a.DueDate = *p.DueDate
	}
	if p.IsCompleted != nil {
		a.IsCompleted = *p.IsCompleted
	}
}
