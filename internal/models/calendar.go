package models

// CalendarAssignment is an assignment flattened out of its course for calendar lookup.
type CalendarAssignment struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	DueDate     string `json:"dueDate"`
	IsCompleted bool   `json:"isCompleted"`
	CourseName  string `json:"courseName"`
	CourseID    ID     `json:"courseId"`
}

// Percentiles of a distribution, linearly interpolated.
type Percentiles struct {
	P50 float64 `json:"p50"`
	P90 float64 `json:"p90"`
	P99 float64 `json:"p99"`
}

// Summary aggregates a course list for the stats screen.
type Summary struct {
	NumCourses              int         `json:"numCourses"`
	NumAssignments          int         `json:"numAssignments"`
	NumCompletedAssignments int         `json:"numCompletedAssignments"`
	TotalStudyHours         float64     `json:"totalStudyHours"`
	StudyHours              Percentiles `json:"studyHours"`
}
