package projection

import (
	"reflect"
	"testing"
	"time"

	"studytrack/internal/models"
)

func createCourses() []models.Course {
	return []models.Course{
		{
			ID: "1", Name: "Math", StudyHours: 2,
			Assignments: []models.Assignment{
				{ID: "1", Name: "HW1", DueDate: "2024-01-10", CourseID: "1"},
				{ID: "2", Name: "HW2", DueDate: "2024-03-05", IsCompleted: true, CourseID: "1"},
			},
		},
		{
			ID: "2", Name: "Physics", StudyHours: 5,
			Assignments: []models.Assignment{
				{ID: "3", Name: "Lab1", DueDate: "2024-01-10", IsCompleted: true, CourseID: "2"},
			},
		},
		{ID: "3", Name: "History", StudyHours: 10, Assignments: []models.Assignment{}},
	}
}

func TestCalendarFlattens(t *testing.T) {
	items := Calendar(createCourses())

	expected := []models.CalendarAssignment{
		{ID: "1", Name: "HW1", DueDate: "2024-01-10", CourseName: "Math", CourseID: "1"},
		{ID: "2", Name: "HW2", DueDate: "2024-03-05", IsCompleted: true, CourseName: "Math", CourseID: "1"},
		{ID: "3", Name: "Lab1", DueDate: "2024-01-10", IsCompleted: true, CourseName: "Physics", CourseID: "2"},
	}
	if !reflect.DeepEqual(items, expected) {
		t.Errorf("Expected calendar to be %v, got %v", expected, items)
	}
}

func TestCalendarSeqRestartable(t *testing.T) {
	seq := CalendarSeq(createCourses())

	count := func() int {
		n := 0
		for range seq {
			n++
		}
		return n
	}
	if first, second := count(), count(); first != 3 || second != 3 {
		t.Errorf("Expected 3 items on both passes, got %d and %d", first, second)
	}

	// Stopping early must not break later passes.
	for range seq {
		break
	}
	if n := count(); n != 3 {
		t.Errorf("Expected 3 items after an early break, got %d", n)
	}
}

func TestCalendarIdempotent(t *testing.T) {
	courses := createCourses()
	if !Equal(Calendar(courses), Calendar(courses)) {
		t.Errorf("Expected two projections of the same list to be equal")
	}

	changed := createCourses()
	changed[0].Assignments[0].IsCompleted = true
	if Equal(Calendar(courses), Calendar(changed)) {
		t.Errorf("Expected projections to differ after a completion change")
	}

	if !Equal(nil, Calendar(nil)) {
		t.Errorf("Expected nil and empty projections to be equal")
	}
}

func TestFormatDateUsesCalendarFields(t *testing.T) {
	// Late evening west of UTC is already the next day in UTC; the local date must win.
	west := time.FixedZone("UTC-8", -8*60*60)
	east := time.FixedZone("UTC+13", 13*60*60)

	tests := []struct {
		name string
		date time.Time
		want string
	}{
		{name: "west late evening", date: time.Date(2024, 3, 5, 23, 30, 0, 0, west), want: "2024-03-05"},
		{name: "east early morning", date: time.Date(2024, 3, 5, 0, 15, 0, 0, east), want: "2024-03-05"},
		{name: "padding", date: time.Date(987, 1, 2, 12, 0, 0, 0, time.UTC), want: "0987-01-02"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDate(tt.date); got != tt.want {
				t.Errorf("FormatDate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOnDateExactMatch(t *testing.T) {
	items := Calendar(createCourses())
	west := time.FixedZone("UTC-8", -8*60*60)

	due := OnDate(items, time.Date(2024, 3, 5, 23, 59, 0, 0, west))
	if len(due) != 1 || due[0].Name != "HW2" {
		t.Errorf("Expected only HW2 on 2024-03-05, got %v", due)
	}
	if due := OnDate(items, time.Date(2024, 3, 6, 0, 0, 0, 0, west)); len(due) != 0 {
		t.Errorf("Expected nothing on 2024-03-06, got %v", due)
	}
	if due := DueOn(items, "2024-01-10"); len(due) != 2 {
		t.Errorf("Expected 2 assignments on 2024-01-10, got %d", len(due))
	}
}

func TestTile(t *testing.T) {
	items := Calendar(createCourses())
	today := time.Date(2024, 3, 5, 9, 0, 0, 0, time.Local)

	tests := []struct {
		name string
		date time.Time
		want TileState
	}{
		{name: "today wins over completed", date: time.Date(2024, 3, 5, 18, 0, 0, 0, time.Local), want: TileToday},
		{name: "mixed day is pending", date: time.Date(2024, 1, 10, 0, 0, 0, 0, time.Local), want: TilePending},
		{name: "empty day", date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.Local), want: TileEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Tile(items, tt.date, today); got != tt.want {
				t.Errorf("Tile() = %v, want %v", got, tt.want)
			}
		})
	}

	otherToday := time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local)
	if got := Tile(items, time.Date(2024, 3, 5, 0, 0, 0, 0, time.Local), otherToday); got != TileCompleted {
		t.Errorf("Expected a fully completed day to be %v, got %v", TileCompleted, got)
	}
}

func approximatelyEqual(a float64, b float64) bool {
	d := a - b
	return d < 0.00001 && d > -0.00001
}

func TestSummarize(t *testing.T) {
	summary := Summarize(createCourses())

	if summary.NumCourses != 3 {
		t.Errorf("Expected 3 courses, got %d", summary.NumCourses)
	}
	if summary.NumAssignments != 3 || summary.NumCompletedAssignments != 2 {
		t.Errorf("Expected 2 of 3 assignments completed, got %d of %d", summary.NumCompletedAssignments, summary.NumAssignments)
	}
	if !approximatelyEqual(summary.TotalStudyHours, 17) {
		t.Errorf("Expected 17 total hours, got %f", summary.TotalStudyHours)
	}
}

func TestCalculatePercentiles(t *testing.T) {
	basicPercentiles := CalculatePercentiles([]float64{10, 2, 5})
	expected := models.Percentiles{P50: 5, P90: 9, P99: 9.9}

	if !approximatelyEqual(basicPercentiles.P50, expected.P50) {
		t.Errorf("Expected P50 to be %f, got %f", expected.P50, basicPercentiles.P50)
	}
	if !approximatelyEqual(basicPercentiles.P90, expected.P90) {
		t.Errorf("Expected P90 to be %f, got %f", expected.P90, basicPercentiles.P90)
	}
	if !approximatelyEqual(basicPercentiles.P99, expected.P99) {
		t.Errorf("Expected P99 to be %f, got %f", expected.P99, basicPercentiles.P99)
	}

	if got := CalculatePercentiles(nil); got != (models.Percentiles{}) {
		t.Errorf("Expected zero percentiles for no data, got %v", got)
	}
}
