// Package projection holds pure transforms from the canonical course list to the shapes each
// view displays. Nothing here mutates its input.
package projection

import (
	"fmt"
	"iter"
	"reflect"
	"time"

	"studytrack/internal/models"
)

// TileState classifies a calendar day.
type TileState int

const (
	TileEmpty TileState = iota
	TilePending
	TileCompleted
	TileToday
)

func (s TileState) String() string {
	switch s {
	case TileToday:
		return "today"
	case TileCompleted:
		return "completed"
	case TilePending:
		return "pending"
	default:
		return "empty"
	}
}

// CalendarSeq flattens every course's assignments into one sequence. Ranging over it again
// starts from the beginning.
func CalendarSeq(courses []models.Course) iter.Seq[models.CalendarAssignment] {
	return func(yield func(models.CalendarAssignment) bool) {
		for _, c := range courses {
			for _, a := range c.Assignments {
				item := models.CalendarAssignment{
					ID:          a.ID,
					Name:        a.Name,
					DueDate:     a.DueDate,
					IsCompleted: a.IsCompleted,
					CourseName:  c.Name,
					CourseID:    c.ID,
				}
				if !yield(item) {
					return
				}
			}
		}
	}
}

// Calendar materializes CalendarSeq. An empty course list yields an empty, non-nil slice.
func Calendar(courses []models.Course) []models.CalendarAssignment {
	items := []models.CalendarAssignment{}
	for item := range CalendarSeq(courses) {
		items = append(items, item)
	}
	return items
}

// FormatDate renders t as YYYY-MM-DD from its own calendar fields, so the day shown is the day
// the caller picked regardless of time zone.
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// OnDate returns the items due on the given date. Matching is exact string equality on due_date.
func OnDate(items []models.CalendarAssignment, date time.Time) []models.CalendarAssignment {
	return DueOn(items, FormatDate(date))
}

// DueOn filters items by an already formatted YYYY-MM-DD day.
func DueOn(items []models.CalendarAssignment, day string) []models.CalendarAssignment {
	out := []models.CalendarAssignment{}
	for _, item := range items {
		if item.DueDate == day {
			out = append(out, item)
		}
	}
	return out
}

// SameDay compares calendar fields only.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// Tile classifies date. Today wins over everything, then a day whose assignments are all
// complete, then a day with anything still open.
func Tile(items []models.CalendarAssignment, date, today time.Time) TileState {
	if SameDay(date, today) {
		return TileToday
	}

	due := OnDate(items, date)
	if len(due) == 0 {
		return TileEmpty
	}
	for _, item := range due {
		if !item.IsCompleted {
			return TilePending
		}
	}
	return TileCompleted
}

// Equal reports whether two projections are structurally identical.
func Equal(a, b []models.CalendarAssignment) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}
