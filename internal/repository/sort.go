package repository

import (
	"sort"

	"studytrack/internal/models"
)

// Firestore hands back documents keyed by random IDs; order by name then ID so listings are stable.

func sortCourses(courses []models.Course) {
	sort.SliceStable(courses, func(i, j int) bool {
		if courses[i].Name != courses[j].Name {
			return courses[i].Name < courses[j].Name
		}
		return courses[i].ID < courses[j].ID
	})
}

func sortAssignments(assignments []models.Assignment) {
	sort.SliceStable(assignments, func(i, j int) bool {
		if assignments[i].DueDate != assignments[j].DueDate {
			return assignments[i].DueDate < assignments[j].DueDate
		}
		return assignments[i].ID < assignments[j].ID
	})
}
