package projection

import (
	"sort"

	"studytrack/internal/models"
)

// Summarize aggregates study hours and assignment completion across courses.
func Summarize(courses []models.Course) *models.Summary {
	summary := &models.Summary{NumCourses: len(courses)}

	hours := make([]float64, 0, len(courses))
	for _, c := range courses {
		summary.TotalStudyHours += c.StudyHours
		hours = append(hours, c.StudyHours)
		for _, a := range c.Assignments {
			summary.NumAssignments++
			if a.IsCompleted {
				summary.NumCompletedAssignments++
			}
		}
	}
	summary.StudyHours = CalculatePercentiles(hours)

	return summary
}

func CalculatePercentiles(data []float64) models.Percentiles {
	if len(data) == 0 {
		return models.Percentiles{}
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	calculatePercentile := func(percentile float64) float64 {
		rank := percentile / 100 * float64(len(sorted)-1)
		rankInt := int(rank)

		// If the rank is an integer, return the value at that index
		if rank == float64(rankInt) {
			return sorted[rankInt]
		}

		// Otherwise, linearly interpolate
		baseline := sorted[rankInt]
		interpolation := (rank - float64(rankInt)) * (sorted[rankInt+1] - sorted[rankInt])

		return baseline + interpolation
	}

	return models.Percentiles{
		P50: calculatePercentile(50),
		P90: calculatePercentile(90),
		P99: calculatePercentile(99),
	}
}
