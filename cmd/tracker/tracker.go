package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"studytrack/internal/models"
	"studytrack/internal/projection"
	"studytrack/internal/view"
)

// clearScreen moves the cursor home and clears the terminal.
const clearScreen = "\033[H\033[2J"

func (cli *commandLine) courseAt(ctx context.Context, index int) (models.Course, error) {
	if err := cli.store.Load(ctx); err != nil {
		return models.Course{}, err
	}
	course, err := cli.store.CourseAt(index)
	if err != nil {
		return models.Course{}, fmt.Errorf("no course at index %d", index)
	}
	return course, nil
}

func (cli *commandLine) assignmentAt(ctx context.Context, index, assignment int) (models.Assignment, error) {
	course, err := cli.courseAt(ctx, index)
	if err != nil {
		return models.Assignment{}, err
	}
	if assignment < 0 || assignment >= len(course.Assignments) {
		return models.Assignment{}, fmt.Errorf("no assignment at index %d in %s", assignment, course.Name)
	}
	return course.Assignments[assignment], nil
}

func (cli *commandLine) editCourse(ctx context.Context, index int, name, link string) error {
	if err := cli.store.Load(ctx); err != nil {
		return err
	}
	if err := cli.courses.StartEdit(index); err != nil {
		return fmt.Errorf("no course at index %d", index)
	}
	current, currentLink := cli.courses.Form()
	if name == "" {
		name = current
	}
	if link == "" {
		link = currentLink
	}
	cli.courses.SetForm(name, link)
	return cli.courses.Submit(ctx)
}

func (cli *commandLine) newCalendar(date string) (*view.CalendarView, error) {
	cal := view.NewCalendarView(cli.remote, cli.watcher, cli.interval, cli.log)
	if date != "" {
		day, err := time.ParseInLocation("2006-01-02", date, time.Local)
		if err != nil {
			return nil, fmt.Errorf("date must be formatted YYYY-MM-DD (got '%s')", date)
		}
		cal.SetDate(day)
	}
	return cal, nil
}

// watch keeps the calendar on screen until ctx is done, redrawing whenever its projection changes.
func (cli *commandLine) watch(ctx context.Context, date string) error {
	cal, err := cli.newCalendar(date)
	if err != nil {
		return err
	}

	redraws := make(chan struct{}, 1)
	cal.OnChange(func([]models.CalendarAssignment) {
		select {
		case redraws <- struct{}{}:
		default:
		}
	})

	if err := cal.Start(ctx); err != nil {
		return err
	}
	defer cal.Stop()

	// Draw once even if the first load matched the empty projection and fired nothing.
	select {
	case redraws <- struct{}{}:
	default:
	}

	redraw := isTerminalFunc()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-redraws:
			if redraw {
				_, _ = io.WriteString(cli.out, clearScreen)
			}
			_ = cli.boundary.Render("calendar", cal.Render)
		}
	}
}

func (cli *commandLine) renderStats(w io.Writer) error {
	summary := projection.Summarize(cli.store.Courses())
	_, err := fmt.Fprintf(w,
		"Courses: %d\nAssignments: %d (%d completed)\nTotal Study Hours: %g\nStudy Hours P50: %g  P90: %g  P99: %g\n",
		summary.NumCourses,
		summary.NumAssignments,
		summary.NumCompletedAssignments,
		summary.TotalStudyHours,
		summary.StudyHours.P50,
		summary.StudyHours.P90,
		summary.StudyHours.P99,
	)
	return err
}
