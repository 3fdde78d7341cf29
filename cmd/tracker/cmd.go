package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"studytrack/internal/client"
	"studytrack/internal/logger"
	"studytrack/internal/store"
	"studytrack/internal/view"
)

var (
	isTerminalFunc = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) } // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	store    *store.Store
	remote   *client.Client
	watcher  view.Watcher
	interval time.Duration
	log      logger.Logger
	out      io.Writer

	courses  *view.CoursesView
	boundary *view.Boundary
}

func newCommandLine(s *store.Store, remote *client.Client, watcher view.Watcher, interval time.Duration, log logger.Logger, out io.Writer) *commandLine {
	return &commandLine{
		store:    s,
		remote:   remote,
		watcher:  watcher,
		interval: interval,
		log:      log,
		out:      out,
		courses:  view.NewCoursesView(s),
		boundary: view.NewBoundary(out, log),
	}
}

func (cli *commandLine) close() {
	cli.courses.Close()
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  list - list courses and their assignments")
	fmt.Fprintln(cli.out, "  add-course -name NAME -link URL - add a course")
	fmt.Fprintln(cli.out, "  edit-course -index N [-name NAME] [-link URL] - edit a course")
	fmt.Fprintln(cli.out, "  delete-course -index N - delete a course and its assignments")
	fmt.Fprintln(cli.out, "  hours -index N -delta D - change a course's study hours (never below 0)")
	fmt.Fprintln(cli.out, "  add-assignment -index N -name NAME -due YYYY-MM-DD - add an assignment to a course")
	fmt.Fprintln(cli.out, "  toggle -index N -assignment M - mark an assignment done or not done")
	fmt.Fprintln(cli.out, "  delete-assignment -index N -assignment M - delete an assignment")
	fmt.Fprintln(cli.out, "  calendar [-date YYYY-MM-DD] - show the month and the assignments due on a date")
	fmt.Fprintln(cli.out, "  watch [-date YYYY-MM-DD] - keep the calendar on screen and refresh it as data changes")
	fmt.Fprintln(cli.out, "  stats - show totals and study-hour percentiles")
}

func (cli *commandLine) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	listCmd := cli.flagSet("list")

	addCourseCmd := cli.flagSet("add-course")
	addCourseName := addCourseCmd.String("name", "", "The course name.")
	addCourseLink := addCourseCmd.String("link", "", "The course website.")

	editCourseCmd := cli.flagSet("edit-course")
	editCourseIndex := editCourseCmd.Int("index", -1, "The course's position in the list.")
	editCourseName := editCourseCmd.String("name", "", "The new course name.")
	editCourseLink := editCourseCmd.String("link", "", "The new course website.")

	deleteCourseCmd := cli.flagSet("delete-course")
	deleteCourseIndex := deleteCourseCmd.Int("index", -1, "The course's position in the list.")

	hoursCmd := cli.flagSet("hours")
	hoursIndex := hoursCmd.Int("index", -1, "The course's position in the list.")
	hoursDelta := hoursCmd.Float64("delta", 0, "Hours to add, negative to subtract.")

	addAssignmentCmd := cli.flagSet("add-assignment")
	addAssignmentIndex := addAssignmentCmd.Int("index", -1, "The course's position in the list.")
	addAssignmentName := addAssignmentCmd.String("name", "", "The assignment name.")
	addAssignmentDue := addAssignmentCmd.String("due", "", "The due date, YYYY-MM-DD.")

	toggleCmd := cli.flagSet("toggle")
	toggleIndex := toggleCmd.Int("index", -1, "The course's position in the list.")
	toggleAssignment := toggleCmd.Int("assignment", -1, "The assignment's position in the course.")

	deleteAssignmentCmd := cli.flagSet("delete-assignment")
	deleteAssignmentIndex := deleteAssignmentCmd.Int("index", -1, "The course's position in the list.")
	deleteAssignmentAssignment := deleteAssignmentCmd.Int("assignment", -1, "The assignment's position in the course.")

	calendarCmd := cli.flagSet("calendar")
	calendarDate := calendarCmd.String("date", "", "The selected date, YYYY-MM-DD. Defaults to today.")

	watchCmd := cli.flagSet("watch")
	watchDate := watchCmd.String("date", "", "The selected date, YYYY-MM-DD. Defaults to today.")

	statsCmd := cli.flagSet("stats")

	switch args[1] {
	case "list":
		if err := listCmd.Parse(args[2:]); err != nil {
			return err
		}
		if err := cli.store.Load(ctx); err != nil {
			return err
		}
		return cli.boundary.Render("courses", cli.courses.Render)
	case "add-course":
		if err := addCourseCmd.Parse(args[2:]); err != nil {
			return err
		}
		if err := cli.store.Load(ctx); err != nil {
			return err
		}
		cli.courses.SetForm(*addCourseName, *addCourseLink)
		return cli.courses.Submit(ctx)
	case "edit-course":
		if err := editCourseCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *editCourseIndex < 0 {
			editCourseCmd.Usage()
			return errHelp
		}
		return cli.editCourse(ctx, *editCourseIndex, *editCourseName, *editCourseLink)
	case "delete-course":
		if err := deleteCourseCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *deleteCourseIndex < 0 {
			deleteCourseCmd.Usage()
			return errHelp
		}
		course, err := cli.courseAt(ctx, *deleteCourseIndex)
		if err != nil {
			return err
		}
		return cli.courses.Delete(ctx, course.ID)
	case "hours":
		if err := hoursCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *hoursIndex < 0 || *hoursDelta == 0 {
			hoursCmd.Usage()
			return errHelp
		}
		course, err := cli.courseAt(ctx, *hoursIndex)
		if err != nil {
			return err
		}
		return cli.store.ChangeStudyHours(ctx, course.ID, *hoursDelta)
	case "add-assignment":
		if err := addAssignmentCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addAssignmentIndex < 0 {
			addAssignmentCmd.Usage()
			return errHelp
		}
		course, err := cli.courseAt(ctx, *addAssignmentIndex)
		if err != nil {
			return err
		}
		cli.courses.SetAssignmentInput(course.ID, *addAssignmentName, *addAssignmentDue)
		return cli.courses.SubmitAssignment(ctx, course.ID)
	case "toggle":
		if err := toggleCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *toggleIndex < 0 || *toggleAssignment < 0 {
			toggleCmd.Usage()
			return errHelp
		}
		a, err := cli.assignmentAt(ctx, *toggleIndex, *toggleAssignment)
		if err != nil {
			return err
		}
		return cli.store.ToggleAssignmentCompletion(ctx, a.ID)
	case "delete-assignment":
		if err := deleteAssignmentCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *deleteAssignmentIndex < 0 || *deleteAssignmentAssignment < 0 {
			deleteAssignmentCmd.Usage()
			return errHelp
		}
		a, err := cli.assignmentAt(ctx, *deleteAssignmentIndex, *deleteAssignmentAssignment)
		if err != nil {
			return err
		}
		return cli.store.DeleteAssignment(ctx, a.ID)
	case "calendar":
		if err := calendarCmd.Parse(args[2:]); err != nil {
			return err
		}
		cal, err := cli.newCalendar(*calendarDate)
		if err != nil {
			return err
		}
		if _, err := cal.Refresh(ctx); err != nil {
			return err
		}
		return cli.boundary.Render("calendar", cal.Render)
	case "watch":
		if err := watchCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.watch(ctx, *watchDate)
	case "stats":
		if err := statsCmd.Parse(args[2:]); err != nil {
			return err
		}
		if err := cli.store.Load(ctx); err != nil {
			return err
		}
		return cli.boundary.Render("stats", cli.renderStats)
	default:
		cli.printUsage()
		return errHelp
	}
}
