package view

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"

	"studytrack/internal/logger"
	"studytrack/internal/models"
	"studytrack/internal/projection"
)

// DefaultPollInterval is how often the calendar re-fetches courses when nothing signals a change.
const DefaultPollInterval = 2 * time.Second

// Fetcher loads the full course list. The remote client satisfies it.
type Fetcher interface {
	ListCourses(ctx context.Context) ([]models.Course, error)
}

// Watcher reports changes made elsewhere. The change signal satisfies it.
type Watcher interface {
	Watch(ctx context.Context) (<-chan struct{}, error)
}

// CalendarView shows assignments by due date. It keeps its own projection, fetched from the
// remote, and refreshes it on a fixed interval and whenever the watcher fires.
type CalendarView struct {
	fetcher  Fetcher
	watcher  Watcher
	log      logger.Logger
	interval time.Duration
	nowFunc  func() time.Time

	lock     sync.RWMutex
	items    []models.CalendarAssignment
	selected time.Time
	onChange func([]models.CalendarAssignment)

	cancel context.CancelFunc
	done   chan struct{}
}

// NewCalendarView creates a calendar with today selected. watcher may be nil, leaving only polling.
func NewCalendarView(fetcher Fetcher, watcher Watcher, interval time.Duration, log logger.Logger) *CalendarView {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if log == nil {
		log = logger.GlogLogger{}
	}
	return &CalendarView{
		fetcher:  fetcher,
		watcher:  watcher,
		log:      log,
		interval: interval,
		nowFunc:  time.Now,
		items:    []models.CalendarAssignment{},
		selected: time.Now(),
	}
}

// OnChange registers fn to run with the new projection whenever a refresh replaces it.
func (c *CalendarView) OnChange(fn func([]models.CalendarAssignment)) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.onChange = fn
}

// Refresh re-fetches all courses and replaces the projection if it differs from the shown one.
func (c *CalendarView) Refresh(ctx context.Context) (changed bool, err error) {
	courses, err := c.fetcher.ListCourses(ctx)
	if err != nil {
		return false, errors.Wrap(err, "refreshing calendar")
	}
	items := projection.Calendar(courses)

	c.lock.Lock()
	if projection.Equal(c.items, items) {
		c.lock.Unlock()
		return false, nil
	}
	c.items = items
	onChange := c.onChange
	c.lock.Unlock()

	if onChange != nil {
		onChange(items)
	}
	return true, nil
}

// Start loads the calendar and keeps it fresh until Stop is called or ctx is done.
func (c *CalendarView) Start(ctx context.Context) error {
	c.lock.Lock()
	if c.cancel != nil {
		c.lock.Unlock()
		return errors.New("calendar view already started")
	}
	ctx, cancel := context.WithCancel(ctx)

	var changes <-chan struct{}
	if c.watcher != nil {
		var err error
		if changes, err = c.watcher.Watch(ctx); err != nil {
			c.lock.Unlock()
			cancel()
			return errors.Wrap(err, "watching for changes")
		}
	}
	done := make(chan struct{})
	c.cancel, c.done = cancel, done
	c.lock.Unlock()

	if _, err := c.Refresh(ctx); err != nil {
		c.log.Error("error loading calendar", err)
	}

	go c.run(ctx, changes, done)
	return nil
}

func (c *CalendarView) run(ctx context.Context, changes <-chan struct{}, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case _, ok := <-changes:
			if !ok {
				// The watcher is gone; keep polling.
				changes = nil
				continue
			}
		}
		if _, err := c.Refresh(ctx); err != nil && ctx.Err() == nil {
			c.log.Error("error refreshing calendar", err)
		}
	}
}

// Stop ends the refresh loop and waits for it to exit. It is safe to call more than once.
func (c *CalendarView) Stop() {
	c.lock.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.lock.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Items returns the current projection.
func (c *CalendarView) Items() []models.CalendarAssignment {
	c.lock.RLock()
	defer c.lock.RUnlock()
	out := make([]models.CalendarAssignment, len(c.items))
	copy(out, c.items)
	return out
}

func (c *CalendarView) SetDate(day time.Time) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.selected = day
}

func (c *CalendarView) Date() time.Time {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.selected
}

// Selected returns the assignments due on the selected date.
func (c *CalendarView) Selected() []models.CalendarAssignment {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return projection.OnDate(c.items, c.selected)
}

// Tile classifies a day of the calendar.
func (c *CalendarView) Tile(day time.Time) projection.TileState {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return projection.Tile(c.items, day, c.nowFunc())
}

var tileMarks = map[projection.TileState]string{
	projection.TileEmpty:     " ",
	projection.TilePending:   "*",
	projection.TileCompleted: "+",
	projection.TileToday:     "@",
}

// Render writes the month of the selected date as a grid, followed by the selected day's assignments.
func (c *CalendarView) Render(w io.Writer) error {
	selected := c.Date()
	first := time.Date(selected.Year(), selected.Month(), 1, 0, 0, 0, 0, selected.Location())

	if _, err := fmt.Fprintf(w, "%s %d\nSu  Mo  Tu  We  Th  Fr  Sa\n", first.Month(), first.Year()); err != nil {
		return err
	}
	for i := 0; i < int(first.Weekday()); i++ {
		if _, err := io.WriteString(w, "    "); err != nil {
			return err
		}
	}
	for day := first; day.Month() == first.Month(); day = day.AddDate(0, 0, 1) {
		if _, err := fmt.Fprintf(w, "%2d%s ", day.Day(), tileMarks[c.Tile(day)]); err != nil {
			return err
		}
		if day.Weekday() == time.Saturday {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
	}

	if _, err := fmt.Fprintf(w, "\n\nAssignments due %s:\n", projection.FormatDate(selected)); err != nil {
		return err
	}
	due := c.Selected()
	if len(due) == 0 {
		_, err := fmt.Fprintln(w, "  No assignments due on this date.")
		return err
	}
	for _, a := range due {
		status := "pending"
		if a.IsCompleted {
			status = "completed"
		}
		if _, err := fmt.Fprintf(w, "  %s (%s) - %s\n", a.Name, a.CourseName, status); err != nil {
			return err
		}
	}
	return nil
}
