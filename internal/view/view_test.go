package view

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studytrack/internal/client"
	"studytrack/internal/models"
	"studytrack/internal/projection"
	"studytrack/internal/qerrors"
	"studytrack/internal/repository"
	"studytrack/internal/server"
	"studytrack/internal/signal"
	"studytrack/internal/store"
)

type nopLogger struct {
	errors int32
}

func (l *nopLogger) Info(msg string, args ...interface{}) {}
func (l *nopLogger) Warn(msg string, args ...interface{}) {}
func (l *nopLogger) Error(msg string, args ...interface{}) {
	atomic.AddInt32(&l.errors, 1)
}

// newBackend starts the reference backend with Math/HW1 and returns a client for it.
func newBackend(t *testing.T) *client.Client {
	repo := repository.NewMemoryRepository()
	course, err := repo.CreateCourse(models.Course{Name: "Math", CourseLink: "https://math.example.com", StudyHours: 2})
	require.NoError(t, err)
	_, err = repo.CreateAssignment(course.ID, models.Assignment{Name: "HW1", DueDate: "2024-01-10"})
	require.NoError(t, err)

	ts := httptest.NewServer(server.Routes(repo))
	t.Cleanup(ts.Close)
	return client.New(ts.URL, time.Second, nil)
}

func newStore(t *testing.T, c *client.Client, n store.Notifier) *store.Store {
	s := store.New(c, n, &nopLogger{})
	require.NoError(t, s.Load(context.Background()))
	return s
}

func TestKeyed(t *testing.T) {
	k := NewKeyed[int]()
	k.Set("1", 3)
	assert.Equal(t, 4, k.Update("1", func(v int) int { return v + 1 }))
	assert.Equal(t, 1, k.Update("2", func(v int) int { return v + 1 }))

	v, ok := k.Get("1")
	assert.True(t, ok)
	assert.Equal(t, 4, v)

	k.Delete("1")
	k.Delete("missing")
	assert.False(t, k.Has("1"))
	assert.Equal(t, 1, k.Len())
}

func TestCoursesViewSubmitAddsAndEdits(t *testing.T) {
	s := newStore(t, newBackend(t), nil)
	v := NewCoursesView(s)
	defer v.Close()
	ctx := context.Background()

	v.SetForm("Physics", "")
	require.Error(t, v.Submit(ctx))
	name, _ := v.Form()
	assert.Equal(t, "Physics", name, "a rejected form keeps its input")
	assert.Len(t, s.Courses(), 1)

	v.SetForm("Physics", "https://physics.example.com")
	require.NoError(t, v.Submit(ctx))
	courses := s.Courses()
	require.Len(t, courses, 2)
	assert.Equal(t, "Physics", courses[1].Name)
	name, link := v.Form()
	assert.Empty(t, name)
	assert.Empty(t, link)

	require.NoError(t, v.StartEdit(1))
	assert.Equal(t, 1, v.Editing())
	name, link = v.Form()
	assert.Equal(t, "Physics", name)
	assert.Equal(t, "https://physics.example.com", link)

	v.SetForm("Physics II", link)
	require.NoError(t, v.Submit(ctx))
	assert.Equal(t, -1, v.Editing())
	course, err := s.CourseAt(1)
	require.NoError(t, err)
	assert.Equal(t, "Physics II", course.Name)

	require.NoError(t, v.StartEdit(0))
	v.CancelEdit()
	assert.Equal(t, -1, v.Editing())
	assert.Error(t, v.StartEdit(7))
}

func TestCoursesViewSubmitAssignment(t *testing.T) {
	s := newStore(t, newBackend(t), nil)
	v := NewCoursesView(s)
	defer v.Close()
	ctx := context.Background()

	math := s.Courses()[0]
	v.SetAssignmentInput(math.ID, "HW2", "")
	require.Error(t, v.SubmitAssignment(ctx, math.ID))
	assert.Equal(t, AssignmentInput{Name: "HW2"}, v.AssignmentInput(math.ID))

	v.SetAssignmentInput(math.ID, "HW2", "2024-01-17")
	require.NoError(t, v.SubmitAssignment(ctx, math.ID))
	assert.Equal(t, AssignmentInput{}, v.AssignmentInput(math.ID))

	course, err := s.Course(math.ID)
	require.NoError(t, err)
	require.Len(t, course.Assignments, 2)
	assert.Equal(t, "HW2", course.Assignments[1].Name)
}

func TestCoursesViewDeletePurgesKeyedState(t *testing.T) {
	s := newStore(t, newBackend(t), nil)
	v := NewCoursesView(s)
	defer v.Close()
	ctx := context.Background()

	math := s.Courses()[0]
	v.SetAssignmentInput(math.ID, "HW2", "2024-01-17")
	assert.True(t, v.ToggleMinimized(math.ID))
	require.NoError(t, v.StartEdit(0))

	require.NoError(t, v.Delete(ctx, math.ID))
	assert.Empty(t, s.Courses())
	assert.False(t, v.inputs.Has(math.ID))
	assert.False(t, v.minimized.Has(math.ID))
	assert.Equal(t, -1, v.Editing())
	assert.Empty(t, projection.Calendar(s.Courses()))
}

func TestCoursesViewRender(t *testing.T) {
	s := newStore(t, newBackend(t), nil)
	v := NewCoursesView(s)
	defer v.Close()

	var buf bytes.Buffer
	require.NoError(t, v.Render(&buf))
	assert.Contains(t, buf.String(), "[0] Math (https://math.example.com)")
	assert.Contains(t, buf.String(), "[ ] HW1  Due: 2024-01-10")

	v.ToggleMinimized(s.Courses()[0].ID)
	buf.Reset()
	require.NoError(t, v.Render(&buf))
	assert.Contains(t, buf.String(), "1 assignments hidden")
}

func TestCalendarViewRefreshDetectsChanges(t *testing.T) {
	c := newBackend(t)
	s := newStore(t, c, nil)
	cal := NewCalendarView(c, nil, time.Hour, &nopLogger{})
	ctx := context.Background()

	var changes int32
	cal.OnChange(func([]models.CalendarAssignment) { atomic.AddInt32(&changes, 1) })

	changed, err := cal.Refresh(ctx)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = cal.Refresh(ctx)
	require.NoError(t, err)
	assert.False(t, changed, "an unchanged course list should not replace the projection")

	hw1 := s.Courses()[0].Assignments[0]
	require.NoError(t, s.ToggleAssignmentCompletion(ctx, hw1.ID))

	changed, err = cal.Refresh(ctx)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, int32(2), atomic.LoadInt32(&changes))
}

func TestCalendarViewSelectedAndTile(t *testing.T) {
	c := newBackend(t)
	cal := NewCalendarView(c, nil, time.Hour, &nopLogger{})
	cal.nowFunc = func() time.Time { return time.Date(2024, time.January, 2, 12, 0, 0, 0, time.Local) }

	_, err := cal.Refresh(context.Background())
	require.NoError(t, err)

	cal.SetDate(time.Date(2024, time.January, 10, 23, 30, 0, 0, time.Local))
	selected := cal.Selected()
	require.Len(t, selected, 1)
	assert.Equal(t, "HW1", selected[0].Name)
	assert.Equal(t, "Math", selected[0].CourseName)

	cal.SetDate(time.Date(2024, time.January, 11, 0, 0, 0, 0, time.Local))
	assert.Empty(t, cal.Selected())

	assert.Equal(t, projection.TilePending, cal.Tile(time.Date(2024, time.January, 10, 0, 0, 0, 0, time.Local)))
	assert.Equal(t, projection.TileToday, cal.Tile(time.Date(2024, time.January, 2, 0, 0, 0, 0, time.Local)))
	assert.Equal(t, projection.TileEmpty, cal.Tile(time.Date(2024, time.January, 3, 0, 0, 0, 0, time.Local)))

	cal.SetDate(time.Date(2024, time.January, 10, 0, 0, 0, 0, time.Local))
	var buf bytes.Buffer
	require.NoError(t, cal.Render(&buf))
	assert.Contains(t, buf.String(), "January 2024")
	assert.Contains(t, buf.String(), "10*")
	assert.Contains(t, buf.String(), "HW1 (Math) - pending")
}

// rejectingPatches forwards to the backend but fails every assignment update.
type rejectingPatches struct {
	*client.Client
}

func (rejectingPatches) PatchAssignment(ctx context.Context, id models.ID, patch models.AssignmentPatch) (*models.Assignment, error) {
	return nil, &qerrors.APIError{Status: 500, Body: `{"message":"internal error"}`}
}

func TestCalendarViewFailedToggleKeepsTilePending(t *testing.T) {
	c := newBackend(t)
	s := store.New(rejectingPatches{c}, nil, &nopLogger{})
	ctx := context.Background()
	require.NoError(t, s.Load(ctx))

	cal := NewCalendarView(c, nil, time.Hour, &nopLogger{})
	cal.nowFunc = func() time.Time { return time.Date(2024, time.February, 1, 0, 0, 0, 0, time.Local) }

	hw1 := s.Courses()[0].Assignments[0]
	require.Error(t, s.ToggleAssignmentCompletion(ctx, hw1.ID))
	assert.False(t, s.Courses()[0].Assignments[0].IsCompleted)

	_, err := cal.Refresh(ctx)
	require.NoError(t, err)
	day := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.Local)
	assert.Equal(t, projection.TilePending, cal.Tile(day))
	assert.Equal(t, projection.TilePending, projection.Tile(projection.Calendar(s.Courses()), day, cal.nowFunc()))
}

func TestCalendarViewRefreshesOnSignal(t *testing.T) {
	c := newBackend(t)
	slot := signal.NewMemorySlot()
	writer := newStore(t, c, signal.New(slot, signal.DefaultKey))

	cal := NewCalendarView(c, signal.New(slot, signal.DefaultKey), time.Hour, &nopLogger{})
	var mu sync.Mutex
	var latest []models.CalendarAssignment
	cal.OnChange(func(items []models.CalendarAssignment) {
		mu.Lock()
		latest = items
		mu.Unlock()
	})

	require.NoError(t, cal.Start(context.Background()))
	defer cal.Stop()
	require.Len(t, cal.Items(), 1)
	assert.False(t, cal.Items()[0].IsCompleted)

	hw1 := writer.Courses()[0].Assignments[0]
	require.NoError(t, writer.ToggleAssignmentCompletion(context.Background(), hw1.ID))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(latest) == 1 && latest[0].IsCompleted
	}, time.Second, 10*time.Millisecond)
}

func TestCalendarViewPolls(t *testing.T) {
	c := newBackend(t)
	writer := newStore(t, c, nil)

	cal := NewCalendarView(c, nil, 20*time.Millisecond, &nopLogger{})
	require.NoError(t, cal.Start(context.Background()))
	defer cal.Stop()

	hw1 := writer.Courses()[0].Assignments[0]
	require.NoError(t, writer.ToggleAssignmentCompletion(context.Background(), hw1.ID))

	assert.Eventually(t, func() bool {
		items := cal.Items()
		return len(items) == 1 && items[0].IsCompleted
	}, time.Second, 10*time.Millisecond)
}

type failingWatcher struct{}

func (failingWatcher) Watch(ctx context.Context) (<-chan struct{}, error) {
	return nil, errors.New("watch unavailable")
}

func TestCalendarViewStartStop(t *testing.T) {
	c := newBackend(t)

	cal := NewCalendarView(c, failingWatcher{}, time.Hour, &nopLogger{})
	require.Error(t, cal.Start(context.Background()))
	// A failed start leaves nothing running and allows another attempt.
	cal.Stop()

	cal = NewCalendarView(c, nil, time.Hour, &nopLogger{})
	require.NoError(t, cal.Start(context.Background()))
	assert.Error(t, cal.Start(context.Background()))
	cal.Stop()
	cal.Stop()
}

func TestBoundary(t *testing.T) {
	tests := []struct {
		name    string
		render  func(w io.Writer) error
		want    string
		wantErr bool
	}{
		{
			name:   "ok",
			render: func(w io.Writer) error { _, err := io.WriteString(w, "hello\n"); return err },
			want:   "hello\n",
		},
		{
			name: "panic",
			render: func(w io.Writer) error {
				_, _ = io.WriteString(w, "partial")
				var courses []models.Course
				_ = courses[3]
				return nil
			},
			want:    FallbackMessage + "\n",
			wantErr: true,
		},
		{
			name: "error",
			render: func(w io.Writer) error {
				_, _ = io.WriteString(w, "partial")
				return errors.New("bad data")
			},
			want:    FallbackMessage + "\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			log := &nopLogger{}
			b := NewBoundary(&out, log)

			err := b.Render(tt.name, tt.render)
			assert.Equal(t, tt.wantErr, err != nil)
			assert.Equal(t, tt.want, out.String())
			if tt.wantErr {
				assert.Equal(t, int32(1), atomic.LoadInt32(&log.errors))
				assert.True(t, strings.Contains(err.Error(), tt.name))
			}
		})
	}
}
