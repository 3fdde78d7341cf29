// Package store holds the canonical course list and applies every change through an
// optimistic commit: the local list changes first, the remote call follows, and a failed
// call puts the list back the way it was.
package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"studytrack/internal/logger"
	"studytrack/internal/models"
	"studytrack/internal/qerrors"
	"studytrack/internal/validate"
)

// Remote is the subset of the remote resource client the store calls.
type Remote interface {
	ListCourses(ctx context.Context) ([]models.Course, error)
	CreateCourse(ctx context.Context, req *models.CreateCourseRequest) (*models.Course, error)
	UpdateCourse(ctx context.Context, course models.Course) (*models.Course, error)
	DeleteCourse(ctx context.Context, id models.ID) error
	CreateAssignment(ctx context.Context, req *models.CreateAssignmentRequest) (*models.Assignment, error)
	PatchAssignment(ctx context.Context, id models.ID, patch models.AssignmentPatch) (*models.Assignment, error)
	DeleteAssignment(ctx context.Context, id models.ID) error
}

// Notifier is told when an assignment's completion changed, so other views can refresh.
type Notifier interface {
	Touch(ctx context.Context) error
}

// Store is the synchronization store. It is safe for concurrent use; several mutations may be
// in flight at once and the last response to arrive wins.
type Store struct {
	remote   Remote
	notifier Notifier
	log      logger.Logger

	lock    *sync.RWMutex
	courses []models.Course

	listenersLock *sync.Mutex
	nextListener  int
	listeners     map[int]func([]models.Course)
	purgeHooks    map[int]func(models.ID)
}

// New creates an empty store. notifier may be nil.
func New(remote Remote, notifier Notifier, log logger.Logger) *Store {
	if log == nil {
		log = logger.GlogLogger{}
	}
	return &Store{
		remote:        remote,
		notifier:      notifier,
		log:           log,
		lock:          &sync.RWMutex{},
		courses:       []models.Course{},
		listenersLock: &sync.Mutex{},
		listeners:     make(map[int]func([]models.Course)),
		purgeHooks:    make(map[int]func(models.ID)),
	}
}

// Load replaces the local list with a full fetch from the remote. On failure the current list is kept.
func (s *Store) Load(ctx context.Context) error {
	courses, err := s.remote.ListCourses(ctx)
	if err != nil {
		s.log.Error("error fetching courses", err)
		return errors.Wrap(err, "loading courses")
	}

	normalized := make([]models.Course, len(courses))
	for i, c := range courses {
		normalized[i] = c.Clone()
	}

	s.lock.Lock()
	s.courses = normalized
	s.lock.Unlock()

	s.notify()
	return nil
}

// Courses returns a deep copy of the current list.
func (s *Store) Courses() []models.Course {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return cloneCourses(s.courses)
}

// Course returns a copy of the course with the given ID.
func (s *Store) Course(id models.ID) (models.Course, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Course{}, qerrors.ErrCourseNotFound
	}
	return s.courses[i].Clone(), nil
}

// CourseAt returns a copy of the course at position index.
func (s *Store) CourseAt(index int) (models.Course, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if index < 0 || index >= len(s.courses) {
		return models.Course{}, qerrors.ErrCourseNotFound
	}
	return s.courses[index].Clone(), nil
}

// Subscribe registers fn to receive a copy of the list after every local change.
func (s *Store) Subscribe(fn func([]models.Course)) (unsubscribe func()) {
	s.listenersLock.Lock()
	defer s.listenersLock.Unlock()

	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	return func() {
		s.listenersLock.Lock()
		delete(s.listeners, id)
		s.listenersLock.Unlock()
	}
}

// OnCourseDeleted registers fn to run once the remote confirms a course deletion. Views use it
// to drop state keyed by the course's ID.
func (s *Store) OnCourseDeleted(fn func(models.ID)) (unregister func()) {
	s.listenersLock.Lock()
	defer s.listenersLock.Unlock()

	id := s.nextListener
	s.nextListener++
	s.purgeHooks[id] = fn
	return func() {
		s.listenersLock.Lock()
		delete(s.purgeHooks, id)
		s.listenersLock.Unlock()
	}
}

// Helpers

func (s *Store) notify() {
	courses := s.Courses()

	s.listenersLock.Lock()
	fns := make([]func([]models.Course), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenersLock.Unlock()

	for _, fn := range fns {
		fn(courses)
	}
}

func (s *Store) purge(id models.ID) {
	s.listenersLock.Lock()
	fns := make([]func(models.ID), 0, len(s.purgeHooks))
	for _, fn := range s.purgeHooks {
		fns = append(fns, fn)
	}
	s.listenersLock.Unlock()

	for _, fn := range fns {
		fn(id)
	}
}

// indexOf returns the position of the course with the given ID, or -1. Callers hold the lock.
func (s *Store) indexOf(id models.ID) int {
	for i := range s.courses {
		if s.courses[i].ID == id {
			return i
		}
	}
	return -1
}

// findAssignment locates an assignment across all courses. Callers hold the lock.
func (s *Store) findAssignment(id models.ID) (courseIdx, assignmentIdx int) {
	for i := range s.courses {
		if j := s.courses[i].AssignmentIndex(id); j >= 0 {
			return i, j
		}
	}
	return -1, -1
}

// checkRequired validates a form before anything else happens. A failure is a warning, not an error.
func (s *Store) checkRequired(op string, req interface{}) error {
	if err := validate.Struct(req); err != nil {
		s.log.Warn("missing required fields for "+op, err)
		return err
	}
	return nil
}

func localID() models.ID {
	return models.ID("local-" + uuid.NewString())
}

func cloneCourses(courses []models.Course) []models.Course {
	out := make([]models.Course, len(courses))
	for i, c := range courses {
		out[i] = c.Clone()
	}
	return out
}
