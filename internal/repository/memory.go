package repository

import (
	"sync"

	"studytrack/internal/models"
	"studytrack/internal/qerrors"
)

// MemoryRepository keeps courses and assignments in process memory. IDs are sequential
// integers, like the SQL backend the tracker was first written against.
type MemoryRepository struct {
	lock *sync.RWMutex

	nextID      int64
	courseOrder []models.ID
	courses     map[models.ID]*models.Course
	assignOrder []models.ID
	assignments map[models.ID]*models.Assignment
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		lock:        &sync.RWMutex{},
		courses:     make(map[models.ID]*models.Course),
		assignments: make(map[models.ID]*models.Assignment),
	}
}

func (r *MemoryRepository) ListCourses() ([]models.Course, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	courses := make([]models.Course, 0, len(r.courseOrder))
	for _, id := range r.courseOrder {
		courses = append(courses, r.withAssignments(*r.courses[id]))
	}
	return courses, nil
}

func (r *MemoryRepository) GetCourse(id models.ID) (*models.Course, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	c, ok := r.courses[id]
	if !ok {
		return nil, qerrors.ErrCourseNotFound
	}
	course := r.withAssignments(*c)
	return &course, nil
}

func (r *MemoryRepository) CreateCourse(c models.Course) (*models.Course, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.nextID++
	course := models.Course{
		ID:          models.IDFromInt(r.nextID),
		Name:        c.Name,
		CourseLink:  c.CourseLink,
		StudyHours:  c.StudyHours,
		Assignments: []models.Assignment{},
	}
	stored := course
	stored.Assignments = nil
	r.courses[course.ID] = &stored
	r.courseOrder = append(r.courseOrder, course.ID)

	return &course, nil
}

func (r *MemoryRepository) UpdateCourse(c models.Course) (*models.Course, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	stored, ok := r.courses[c.ID]
	if !ok {
		return nil, qerrors.ErrCourseNotFound
	}
	stored.Name = c.Name
	stored.CourseLink = c.CourseLink
	stored.StudyHours = c.StudyHours

	updated := *stored
	return &updated, nil
}

func (r *MemoryRepository) DeleteCourse(id models.ID) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.courses[id]; !ok {
		return qerrors.ErrCourseNotFound
	}
	delete(r.courses, id)
	r.courseOrder = removeID(r.courseOrder, id)

	// Cascade to the course's assignments.
	kept := r.assignOrder[:0]
	for _, aID := range r.assignOrder {
		if r.assignments[aID].CourseID == id {
			delete(r.assignments, aID)
			continue
		}
		kept = append(kept, aID)
	}
	r.assignOrder = kept
	return nil
}

func (r *MemoryRepository) ListAssignments() ([]models.Assignment, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	assignments := make([]models.Assignment, 0, len(r.assignOrder))
	for _, id := range r.assignOrder {
		assignments = append(assignments, *r.assignments[id])
	}
	return assignments, nil
}

func (r *MemoryRepository) CreateAssignment(courseID models.ID, a models.Assignment) (*models.Assignment, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.courses[courseID]; !ok {
		return nil, qerrors.ErrCourseNotFound
	}
	r.nextID++
	assignment := models.Assignment{
		ID:          models.IDFromInt(r.nextID),
		Name:        a.Name,
		DueDate:     a.DueDate,
		IsCompleted: a.IsCompleted,
		CourseID:    courseID,
	}
	stored := assignment
	r.assignments[assignment.ID] = &stored
	r.assignOrder = append(r.assignOrder, assignment.ID)

	return &assignment, nil
}

func (r *MemoryRepository) UpdateAssignment(id models.ID, patch models.AssignmentPatch) (*models.Assignment, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	stored, ok := r.assignments[id]
	if !ok {
		return nil, qerrors.ErrAssignmentNotFound
	}
	patch.Apply(stored)

	updated := *stored
	return &updated, nil
}

func (r *MemoryRepository) DeleteAssignment(id models.ID) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.assignments[id]; !ok {
		return qerrors.ErrAssignmentNotFound
	}
	delete(r.assignments, id)
	r.assignOrder = removeID(r.assignOrder, id)
	return nil
}

// Helpers

// withAssignments returns c with its assignments nested, in creation order. Callers hold the lock.
func (r *MemoryRepository) withAssignments(c models.Course) models.Course {
	c.Assignments = []models.Assignment{}
	for _, aID := range r.assignOrder {
		if a := r.assignments[aID]; a.CourseID == c.ID {
			c.Assignments = append(c.Assignments, *a)
		}
	}
	return c
}

func removeID(ids []models.ID, id models.ID) []models.ID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
