package repository

import (
	"context"
	"fmt"
	"log"
	"sync"

	"cloud.google.com/go/firestore"
	"github.com/mitchellh/mapstructure"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"studytrack/internal/models"
	"studytrack/internal/qerrors"
)

// FirestoreRepository stores courses and assignments in two Firestore collections. Reads are
// served from an in-memory cache kept current by collection snapshot listeners.
type FirestoreRepository struct {
	ctx             context.Context
	firestoreClient *firestore.Client

	coursesLock *sync.RWMutex
	courses     map[models.ID]*models.Course

	assignmentsLock *sync.RWMutex
	assignments     map[models.ID]*models.Assignment
}

var _ Repository = (*FirestoreRepository)(nil)

// NewFirestoreRepository creates a repository and blocks until both collection listeners
// have delivered their first snapshot. Cancel ctx to stop the listeners.
func NewFirestoreRepository(ctx context.Context, client *firestore.Client) (*FirestoreRepository, error) {
	fr := &FirestoreRepository{
		ctx:             ctx,
		firestoreClient: client,
		coursesLock:     &sync.RWMutex{},
		courses:         make(map[models.ID]*models.Course),
		assignmentsLock: &sync.RWMutex{},
		assignments:     make(map[models.ID]*models.Assignment),
	}

	// Execute the listeners sequentially so assignments never arrive before their courses.
	initFns := []func() error{fr.initializeCoursesListener, fr.initializeAssignmentsListener}
	for _, initFn := range initFns {
		if err := initFn(); err != nil {
			return nil, err
		}
	}

	return fr, nil
}

func (fr *FirestoreRepository) ListCourses() ([]models.Course, error) {
	fr.coursesLock.RLock()
	courses := make([]models.Course, 0, len(fr.courses))
	for _, c := range fr.courses {
		courses = append(courses, *c)
	}
	fr.coursesLock.RUnlock()

	sortCourses(courses)

	byCourse := fr.assignmentsByCourse()
	for i := range courses {
		courses[i].Assignments = byCourse[courses[i].ID]
		if courses[i].Assignments == nil {
			courses[i].Assignments = []models.Assignment{}
		}
	}
	return courses, nil
}

func (fr *FirestoreRepository) GetCourse(id models.ID) (*models.Course, error) {
	fr.coursesLock.RLock()
	c, ok := fr.courses[id]
	fr.coursesLock.RUnlock()
	if !ok {
		return nil, qerrors.ErrCourseNotFound
	}

	course := *c
	course.Assignments = fr.assignmentsByCourse()[id]
	if course.Assignments == nil {
		course.Assignments = []models.Assignment{}
	}
	return &course, nil
}

func (fr *FirestoreRepository) CreateCourse(c models.Course) (*models.Course, error) {
	ref, _, err := fr.firestoreClient.Collection(models.FirestoreCoursesCollection).Add(fr.ctx, map[string]interface{}{
		"name":        c.Name,
		"course_link": c.CourseLink,
		"study_hours": c.StudyHours,
		"created_at":  firestore.ServerTimestamp,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating course: %v", err)
	}

	course := &models.Course{
		ID:          models.ID(ref.ID),
		Name:        c.Name,
		CourseLink:  c.CourseLink,
		StudyHours:  c.StudyHours,
		Assignments: []models.Assignment{},
	}
	return course, nil
}

func (fr *FirestoreRepository) UpdateCourse(c models.Course) (*models.Course, error) {
	if _, err := fr.GetCourse(c.ID); err != nil {
		return nil, err
	}

	_, err := fr.firestoreClient.Collection(models.FirestoreCoursesCollection).Doc(c.ID.String()).Update(fr.ctx, []firestore.Update{
		{Path: "name", Value: c.Name},
		{Path: "course_link", Value: c.CourseLink},
		{Path: "study_hours", Value: c.StudyHours},
	})
	if err != nil {
		return nil, err
	}

	return &models.Course{
		ID:         c.ID,
		Name:       c.Name,
		CourseLink: c.CourseLink,
		StudyHours: c.StudyHours,
	}, nil
}

func (fr *FirestoreRepository) DeleteCourse(id models.ID) error {
	if _, err := fr.GetCourse(id); err != nil {
		return err
	}

	// Delete this course's assignments first.
	iter := fr.firestoreClient.Collection(models.FirestoreAssignmentsCollection).Where("course_id", "==", id.String()).Documents(fr.ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return err
		}
		if _, err := doc.Ref.Delete(fr.ctx); err != nil {
			return err
		}
	}

	// Delete the course.
	_, err := fr.firestoreClient.Collection(models.FirestoreCoursesCollection).Doc(id.String()).Delete(fr.ctx)
	return err
}

func (fr *FirestoreRepository) ListAssignments() ([]models.Assignment, error) {
	fr.assignmentsLock.RLock()
	defer fr.assignmentsLock.RUnlock()

	assignments := make([]models.Assignment, 0, len(fr.assignments))
	for _, a := range fr.assignments {
		assignments = append(assignments, *a)
	}
	sortAssignments(assignments)
	return assignments, nil
}

func (fr *FirestoreRepository) CreateAssignment(courseID models.ID, a models.Assignment) (*models.Assignment, error) {
	if _, err := fr.GetCourse(courseID); err != nil {
		return nil, err
	}

	ref, _, err := fr.firestoreClient.Collection(models.FirestoreAssignmentsCollection).Add(fr.ctx, map[string]interface{}{
		"name":         a.Name,
		"due_date":     a.DueDate,
		"is_completed": a.IsCompleted,
		"course_id":    courseID.String(),
		"created_at":   firestore.ServerTimestamp,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating assignment: %v", err)
	}

	return &models.Assignment{
		ID:          models.ID(ref.ID),
		Name:        a.Name,
		DueDate:     a.DueDate,
		IsCompleted: a.IsCompleted,
		CourseID:    courseID,
	}, nil
}

func (fr *FirestoreRepository) UpdateAssignment(id models.ID, patch models.AssignmentPatch) (*models.Assignment, error) {
	fr.assignmentsLock.RLock()
	stored, ok := fr.assignments[id]
	var updated models.Assignment
	if ok {
		updated = *stored
	}
	fr.assignmentsLock.RUnlock()
	if !ok {
		return nil, qerrors.ErrAssignmentNotFound
	}

	var updates []firestore.Update
	if patch.Name != nil {
		updates = append(updates, firestore.Update{Path: "name", Value: *patch.Name})
	}
	if patch.DueDate != nil {
		updates = append(updates, firestore.Update{Path: "due_date", Value: *patch.DueDate})
	}
	if patch.IsCompleted != nil {
		updates = append(updates, firestore.Update{Path: "is_completed", Value: *patch.IsCompleted})
	}
	if len(updates) > 0 {
		_, err := fr.firestoreClient.Collection(models.FirestoreAssignmentsCollection).Doc(id.String()).Update(fr.ctx, updates)
		if err != nil {
			return nil, err
		}
	}

	patch.Apply(&updated)
	return &updated, nil
}

func (fr *FirestoreRepository) DeleteAssignment(id models.ID) error {
	fr.assignmentsLock.RLock()
	_, ok := fr.assignments[id]
	fr.assignmentsLock.RUnlock()
	if !ok {
		return qerrors.ErrAssignmentNotFound
	}

	_, err := fr.firestoreClient.Collection(models.FirestoreAssignmentsCollection).Doc(id.String()).Delete(fr.ctx)
	return err
}

// Listeners

func (fr *FirestoreRepository) initializeCoursesListener() error {
	handleSnapshot := func(snap *firestore.QuerySnapshot) error {
		courses := make(map[models.ID]*models.Course)
		err := eachDocument(snap, func(doc *firestore.DocumentSnapshot) error {
			var c models.Course
			if err := decodeDocument(doc.Data(), &c); err != nil {
				return err
			}
			c.ID = models.ID(doc.Ref.ID)
			courses[c.ID] = &c
			return nil
		})
		if err != nil {
			return err
		}

		fr.coursesLock.Lock()
		fr.courses = courses
		fr.coursesLock.Unlock()
		return nil
	}

	return fr.startCollectionListener(models.FirestoreCoursesCollection, handleSnapshot)
}

func (fr *FirestoreRepository) initializeAssignmentsListener() error {
	handleSnapshot := func(snap *firestore.QuerySnapshot) error {
		assignments := make(map[models.ID]*models.Assignment)
		err := eachDocument(snap, func(doc *firestore.DocumentSnapshot) error {
			var a models.Assignment
			if err := decodeDocument(doc.Data(), &a); err != nil {
				return err
			}
			a.ID = models.ID(doc.Ref.ID)
			assignments[a.ID] = &a
			return nil
		})
		if err != nil {
			return err
		}

		fr.assignmentsLock.Lock()
		fr.assignments = assignments
		fr.assignmentsLock.Unlock()
		return nil
	}

	return fr.startCollectionListener(models.FirestoreAssignmentsCollection, handleSnapshot)
}

// startCollectionListener consumes snapshots of a collection in the background. It returns once
// the first snapshot has been handled.
func (fr *FirestoreRepository) startCollectionListener(collection string, handle func(*firestore.QuerySnapshot) error) error {
	log.Printf("⏳ Starting %s collection listener...\n", collection)

	ready := make(chan error, 1)
	var doOnce sync.Once
	signalReady := func(err error) {
		doOnce.Do(func() { ready <- err })
	}

	go func() {
		it := fr.firestoreClient.Collection(collection).Snapshots(fr.ctx)
		defer it.Stop()
		for {
			snap, err := it.Next()
			// DeadlineExceeded or Canceled will be returned when ctx is done.
			if c := status.Code(err); c == codes.DeadlineExceeded || c == codes.Canceled {
				signalReady(err)
				return
			}
			if err != nil {
				signalReady(fmt.Errorf("Snapshots.Next: %v", err))
				log.Printf("%s collection listener error: %v\n", collection, err)
				return
			}
			if snap == nil {
				continue
			}
			if err := handle(snap); err != nil {
				signalReady(err)
				log.Printf("%s collection listener error: %v\n", collection, err)
				return
			}
			signalReady(nil)
		}
	}()

	if err := <-ready; err != nil {
		return err
	}
	log.Printf("✅ Started %s collection listener.\n", collection)
	return nil
}

// Helpers

func eachDocument(snap *firestore.QuerySnapshot, fn func(*firestore.DocumentSnapshot) error) error {
	for {
		doc, err := snap.Documents.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return fmt.Errorf("Documents.Next: %v", err)
		}
		if err := fn(doc); err != nil {
			return err
		}
	}
}

// decodeDocument destructures Firestore document data into out. Numeric fields may come back
// as int64 or float64 depending on how they were written, so weak typing is enabled.
func decodeDocument(data map[string]interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(data)
}

func (fr *FirestoreRepository) assignmentsByCourse() map[models.ID][]models.Assignment {
	fr.assignmentsLock.RLock()
	assignments := make([]models.Assignment, 0, len(fr.assignments))
	for _, a := range fr.assignments {
		assignments = append(assignments, *a)
	}
	fr.assignmentsLock.RUnlock()

	sortAssignments(assignments)
	byCourse := make(map[models.ID][]models.Assignment)
	for _, a := range assignments {
		byCourse[a.CourseID] = append(byCourse[a.CourseID], a)
	}
	return byCourse
}
