package store

import (
	"context"

	"studytrack/internal/models"
	"studytrack/internal/qerrors"
)

// AddCourse appends a pending course under a local ID and replaces it with the server's copy
// once created. An incomplete form is rejected before anything changes.
func (s *Store) AddCourse(ctx context.Context, req *models.CreateCourseRequest) error {
	if err := s.checkRequired("adding course", req); err != nil {
		return err
	}

	pendingID := localID()
	return s.run(ctx, mutation{
		op: "adding course",
		forward: func() error {
			s.courses = append(s.courses, models.Course{
				ID:          pendingID,
				Name:        req.Name,
				CourseLink:  req.CourseLink,
				Assignments: []models.Assignment{},
			})
			return nil
		},
		inverse: func() {
			if i := s.indexOf(pendingID); i >= 0 {
				s.courses = append(s.courses[:i], s.courses[i+1:]...)
			}
		},
		remote: func(ctx context.Context) (func(), error) {
			created, err := s.remote.CreateCourse(ctx, req)
			if err != nil {
				return nil, err
			}
			return func() {
				i := s.indexOf(pendingID)
				if i < 0 {
					return
				}
				course := created.Clone()
				course.Assignments = append(course.Assignments, s.courses[i].Assignments...)
				s.courses[i] = course
			}, nil
		}})
}

// EditCourse updates a course's name and link. Empty request fields keep their current value.
func (s *Store) EditCourse(ctx context.Context, req models.EditCourseRequest) error {
	var before models.Course
	var updated models.Course

	return s.run(ctx, mutation{
		op: "editing course",
		forward: func() error {
			i := s.indexOf(req.CourseID)
			if i < 0 {
				return qerrors.ErrCourseNotFound
			}
			before = s.courses[i].Clone()
			if req.Name != "" {
				s.courses[i].Name = req.Name
			}
			if req.CourseLink != "" {
				s.courses[i].CourseLink = req.CourseLink
			}
			updated = s.courses[i].Clone()
			return nil
		},
		inverse: func() { s.restoreFields(before) },
		remote: func(ctx context.Context) (func(), error) {
			return s.updateCourse(ctx, updated)
		}})
}

// ChangeStudyHours adds delta to a course's study hours, clamping the result at zero, and sends
// the whole course back to the server.
func (s *Store) ChangeStudyHours(ctx context.Context, id models.ID, delta float64) error {
	var before models.Course
	var updated models.Course

	return s.run(ctx, mutation{
		op: "changing study hours",
		forward: func() error {
			i := s.indexOf(id)
			if i < 0 {
				return qerrors.ErrCourseNotFound
			}
			before = s.courses[i].Clone()
			hours := s.courses[i].StudyHours + delta
			if hours < 0 {
				hours = 0
			}
			s.courses[i].StudyHours = hours
			updated = s.courses[i].Clone()
			return nil
		},
		inverse: func() { s.restoreFields(before) },
		remote: func(ctx context.Context) (func(), error) {
			return s.updateCourse(ctx, updated)
		}})
}

// DeleteCourse removes a course and its assignments once the server confirms the deletion, then
// runs the purge hooks for its ID.
func (s *Store) DeleteCourse(ctx context.Context, id models.ID) error {
	return s.run(ctx, mutation{
		op: "deleting course",
		forward: func() error {
			if s.indexOf(id) < 0 {
				return qerrors.ErrCourseNotFound
			}
			return nil
		},
		inverse: func() {},
		remote: func(ctx context.Context) (func(), error) {
			if err := s.remote.DeleteCourse(ctx, id); err != nil {
				return nil, err
			}
			return func() {
				if i := s.indexOf(id); i >= 0 {
					s.courses = append(s.courses[:i], s.courses[i+1:]...)
				}
			}, nil
		},
		after: func(context.Context) { s.purge(id) },
	})
}

// updateCourse issues a full update and returns a commit that takes the server's scalar fields
// while keeping the locally nested assignments, which the endpoint does not echo. An empty reply
// commits nothing.
func (s *Store) updateCourse(ctx context.Context, course models.Course) (func(), error) {
	resp, err := s.remote.UpdateCourse(ctx, course)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		// Nothing authoritative came back; the optimistic fields stand.
		return nil, nil
	}
	return func() {
		i := s.indexOf(course.ID)
		if i < 0 {
			return
		}
		merged := *resp
		merged.ID = course.ID
		merged.Assignments = s.courses[i].Assignments
		s.courses[i] = merged
	}, nil
}

// restoreFields puts back a course's scalar fields. Assignments changed by other in-flight
// mutations are left alone.
func (s *Store) restoreFields(before models.Course) {
	i := s.indexOf(before.ID)
	if i < 0 {
		return
	}
	s.courses[i].Name = before.Name
	s.courses[i].CourseLink = before.CourseLink
	s.courses[i].StudyHours = before.StudyHours
}
