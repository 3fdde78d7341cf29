package store

import (
	"context"

	"studytrack/internal/models"
	"studytrack/internal/qerrors"
)

// AddAssignment appends a pending assignment to its course and swaps in the server's copy once
// created. An incomplete form is rejected before anything changes.
func (s *Store) AddAssignment(ctx context.Context, req *models.CreateAssignmentRequest) error {
	if err := s.checkRequired("adding assignment", req); err != nil {
		return err
	}

	pendingID := localID()
	return s.run(ctx, mutation{
		op: "adding assignment",
		forward: func() error {
			i := s.indexOf(req.CourseID)
			if i < 0 {
				return qerrors.ErrCourseNotFound
			}
			s.courses[i].Assignments = append(s.courses[i].Assignments, models.Assignment{
				ID:       pendingID,
				Name:     req.Name,
				DueDate:  req.DueDate,
				CourseID: req.CourseID,
			})
			return nil
		},
		inverse: func() { s.removeAssignment(pendingID) },
		remote: func(ctx context.Context) (func(), error) {
			created, err := s.remote.CreateAssignment(ctx, req)
			if err != nil {
				return nil, err
			}
			return func() {
				ci, ai := s.findAssignment(pendingID)
				if ci < 0 {
					return
				}
				assignment := *created
				if assignment.CourseID.IsZero() {
					assignment.CourseID = req.CourseID
				}
				s.courses[ci].Assignments[ai] = assignment
			}, nil
		}})
}

// DeleteAssignment removes an assignment once the server confirms the deletion.
func (s *Store) DeleteAssignment(ctx context.Context, id models.ID) error {
	return s.run(ctx, mutation{
		op: "deleting assignment",
		forward: func() error {
			if ci, _ := s.findAssignment(id); ci < 0 {
				return qerrors.ErrAssignmentNotFound
			}
			return nil
		},
		inverse: func() {},
		remote: func(ctx context.Context) (func(), error) {
			if err := s.remote.DeleteAssignment(ctx, id); err != nil {
				return nil, err
			}
			return func() { s.removeAssignment(id) }, nil
		}})
}

// ToggleAssignmentCompletion flips is_completed at once and sends only that field. A failed
// request flips it back. A confirmed flip touches the change signal.
func (s *Store) ToggleAssignmentCompletion(ctx context.Context, id models.ID) error {
	var completed bool

	flip := func() {
		if ci, ai := s.findAssignment(id); ci >= 0 {
			a := &s.courses[ci].Assignments[ai]
			a.IsCompleted = !a.IsCompleted
		}
	}

	return s.run(ctx, mutation{
		op: "toggling assignment completion",
		forward: func() error {
			ci, ai := s.findAssignment(id)
			if ci < 0 {
				return qerrors.ErrAssignmentNotFound
			}
			a := &s.courses[ci].Assignments[ai]
			a.IsCompleted = !a.IsCompleted
			completed = a.IsCompleted
			return nil
		},
		inverse: flip,
		remote: func(ctx context.Context) (func(), error) {
			resp, err := s.remote.PatchAssignment(ctx, id, models.AssignmentPatch{IsCompleted: &completed})
			if err != nil {
				return nil, err
			}
			if resp == nil {
				return nil, nil
			}
			return func() {
				ci, ai := s.findAssignment(id)
				if ci < 0 {
					return
				}
				a := &s.courses[ci].Assignments[ai]
				a.Name = resp.Name
				a.DueDate = resp.DueDate
				a.IsCompleted = resp.IsCompleted
			}, nil
		},
		after: s.touch,
	})
}

func (s *Store) touch(ctx context.Context) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Touch(ctx); err != nil {
		s.log.Warn("error writing change signal", err)
	}
}

// removeAssignment drops an assignment wherever it is nested. Callers hold the lock.
func (s *Store) removeAssignment(id models.ID) {
	ci, ai := s.findAssignment(id)
	if ci < 0 {
		return
	}
	assignments := s.courses[ci].Assignments
	s.courses[ci].Assignments = append(assignments[:ai:ai], assignments[ai+1:]...)
}
