package store

import (
	"context"

	"github.com/pkg/errors"
)

// mutation is one optimistic change: forward is applied at once, remote is issued, and then
// either the commit remote returned or inverse is applied. forward, inverse and commit all run
// with the store lock held.
type mutation struct {
	op      string
	forward func() error
	inverse func()
	remote  func(ctx context.Context) (commit func(), err error)
	// after runs without the lock once the commit is applied.
	after func(ctx context.Context)
}

func (s *Store) run(ctx context.Context, m mutation) error {
	s.lock.Lock()
	err := m.forward()
	s.lock.Unlock()
	if err != nil {
		return errors.Wrap(err, m.op)
	}
	s.notify()

	commit, err := m.remote(ctx)

	s.lock.Lock()
	if err != nil {
		m.inverse()
		s.lock.Unlock()
		s.notify()

		s.log.Error("error "+m.op+", change reverted", err)
		return errors.Wrap(err, m.op)
	}
	if commit != nil {
		commit()
	}
	s.lock.Unlock()
	s.notify()

	if m.after != nil {
		m.after(ctx)
	}
	return nil
}
