package signal

import (
	"context"
	"sync"

	"studytrack/internal/qerrors"
)

// Default is the process-wide slot used when no persistent backend is configured.
var Default = NewMemorySlot()

// MemorySlot is a Slot held in process memory.
type MemorySlot struct {
	lock     *sync.RWMutex
	values   map[string]string
	watchers map[string]map[chan Event]struct{}
	closed   bool
}

var _ Slot = (*MemorySlot)(nil)

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{
		lock:     &sync.RWMutex{},
		values:   make(map[string]string),
		watchers: make(map[string]map[chan Event]struct{}),
	}
}

func (m *MemorySlot) Set(ctx context.Context, key, value, origin string) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.closed {
		return qerrors.ErrSignalClosed
	}
	m.values[key] = value
	ev := Event{Key: key, Value: value, Origin: origin}
	for ch := range m.watchers[key] {
		select {
		case ch <- ev:
		default:
		}
	}
	return nil
}

func (m *MemorySlot) Get(ctx context.Context, key string) (string, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	if m.closed {
		return "", qerrors.ErrSignalClosed
	}
	return m.values[key], nil
}

func (m *MemorySlot) Watch(ctx context.Context, key string) (<-chan Event, error) {
	ch := make(chan Event, 16)

	m.lock.Lock()
	if m.closed {
		m.lock.Unlock()
		return nil, qerrors.ErrSignalClosed
	}
	if m.watchers[key] == nil {
		m.watchers[key] = make(map[chan Event]struct{})
	}
	m.watchers[key][ch] = struct{}{}
	m.lock.Unlock()

	go func() {
		<-ctx.Done()
		m.lock.Lock()
		if _, ok := m.watchers[key][ch]; ok {
			delete(m.watchers[key], ch)
			close(ch)
		}
		m.lock.Unlock()
	}()
	return ch, nil
}

// Close ends every watch. Later calls fail with ErrSignalClosed.
func (m *MemorySlot) Close() error {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.closed = true
	for key, chans := range m.watchers {
		for ch := range chans {
			close(ch)
		}
		delete(m.watchers, key)
	}
	return nil
}
