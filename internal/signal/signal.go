// Package signal implements the cross-view change signal: a timestamp written to a shared
// key/value slot that other views watch or poll to learn that data changed elsewhere.
//
// A Signal never receives its own writes. Two views that share one Signal behave like two
// components in the same browser tab: only the poll interval brings them back in sync.
package signal

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// DefaultKey is the slot name written after an assignment's completion changes.
const DefaultKey = "assignment_updated"

// Event is a write observed on a slot.
type Event struct {
	Key    string
	Value  string
	Origin string
}

// Slot is a process-wide key/value store that can report writes to watchers.
type Slot interface {
	// Set stores value under key and notifies watchers, tagging the write with origin.
	Set(ctx context.Context, key, value, origin string) error
	// Get returns the current value under key, or "" if it was never written.
	Get(ctx context.Context, key string) (string, error)
	// Watch delivers writes to key until ctx is done, then closes the channel.
	Watch(ctx context.Context, key string) (<-chan Event, error)
}

// Signal is one context's handle on a change-notification slot.
type Signal struct {
	slot   Slot
	key    string
	origin string

	nowFunc func() time.Time
}

func New(slot Slot, key string) *Signal {
	if key == "" {
		key = DefaultKey
	}
	return &Signal{
		slot:    slot,
		key:     key,
		origin:  uuid.NewString(),
		nowFunc: time.Now,
	}
}

func (s *Signal) Key() string {
	return s.key
}

// Origin identifies this handle's writes.
func (s *Signal) Origin() string {
	return s.origin
}

// Touch records that data changed by writing the current millisecond timestamp.
func (s *Signal) Touch(ctx context.Context) error {
	value := strconv.FormatInt(s.nowFunc().UnixNano()/int64(time.Millisecond), 10)
	return s.slot.Set(ctx, s.key, value, s.origin)
}

// Last returns the most recently written token. Its value carries no meaning beyond change detection.
func (s *Signal) Last(ctx context.Context) (string, error) {
	return s.slot.Get(ctx, s.key)
}

// Watch returns a channel that receives a value each time another context touches the signal.
// The channel is closed once ctx is done.
func (s *Signal) Watch(ctx context.Context) (<-chan struct{}, error) {
	events, err := s.slot.Watch(ctx, s.key)
	if err != nil {
		return nil, err
	}

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		for ev := range events {
			if ev.Origin == s.origin {
				continue
			}
			select {
			case out <- struct{}{}:
			default:
				// A change is already pending; the receiver refetches everything anyway.
			}
		}
	}()
	return out, nil
}
