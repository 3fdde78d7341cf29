package signal

import (
	"context"
	"log"

	"cloud.google.com/go/firestore"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const FirestoreSignalsCollection = "signals"

// FirestoreSlot keeps each key in its own document and watches it with a snapshot listener.
type FirestoreSlot struct {
	firestoreClient *firestore.Client
}

var _ Slot = (*FirestoreSlot)(nil)

func NewFirestoreSlot(client *firestore.Client) *FirestoreSlot {
	return &FirestoreSlot{firestoreClient: client}
}

type signalDoc struct {
	Value  string `mapstructure:"value"`
	Origin string `mapstructure:"origin"`
}

func (f *FirestoreSlot) Set(ctx context.Context, key, value, origin string) error {
	_, err := f.firestoreClient.Collection(FirestoreSignalsCollection).Doc(key).Set(ctx, map[string]interface{}{
		"value":      value,
		"origin":     origin,
		"updated_at": firestore.ServerTimestamp,
	})
	return errors.Wrap(err, "writing change signal")
}

func (f *FirestoreSlot) Get(ctx context.Context, key string) (string, error) {
	doc, err := f.firestoreClient.Collection(FirestoreSignalsCollection).Doc(key).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "reading change signal")
	}

	var sd signalDoc
	if err := mapstructure.Decode(doc.Data(), &sd); err != nil {
		return "", err
	}
	return sd.Value, nil
}

func (f *FirestoreSlot) Watch(ctx context.Context, key string) (<-chan Event, error) {
	it := f.firestoreClient.Collection(FirestoreSignalsCollection).Doc(key).Snapshots(ctx)

	// The first snapshot is the current state, not a change.
	if _, err := it.Next(); err != nil && status.Code(err) != codes.NotFound {
		it.Stop()
		return nil, errors.Wrap(err, "watching change signal")
	}

	out := make(chan Event, 16)
	go func() {
		defer close(out)
		defer it.Stop()
		for {
			snap, err := it.Next()
			if c := status.Code(err); c == codes.DeadlineExceeded || c == codes.Canceled || ctx.Err() != nil {
				return
			}
			if err != nil {
				log.Printf("change signal listener error: %v\n", err)
				return
			}
			if snap == nil || !snap.Exists() {
				continue
			}

			var sd signalDoc
			if err := mapstructure.Decode(snap.Data(), &sd); err != nil {
				log.Printf("change signal decode error: %v\n", err)
				continue
			}
			select {
			case out <- Event{Key: key, Value: sd.Value, Origin: sd.Origin}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
