package firebase

import (
	"context"

	"cloud.google.com/go/firestore"
	firebaseSDK "firebase.google.com/go"
	"google.golang.org/api/option"
)

// NewApp initializes a Firebase App from the given service account file.
func NewApp(ctx context.Context, credentialsFile string) (*firebaseSDK.App, error) {
	opt := option.WithCredentialsFile(credentialsFile)
	return firebaseSDK.NewApp(ctx, nil, opt)
}

// NewFirestoreClient returns a Firestore client for the project in the given service account file.
func NewFirestoreClient(ctx context.Context, credentialsFile string) (*firestore.Client, error) {
	app, err := NewApp(ctx, credentialsFile)
	if err != nil {
		return nil, err
	}
	return app.Firestore(ctx)
}
