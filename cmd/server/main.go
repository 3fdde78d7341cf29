package main

import (
	"context"
	"flag"
	"log"

	"github.com/golang/glog"

	"studytrack/internal/config"
	"studytrack/internal/firebase"
	"studytrack/internal/repository"
	"studytrack/internal/server"
)

func main() {
	flag.Parse()
	defer glog.Flush()

	conf := config.Config
	if conf == nil {
		log.Panic("❌ Missing or invalid configuration!")
	}

	repo, err := newRepository(context.Background(), conf)
	if err != nil {
		log.Fatalf("❌ Could not open the %s repository: %v\n", conf.RepositoryBackend, err)
	}

	log.Fatal(server.Start(conf, repo))
}

func newRepository(ctx context.Context, conf *config.TrackerConfig) (repository.Repository, error) {
	switch conf.RepositoryBackend {
	case "firestore":
		client, err := firebase.NewFirestoreClient(ctx, conf.FirebaseCredentialsFile)
		if err != nil {
			return nil, err
		}
		log.Println("🔥 Connected to Firestore")
		return repository.NewFirestoreRepository(ctx, client)
	default:
		log.Println("💾 Using the in-memory repository")
		return repository.NewMemoryRepository(), nil
	}
}
