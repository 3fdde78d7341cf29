package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"studytrack/internal/client"
	"studytrack/internal/config"
	"studytrack/internal/firebase"
	"studytrack/internal/logger"
	sig "studytrack/internal/signal"
	"studytrack/internal/store"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [glog flags] COMMAND [OPTIONS]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	defer glog.Flush()

	conf := config.Config
	if conf == nil {
		log.Panic("❌ Missing or invalid configuration!")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slot, closeSlot, err := newSlot(ctx, conf)
	if err != nil {
		log.Fatalf("❌ Could not open the change signal: %v\n", err)
	}
	defer closeSlot()

	sink := logger.New(conf)
	remote := client.New(conf.APIBaseURL, conf.RequestTimeout, nil)
	changes := sig.New(slot, conf.SignalKey)
	s := store.New(remote, changes, sink)

	cli := newCommandLine(s, remote, changes, conf.PollInterval, sink, os.Stdout)
	defer cli.close()

	args := append([]string{os.Args[0]}, flag.Args()...)
	if err := cli.run(ctx, args); err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		glog.Flush()
		os.Exit(1)
	}
}

// newSlot opens the change-signal slot selected by the configuration.
func newSlot(ctx context.Context, conf *config.TrackerConfig) (sig.Slot, func(), error) {
	switch conf.SignalBackend {
	case "", "memory":
		return sig.Default, func() {}, nil
	case "redis":
		slot, err := sig.DialRedis(ctx, conf.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		return slot, func() { _ = slot.Close() }, nil
	case "firestore":
		fsClient, err := firebase.NewFirestoreClient(ctx, conf.FirebaseCredentialsFile)
		if err != nil {
			return nil, nil, errors.Wrap(err, "connecting to firestore")
		}
		return sig.NewFirestoreSlot(fsClient), func() { _ = fsClient.Close() }, nil
	default:
		return nil, nil, errors.Errorf("unknown signal backend %q", conf.SignalBackend)
	}
}
