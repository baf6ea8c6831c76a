// courtwatch follows one court on the live scores hub and prints every
// canonical update as a JSON line.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/preston-bernstein/court-live-service/internal/config"
	"github.com/preston-bernstein/court-live-service/internal/domain/live"
	"github.com/preston-bernstein/court-live-service/internal/livefeed"
	"github.com/preston-bernstein/court-live-service/internal/logging"
	"github.com/preston-bernstein/court-live-service/internal/metrics"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	defaults := config.Load().Live

	var (
		courtID   string
		baseURL   string
		hubPath   string
		userAgent string
		logLevel  string
		count     int
	)
	flagSet := pflag.NewFlagSet("courtwatch", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVarP(&courtID, "court", "c", "", "court id to follow (required)")
	flagSet.StringVar(&baseURL, "base-url", defaults.BaseURL, "live scores base URL")
	flagSet.StringVar(&hubPath, "hub-path", defaults.HubPath, "hub path under the base URL")
	flagSet.StringVar(&userAgent, "user-agent", defaults.UserAgent, "User-Agent sent when negotiating")
	flagSet.StringVar(&logLevel, "log-level", "warn", "log level written to stderr")
	flagSet.IntVarP(&count, "count", "n", 0, "exit after this many updates (0 follows until interrupted)")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	id, err := livefeed.NormalizeCourtID(courtID)
	if err != nil {
		return fmt.Errorf("--court: %w", err)
	}

	logger := logging.NewLogger(logging.Config{Level: logLevel, Output: stderr, Service: "courtwatch"})
	rec := metrics.NewRecorder()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu      sync.Mutex
		seen    int
		enc     = json.NewEncoder(stdout)
		encErrs error
	)
	onUpdate := func(state live.CourtLiveState) {
		mu.Lock()
		defer mu.Unlock()
		if err := enc.Encode(state); err != nil {
			encErrs = err
			cancel()
			return
		}
		seen++
		if count > 0 && seen >= count {
			cancel()
		}
	}

	client := livefeed.New(id, onUpdate, livefeed.Config{
		BaseURL:          baseURL,
		HubPath:          hubPath,
		UserAgent:        userAgent,
		NegotiateTimeout: defaults.NegotiateTimeout,
		InitialDelay:     defaults.ReconnectInitial,
		MaxDelay:         defaults.ReconnectMax,
		Logger:           logger,
		Metrics:          rec,
	})
	client.Start(ctx)

	<-ctx.Done()
	client.Stop()
	<-client.Done()

	snap := rec.Snapshot(id)
	logging.Info(logger, "courtwatch finished",
		logging.FieldCourtID, id,
		"updates", snap.Updates,
		"connects", snap.Connects,
		"malformed", snap.Malformed,
	)

	mu.Lock()
	defer mu.Unlock()
	return encErrs
}
