package main

import (
	"context"
	goerrors "errors"
	"fmt"
	"imahima/api"
	"imahima/domain"
	"imahima/internal"
	"imahima/repositories"
	"imahima/runtime"
	"imahima/runtime/workers"
	"imahima/services"
	"imahima/transport/line"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run wires every component and owns the server lifecycle so that deferred
// cleanups (badger first) always run before the process exits.
func run() error {
	// 1. Configuration & Logger
	config, err := internal.LoadConfig()
	if err != nil {
		return err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Stores & services
	clock := domain.SystemClock
	memberRepository := repositories.NewMemberRepository(db, log)
	members := services.NewMemberService(log, memberRepository, clock)
	presence := services.NewPresenceService(log, repositories.NewPresenceRepository(db, log),
		clock, config.DefaultTTL, config.MaxTTL)
	graph := services.NewGraphService(log, memberRepository, repositories.NewEdgeRepository(db, log), clock)

	transport := line.NewClient(log, config.LineAccessToken,
		line.WithEndpoint(config.LineAPIBaseURL),
		line.WithHTTPClient(&http.Client{Timeout: config.DeliveryTimeout}))
	if err = transport.Ready(); err != nil {
		log.Warn("Push notifications disabled", "error", err)
	}
	dispatcher := workers.NewDispatcher(log, transport, config.DeliveryTimeout)

	bus := runtime.NewEventBus(log, config.BufferSize)
	registry := runtime.NewRegistry()
	announce := services.NewAnnounceService(log, presence, graph, members, dispatcher, bus, clock)

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Background workers
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(
		workers.NewEventFanout(log, registry, bus.Events(), config.SinkTimeout),
		workers.NewExpirySweeper(log, presence, graph, bus, config.SweepInterval),
	)
	supervised := make(chan struct{})
	go func() {
		sup.Run(ctx)
		close(supervised)
	}()

	// 6. HTTP Server Setup
	address := config.Address()
	server := &http.Server{
		Addr:              address,
		Handler:           api.NewServer(log, members, presence, graph, announce, registry, config.ConnectionBufferSize, config.SinkTimeout).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := server.ListenAndServe(); err != nil && !goerrors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err = <-errChan:
		stop()
		<-supervised
		return err
	}

	// 8. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err = server.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP server did not stop cleanly", "error", err)
	}
	sup.Stop()
	<-supervised
	log.Info("Program stopped cleanly")

	return nil
}
