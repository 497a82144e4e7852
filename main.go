package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edaniels/golog"

	"github.com/soar/roverctl/internal/config"
	"github.com/soar/roverctl/internal/drive"
	"github.com/soar/roverctl/internal/evdev"
	"github.com/soar/roverctl/internal/hub"
	"github.com/soar/roverctl/internal/rover"
	"github.com/soar/roverctl/internal/server"
	"github.com/soar/roverctl/internal/telemetry"
)

var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "roverctl: %v\n", err)
		os.Exit(1)
	}

	logger := golog.NewLogger("roverctl")
	if cfg.Debug {
		logger = golog.NewDevelopmentLogger("roverctl")
	}

	if err := run(cfg, logger); err != nil {
		logger.Fatalw("fatal", "error", err)
	}
}

func run(cfg *config.Config, logger golog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, shutdownSignals...)

	// Serial link to the driver board.
	rc, err := rover.Open(cfg.SerialPort, cfg.BaudRate, logger)
	if err != nil {
		return err
	}
	defer rc.Close()

	// Input device.
	reader, err := evdev.Open(cfg.InputDevice, logger)
	if err != nil {
		return err
	}

	// Boot banner on the board's display.
	if err := rc.OLEDSet(0, "roverctl ready"); err != nil {
		logger.Errorw("writing boot banner", "error", err)
	}
	if name := reader.Name(); name != "" {
		if err := rc.OLEDSet(1, name); err != nil {
			logger.Errorw("writing boot banner", "error", err)
		}
	}

	// Telemetry fan-out.
	h := hub.NewHub(logger)
	go h.Run()

	poller, battery := telemetry.NewBatteryPoller(rc, cfg.BatteryInterval, logger)
	go poller.Run(ctx)

	states := make(chan map[uint16]int32, 64)
	broadcaster := hub.NewBroadcaster(h, states, battery, logger)
	go broadcaster.Run()

	srv := server.New(h, broadcaster, rc, getWebFS(), cfg.ListenAddr, logger)
	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
	}()

	// Drive mapper consumes the event loop's state updates.
	mapper := drive.New(rc, cfg.SendRateHz, logger)
	mapperDone := make(chan struct{})
	go func() {
		defer close(mapperDone)
		mapper.Run(ctx)
	}()

	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		defer close(states)
		err := reader.Run(ctx, func(state map[uint16]int32) {
			mapper.HandleState(state)

			snapshot := make(map[uint16]int32, len(state))
			for code, value := range state {
				snapshot[code] = value
			}
			select {
			case states <- snapshot:
			default:
				// Drop if the broadcaster is behind; the next event
				// carries the cumulative state anyway.
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Errorw("event loop failed", "error", err)
		}
	}()

	logger.Infow("roverctl started", "telemetry", cfg.ListenAddr)

	select {
	case <-sigCh:
		logger.Info("shutting down")
		cancel()
	case <-readerDone:
		// Device closed or unplugged: definitive end of session.
		logger.Info("input device gone, shutting down")
		cancel()
	case err := <-serverErrCh:
		logger.Errorw("http server failed", "error", err)
		cancel()
	}

	<-readerDone
	<-mapperDone

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("http server shutdown", "error", err)
	}

	if err := rc.OLEDDefault(); err != nil {
		logger.Debugw("restoring display", "error", err)
	}

	logger.Info("roverctl stopped")
	return nil
}
