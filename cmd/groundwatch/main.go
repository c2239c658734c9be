package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aerolith-io/groundwatch/internal/api"
	"github.com/aerolith-io/groundwatch/internal/config"
	"github.com/aerolith-io/groundwatch/internal/lib/logger/sl"
	"github.com/aerolith-io/groundwatch/internal/mavlink"
	"github.com/aerolith-io/groundwatch/internal/monitor"
	"github.com/aerolith-io/groundwatch/internal/ui"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "path to config file")
	headless := flag.Bool("headless", false, "log display updates instead of running the TUI")
	flag.Parse()

	cfg := config.MustLoad(*configPath)

	log := setupLogger(cfg, *headless, os.Stderr)

	log.Info("starting groundwatch",
		slog.String("env", cfg.Env),
		slog.String("link_address", cfg.Link.Address),
		slog.Bool("headless", *headless),
	)

	link, err := mavlink.Listen(log, cfg.Link.Address)
	if err != nil {
		log.Error("failed to open telemetry link", sl.Err(err))
		os.Exit(1)
	}
	defer link.Close()

	// One-time gate: nothing is dispatched until a live vehicle has
	// been observed. Unbounded unless a timeout is configured.
	gateCtx := context.Background()
	if cfg.Link.HeartbeatTimeout > 0 {
		var cancel context.CancelFunc
		gateCtx, cancel = context.WithTimeout(gateCtx, cfg.Link.HeartbeatTimeout)
		defer cancel()
	}

	log.Info("waiting for heartbeat", slog.String("address", cfg.Link.Address))
	hb, err := link.WaitForHeartbeat(gateCtx)
	if err != nil {
		log.Error("no heartbeat observed, aborting startup", sl.Err(err))
		os.Exit(1)
	}
	log.Info("heartbeat received",
		slog.Bool("armed", hb.Armed()),
		slog.String("mode", mavlink.ModeLabel(hb)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var core *monitor.Core
	var program *tea.Program
	var programSink *ui.ProgramSink

	if *headless {
		core = monitor.NewCore(log, link, monitor.NewLogSink(log), cfg.Monitor.MaxMessages)
	} else {
		programSink = ui.NewProgramSink()
		core = monitor.NewCore(log, link, programSink, cfg.Monitor.MaxMessages)
		model := ui.NewModel(core.RequestClear)
		program = tea.NewProgram(model, tea.WithAltScreen())
		programSink.Attach(program)
	}

	var apiServer *api.Server
	if cfg.API.Enabled {
		apiServer = api.NewServer(log, cfg.API.Address, core)
		apiServer.AddChecker(api.NewLinkHealthChecker(core.LastMessageAt, cfg.Monitor.StaleAfter))
		if err := apiServer.Start(); err != nil {
			log.Error("failed to start api server", sl.Err(err))
			os.Exit(1)
		}
	}

	go core.Run(ctx, cfg.Link.TickInterval)

	if *headless {
		waitForSignal(log)
	} else {
		if _, err := program.Run(); err != nil {
			log.Error("tui exited with error", sl.Err(err))
		}
	}

	cancel()

	if apiServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := apiServer.Stop(shutdownCtx); err != nil {
			log.Error("failed to stop api server", sl.Err(err))
		}
	}

	log.Info("groundwatch stopped")
}

// setupLogger picks the log destination. The TUI owns the terminal, so
// interactive mode logs to the configured file or nowhere at all. A log
// file that cannot be opened is reported on warnings before the TUI
// takes over the terminal.
func setupLogger(cfg *config.Config, headless bool, warnings io.Writer) *slog.Logger {
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err == nil {
			return sl.SetupLoggerWithWriter(f, cfg.Log.Level, cfg.Log.Format)
		}
		fmt.Fprintf(warnings, "groundwatch: cannot open log file %s: %v\n", cfg.Log.File, err)
	}
	if headless {
		return sl.SetupLogger(cfg.Log.Level, cfg.Log.Format)
	}
	return sl.SetupLoggerWithWriter(io.Discard, cfg.Log.Level, cfg.Log.Format)
}

func waitForSignal(log *slog.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info("received signal, shutting down", slog.String("signal", sig.String()))
}
