// cmd/runwatch/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/tamzrod/vice-monitor/internal/config"
	"github.com/tamzrod/vice-monitor/internal/history"
	"github.com/tamzrod/vice-monitor/internal/launcher"
	"github.com/tamzrod/vice-monitor/internal/outcome"
	"github.com/tamzrod/vice-monitor/internal/probe"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: runwatch <config.yaml>")
		os.Exit(2)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	slog := logger.Sugar()

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(os.Args[1])
	if err != nil {
		slog.Fatalw("config load failed", "error", err)
	}

	if err := config.Validate(cfg); err != nil {
		slog.Fatalw("config validation failed", "error", err)
	}
	config.Normalize(cfg)

	// --------------------
	// Optional outcome history
	// --------------------

	var rec *history.Recorder
	if path := cfg.Monitor.History.Path; path != "" {
		rec, err = history.NewRecorder(path)
		if err != nil {
			slog.Fatalw("history open failed", "error", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	// --------------------
	// Watch each machine
	// --------------------

	exitCode := 0

	for _, m := range cfg.Monitor.Machines {
		res, err := watchMachine(ctx, m, slog)
		if err != nil {
			slog.Errorw("machine watch failed", "machine", m.ID, "error", err)
			exitCode = 1
			continue
		}

		fields := []any{
			"machine", m.ID,
			"type", res.Type,
			"status", res.Status,
		}
		if res.Message != "" {
			fields = append(fields, "message", res.Message)
		}
		if res.Line != nil {
			fields = append(fields, "line", *res.Line)
		}
		if res.Reason != "" {
			fields = append(fields, "reason", res.Reason)
		}
		slog.Infow("program outcome", fields...)

		if rec != nil {
			runID, err := rec.Record(
				m.ID, string(res.Type), string(res.Status),
				res.Message, res.Line, res.Reason,
			)
			if err != nil {
				slog.Warnw("history record failed", "machine", m.ID, "error", err)
			} else {
				slog.Debugw("outcome recorded", "machine", m.ID, "run_id", runID)
			}
		}

		if res.Status != outcome.StatusOK {
			exitCode = 1
		}
	}

	stop()
	if rec != nil {
		if err := rec.Close(); err != nil {
			slog.Warnw("history close failed", "error", err)
		}
	}
	_ = logger.Sync()
	os.Exit(exitCode)
}

// watchMachine connects to one machine, optionally loads and launches the
// configured program, and polls its outcome.
func watchMachine(ctx context.Context, m config.MachineConfig, slog *zap.SugaredLogger) (outcome.Result, error) {
	machine, err := probe.Build(m)
	if err != nil {
		return outcome.Result{}, fmt.Errorf("probe build: %w", err)
	}
	defer machine.Close()

	typ := outcome.ProgramType(m.Program.Type)

	if m.Program.Path != "" {
		prg, err := os.ReadFile(m.Program.Path)
		if err != nil {
			return outcome.Result{}, fmt.Errorf("read program: %w", err)
		}

		if err := launcher.VerifyRoundTrip(machine); err != nil {
			return outcome.Result{}, err
		}

		addr, err := launcher.LoadPRG(machine, prg)
		if err != nil {
			return outcome.Result{}, err
		}
		slog.Infow("program loaded",
			"machine", m.ID, "path", m.Program.Path, "address", fmt.Sprintf("$%04X", addr))

		if err := launcher.Launch(machine, typ, addr); err != nil {
			return outcome.Result{}, err
		}
	}

	timing := outcome.LoadTiming()
	slog.Debugw("polling outcome",
		"machine", m.ID, "max", timing.Max, "interval", timing.Interval)

	return outcome.Poll(ctx, typ, machine, slog.With("machine", m.ID), timing), nil
}
