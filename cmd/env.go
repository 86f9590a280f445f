package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/papapumpkin/newsrank/internal/config"
	"github.com/papapumpkin/newsrank/internal/history"
	"github.com/papapumpkin/newsrank/internal/logging"
	"github.com/papapumpkin/newsrank/internal/pipeline"
	"github.com/papapumpkin/newsrank/internal/power"
	"github.com/papapumpkin/newsrank/internal/report"
	"github.com/papapumpkin/newsrank/internal/telemetry"
	"github.com/papapumpkin/newsrank/internal/ui"
)

// env bundles everything a command needs for one invocation.
type env struct {
	cfg     config.Config
	format  report.Format
	log     *slog.Logger
	printer *ui.Printer
	tel     *telemetry.Emitter
	store   *history.Store
	runner  *pipeline.Runner
}

// newEnv wires logger, telemetry, and history from cfg. Results go to
// out; logs and status lines go to status.
func newEnv(ctx context.Context, cfg config.Config, out, status io.Writer) (*env, error) {
	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	level := cfg.LogLevel
	if cfg.Verbose {
		level = "debug"
	}

	e := &env{
		cfg:     cfg,
		format:  format,
		log:     logging.New(level, cfg.LogFormat, status),
		printer: ui.New(out, status),
	}
	if cfg.TelemetryPath != "" {
		if e.tel, err = telemetry.NewEmitter(cfg.TelemetryPath); err != nil {
			return nil, err
		}
	}
	if cfg.HistoryPath != "" {
		if e.store, err = history.Open(ctx, cfg.HistoryPath); err != nil {
			e.close()
			return nil, err
		}
	}
	e.runner = pipeline.New(e.log, e.tel)
	return e, nil
}

func (e *env) close() {
	if err := e.tel.Close(); err != nil {
		e.log.Warn("closing telemetry", "error", err)
	}
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			e.log.Warn("closing history", "error", err)
		}
	}
}

func (e *env) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		TeleportRate: e.cfg.TeleportRate,
		Power: power.Options{
			MaxIterations: e.cfg.MaxIterations,
			Tolerance:     e.cfg.Tolerance,
			Workers:       e.cfg.Workers,
		},
	}
}

// loadEnv reads the resolved configuration and builds an env for cmd.
func loadEnv(ctx context.Context, out, status io.Writer) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return newEnv(ctx, cfg, out, status)
}
