// # cmd/classlink/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"classlink/internal/core/app"
	"classlink/internal/core/config"
	"classlink/internal/core/ports"
	"classlink/internal/data/store"
	"classlink/internal/events"
	"classlink/internal/report"
	"classlink/internal/shared/observability"
	"classlink/internal/shared/util"
	"classlink/internal/shared/version"
	"classlink/internal/watcher"
)

var (
	configPath   = flag.String("config", "./classlink.toml", "Path to config file")
	once         = flag.Bool("once", false, "Run single pass and exit")
	watch        = flag.Bool("watch", false, "Watch documentation roots and re-run on change")
	reportPath   = flag.String("report", "", "Write markdown report to this path after each run")
	verbose      = flag.Bool("verbose", false, "Enable verbose logging")
	printVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *printVersion {
		fmt.Printf("classlink v%s\n", version.Version)
		os.Exit(0)
	}

	// Setup logging
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		if os.IsNotExist(err) && *configPath == "./classlink.toml" {
			slog.Debug("no config file found, using defaults")
			cfg = config.Default()
		} else {
			slog.Error("failed to load config", "error", err)
			os.Exit(2)
		}
	}
	config.ApplyEnvOverrides(cfg)

	if flag.NArg() > 0 {
		cfg.Discovery.Roots = flag.Args()
	}
	if *reportPath != "" {
		cfg.Report.Enabled = true
		cfg.Report.Path = *reportPath
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.Observability.EnableTracing {
		shutdown, err := observability.InitTracing(ctx, cfg.Observability.OTLPEndpoint, version.Version)
		if err != nil {
			slog.Warn("tracing disabled", "error", err)
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					slog.Warn("tracing shutdown failed", "error", err)
				}
			}()
		}
	}

	var specStore ports.SpecStore
	if cfg.DB.Enabled {
		s, err := store.Open(cfg.DB.Path)
		if err != nil {
			slog.Error("failed to open spec store", "path", cfg.DB.Path, "error", err)
			os.Exit(2)
		}
		defer func() { _ = s.Close() }()
		specStore = s
	}

	a, err := app.New(cfg, specStore, events.NewSlogSink(logger))
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		os.Exit(2)
	}

	runOnce := func() int {
		result, err := a.Run(ctx)
		if err != nil {
			slog.Error("run failed", "error", err)
			return 2
		}

		slog.Info("run complete",
			"run", result.RunID,
			"files", result.Files,
			"entities", len(result.Specs),
			"errors", len(result.Errors),
			"warnings", len(result.Warnings),
			"unresolved", len(result.Unresolved),
			"persisted", result.Persisted)

		if cfg.Report.Enabled {
			gen := report.NewMarkdownGenerator()
			opts := report.RunReportOptions{RunID: result.RunID, Version: version.Version}
			if err := gen.WriteFile(cfg.Report.Path, result.ReportData(), opts); err != nil {
				slog.Error("failed to write report", "path", cfg.Report.Path, "error", err)
				return 2
			}
			slog.Info("report written", "path", cfg.Report.Path)
		}

		if len(result.Errors) > 0 {
			return 1
		}
		return 0
	}

	code := runOnce()
	if *once || !*watch {
		os.Exit(code)
	}

	if cfg.Observability.MetricsAddr != "" {
		obsServer := observability.NewServer(cfg.Observability.MetricsAddr, version.Version)
		if err := obsServer.Start(ctx); err != nil {
			slog.Warn("observability server not started", "error", err)
		} else {
			defer func() { _ = obsServer.Stop(context.Background()) }()
		}
	}

	// Debounce handles editor save bursts; the limiter caps sustained churn
	// so a generator rewriting docs in a loop cannot pin the pipeline.
	limiter := util.NewLimiter(1, 2)
	w, err := watcher.NewWatcher(cfg.Watch.Debounce, []string{"node_modules", ".git", "vendor"}, func(paths []string) {
		if !limiter.Allow(1) {
			slog.Debug("change burst throttled", "files", len(paths))
			return
		}
		slog.Info("documentation changed, re-running", "files", len(paths))
		runOnce()
	})
	if err != nil {
		slog.Error("failed to start watcher", "error", err)
		os.Exit(2)
	}
	defer func() { _ = w.Close() }()

	if err := w.Watch(cfg.Discovery.Roots); err != nil {
		slog.Error("failed to watch roots", "roots", cfg.Discovery.Roots, "error", err)
		os.Exit(2)
	}

	slog.Info("watching for changes", "roots", cfg.Discovery.Roots, "debounce", cfg.Watch.Debounce)
	<-ctx.Done()
}
