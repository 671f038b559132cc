package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/cratewatch/cratewatch/pkg/cargo"
	"github.com/cratewatch/cratewatch/pkg/config"
	"github.com/cratewatch/cratewatch/pkg/fingerprint"
	"github.com/cratewatch/cratewatch/pkg/logging"
	"github.com/cratewatch/cratewatch/pkg/output"
	"github.com/cratewatch/cratewatch/pkg/registry"
	"github.com/cratewatch/cratewatch/pkg/watcher"
	"github.com/cratewatch/cratewatch/pkg/web"
)

func main() {
	f := pflag.NewFlagSet("cratewatch", pflag.ExitOnError)
	f.String("manifest", "Cargo.toml", "Path to the workspace Cargo.toml")
	f.Bool("all-features", true, "Resolve with all features enabled")
	f.Bool("locked", false, "Require Cargo.lock to be up to date")
	f.Bool("offline", false, "Run the metadata query without network access")
	f.Bool("web", false, "Serve the registry over a local JSON API instead of printing a report")
	f.Int("port", 8080, "Port for the web server (only used with --web)")
	f.Bool("watch", false, "Re-gather when Cargo.toml or Cargo.lock change (only used with --web)")
	f.Bool("json-log", false, "Emit logs as JSON")
	f.String("verbosity", "", "Log level: debug, info, warn, error")
	if err := f.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src := cargo.NewMetadataSource()
	reg, resolve, err := registry.Gather(ctx, src, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if !cfg.WebMode {
		output.PrintLicenseReport(cfg.Manifest, reg)
		return
	}

	server := web.NewServer()
	server.SetData(reg, resolve)

	if cfg.Watch {
		if err := startWatcher(ctx, cfg, src, server); err != nil {
			logging.Warn("watch mode unavailable", "error", err)
		}
	}

	go func() {
		<-ctx.Done()
		// Context cancellation has nowhere else to land: Start blocks.
		os.Exit(0)
	}()

	if err := server.Start(cfg.Port); err != nil {
		logging.Fatal("web server failed", "error", err)
	}
}

// startWatcher re-gathers the registry when the manifest or lock file
// change. Lock-file events are fingerprinted first so a rewrite with
// identical bytes skips the re-gather.
func startWatcher(ctx context.Context, cfg *config.Config, src cargo.Source, server *web.Server) error {
	mw, err := watcher.NewManifestWatcher(cfg.Manifest)
	if err != nil {
		return err
	}
	if err := mw.Start(ctx); err != nil {
		return err
	}

	debouncer := watcher.NewDebouncer(mw.Events(), 500*time.Millisecond, 5*time.Second)
	debouncer.Start(ctx)

	var lastLock uint32
	go func() {
		for ev := range debouncer.Events() {
			if ev.Type == watcher.ChangeTypeLockfile {
				sum, err := fingerprint.File(ev.Paths[0])
				if err == nil && sum == lastLock {
					logging.Debug("lock file unchanged, skipping re-gather")
					continue
				}
				if err == nil {
					lastLock = sum
				}
			}

			logging.Info("manifest changed, re-gathering", "paths", len(ev.Paths))
			reg, resolve, err := registry.Gather(ctx, src, cfg)
			if err != nil {
				logging.Error("re-gather failed", "error", err)
				continue
			}
			server.SetData(reg, resolve)
		}
	}()
	return nil
}

func setupLogging(cfg *config.Config) {
	level := slog.LevelInfo
	switch cfg.Verbosity {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	if cfg.JSONLog {
		logging.SetJSONOutput(level)
	} else {
		logging.SetLevel(level)
	}
}
