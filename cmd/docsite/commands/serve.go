package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/elizaos/docsite/internal/logfields"
	"github.com/elizaos/docsite/internal/metrics"
	"github.com/elizaos/docsite/internal/server"
	"github.com/elizaos/docsite/internal/site"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Port    int    `short:"p" help:"Port to listen on (overrides config)"`
	Output  string `short:"o" help:"Output directory for the generated site (overrides config)"`
	History string `name:"history" help:"SQLite file recording build history (optional)"`
	NoWatch bool   `name:"no-watch" help:"Serve without rebuilding on content changes"`
}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if s.Port > 0 {
		cfg.Serve.Port = s.Port
	}

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	opts := server.Options{Recorder: recorder}
	if cfg.Serve.Metrics {
		prom := metrics.NewPrometheusRecorder(prometheus.NewRegistry())
		recorder = prom
		opts.Recorder = prom
		opts.MetricsHandler = prom.Handler()
	}

	var genOpts []site.Option
	genOpts = append(genOpts, site.WithRecorder(recorder))
	if s.History != "" {
		store, err := openHistoryStore(s.History)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		genOpts = append(genOpts, site.WithStore(store))
		opts.Store = store
	}

	gen, err := site.NewGenerator(cfg, resolveOutputDir(s.Output, cfg), genOpts...)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initial build. Failure is not fatal: the watcher can recover once the
	// content is fixed, and the status endpoint reports what went wrong.
	if record, _, err := gen.BuildIfChanged(ctx); err != nil {
		slog.Error("Initial build failed", logfields.Error(err))
	} else {
		for _, problem := range record.Problems {
			slog.Warn("Build problem", slog.String("problem", problem))
		}
	}

	srv := server.New(cfg, gen, opts)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })
	if !s.NoWatch {
		watcher := server.NewWatcher(cfg.Content.Dir, gen, recorder)
		g.Go(func() error { return watcher.Run(gctx) })
	}
	return g.Wait()
}
