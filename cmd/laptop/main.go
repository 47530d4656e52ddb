package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"PCBook/internal/config"
	"PCBook/internal/laptop"
	"PCBook/pkg/kit"
)

func main() {
	service := "laptop"

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := kit.NewLogger(service, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("configuration loaded",
		zap.String("addr", cfg.Server.Addr),
		zap.Int("store_shards", cfg.Store.Shards),
		zap.String("image_dir", cfg.Images.Dir),
		zap.Bool("metrics_enabled", cfg.Metrics.Enabled))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	s := &laptop.Server{
		Store:        laptop.NewMemStore(cfg.Store.Shards),
		Ratings:      laptop.NewMemRatingStore(cfg.Store.Shards),
		Images:       laptop.NewDiskImageStore(cfg.Images.Dir),
		Log:          log,
		MaxImageSize: cfg.Images.MaxSize,
	}

	h := laptop.NewHandler(s, laptop.HTTPDeps{
		Log:             log,
		Service:         service,
		Registry:        reg,
		MetricsEnabled:  cfg.Metrics.Enabled,
		MetricsToken:    cfg.Metrics.Token,
		WritesPerSecond: cfg.RateLimit.WritesPerSecond,
		WriteBurst:      cfg.RateLimit.WriteBurst,
	})

	opts := kit.ServerOptions{
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ShutdownTimeout:   cfg.Server.ShutdownTimeout,
	}
	if err := kit.RunHTTPServer(cfg.Server.Addr, h, opts, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
