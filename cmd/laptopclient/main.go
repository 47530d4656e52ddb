package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"PCBook/internal/laptop"
	"PCBook/internal/sample"
	"PCBook/internal/serializer"
	"PCBook/pkg/kit"
)

var cli struct {
	Server   string        `help:"Base URL of the laptop service" default:"http://localhost:8080" env:"LAPTOP_SERVER"`
	Timeout  time.Duration `help:"Deadline for the whole command" default:"30s"`
	LogLevel string        `help:"Log level" default:"info"`

	Create      createCmd      `cmd:"" help:"Create random laptops"`
	Search      searchCmd      `cmd:"" help:"Stream laptops matching a filter"`
	Rate        rateCmd        `cmd:"" help:"Submit scores for a laptop"`
	UploadImage uploadImageCmd `cmd:"" name:"upload-image" help:"Upload an image for a laptop"`
}

type deps struct {
	ctx    context.Context
	client *laptop.Client
	log    *zap.Logger
}

type createCmd struct {
	Count       int    `help:"How many laptops to create" default:"10"`
	Seed        uint64 `help:"Generator seed" default:"1"`
	Concurrency int    `help:"Parallel create calls" default:"4"`
}

func (c *createCmd) Run(d *deps) error {
	gen := sample.NewGenerator(c.Seed)
	laptops := make([]*laptop.Laptop, c.Count)
	for i := range laptops {
		laptops[i] = gen.Laptop()
	}

	g, ctx := errgroup.WithContext(d.ctx)
	g.SetLimit(max(c.Concurrency, 1))

	for _, l := range laptops {
		g.Go(func() error {
			id, err := d.client.CreateLaptop(ctx, l)
			if err != nil {
				return fmt.Errorf("create laptop %s: %w", l.ID, err)
			}
			d.log.Info("laptop created", zap.String("laptop_id", id), zap.Float64("price_usd", l.PriceUsd))
			return nil
		})
	}
	return g.Wait()
}

type searchCmd struct {
	MaxPrice float64 `help:"Maximum price in USD" default:"3000"`
	MinCores uint32  `help:"Minimum number of CPU cores" default:"4"`
	MinGhz   float64 `help:"Minimum CPU base frequency" default:"2.5"`
	MinRAMGB uint64  `name:"min-ram-gb" help:"Minimum RAM in gigabytes" default:"8"`
	OutDir   string  `help:"Write every match as a compressed binary file into this directory" type:"path"`
}

func (c *searchCmd) Run(d *deps) error {
	if c.OutDir != "" {
		if err := os.MkdirAll(c.OutDir, 0o755); err != nil {
			return err
		}
	}

	filter := &laptop.Filter{
		MaxPriceUsd: c.MaxPrice,
		MinCPUCores: c.MinCores,
		MinCPUGhz:   c.MinGhz,
		MinRAM:      laptop.Memory{Value: c.MinRAMGB, Unit: laptop.UnitGigabyte},
	}

	found := 0
	err := d.client.SearchLaptops(d.ctx, filter, func(l *laptop.Laptop) error {
		found++
		fmt.Printf("%s\t%s %s\t%d cores @ %.2fGHz\t%d%s RAM\t$%.2f\n",
			l.ID, l.Brand, l.Name, l.CPU.NumberCores, l.CPU.MinGhz, l.RAM.Value, strings.ToLower(string(l.RAM.Unit)), l.PriceUsd)

		if c.OutDir == "" {
			return nil
		}
		return serializer.WriteBinaryFile(l, filepath.Join(c.OutDir, l.ID+".bin"))
	})
	d.log.Info("search finished", zap.Int("found", found))
	return err
}

type rateCmd struct {
	ID     string    `help:"Laptop ID" required:""`
	Scores []float64 `help:"Comma separated scores" required:""`
}

func (c *rateCmd) Run(d *deps) error {
	scores := make([]laptop.Score, len(c.Scores))
	for i, s := range c.Scores {
		scores[i] = laptop.Score{LaptopID: c.ID, Score: s}
	}

	results, err := d.client.RateLaptops(d.ctx, scores)
	for _, r := range results {
		fmt.Printf("%s\trated %d times\taverage %.3f\n", r.LaptopID, r.RatedCount, r.AverageScore)
	}
	return err
}

type uploadImageCmd struct {
	ID   string `help:"Laptop ID" required:""`
	File string `help:"Image file" required:"" type:"existingfile"`
}

func (c *uploadImageCmd) Run(d *deps) error {
	f, err := os.Open(c.File)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := d.client.UploadImage(d.ctx, c.ID, contentTypeFor(c.File), f)
	if err != nil {
		return err
	}
	d.log.Info("image uploaded", zap.String("image_id", info.ID), zap.Int64("size", info.Size))
	return nil
}

func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("laptopclient"),
		kong.Description("Command line client for the laptop catalog service."),
		kong.UsageOnError(),
	)

	log, err := kit.NewLogger("laptopclient", cli.LogLevel)
	kctx.FatalIfErrorf(err)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cli.Timeout)
	defer cancel()

	err = kctx.Run(&deps{
		ctx:    ctx,
		client: laptop.NewClient(cli.Server),
		log:    log,
	})
	kctx.FatalIfErrorf(err)
}
