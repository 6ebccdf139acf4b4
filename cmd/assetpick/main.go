// Command assetpick picks images from a directory and exports them
// cropped and resized, streaming each result as it is produced. It is
// the headless demo of the picker engine; a UI embeds the same
// packages behind widgets instead of flags.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/assetpick/assetpick/export"
	"github.com/assetpick/assetpick/pick"
	"github.com/assetpick/assetpick/pkg/logger"
	"github.com/assetpick/assetpick/source"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("assetpick %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		}
	}

	var (
		dir        = flag.String("dir", ".", "directory to pick images from")
		out        = flag.String("out", "", "export directory (default: temp dir)")
		count      = flag.Int("count", 0, "number of images to select (0 = all, up to max-assets)")
		configFile = flag.String("config", "", "optional config file (yaml)")
	)
	flag.Parse()

	log, err := logger.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	opts, err := loadOptions(*configFile, *out)
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log, *dir, *count, opts); err != nil {
		log.Fatal("pick failed", zap.Error(err))
	}
}

// loadOptions builds picker options from defaults, an optional config
// file, and the -out flag.
func loadOptions(configFile, out string) (pick.Options, error) {
	opts := pick.DefaultOptions()

	v := viper.New()
	v.SetDefault("max_assets", opts.MaxAssets)
	v.SetDefault("page_size", opts.PageSize)
	v.SetDefault("output_size", opts.PreferredOutputSize)
	v.SetDefault("ratios", opts.CropRatios)
	v.SetEnvPrefix("ASSETPICK")
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return opts, fmt.Errorf("failed to read config: %w", err)
		}
	}

	opts.MaxAssets = v.GetInt("max_assets")
	opts.PageSize = v.GetInt("page_size")
	opts.PreferredOutputSize = v.GetFloat64("output_size")
	if ratios := v.GetStringSlice("ratios"); len(ratios) > 0 {
		opts.CropRatios = nil
		for _, r := range ratios {
			var f float64
			if _, err := fmt.Sscanf(r, "%f", &f); err == nil && f > 0 {
				opts.CropRatios = append(opts.CropRatios, f)
			}
		}
	}

	if out != "" {
		sink, err := export.NewDirSink(out)
		if err != nil {
			return opts, err
		}
		opts.Sink = sink
	}
	return opts, nil
}

// run executes one headless picking session over a directory source.
func run(ctx context.Context, log *zap.Logger, dir string, count int, opts pick.Options) error {
	src := source.NewDirSource(dir)

	opts.Interactor = pick.InteractorFunc(func(ctx context.Context, env pick.Env) (bool, error) {
		page, err := env.Source.Assets(ctx, "", 0, env.PageSize)
		if err != nil {
			return false, err
		}
		n := len(page)
		if count > 0 && count < n {
			n = count
		}
		for _, a := range page[:n] {
			if err := env.Store.Add(a); err != nil {
				log.Warn("skipping asset", zap.String("asset", a.ID), zap.Error(err))
				break
			}
		}
		return env.Store.Len() > 0, nil
	})

	res, err := pick.New(log).Pick(ctx, src, opts)
	if errors.Is(err, pick.ErrCancelled) {
		log.Info("nothing selected")
		return nil
	}
	if err != nil {
		return err
	}

	log.Info("selection confirmed", zap.Int("assets", len(res.Assets)))

	exported, failed := 0, 0
	for r := range res.Exports {
		if r.Failed() {
			failed++
			log.Warn("export failed",
				zap.String("asset", r.Asset.ID),
				zap.String("kind", r.Kind.String()),
				zap.Error(r.Err))
			continue
		}
		exported++
		fmt.Printf("%s -> %s\n", r.Asset.ID, r.Location)
	}

	log.Info("export finished", zap.Int("exported", exported), zap.Int("failed", failed))
	if ctx.Err() != nil {
		log.Warn("export interrupted", zap.Error(ctx.Err()))
	}
	return nil
}
