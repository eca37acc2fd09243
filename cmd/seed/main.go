// Package main provides the seed command-line tool.
// It waits for the target store to come up, then copies a directory of room
// documents into it, optionally validating each one first.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"roomcheck/internal/config"
	"roomcheck/internal/loader"
	"roomcheck/internal/logger"
	"roomcheck/internal/models"
	"roomcheck/internal/validator"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
)

// Options holds the seeder configuration.
type Options struct {
	SourceDir     string
	HealthTimeout time.Duration
	Mode          models.Mode
	Validate      bool
	SkipInvalid   bool
}

func logInfo(msg string) {
	fmt.Printf("%s[SEEDER]%s %s\n", colorGreen, colorReset, msg)
}

func logWarn(msg string) {
	fmt.Printf("%s[SEEDER]%s %s\n", colorYellow, colorReset, msg)
}

func logError(msg string) {
	fmt.Printf("%s[SEEDER]%s %s\n", colorRed, colorReset, msg)
}

func main() {
	configPath := flag.String("config", "", "Path to configuration file (optional)")
	source := flag.String("source", "./data", "Directory of room documents to seed from")
	healthTimeout := flag.Duration("health-timeout", 60*time.Second, "How long to wait for the store")
	validate := flag.Bool("validate", true, "Validate rooms before writing them")
	skipInvalid := flag.Bool("skip-invalid", false, "Skip rooms that fail validation instead of writing them")
	modeName := flag.String("mode", "", "Strictness used with -validate")

	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logError(fmt.Sprintf("Failed to load config: %v", err))
		os.Exit(1)
	}

	if cfg.Store.Type == config.StoreFile || cfg.Store.Type == config.StoreHTTP {
		logError(fmt.Sprintf("Store type %q is not a seed target; use postgres or redis", cfg.Store.Type))
		os.Exit(1)
	}

	mode := cfg.Mode()
	if *modeName != "" {
		var ok bool
		if mode, ok = models.ModeFor(*modeName); !ok {
			logError(fmt.Sprintf("Unknown mode %q", *modeName))
			os.Exit(1)
		}
	}

	opts := Options{
		SourceDir:     *source,
		HealthTimeout: *healthTimeout,
		Mode:          mode,
		Validate:      *validate,
		SkipInvalid:   *skipInvalid,
	}

	if code := run(context.Background(), cfg, opts); code != 0 {
		os.Exit(code)
	}
}

func run(ctx context.Context, cfg *config.Config, opts Options) int {
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	target, closeTarget, ok := waitForStore(ctx, cfg.Store, opts.HealthTimeout, log)
	if !ok {
		logError("Aborting seeding - store not available")
		return 1
	}
	defer closeTarget()

	writer, ok := target.(loader.Writer)
	if !ok {
		logError(fmt.Sprintf("Store %q does not accept writes", cfg.Store.Type))
		return 1
	}

	src := loader.NewFileStore(opts.SourceDir)

	ids, err := src.List(ctx)
	if err != nil {
		logError(fmt.Sprintf("Failed to list %s: %v", opts.SourceDir, err))
		return 1
	}

	logInfo(fmt.Sprintf("Seeding %d rooms from %s into %s", len(ids), opts.SourceDir, cfg.Store.Type))

	res := seed(ctx, src, writer, ids, opts)

	logInfo("===========================================")
	logInfo(fmt.Sprintf("Seeding complete! written=%d skipped=%d failed=%d", res.written, res.skipped, res.failed))
	logInfo("===========================================")

	if res.failed > 0 {
		return 1
	}

	return 0
}

type result struct {
	written int
	skipped int
	failed  int
}

func seed(ctx context.Context, src *loader.FileStore, dst loader.Writer, ids []string, opts Options) result {
	var res result

	v := validator.New()

	for _, id := range ids {
		doc, err := src.Fetch(ctx, id)
		if err != nil {
			logError(fmt.Sprintf("Failed to read %s: %v", id, err))
			res.failed++

			continue
		}

		if opts.Validate {
			report := v.Validate(loader.Adapt(doc), opts.Mode)
			if !report.Valid {
				logWarn(fmt.Sprintf("%s has %d validation errors (first: %s)", id, len(report.Errors), report.Errors[0].Rule))

				if opts.SkipInvalid {
					res.skipped++
					continue
				}
			}
		}

		if err := dst.Put(ctx, id, doc); err != nil {
			logError(fmt.Sprintf("Failed to write %s: %v", id, err))
			res.failed++

			continue
		}

		res.written++
	}

	return res
}

// waitForStore retries opening the store until it answers or timeout passes.
func waitForStore(ctx context.Context, cfg config.StoreConfig, timeout time.Duration, log *logger.Logger) (loader.Store, func(), bool) {
	startTime := time.Now()
	logInfo(fmt.Sprintf("Waiting for %s store...", cfg.Type))

	for {
		store, closeStore, err := loader.Open(ctx, cfg, log)
		if err == nil {
			logInfo("Store is ready!")
			return store, closeStore, true
		}

		if time.Since(startTime) >= timeout {
			logError(fmt.Sprintf("Store not ready within %v: %v", timeout, err))
			return nil, func() {}, false
		}

		fmt.Print(".")
		time.Sleep(2 * time.Second)
	}
}
