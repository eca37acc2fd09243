// Package main provides the validator command-line tool.
// It validates rooms from the configured store or from a file and prints a report.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"roomcheck/internal/config"
	"roomcheck/internal/formatter"
	"roomcheck/internal/loader"
	"roomcheck/internal/logger"
	"roomcheck/internal/models"
	"roomcheck/internal/validator"
	"roomcheck/pkg/fingerprint"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "Path to configuration file (optional)")
	ids := flag.String("id", "", "Comma-separated room ids to validate from the store")
	all := flag.Bool("all", false, "Validate every room the store lists")
	file := flag.String("file", "", "Validate a room document (.json, .yaml) instead of the store")
	modeName := flag.String("mode", "", "Strictness: strict, preview or relaxed (default from config)")
	format := flag.String("format", "table", "Output format: table or json")
	fix := flag.Bool("fix", false, "Write the cleaned, stamped record back")
	out := flag.String("out", "", "With -file -fix, write here instead of overwriting the input")

	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	mode := cfg.Mode()
	if *modeName != "" {
		var ok bool
		if mode, ok = models.ModeFor(*modeName); !ok {
			log.Error("unknown mode", "mode", *modeName)
			return 1
		}
	}

	if *format != "table" && *format != "json" {
		log.Error("unknown format", "format", *format)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	v := validator.New()

	if *file != "" {
		return runFile(log, v, *file, *out, mode, *format, *fix)
	}

	if *ids == "" && !*all {
		log.Error("Please provide -id, -all or -file")
		flag.PrintDefaults()
		return 1
	}

	store, closeStore, err := loader.Open(ctx, cfg.Store, log)
	if err != nil {
		log.Error("failed to open store", "error", err)
		return 1
	}
	defer closeStore()

	roomIDs, err := resolveIDs(ctx, store, *ids, *all)
	if err != nil {
		log.Error("failed to list rooms", "error", err)
		return 1
	}

	l := loader.New(store, v, loader.WithConcurrency(cfg.Validator.BatchConcurrency), loader.WithLogger(log))
	reports := l.LoadMany(ctx, roomIDs, mode)

	if err := printReports(roomIDs, reports, *format); err != nil {
		log.Error("failed to print reports", "error", err)
		return 1
	}

	if *fix {
		writer, ok := store.(loader.Writer)
		if !ok {
			log.Error("store does not support writes", "type", cfg.Store.Type)
			return 1
		}

		for i, report := range reports {
			if err := writeBack(ctx, writer, roomIDs[i], report); err != nil {
				log.Error("failed to write cleaned room", "room_id", roomIDs[i], "error", err)
				return 1
			}
		}

		log.Info("wrote cleaned rooms", "count", len(roomIDs))
	}

	return exitCode(reports)
}

func runFile(log *logger.Logger, v *validator.Validator, path, out string, mode models.Mode, format string, fix bool) int {
	doc, err := loader.ReadFile(path)
	if err != nil {
		log.Error("failed to read room", "path", path, "error", err)
		return 1
	}

	report := v.Validate(loader.Adapt(doc), mode)

	id := path
	if report.CleanedRecord != nil && report.CleanedRecord.ID != "" {
		id = report.CleanedRecord.ID
	}

	if err := printReports([]string{id}, []models.Report{report}, format); err != nil {
		log.Error("failed to print report", "error", err)
		return 1
	}

	if fix && report.CleanedRecord != nil {
		if out == "" {
			out = path
		}

		if err := writeFile(out, report); err != nil {
			log.Error("failed to write cleaned room", "path", out, "error", err)
			return 1
		}

		log.Info("wrote cleaned room", "path", out, "changes", len(report.Changes))
	}

	return exitCode([]models.Report{report})
}

func resolveIDs(ctx context.Context, store loader.Store, ids string, all bool) ([]string, error) {
	if all {
		lister, ok := store.(loader.Lister)
		if !ok {
			return nil, errors.New("store cannot list rooms")
		}

		return lister.List(ctx)
	}

	var out []string

	for _, id := range strings.Split(ids, ",") {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}

	return out, nil
}

func printReports(ids []string, reports []models.Report, format string) error {
	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		if len(reports) == 1 {
			return enc.Encode(reports[0])
		}

		return enc.Encode(reports)
	}

	for i, report := range reports {
		fmt.Println(formatter.FormatReport(ids[i], report))
	}

	if len(reports) > 1 {
		fmt.Print(formatter.FormatSummary(ids, reports))
	}

	return nil
}

func signedDocument(report models.Report) (loader.Document, error) {
	signed, err := fingerprint.Sign(report.CleanedRecord, report, time.Now())
	if err != nil {
		return nil, err
	}

	return loader.ToDocument(signed)
}

func writeBack(ctx context.Context, w loader.Writer, id string, report models.Report) error {
	// degenerate reports carry no record
	if report.CleanedRecord == nil {
		return nil
	}

	doc, err := signedDocument(report)
	if err != nil {
		return err
	}

	return w.Put(ctx, id, doc)
}

func writeFile(path string, report models.Report) error {
	doc, err := signedDocument(report)
	if err != nil {
		return err
	}

	var data []byte

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(doc)
	default:
		data, err = json.MarshalIndent(doc, "", "  ")
		data = append(data, '\n')
	}

	if err != nil {
		return fmt.Errorf("failed to encode room: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

func exitCode(reports []models.Report) int {
	for _, r := range reports {
		if !r.Valid {
			return 2
		}
	}

	return 0
}
