package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/qc-pdfreader/internal/actions"
	"github.com/joseph-ayodele/qc-pdfreader/internal/common"
	"github.com/joseph-ayodele/qc-pdfreader/internal/core"
	"github.com/joseph-ayodele/qc-pdfreader/internal/extract"
	"github.com/joseph-ayodele/qc-pdfreader/internal/input"
	"github.com/joseph-ayodele/qc-pdfreader/internal/results"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	cfg := common.LoadConfig()

	var (
		configPath = flag.String("config", "", "module configuration, JSON or YAML (required)")
		dir        = flag.String("in", "", "input directory; each directory holding DICOM files is one series")
		jsonOut    = flag.String("json", cfg.Output.JSONPath, "results JSON file (empty disables)")
		xlsxOut    = flag.String("xlsx", cfg.Output.XLSXPath, "results XLSX workbook (empty disables)")
		dsn        = flag.String("db", cfg.Database.DSN, "results database: postgres:// URL or SQLite path")
	)
	flag.Parse()

	if *configPath == "" {
		printError("Error: --config is required\n")
		os.Exit(1)
	}
	if (*dir == "") == (flag.NArg() == 0) {
		printError("Error: give either --in <dir> or a list of DICOM files\n")
		os.Exit(1)
	}
	cfg.Output.JSONPath = *jsonOut
	cfg.Output.XLSXPath = *xlsxOut
	cfg.Database.DSN = *dsn

	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	logger := common.NewLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runID := uuid.New()
	ctx = common.WithRunID(ctx, runID)
	logger = logger.With("run_id", runID.String())
	ctx = common.WithLogger(ctx, logger)

	moduleCfg, err := actions.LoadFile(*configPath, logger)
	if err != nil {
		logger.Error("failed to load config", "path", *configPath, "error", err)
		os.Exit(1)
	}

	var data *input.Data
	if *dir != "" {
		data, _, err = input.FromDir(*dir, logger)
		if err != nil {
			logger.Error("failed to discover input", "dir", *dir, "error", err)
			os.Exit(1)
		}
	} else {
		data, err = input.FromFiles(flag.Args(), logger)
		if err != nil {
			logger.Error("invalid input files", "error", err)
			os.Exit(1)
		}
	}

	var writers []results.Writer
	if cfg.Output.JSONPath != "" {
		writers = append(writers, results.NewJSONWriter(cfg.Output.JSONPath))
	}
	if cfg.Output.XLSXPath != "" {
		writers = append(writers, results.NewXLSXWriter(cfg.Output.XLSXPath))
	}
	var db *results.DBWriter
	if cfg.Database.DSN != "" {
		db, err = results.OpenDB(ctx, cfg.Database, logger)
		if err != nil {
			logger.Error("failed to open results database", "error", err)
			stop()
			os.Exit(1)
		}
		defer db.Close()
		writers = append(writers, db)
	}
	if len(writers) == 0 {
		logger.Warn("no result outputs configured, results are discarded")
	}

	sink := results.NewCollector(logger, writers...)
	processor := core.NewProcessor(logger, extract.NewExtractor(logger))

	logger.Info("starting run", "config", *configPath, "actions", len(moduleCfg.Actions), "files", data.FileCount())
	if err := processor.Run(ctx, moduleCfg, data, sink); err != nil {
		logger.Error("run failed", "error", err)
		if db != nil {
			db.Close()
		}
		stop()
		os.Exit(1)
	}

	fmt.Printf("QC run complete!\n")
	fmt.Printf("- Run: %s\n", runID)
	fmt.Printf("- Results: %d\n", len(sink.Results()))
	if cfg.Output.JSONPath != "" {
		fmt.Printf("- JSON: %s\n", cfg.Output.JSONPath)
	}
	if cfg.Output.XLSXPath != "" {
		fmt.Printf("- XLSX: %s\n", cfg.Output.XLSXPath)
	}
}
