package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"cycle-metrics/internal/config"
	"cycle-metrics/internal/domain"
	"cycle-metrics/internal/pipeline"
	"cycle-metrics/internal/report"
	"cycle-metrics/internal/repository"
	"cycle-metrics/internal/util"
)

// loadConfig layers flags and positional arguments over the config file.
func loadConfig(cmd *cobra.Command, args []string, flags *cliFlags) (config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return config.Config{}, err
	}

	if len(args) > 0 {
		cfg.Input = args[0]
	}
	if len(args) > 1 {
		cfg.Output = args[1]
	}

	changed := cmd.Flags().Changed
	if changed("history-db") {
		cfg.HistoryDB = flags.historyDB
	}
	if changed("log-file") {
		cfg.LogFile = flags.logFile
	}
	if changed("ambiguity") {
		cfg.Ambiguity = flags.ambiguity
	}
	if changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func initLogger(cfg config.Config, stderr io.Writer) (*util.MetricsLogger, error) {
	util.SetCommonLoggerAttributes(cfg.LogLevel)

	logger := &util.MetricsLogger{}
	if err := logger.Init(stderr, cfg.LogFile, false); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	return logger, nil
}

func runExtract(cmd *cobra.Command, args []string, flags *cliFlags, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(cmd, args, flags)
	if err != nil {
		return err
	}

	logger, err := initLogger(cfg, stderr)
	if err != nil {
		return err
	}
	defer logger.DeInit()

	logText, err := pipeline.ReadLog(cfg.Input)
	if err != nil {
		logger.LogEvent(util.LOG_LEVEL_ERROR, err)
		return err
	}

	grammar, err := cfg.Grammar.Compile()
	if err != nil {
		return err
	}

	set, err := pipeline.Run(logText, grammar, cfg.Ambiguity, logger)
	if err != nil {
		logger.LogEvent(util.LOG_LEVEL_ERROR, err)
		return err
	}

	emitter := report.NewEmitter(cfg.SinkPath(), cfg.Output, stdout, logger)
	if err := emitter.Emit(set); err != nil {
		logger.LogEvent(util.LOG_LEVEL_ERROR, err)
		return err
	}

	if cfg.HistoryDB != "" {
		run := domain.NewRunRecord(cfg.Input, time.Now(), set)
		if err := recordRuns(cmd.Context(), cfg.HistoryDB, run); err != nil {
			logger.LogEvent(util.LOG_LEVEL_ERROR, "recording history:", err)
			return err
		}
		logger.LogEvent(util.LOG_LEVEL_INFO, "run", run.RunID, "recorded in", cfg.HistoryDB)
	}
	return nil
}

func runImport(cmd *cobra.Command, args []string, flags *cliFlags, stderr io.Writer) error {
	cfg, err := loadConfig(cmd, nil, flags)
	if err != nil {
		return err
	}
	if cfg.HistoryDB == "" {
		return fmt.Errorf("%w: import requires --history-db", config.ErrInvalidConfig)
	}

	logger, err := initLogger(cfg, stderr)
	if err != nil {
		return err
	}
	defer logger.DeInit()

	grammar, err := cfg.Grammar.Compile()
	if err != nil {
		return err
	}

	var runs []domain.RunRecord
	failed := 0

	for _, path := range args {
		logText, err := pipeline.ReadLog(path)
		if err == nil {
			var set domain.MetricSet
			set, err = pipeline.Run(logText, grammar, cfg.Ambiguity, logger)
			if err == nil {
				runs = append(runs, domain.NewRunRecord(path, time.Now(), set))
				continue
			}
		}
		failed++
		logger.LogEvent(util.LOG_LEVEL_ERROR, "skipping", path+":", err)
	}

	if err := recordRuns(cmd.Context(), cfg.HistoryDB, runs...); err != nil {
		logger.LogEvent(util.LOG_LEVEL_ERROR, "recording history:", err)
		return err
	}
	logger.LogEvent(util.LOG_LEVEL_INFO, "imported", len(runs), "of", len(args), "logs into", cfg.HistoryDB)

	if failed > 0 {
		return fmt.Errorf("%d of %d logs failed to import", failed, len(args))
	}
	return nil
}

func recordRuns(ctx context.Context, dbPath string, runs ...domain.RunRecord) error {
	store := repository.NewSQLiteStore(dbPath)
	if err := store.Init(); err != nil {
		return err
	}
	defer store.Close()

	for _, run := range runs {
		if err := store.StoreRun(ctx, run); err != nil {
			return err
		}
	}
	return nil
}
