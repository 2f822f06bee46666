package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"cycle-metrics/internal/repository"
	"cycle-metrics/internal/router"
	"cycle-metrics/internal/util"
)

var (
	dbPath   string
	addr     string
	logLevel int

	rootCmd = &cobra.Command{
		Use:          "cyclemetrics-api",
		Short:        "Serve recorded benchmark runs over HTTP",
		SilenceUsage: true,
		RunE:         serve,
	}
)

func init() {
	rootCmd.Flags().StringVar(&dbPath, "db", "../db/history.db", "sqlite history database written by cyclemetrics --history-db")
	rootCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	rootCmd.Flags().IntVar(&logLevel, "log-level", util.LOG_LEVEL_INFO, "1=error 2=warn 3=info 4=debug")
}

func LoggerInitialize() (*util.MetricsLogger, error) {

	logger := &util.MetricsLogger{}

	ConstructAndCreateLogFolder()

	if err := logger.Init(os.Stderr, "webService.log", false); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.LogEvent(util.LOG_LEVEL_INFO, "Service started at", time.Now().Format(time.RFC3339))

	return logger, nil
}

func serve(cmd *cobra.Command, args []string) error {

	logger, err := LoggerInitialize()
	if err != nil {
		return err
	}
	defer logger.DeInit()

	util.CheckAndCreateLogFolder(filepath.Dir(dbPath))

	store := repository.NewSQLiteStore(dbPath)
	if err := store.Init(); err != nil {
		logger.LogEvent(util.LOG_LEVEL_ERROR, "Failed to initialize run store:", err)
		return err
	}
	defer store.Close()

	return router.Run(addr, store, logger)
}

func ConstructAndCreateLogFolder() {
	logPath := ".." + string(os.PathSeparator) + "log"
	util.SetLoggerPath(logPath)
	util.SetCommonLoggerAttributes(logLevel)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
