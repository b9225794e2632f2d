package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/quotedoc/internal/app"
	"github.com/ternarybob/quotedoc/internal/common"
	"github.com/ternarybob/quotedoc/internal/server"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	// Command-line flags
	configFiles   configPaths // Multiple -config flags supported
	serverPort    = flag.Int("port", 0, "Server port (overrides config)")
	serverPortP   = flag.Int("p", 0, "Server port (shorthand, overrides config)")
	serverHost    = flag.String("host", "", "Server host (overrides config)")
	showVersion   = flag.Bool("version", false, "Print version information")
	showVersionV  = flag.Bool("v", false, "Print version information (shorthand)")
	exportIDs     = flag.String("export", "", "Comma-separated stored quotation ids to export to PDF, then exit")
	quotationFile = flag.String("quotation", "", "Quotation JSON file to export to PDF, then exit")
	companyFile   = flag.String("company", "", "Company JSON file used with -quotation")
	outputDir     = flag.String("out", "", "PDF output directory (overrides config)")

	// Global state
	config *common.Config
	logger arbor.ILogger
)

func init() {
	// Register custom flag for multiple config files
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	defer common.RecoverWithCrashFile()

	// Parse command-line flags
	flag.Parse()

	common.LoadVersionFromFile()

	// Handle version flag
	if *showVersion || *showVersionV {
		fmt.Printf("QuoteDoc version %s\n", common.GetFullVersion())
		os.Exit(0)
	}

	common.InstallCrashHandler(common.LogsDir())

	// Merge port flags (shorthand takes precedence)
	finalPort := *serverPort
	if *serverPortP != 0 {
		finalPort = *serverPortP
	}

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("quotedoc.toml"); err == nil {
			configFiles = append(configFiles, "quotedoc.toml")
		} else if _, err := os.Stat("deployments/local/quotedoc.toml"); err == nil {
			configFiles = append(configFiles, "deployments/local/quotedoc.toml")
		}
	}

	// 1. Load configuration (default -> file1 -> file2 -> ... -> env)
	var err error
	config, err = common.LoadFromFiles(configFiles...)
	if err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration files")
		os.Exit(1)
	}

	// 2. Apply command-line flag overrides (highest priority)
	common.ApplyFlagOverrides(config, finalPort, *serverHost, *outputDir)

	if err := config.Validate(); err != nil {
		arbor.NewLogger().Fatal().Err(err).Msg("Configuration rejected")
		os.Exit(1)
	}

	// 3. Initialize logger with final configuration
	logger = common.InitLogger(config)

	// 4. Print banner
	common.PrintBanner(config, logger)

	logger.Debug().
		Str("storage_type", config.Storage.Type).
		Str("badger_path", config.Storage.Badger.Path).
		Str("output_dir", config.Storage.Output.Dir).
		Str("log_level", config.Logging.Level).
		Strs("log_output", config.Logging.Output).
		Msg("Resolved configuration")

	logger.Info().
		Strs("config_files", configFiles).
		Int("port", config.Server.Port).
		Str("host", config.Server.Host).
		Msg("Application configuration loaded")

	application, err := app.New(config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize application")
		os.Exit(1)
	}
	defer application.Close()

	if *exportIDs != "" || *quotationFile != "" {
		if err := runExport(application, splitIDs(*exportIDs), *quotationFile, *companyFile); err != nil {
			logger.Error().Err(err).Msg("Export failed")
			application.Close()
			os.Exit(1)
		}
		return
	}

	serve(application)
}

// serve runs the HTTP server until interrupted
func serve(application *app.App) {
	srv := server.New(application)

	serverErr := make(chan error, 1)
	common.SafeGo(logger, "httpServer", func() {
		if err := srv.Start(); err != nil {
			serverErr <- err
		}
	})

	logger.Info().
		Str("url", fmt.Sprintf("http://%s:%d", config.Server.Host, config.Server.Port)).
		Msg("Server ready - Press Ctrl+C to stop")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sigChan:
		logger.Info().Msg("Interrupt signal received")
	case err := <-serverErr:
		logger.Error().Err(err).Msg("Server failed to start")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown failed")
	}

	logger.Info().Msg("Server stopped")
}

func splitIDs(value string) []string {
	var ids []string
	for _, id := range strings.Split(value, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
