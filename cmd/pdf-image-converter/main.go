// The pdf-image-converter command runs one batch conversion between raster
// images and PDF documents, driven entirely by a TOML configuration file.
// The exit code is 0 only when every discovered item succeeds.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/BurntSushi/toml"
	"github.com/book-expert/configurator"
	"github.com/book-expert/logger"
	"github.com/spf13/cobra"

	"github.com/book-expert/pdf-image-converter/internal/config"
	"github.com/book-expert/pdf-image-converter/internal/convert"
)

// errItemsFailed is the run-level error when at least one item failed.
var errItemsFailed = errors.New("one or more items failed")

func main() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	executeErr := newRootCommand().ExecuteContext(ctx)
	if executeErr != nil {
		os.Exit(1)
	}
}

// newRootCommand builds the CLI surface: a single command with a --config
// flag, everything else comes from the configuration file.
func newRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "pdf-image-converter",
		Short: "Batch convert between raster images and PDF documents",
		Long: `Batch convert between raster images and PDF documents.

The run is driven entirely by a TOML configuration file: work mode
(img2pdf or pdf2img), input and output directories, fan-in policy,
overwrite policy, and rendering settings. One batch per invocation.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), configPath)
		},
	}

	rootCmd.Flags().StringVar(
		&configPath,
		"config",
		"",
		"path to the TOML configuration (default: project.toml at the project root)",
	)

	return rootCmd
}

// run loads the configuration, sets up logging, and executes one batch.
func run(ctx context.Context, configPath string) error {
	cfg, loadErr := loadConfig(configPath)
	if loadErr != nil {
		return loadErr
	}

	appLogger, loggerErr := logger.New(cfg.LogsDir(), "pdf-image-converter.log")
	if loggerErr != nil {
		return fmt.Errorf("failed to initialize logger: %w", loggerErr)
	}
	defer func() {
		closeErr := appLogger.Close()
		if closeErr != nil {
			log.Printf("Warning: failed to close logger: %v", closeErr)
		}
	}()

	cfg.Normalize(appLogger)

	dispatcher, newErr := convert.New(cfg, appLogger, os.Stdout)
	if newErr != nil {
		appLogger.Error("%v", newErr)

		return newErr
	}

	summary, runErr := dispatcher.Run(ctx)
	if runErr != nil {
		return runErr
	}

	if !summary.Ok() {
		return fmt.Errorf("%w: %d of %d", errItemsFailed, summary.Failed, summary.Total)
	}

	return nil
}

// loadConfig decodes the TOML configuration, locating project.toml via the
// project root when no explicit path is given.
func loadConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		_, foundPath, findErr := configurator.FindProjectRoot(".")
		if findErr != nil {
			return nil, fmt.Errorf("could not find project root: %w", findErr)
		}

		configPath = foundPath
	}

	var cfg config.Config

	_, decodeErr := toml.DecodeFile(configPath, &cfg)
	if decodeErr != nil {
		return nil, fmt.Errorf("could not load config %s: %w", configPath, decodeErr)
	}

	return &cfg, nil
}
