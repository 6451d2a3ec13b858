package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/turtle/internal/config"
	"github.com/aretw0/turtle/internal/logging"
)

// createLogger configures the application logger.
// In debug mode it logs everything to Stderr; otherwise the configured
// level applies when verbose is set and logs are discarded when it is not.
func createLogger(cfg config.Config, debug, verbose bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	if !verbose {
		return logging.NewNop()
	}
	level, err := cfg.Level()
	if err != nil {
		level = slog.LevelInfo
	}
	format, err := logging.ParseFormat(cfg.LogFormat)
	if err != nil {
		format = logging.FormatText
	}
	return logging.NewWriter(os.Stderr, level, format)
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func handleExecutionError(err error) error {
	if err == nil || isInterrupted(err) {
		return nil
	}
	return err
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		path = config.DefaultPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("error loading config: %w", err)
	}
	return cfg, nil
}
