package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rshade/virtuallist/internal/config"
	"github.com/rshade/virtuallist/internal/logging"
)

// tuiLogFile is the log file used while the TUI owns the terminal.
const tuiLogFile = "virtuallist.log"

// setupLogging configures logging based on config file, environment, and CLI flags.
func setupLogging(cmd *cobra.Command) logging.LogPathResult {
	loggingCfg := config.GetLoggingConfig()

	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		loggingCfg.Level = "debug"
		loggingCfg.Format = logging.FormatConsole
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		loggingCfg.Level = level
	}

	// Console output would be painted over by the TUI; send it to a file.
	if cmd.Annotations[annotationTUI] != "" && loggingCfg.File == "" {
		if dir, err := config.GetConfigDir(); err == nil {
			loggingCfg.File = filepath.Join(dir, "logs", tuiLogFile)
		}
	}

	result := logging.NewLoggerWithPath(loggingCfg.ToLoggingConfig())
	logger = logging.ComponentLogger(result.Logger, "cli")

	if result.UsingFile && cmd.Annotations[annotationTUI] == "" {
		logging.PrintLogPathMessage(cmd.ErrOrStderr(), result.FilePath)
	} else if result.FallbackUsed {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	}

	ctx := cmd.Context()
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)
	ctx = logger.WithContext(ctx)
	cmd.SetContext(ctx)

	logger.Debug().Ctx(ctx).
		Str("command", cmd.CommandPath()).
		Str("log_level", loggingCfg.Level).
		Msg("command started")

	return result
}

// cleanupLogging closes the log file handle.
func cleanupLogging(logResult *logging.LogPathResult) error {
	if logResult == nil {
		return nil
	}
	if err := logResult.Close(); err != nil {
		return fmt.Errorf("closing log file: %w", err)
	}
	return nil
}
