package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/colin4124/knitkit/pkg/paths"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// EnvLogFile overrides the log file location
const EnvLogFile = "KNITKIT_LOG_FILE"

// SetupLogger configures the global logger based on verbosity level
// It sets up dual output to both console and a log file. Every record
// carries the name of the knitkit command being run.
func SetupLogger(verbosity int, command string) {
	switch verbosity {
	case 0:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case 1:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case 2:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
		NoColor:    false,
	}

	var writers []io.Writer
	writers = append(writers, consoleWriter)

	logFile := getLogFilePath()
	logFileHandle, err := setupLogFile(logFile)
	if err == nil {
		writers = append(writers, logFileHandle)
	}

	multi := io.MultiWriter(writers...)
	logCtx := zerolog.New(multi).With().Timestamp()
	if command != "" {
		logCtx = logCtx.Str("command", command)
	}
	log.Logger = logCtx.Logger()

	// If we couldn't create the log file, log the error now with the new logger
	if err != nil {
		log.Warn().Err(err).Str("path", logFile).Msg("Failed to create log file, logging to console only")
	}

	if verbosity >= 2 {
		log.Logger = log.Logger.With().Caller().Logger()
	}

	log.Debug().Int("verbosity", verbosity).Str("logFile", logFile).Msg("Logger initialized")
}

// GetLogger returns a contextualized logger with the given name
func GetLogger(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// getLogFilePath returns the path to the log file
// It respects KNITKIT_LOG_FILE, then XDG_STATE_HOME (~/.local/state by default)
func getLogFilePath() string {
	if path := os.Getenv(EnvLogFile); path != "" {
		return path
	}
	return paths.LogFilePath()
}

// setupLogFile creates the log file and its parent directories
func setupLogFile(logPath string) (*os.File, error) {
	logDir := filepath.Dir(logPath)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return file, nil
}

// Operation times one knitkit operation against a project root
type Operation struct {
	logger zerolog.Logger
	start  time.Time
}

// StartOperation logs the start of operation on the project at root
func StartOperation(logger zerolog.Logger, operation, root string) *Operation {
	l := logger.With().Str("operation", operation).Str("root", root).Logger()
	l.Debug().Msg("Operation started")
	return &Operation{logger: l, start: time.Now()}
}

// Finish logs the outcome of the operation and returns err unchanged
func (o *Operation) Finish(err error) error {
	event := o.logger.Debug()
	if err != nil {
		event = event.Err(err)
	}
	event.
		Bool("ok", err == nil).
		Dur("duration", time.Since(o.start)).
		Msg("Operation finished")
	return err
}
