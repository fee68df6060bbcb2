// Package logger provides console logging for simbuild.
//
// Output is line-oriented, prefixed with [HH:MM:SS] timestamps, filtered by
// level and colored when the destination is a terminal. Implementations are
// safe for concurrent use.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/harrison/simbuild/internal/build"
	"github.com/harrison/simbuild/internal/display"
	"github.com/harrison/simbuild/internal/staging"
	"github.com/mattn/go-isatty"
)

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// Logger is the logging surface used by the CLI.
type Logger interface {
	LogTrace(message string)
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
	LogPlan(plan *build.Plan, elapsed time.Duration)
	LogStaged(dir string, manifest *staging.Manifest)
	LogWarning(w display.Warning)
}

// ConsoleLogger logs to a writer with timestamps and thread safety.
// It supports log level filtering to control message verbosity.
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
// Valid levels: trace, debug, info, warn, error (case-insensitive); anything else means info.
// Color output is enabled when writer is a terminal and NO_COLOR is unset.
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// isTerminal checks if the writer is a terminal that supports colors.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	if color.NoColor && (f == os.Stdout || f == os.Stderr) {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// normalizeLogLevel converts a log level string to lowercase and validates it.
// Returns "info" as default for empty or invalid levels.
func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))
	switch normalized {
	case "trace", "debug", "info", "warn", "error":
		return normalized
	default:
		return "info"
	}
}

// logLevelToInt converts a log level string to its numeric value.
func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(cl.logLevel)
}

// LogTrace logs a trace-level message (most verbose).
func (cl *ConsoleLogger) LogTrace(message string) {
	cl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil || !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	shown := level
	if cl.colorOutput {
		shown = levelColor(level).Sprint(level)
	}
	fmt.Fprintf(cl.writer, "[%s] [%s] %s\n", timestamp(), shown, message)
}

func levelColor(level string) *color.Color {
	switch level {
	case "TRACE":
		return color.New(color.FgHiBlack)
	case "DEBUG":
		return color.New(color.FgCyan)
	case "INFO":
		return color.New(color.FgBlue)
	case "WARN":
		return color.New(color.FgYellow)
	case "ERROR":
		return color.New(color.FgRed)
	default:
		return color.New(color.Reset)
	}
}

// LogPlan logs a one-line summary of a resolved build plan at INFO level.
// Format: "[HH:MM:SS] Resolved SIMULATOR (asyncify): 3 dirs, 12 sources, 4 macros in 15ms"
func (cl *ConsoleLogger) LogPlan(plan *build.Plan, elapsed time.Duration) {
	if cl.writer == nil || plan == nil || !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	target := plan.Target
	counts := fmt.Sprintf("%d dirs, %d sources, %d macros", len(plan.IncludeDirs), len(plan.Sources), plan.Macros.Len())
	if cl.colorOutput {
		target = color.New(color.FgCyan).Sprint(target)
		counts = color.New(color.FgGreen).Sprint(counts)
	}

	fmt.Fprintf(cl.writer, "[%s] Resolved %s (%s): %s in %s\n",
		timestamp(), target, plan.Strategy, counts, elapsed.Round(time.Millisecond))
}

// LogStaged logs where a manifest was written at INFO level.
func (cl *ConsoleLogger) LogStaged(dir string, manifest *staging.Manifest) {
	if manifest == nil {
		return
	}
	cl.logWithLevel("INFO", fmt.Sprintf("Staged build %s in %s", manifest.BuildID, dir))
}

// LogWarning renders a multi-line warning at WARN level, without a timestamp.
func (cl *ConsoleLogger) LogWarning(w display.Warning) {
	if cl.writer == nil || !cl.shouldLog("warn") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	w.Fprint(cl.writer, cl.colorOutput)
}

// timestamp returns the current time formatted as "15:04:05" (HH:MM:SS).
func timestamp() string {
	return time.Now().Format("15:04:05")
}

// NoOpLogger is a Logger implementation that discards all log messages.
type NoOpLogger struct{}

// NewNoOpLogger creates a NoOpLogger instance.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (n *NoOpLogger) LogTrace(message string)                          {}
func (n *NoOpLogger) LogDebug(message string)                          {}
func (n *NoOpLogger) LogInfo(message string)                           {}
func (n *NoOpLogger) LogWarn(message string)                           {}
func (n *NoOpLogger) LogError(message string)                          {}
func (n *NoOpLogger) LogPlan(plan *build.Plan, elapsed time.Duration)  {}
func (n *NoOpLogger) LogStaged(dir string, manifest *staging.Manifest) {}
func (n *NoOpLogger) LogWarning(w display.Warning)                     {}
