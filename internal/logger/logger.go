package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// LogLevel represents the severity level of a log message
type LogLevel int

// Log levels
const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

// levelColors maps log levels to ANSI color codes
var levelColors = map[LogLevel]string{
	DEBUG: "\033[36m", // Cyan
	INFO:  "\033[32m", // Green
	WARN:  "\033[33m", // Yellow
	ERROR: "\033[31m", // Red
	FATAL: "\033[35m", // Magenta
}

// levelPrefixes maps log levels to text prefixes
var levelPrefixes = map[LogLevel]string{
	DEBUG: "DEBUG",
	INFO:  "INFO ",
	WARN:  "WARN ",
	ERROR: "ERROR",
	FATAL: "FATAL",
}

// sink is shared between a logger and every logger derived from it with With.
type sink struct {
	level     LogLevel
	logger    *log.Logger
	file      *os.File
	useColors bool
	exit      func(int)
}

// Logger writes levelled, optionally component-tagged lines
type Logger struct {
	sink      *sink
	component string
}

// ParseLevel converts a level name to a LogLevel, defaulting to INFO
func ParseLevel(levelStr string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return DEBUG
	case "info":
		return INFO
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	case "fatal":
		return FATAL
	default:
		return INFO
	}
}

// String returns the trimmed level name
func (l LogLevel) String() string {
	if p, ok := levelPrefixes[l]; ok {
		return strings.TrimSpace(p)
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// New creates a logger writing to w with the specified log level
func New(w io.Writer, levelStr string) *Logger {
	return &Logger{sink: &sink{
		level:  ParseLevel(levelStr),
		logger: log.New(w, "", 0), // prefix is formatted per line
		exit:   os.Exit,
	}}
}

// NewLogger creates a console logger with the specified log level
func NewLogger(levelStr string) *Logger {
	l := New(os.Stdout, levelStr)

	// Colors only when stdout is a terminal
	if fileInfo, err := os.Stdout.Stat(); err == nil && fileInfo.Mode()&os.ModeCharDevice != 0 {
		l.sink.useColors = true
	}

	return l
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	l := New(io.Discard, "fatal")
	l.sink.exit = func(int) {}
	return l
}

func openLogFile(filePath string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return file, nil
}

// NewFileLogger creates a new logger that writes to a file
func NewFileLogger(levelStr, filePath string) (*Logger, error) {
	file, err := openLogFile(filePath)
	if err != nil {
		return nil, err
	}

	l := New(file, levelStr)
	l.sink.file = file
	return l, nil
}

// NewMultiLogger creates a logger that writes to both console and file
func NewMultiLogger(levelStr, filePath string) (*Logger, error) {
	file, err := openLogFile(filePath)
	if err != nil {
		return nil, err
	}

	l := NewLogger(levelStr)
	l.sink.logger.SetOutput(io.MultiWriter(os.Stdout, file))
	l.sink.file = file
	return l, nil
}

// With returns a logger that tags its lines with the given component name.
// The derived logger shares level and output with its parent.
func (l *Logger) With(component string) *Logger {
	if l.component != "" {
		component = l.component + "." + component
	}
	return &Logger{sink: l.sink, component: component}
}

// output formats and writes one line; it must be called directly by the public level methods
func (l *Logger) output(level LogLevel, msg string) {
	s := l.sink
	if level < s.level {
		return
	}

	_, file, line, ok := runtime.Caller(2)
	if !ok {
		file = "unknown"
		line = 0
	}

	prefix := fmt.Sprintf("%s [%s] %s:%d:", time.Now().Format("2006/01/02 15:04:05"), levelPrefixes[level], filepath.Base(file), line)
	if s.useColors {
		prefix = levelColors[level] + prefix + "\033[0m"
	}
	if l.component != "" {
		prefix += " [" + l.component + "]"
	}

	s.logger.Println(prefix, msg)

	if level == FATAL {
		l.Close()
		s.exit(1)
	}
}

// Debug logs a debug message
func (l *Logger) Debug(v ...interface{}) { l.output(DEBUG, fmt.Sprint(v...)) }

// Debugf logs a formatted debug message
func (l *Logger) Debugf(format string, v ...interface{}) { l.output(DEBUG, fmt.Sprintf(format, v...)) }

// Info logs an info message
func (l *Logger) Info(v ...interface{}) { l.output(INFO, fmt.Sprint(v...)) }

// Infof logs a formatted info message
func (l *Logger) Infof(format string, v ...interface{}) { l.output(INFO, fmt.Sprintf(format, v...)) }

// Warn logs a warning message
func (l *Logger) Warn(v ...interface{}) { l.output(WARN, fmt.Sprint(v...)) }

// Warnf logs a formatted warning message
func (l *Logger) Warnf(format string, v ...interface{}) { l.output(WARN, fmt.Sprintf(format, v...)) }

// Error logs an error message
func (l *Logger) Error(v ...interface{}) { l.output(ERROR, fmt.Sprint(v...)) }

// Errorf logs a formatted error message
func (l *Logger) Errorf(format string, v ...interface{}) { l.output(ERROR, fmt.Sprintf(format, v...)) }

// Fatal logs a fatal message and exits the program
func (l *Logger) Fatal(v ...interface{}) { l.output(FATAL, fmt.Sprint(v...)) }

// Fatalf logs a formatted fatal message and exits the program
func (l *Logger) Fatalf(format string, v ...interface{}) { l.output(FATAL, fmt.Sprintf(format, v...)) }

// Level returns the current minimum level
func (l *Logger) Level() LogLevel { return l.sink.level }

// SetLevel sets the log level
func (l *Logger) SetLevel(levelStr string) {
	l.sink.level = ParseLevel(levelStr)
}

// SetOutput sets the output writer for the logger
func (l *Logger) SetOutput(w io.Writer) {
	l.sink.logger.SetOutput(w)
}

// EnableColors enables or disables colored output
func (l *Logger) EnableColors(enable bool) {
	l.sink.useColors = enable
}

// Close closes the logger's file if it exists
func (l *Logger) Close() {
	if l.sink.file != nil {
		l.sink.file.Close()
		l.sink.file = nil
	}
}
