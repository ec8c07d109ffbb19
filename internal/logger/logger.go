package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Leveled logger shared by every package. Writes to the console by default;
// bot deployments switch to a log file so prediction runs leave an audit
// trail without polluting chat output.

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorOrange = "\033[38;5;208m"
)

var (
	defaultLogger *Logger
	logFile       *os.File
	showDateTime  bool
)

type Logger struct {
	out   *log.Logger
	errs  *log.Logger
	level LogLevel
	color bool
}

func init() {
	defaultLogger = NewLogger(INFO)
}

// NewLogger builds a console logger at the given level.
func NewLogger(level LogLevel) *Logger {
	return &Logger{
		out:   log.New(os.Stdout, "", flags()),
		errs:  log.New(os.Stderr, "", flags()),
		level: level,
		color: true,
	}
}

func flags() int {
	if showDateTime {
		return log.Ldate | log.Ltime
	}
	return 0
}

// SetLevel changes the minimum level emitted by the default logger.
func SetLevel(level LogLevel) {
	defaultLogger.level = level
}

// SetShowDateTime toggles timestamps on every line.
func SetShowDateTime(value bool) {
	showDateTime = value
	defaultLogger.out.SetFlags(flags())
	defaultLogger.errs.SetFlags(flags())
}

// SetLogFile redirects all output to the given file, keeping the console
// when tee is true. Colors are disabled for file-only targets.
func SetLogFile(path string, tee bool) error {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	logFile = f

	var outW, errW io.Writer = f, f
	if tee {
		outW = io.MultiWriter(os.Stdout, f)
		errW = io.MultiWriter(os.Stderr, f)
	}

	defaultLogger.out = log.New(outW, "", flags())
	defaultLogger.errs = log.New(errW, "", flags())
	defaultLogger.color = tee
	return nil
}

// Close releases the log file, if one is open.
func Close() error {
	if logFile != nil {
		err := logFile.Close()
		logFile = nil
		return err
	}
	return nil
}

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

func (l *Logger) log(level LogLevel, msg string, args ...any) {
	if level < l.level {
		return
	}

	_, file, line, ok := runtime.Caller(2)
	if !ok {
		file, line = "unknown", 0
	}
	file = filepath.Base(file)

	if len(args) > 0 {
		msg = msg + " " + formatArgs(args...)
	}

	var colorCode string
	switch level {
	case DEBUG:
		colorCode = colorBlue
	case INFO:
		colorCode = colorGreen
	case WARN:
		colorCode = colorYellow
	case ERROR:
		colorCode = colorOrange
	case FATAL:
		colorCode = colorRed
	}

	var logMsg string
	if l.color {
		logMsg = fmt.Sprintf("[%s] %s:%d: %s%s%s", level, file, line, colorCode, msg, colorReset)
	} else {
		logMsg = fmt.Sprintf("[%s] %s:%d: %s", level, file, line, msg)
	}

	if level >= ERROR {
		l.errs.Println(logMsg)
	} else {
		l.out.Println(logMsg)
	}
}

// formatArgs joins trailing arguments the way the convenience functions
// expect: floats at two decimal places, errors unwrapped to their message.
func formatArgs(args ...any) string {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		switch v := arg.(type) {
		case float32:
			parts = append(parts, fmt.Sprintf("%.2f", v))
		case float64:
			parts = append(parts, fmt.Sprintf("%.2f", v))
		case int:
			parts = append(parts, fmt.Sprintf("%d", v))
		case bool:
			parts = append(parts, fmt.Sprintf("%v", v))
		case string:
			parts = append(parts, v)
		case error:
			parts = append(parts, v.Error())
		case nil:
			parts = append(parts, "nil")
		default:
			parts = append(parts, fmt.Sprintf("%v", v))
		}
	}
	return strings.Join(parts, " ")
}

// Convenience functions using the default logger.

func Debug(msg string, args ...any) {
	defaultLogger.log(DEBUG, msg, args...)
}

func Info(msg string, args ...any) {
	defaultLogger.log(INFO, msg, args...)
}

func Warn(msg string, args ...any) {
	defaultLogger.log(WARN, msg, args...)
}

func Error(msg string, args ...any) {
	defaultLogger.log(ERROR, msg, args...)
}

func Fatal(msg string, args ...any) {
	defaultLogger.log(FATAL, msg, args...)
	os.Exit(1)
}
