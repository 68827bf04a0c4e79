package util

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
)

type LogLevel int

const (
	LogLevelError LogLevel = 1 << iota
	LogLevelWarning
	LogLevelInfo
	LogLevelDebug
)

type LogCategory int

const (
	LogVoxel LogCategory = 1 << iota
	LogJobs
	LogSystem
	LogOpenGL
	LogIO
)

const LogAll = LogVoxel | LogJobs | LogSystem | LogOpenGL | LogIO

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LogLevelError:
		return slog.LevelError
	case LogLevelWarning:
		return slog.LevelWarn
	case LogLevelDebug:
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func (c LogCategory) String() string {
	switch c {
	case LogVoxel:
		return "voxel"
	case LogJobs:
		return "jobs"
	case LogSystem:
		return "system"
	case LogOpenGL:
		return "opengl"
	case LogIO:
		return "io"
	}
	return "mixed"
}

// ParseLogLevel accepts error, warning, info and debug.
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(s) {
	case "error":
		return LogLevelError, nil
	case "warn", "warning":
		return LogLevelWarning, nil
	case "", "info":
		return LogLevelInfo, nil
	case "debug":
		return LogLevelDebug, nil
	}
	return LogLevelInfo, errors.Errorf("unknown log level %q", s)
}

// ParseLogCategories turns a list like ["voxel", "jobs"] into a mask. "all" enables everything.
func ParseLogCategories(names []string) (LogCategory, error) {
	var mask LogCategory
	for _, name := range names {
		switch strings.ToLower(name) {
		case "all":
			mask |= LogAll
		case "voxel":
			mask |= LogVoxel
		case "jobs":
			mask |= LogJobs
		case "system":
			mask |= LogSystem
		case "opengl", "gl":
			mask |= LogOpenGL
		case "io":
			mask |= LogIO
		default:
			return 0, errors.Errorf("unknown log category %q", name)
		}
	}
	return mask, nil
}

// Logger filters by category and level before handing records to slog.
type Logger struct {
	level      LogLevel
	categories LogCategory
	out        *slog.Logger
}

func NewLogger(w io.Writer, level LogLevel, categories LogCategory) *Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level.slogLevel()})
	return &Logger{
		level:      level,
		categories: categories,
		out:        slog.New(handler),
	}
}

// NewNopLogger drops everything.
func NewNopLogger() *Logger {
	return &Logger{level: 0, categories: 0, out: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func (l *Logger) Enabled(cat LogCategory, lvl LogLevel) bool {
	if l == nil || lvl > l.level {
		return false
	}
	return l.categories&cat != 0
}

func (l *Logger) Log(cat LogCategory, lvl LogLevel, msg string, args ...any) {
	if !l.Enabled(cat, lvl) {
		return
	}
	args = append(args, "cat", cat.String())
	switch lvl {
	case LogLevelError:
		l.out.Error(msg, args...)
	case LogLevelWarning:
		l.out.Warn(msg, args...)
	case LogLevelDebug:
		l.out.Debug(msg, args...)
	default:
		l.out.Info(msg, args...)
	}
}

func (l *Logger) Slog() *slog.Logger {
	return l.out
}

var defaultLogger = NewLogger(os.Stdout, LogLevelInfo, LogSystem|LogIO)

// SetDefaultLogger replaces the logger used by the package level helpers.
func SetDefaultLogger(l *Logger) {
	if l == nil {
		l = NewNopLogger()
	}
	defaultLogger = l
}

func DefaultLogger() *Logger {
	return defaultLogger
}

func LogVoxelInfo(txt string, args ...any) {
	defaultLogger.Log(LogVoxel, LogLevelInfo, txt, args...)
}

func LogVoxelDebug(txt string, args ...any) {
	defaultLogger.Log(LogVoxel, LogLevelDebug, txt, args...)
}
func LogVoxelError(txt string, args ...any) {
	defaultLogger.Log(LogVoxel, LogLevelError, txt, args...)
}

func LogSystemInfo(txt string, args ...any) {
	defaultLogger.Log(LogSystem, LogLevelInfo, txt, args...)
}

func LogIOError(txt string, args ...any) {
	defaultLogger.Log(LogIO, LogLevelError, txt, args...)
}

func LogGlInfo(txt string, args ...any) {
	defaultLogger.Log(LogOpenGL, LogLevelInfo, txt, args...)
}

func LogGlDebug(txt string, args ...any) {
	defaultLogger.Log(LogOpenGL, LogLevelDebug, txt, args...)
}

func LogGlError(txt string, args ...any) {
	defaultLogger.Log(LogOpenGL, LogLevelError, txt, args...)
}
