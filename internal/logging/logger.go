// Package logging provides the leveled console logger used across the CLI.
// It wraps a zerolog.Logger: events are rendered by a ConsoleWriter in the
// "2006-01-02 15:04:05 [LEVEL] message" layout, errors go to stderr, and an
// optional log file receives the same lines without color.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/BitEU/Hashbrown/internal/config"
	"github.com/BitEU/Hashbrown/internal/term"
)

const (
	timeFormat = "2006-01-02 15:04:05"

	// successField marks Info events that render as [SUCCESS].
	successField = "success"
)

// Logger provides leveled, optionally colored logging with optional file sink.
type Logger struct {
	z zerolog.Logger

	mu   *sync.Mutex
	file *os.File
}

// NewLogger configures terminal colors from cfg, opens cfg.LogFile for
// appending when set, and returns a Logger writing to stdout/stderr. Call
// Close when done.
func NewLogger(cfg *config.Config) (*Logger, error) {
	term.Configure(cfg.ColorMode)

	var file *os.File
	if cfg.LogFile != "" {
		dir := filepath.Dir(cfg.LogFile)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		file = f
	}

	var fileOut io.Writer
	if file != nil {
		fileOut = file
	}
	l := New(os.Stdout, os.Stderr, fileOut, term.Enabled(), cfg.Verbose)
	l.file = file
	return l, nil
}

// New builds a Logger over explicit writers. errOut receives ERROR events;
// fileOut (optional) receives every event without color. Exported for tests
// and for callers that embed the logger.
func New(out, errOut, fileOut io.Writer, color, verbose bool) *Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	var w io.Writer = splitWriter{
		out: newConsole(out, color),
		err: newConsole(errOut, color),
	}
	if fileOut != nil {
		w = zerolog.MultiLevelWriter(w, newConsole(fileOut, false))
	}

	return &Logger{
		z:  zerolog.New(w).Level(level).With().Timestamp().Logger(),
		mu: &sync.Mutex{},
	}
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return &Logger{z: zerolog.Nop(), mu: &sync.Mutex{}}
}

// With returns a child logger that annotates every line with key=value.
// The child shares the parent's file handle; only the parent should be closed.
func (l *Logger) With(key, value string) *Logger {
	return &Logger{
		z:  l.z.With().Str(key, value).Logger(),
		mu: l.mu,
	}
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// Info logs at INFO level (blue).
func (l *Logger) Info(format string, args ...interface{}) {
	l.z.Info().Msg(fmt.Sprintf(format, args...))
}

// Success logs at SUCCESS level (green).
func (l *Logger) Success(format string, args ...interface{}) {
	l.z.Info().Bool(successField, true).Msg(fmt.Sprintf(format, args...))
}

// Warn logs at WARN level (yellow).
func (l *Logger) Warn(format string, args ...interface{}) {
	l.z.Warn().Msg(fmt.Sprintf(format, args...))
}

// Error logs at ERROR level (red), to stderr.
func (l *Logger) Error(format string, args ...interface{}) {
	l.z.Error().Msg(fmt.Sprintf(format, args...))
}

// Debug logs at DEBUG level (cyan); dropped unless the logger is verbose.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.z.Debug().Msg(fmt.Sprintf(format, args...))
}

// --- writers ---

// splitWriter routes ERROR and above to err, everything else to out.
type splitWriter struct {
	out io.Writer
	err io.Writer
}

func (w splitWriter) Write(p []byte) (int, error) { return w.out.Write(p) }

func (w splitWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level >= zerolog.ErrorLevel {
		return w.err.Write(p)
	}
	return w.out.Write(p)
}

func newConsole(out io.Writer, color bool) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    !color,
		TimeFormat: timeFormat,
		PartsOrder: []string{zerolog.TimestampFieldName, zerolog.LevelFieldName, zerolog.MessageFieldName},
		FormatPrepare: func(evt map[string]interface{}) error {
			if ok, _ := evt[successField].(bool); ok {
				evt[zerolog.LevelFieldName] = successField
			}
			delete(evt, successField)
			return nil
		},
		FormatLevel: func(i interface{}) string {
			return levelLabel(fmt.Sprint(i), color)
		},
	}
}

// levelLabel renders "[LEVEL]" with the color for that level.
func levelLabel(level string, color bool) string {
	label := "[" + strings.ToUpper(level) + "]"
	if !color {
		return label
	}
	var c string
	switch level {
	case "info":
		c = term.SeqBlue
	case successField:
		c = term.SeqGreen
	case "warn":
		c = term.SeqYellow
	case "error", "fatal", "panic":
		c = term.SeqRed
	case "debug":
		c = term.SeqCyan
	default:
		return label
	}
	return c + label + term.SeqReset
}
