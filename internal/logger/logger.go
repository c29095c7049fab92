// Package logger builds the application's zap logger. Records go to the console, to a
// size-rotated JSON file, and to an in-memory ring the viewer console draws from.
package logger

import (
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultFile is the log file, relative to the working directory.
const DefaultFile = "logs/avatar.log"

// maxLines bounds the in-memory ring.
const maxLines = 500

// Options selects sinks and rotation. Zero values disable the file sink and use info level.
type Options struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	// Quiet drops the stderr console sink (used by the windowed viewer).
	Quiet bool
}

// Logger is a zap logger that also remembers its recent lines.
type Logger struct {
	*zap.Logger
	mem *memorySink
}

// New builds the tee of sinks described by opts.
func New(opts Options) *Logger {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(opts.Level)); err != nil || opts.Level == "" {
		level.SetLevel(zap.InfoLevel)
	}
	mem := &memorySink{}
	cores := []zapcore.Core{zapcore.NewCore(lineEncoder(), mem, level)}
	if !opts.Quiet {
		cores = append(cores, zapcore.NewCore(consoleEncoder(), zapcore.Lock(os.Stderr), level))
	}
	if opts.File != "" {
		file := zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
		})
		cores = append(cores, zapcore.NewCore(jsonEncoder(), file, level))
	}
	l := zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zap.ErrorLevel))
	return &Logger{Logger: l, mem: mem}
}

// Log records a plain line typed into the console.
func (l *Logger) Log(line string) {
	l.Info(line)
}

// Lines returns a copy of the remembered lines, oldest first.
func (l *Logger) Lines() []string {
	return l.mem.lines()
}

func baseConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	return cfg
}

func jsonEncoder() zapcore.Encoder {
	cfg := baseConfig()
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(cfg)
}

func consoleEncoder() zapcore.Encoder {
	cfg := baseConfig()
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

// lineEncoder is the compact form shown in the viewer console: "[time] LEVEL msg {fields}".
func lineEncoder() zapcore.Encoder {
	cfg := baseConfig()
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString("[" + t.Format("15:04:05") + "]")
	}
	cfg.CallerKey = zapcore.OmitKey
	cfg.StacktraceKey = zapcore.OmitKey
	return zapcore.NewConsoleEncoder(cfg)
}

// memorySink keeps the last maxLines written lines.
type memorySink struct {
	mu  sync.Mutex
	buf []string
}

func (m *memorySink) Write(p []byte) (int, error) {
	text := strings.TrimRight(string(p), "\n")
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, line := range strings.Split(text, "\n") {
		m.buf = append(m.buf, strings.ReplaceAll(line, "\t", " "))
	}
	if over := len(m.buf) - maxLines; over > 0 {
		m.buf = append(m.buf[:0], m.buf[over:]...)
	}
	return len(p), nil
}

func (m *memorySink) Sync() error { return nil }

func (m *memorySink) lines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.buf))
	copy(out, m.buf)
	return out
}
