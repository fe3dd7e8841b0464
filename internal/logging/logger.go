package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

const FileName = "armsim.log"

// Logger appends timestamped lines to a size-rotated file in the log
// directory. A nil *Logger discards everything.
type Logger struct {
	out  *lumberjack.Logger
	std  *log.Logger
	path string
}

// New opens the log file under dir. When verbose is set, lines are also
// copied to stderr.
func New(dir string, verbose bool) (*Logger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	path := filepath.Join(dir, FileName)
	out := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
	}

	var w io.Writer = out
	if verbose {
		w = io.MultiWriter(out, os.Stderr)
	}
	return &Logger{
		out:  out,
		std:  log.New(w, "", log.LstdFlags|log.Lmicroseconds),
		path: path,
	}, nil
}

func (l *Logger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

func (l *Logger) Close() error {
	if l == nil || l.out == nil {
		return nil
	}
	return l.out.Close()
}

// Printf writes a single line.
func (l *Logger) Printf(format string, args ...any) {
	if l == nil || l.std == nil {
		return
	}
	l.std.Print(strings.TrimRight(fmt.Sprintf(format, args...), "\n"))
}
