package monitor

import (
	"log/slog"
	"strings"
)

// Sink receives rendered output from the dispatch core. Methods are
// invoked from the dispatch goroutine; implementations must either be
// cheap and synchronous or hand off to their own queue.
type Sink interface {
	// ConfigureStyles installs the severity-code-to-style mapping.
	// Called once before any other method.
	ConfigureStyles(styles map[uint8]string)
	// AppendStatusLine adds a rendered status line at the top of the
	// log view.
	AppendStatusLine(line, styleKey string)
	// DropOldestStatusLine removes the bottom line of the log view,
	// mirroring an eviction from the status log.
	DropOldestStatusLine()
	// ReplaceSnapshotLines redraws the vehicle state panel.
	ReplaceSnapshotLines(lines []string)
	// ClearAll empties both the log view and the state panel.
	ClearAll()
}

// LogSink writes sink calls to the process logger. It is the headless
// counterpart of the TUI, for running the monitor under a supervisor
// or piping output to a file.
type LogSink struct {
	log *slog.Logger
}

func NewLogSink(log *slog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) ConfigureStyles(styles map[uint8]string) {
	s.log.Debug("styles configured", slog.Int("count", len(styles)))
}

func (s *LogSink) AppendStatusLine(line, styleKey string) {
	s.log.Info("status",
		slog.String("line", strings.TrimRight(line, " ")),
		slog.String("style", styleKey),
	)
}

func (s *LogSink) DropOldestStatusLine() {
	s.log.Debug("oldest status line evicted")
}

func (s *LogSink) ReplaceSnapshotLines(lines []string) {
	s.log.Info("vehicle state", slog.Any("lines", lines))
}

func (s *LogSink) ClearAll() {
	s.log.Info("display cleared")
}
