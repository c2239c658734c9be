package ui

import tea "github.com/charmbracelet/bubbletea"

// Messages carrying sink updates into the bubbletea event loop.
type (
	StatusLineMsg struct {
		Line     string
		StyleKey string
	}
	DropOldestMsg struct{}
	SnapshotMsg   struct{ Lines []string }
	ClearMsg      struct{}
)

// ProgramSink bridges the dispatch core to the TUI. Every sink call
// becomes a message on the program's queue, which serializes display
// updates with key handling on the bubbletea goroutine.
//
// Attach must be called before the core starts ticking; the one sink
// call that happens earlier (ConfigureStyles, at core construction) is
// recorded locally.
type ProgramSink struct {
	program *tea.Program
	styles  map[uint8]string
}

func NewProgramSink() *ProgramSink {
	return &ProgramSink{}
}

// Attach points the sink at the running program.
func (s *ProgramSink) Attach(program *tea.Program) {
	s.program = program
}

func (s *ProgramSink) ConfigureStyles(styles map[uint8]string) {
	s.styles = styles
}

func (s *ProgramSink) AppendStatusLine(line, styleKey string) {
	s.send(StatusLineMsg{Line: line, StyleKey: styleKey})
}

func (s *ProgramSink) DropOldestStatusLine() {
	s.send(DropOldestMsg{})
}

func (s *ProgramSink) ReplaceSnapshotLines(lines []string) {
	s.send(SnapshotMsg{Lines: lines})
}

func (s *ProgramSink) ClearAll() {
	s.send(ClearMsg{})
}

func (s *ProgramSink) send(msg tea.Msg) {
	if s.program == nil {
		return
	}
	s.program.Send(msg)
}
