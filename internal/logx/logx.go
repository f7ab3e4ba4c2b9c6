// Package logx is the console logger for provisioning runs: a step header
// plus info/warn/error lines, colored unless the output is not a terminal
// or --no-color is set.
package logx

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	stepStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	infoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

type Logger struct {
	mu      sync.Mutex
	out     io.Writer
	errOut  io.Writer
	noColor bool
}

func New() *Logger {
	return &Logger{out: os.Stdout, errOut: os.Stderr}
}

// NewWriter is used by tests to capture output.
func NewWriter(out, errOut io.Writer) *Logger {
	return &Logger{out: out, errOut: errOut, noColor: true}
}

func (l *Logger) DisableColor() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.noColor = true
}

func (l *Logger) render(style lipgloss.Style, s string) string {
	if l.noColor {
		return s
	}
	return style.Render(s)
}

// Step prints a section header for the named provisioning step.
func (l *Logger) Step(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.out, l.render(stepStyle, "==> "+name))
}

func (l *Logger) Infof(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.out, l.render(infoStyle, "[ok] ")+fmt.Sprintf(format, args...))
}

func (l *Logger) Warnf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.errOut, l.render(warnStyle, "[warn] ")+fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.errOut, l.render(errStyle, "[error] ")+fmt.Sprintf(format, args...))
}

// Printf writes plain, unleveled output (summary report body).
func (l *Logger) Printf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, format, args...)
}
