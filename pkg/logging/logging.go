package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Logger writes tagged, human-oriented lines.  Normal output goes to out;
// diagnostics (info, warnings, debug) go to err.  Debug lines are emitted
// only when verbose is set.
type Logger struct {
	out     io.Writer
	err     io.Writer
	verbose bool
}

func DefaultLogger() Logger {
	return Logger{
		out:     os.Stdout,
		err:     os.Stderr,
		verbose: false,
	}
}

func NewLogger(out, err io.Writer, verbose bool) Logger {
	return Logger{
		out,
		err,
		verbose,
	}
}

// Quiet returns a logger that discards everything.
// Useful as a default for libraries whose callers gave no logger.
func Quiet() Logger {
	return NewLogger(io.Discard, io.Discard, false)
}

func (l *Logger) Out(f string, args ...interface{}) {
	fmt.Fprintf(l.out, f+"\n", args...)
}

func (l *Logger) Info(tag string, f string, args ...interface{}) {
	print(l.err, color.New(color.FgHiGreen), tag, f, args...)
}

// Warn reports a recoverable problem: something was skipped or degraded,
// but the operation as a whole carries on.
func (l *Logger) Warn(tag string, f string, args ...interface{}) {
	print(l.err, color.New(color.FgHiYellow), tag, f, args...)
}

func (l *Logger) Debug(tag string, f string, args ...interface{}) {
	if l.verbose {
		print(l.err, color.New(color.FgGreen), tag, f, args...)
	}
}

func print(w io.Writer, tagColor *color.Color, tag, f string, args ...interface{}) {
	str := fmt.Sprintf(f, args...)
	for _, line := range strings.Split(str, "\n") {
		fmt.Fprintf(w, "%s  %s\n",
			tagColor.Sprint(tag),
			color.WhiteString(line))
	}
}
