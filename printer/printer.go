// Package printer writes colored CLI output.
package printer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
)

// Out is where non-error output goes. Tests swap it for a buffer.
var Out io.Writer = os.Stdout

// ErrOut receives error output.
var ErrOut io.Writer = os.Stderr

// Success prints a green message with a checkmark prefix.
func Success(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "✓") {
		msg = "✓ " + msg
	}
	green.Fprint(Out, msg)
}

// Info prints an uncolored message.
func Info(format string, a ...any) {
	fmt.Fprintf(Out, format, a...)
}

// Warning prints a yellow message with a warning prefix.
func Warning(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "⚠️") {
		msg = "⚠️  " + msg
	}
	yellow.Fprint(Out, msg)
}

// Step prints a cyan progress line.
func Step(format string, a ...any) {
	cyan.Fprintf(Out, "→ %s", fmt.Sprintf(format, a...))
}

// Error prints title, explanation, and numbered suggestions to ErrOut and
// returns an error carrying only the title, for cobra's SilenceErrors.
func Error(title, explanation string, suggestions []string) error {
	red.Fprintf(ErrOut, "%s\n\n", title)
	if explanation != "" {
		fmt.Fprintf(ErrOut, "%s\n", explanation)
	}

	switch len(suggestions) {
	case 0:
	case 1:
		fmt.Fprintf(ErrOut, "\n%s\n", suggestions[0])
	default:
		fmt.Fprintf(ErrOut, "\nEither:\n")
		for i, s := range suggestions {
			fmt.Fprintf(ErrOut, "  %d. %s\n", i+1, s)
		}
	}
	return fmt.Errorf("%s", title)
}

// Table renders rows under header to Out.
func Table(header []string, rows [][]string) error {
	table := tablewriter.NewWriter(Out)
	table.Header(toAny(header)...)
	for _, row := range rows {
		if err := table.Append(toAny(row)...); err != nil {
			return err
		}
	}
	return table.Render()
}

func toAny(cells []string) []any {
	out := make([]any, len(cells))
	for i, c := range cells {
		out[i] = c
	}
	return out
}
