// Package report renders checker findings for the terminal.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"scilla/internal/checker"
)

// Reporter formats diagnostics against the source they refer to.
type Reporter struct {
	filename string
	lines    []string
}

// New creates a reporter for one file.
func New(filename, source string) *Reporter {
	return &Reporter{
		filename: filename,
		lines:    strings.Split(source, "\n"),
	}
}

// Format renders a diagnostic as a header, a location line and a source
// excerpt with the range underlined. Diagnostic positions are 0-based.
func (r *Reporter) Format(d checker.Diagnostic) string {
	var b strings.Builder

	level := levelColor(d.Severity)
	dim := color.New(color.Faint).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	if d.Code != "" {
		fmt.Fprintf(&b, "%s[%s]: %s\n", level(d.Severity.String()), d.Code, d.Message)
	} else {
		fmt.Fprintf(&b, "%s: %s\n", level(d.Severity.String()), d.Message)
	}

	line := d.StartLine + 1
	width := lineNumberWidth(line + 1)
	indent := strings.Repeat(" ", width)

	fmt.Fprintf(&b, "%s %s %s:%d:%d\n", indent, dim("-->"), r.filename, line, d.StartColumn+1)
	fmt.Fprintf(&b, "%s %s\n", indent, dim("│"))

	if d.StartLine > 0 && d.StartLine-1 < len(r.lines) {
		fmt.Fprintf(&b, "%s %s %s\n", dim(fmt.Sprintf("%*d", width, line-1)), dim("│"), r.lines[d.StartLine-1])
	}

	if d.StartLine < len(r.lines) {
		text := r.lines[d.StartLine]
		fmt.Fprintf(&b, "%s %s %s\n", bold(fmt.Sprintf("%*d", width, line)), dim("│"), text)
		fmt.Fprintf(&b, "%s %s %s\n", indent, dim("│"), marker(text, d, level))
	}

	if d.StartLine+1 < len(r.lines) {
		fmt.Fprintf(&b, "%s %s %s\n", dim(fmt.Sprintf("%*d", width, line+1)), dim("│"), r.lines[d.StartLine+1])
	}

	if d.Source != "" {
		note := color.New(color.FgBlue).SprintFunc()
		fmt.Fprintf(&b, "%s %s %s %s\n", indent, dim("│"), note("note:"), d.Source)
	}

	b.WriteString("\n")
	return b.String()
}

// Write renders every diagnostic to w and returns the number of errors.
func (r *Reporter) Write(w io.Writer, diags []checker.Diagnostic) (int, error) {
	errs := 0
	for _, d := range diags {
		if d.Severity == checker.SeverityError {
			errs++
		}
		if _, err := io.WriteString(w, r.Format(d)); err != nil {
			return errs, err
		}
	}
	return errs, nil
}

func levelColor(sev checker.Severity) func(...any) string {
	switch sev {
	case checker.SeverityWarning:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	case checker.SeverityInformation:
		return color.New(color.FgBlue, color.Bold).SprintFunc()
	case checker.SeverityHint:
		return color.New(color.FgGreen, color.Bold).SprintFunc()
	default:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	}
}

// marker underlines the diagnostic range within text, measured in display
// cells so wide characters and tabs before the range keep the caret aligned.
func marker(text string, d checker.Diagnostic, level func(...any) string) string {
	runes := []rune(text)
	start := min(d.StartColumn, len(runes))

	end := start + 1
	if d.EndLine == d.StartLine && d.EndColumn > start {
		end = min(d.EndColumn, len(runes))
	}

	var pad strings.Builder
	for _, r := range runes[:start] {
		if r == '\t' {
			pad.WriteRune('\t')
			continue
		}
		pad.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}

	length := 1
	if end > start {
		length = max(1, runewidth.StringWidth(string(runes[start:end])))
	}
	return pad.String() + level(strings.Repeat("^", length))
}

func lineNumberWidth(line int) int {
	return max(3, len(fmt.Sprint(line)))
}
