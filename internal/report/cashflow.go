package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"scilla/internal/checker"
)

// WriteCashFlow prints the cash-flow tag of every state variable as a
// two-column table.
func WriteCashFlow(w io.Writer, cf *checker.CashFlow) error {
	if cf == nil || len(cf.StateVariables) == 0 {
		_, err := fmt.Fprintln(w, "no state variables")
		return err
	}

	const header = "Field"
	width := runewidth.StringWidth(header)
	for _, v := range cf.StateVariables {
		width = max(width, runewidth.StringWidth(v.Field))
	}

	bold := color.New(color.Bold).SprintFunc()
	if _, err := fmt.Fprintf(w, "%s  %s\n", bold(runewidth.FillRight(header, width)), bold("Tag")); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s  %s\n", strings.Repeat("-", width), strings.Repeat("-", 3)); err != nil {
		return err
	}

	for _, v := range cf.StateVariables {
		if _, err := fmt.Fprintf(w, "%s  %s\n", runewidth.FillRight(v.Field, width), tagColor(v.Tag)(v.Tag)); err != nil {
			return err
		}
	}
	return nil
}

func tagColor(tag string) func(...any) string {
	switch {
	case strings.Contains(tag, "NotMoney"):
		return color.New(color.FgGreen).SprintFunc()
	case strings.Contains(tag, "Money"):
		return color.New(color.FgYellow).SprintFunc()
	case strings.Contains(tag, "Inconsistent"):
		return color.New(color.FgRed).SprintFunc()
	default:
		return fmt.Sprint
	}
}
