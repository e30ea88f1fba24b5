package report

import (
	"fmt"
	"io"
	"strings"

	v1 "github.com/djcass44/indi-audit/pkg/api/v1"
)

const ruleWidth = 60

// Header writes the table heading and separator rule.
func Header(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%-25s | %-10s | %s\n", "Driver", "Version", "Git Hash"); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, strings.Repeat("-", ruleWidth))
	return err
}

func Row(w io.Writer, r v1.Record) error {
	_, err := fmt.Fprintf(w, "%-25s | %-10s | %s\n", r.Driver, r.Version, r.GitHash)
	return err
}

// Render writes records as a fixed-width table in the
// order given.
func Render(w io.Writer, records []v1.Record) error {
	if err := Header(w); err != nil {
		return err
	}
	for _, r := range records {
		if err := Row(w, r); err != nil {
			return err
		}
	}
	return nil
}
