package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
)

// Table writes aligned columns with a styled header.
type Table struct {
	w       *tabwriter.Writer
	columns int
}

// NewTable starts a table on w and prints the header row.
func NewTable(w io.Writer, headers ...string) *Table {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	styled := make([]string, len(headers))
	rules := make([]string, len(headers))
	for i, h := range headers {
		styled[i] = HeaderStyle.Render(h)
		rules[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(tw, strings.Join(styled, "\t"))
	fmt.Fprintln(tw, strings.Join(rules, "\t"))
	return &Table{w: tw, columns: len(headers)}
}

// Row appends a row. Missing cells are left blank.
func (t *Table) Row(cells ...any) {
	out := make([]string, t.columns)
	for i := 0; i < t.columns && i < len(cells); i++ {
		out[i] = fmt.Sprint(cells[i])
	}
	fmt.Fprintln(t.w, strings.Join(out, "\t"))
}

// Flush writes the table out.
func (t *Table) Flush() error {
	return t.w.Flush()
}

// Money formats an amount with two decimals.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Percent formats a percentage with one decimal.
func Percent(d decimal.Decimal) string {
	return d.StringFixed(1) + "%"
}
