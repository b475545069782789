package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/vdatax"
)

// RulesMarkdown lists the law map.
func RulesMarkdown(rules []vdatax.Rule) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Tax Rules\n\n")
	fmt.Fprintln(&b, "| Rule | Citation | Text |")
	fmt.Fprintln(&b, "|:---|:---|:---|")
	for _, r := range rules {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", r.ID, r.Citation, cell(r.Text))
	}
	return b.String()
}

// RejectionsMarkdown lists the records rejected by validation, one field
// error per row.
func RejectionsMarkdown(batch *vdatax.Batch) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Validation\n\n")
	fmt.Fprintf(&b, "%d valid, %d rejected.\n\n", len(batch.Valid), len(batch.Rejected))
	if len(batch.Rejected) == 0 {
		return b.String()
	}
	fmt.Fprintln(&b, "| Record | Id | Field | Error |")
	fmt.Fprintln(&b, "|---:|:---|:---|:---|")
	for _, r := range batch.Rejected {
		for _, f := range r.Fields {
			fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", r.Index, cell(r.ID), f.Field, cell(f.Message))
		}
	}
	return b.String()
}
