// Package render formats registry records as aligned text tables.
package render

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/flarebyte/spackter/internal/registry"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

// Compact writes one row per stack.
func Compact(w io.Writer, ms []registry.Match) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "NAME\tID\tCOMPILER\tCONFIGS\tSPACK VERSION\tTYPE\tCREATED")
	for _, m := range ms {
		r := m.Record
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			r.Name, r.ID, r.CompilerLabel(), r.Configs, r.ShortSpackVersion(), r.Type, r.Created)
	}
	return tw.Flush()
}

// Detail writes every field of one stack, including its history.
func Detail(w io.Writer, m registry.Match) error {
	r := m.Record
	tw := newTable(w)
	rows := [][2]string{
		{"NAME", r.Name},
		{"ID", strconv.Itoa(r.ID)},
		{"PATH", m.Path},
		{"PREFIX", r.Prefix},
		{"TYPE", string(r.Type)},
		{"COMPILER", r.CompilerLabel()},
		{"CONFIGS", r.Configs},
		{"SPACK VERSION", r.SpackVersion},
		{"CREATED", r.Created},
		{"ENV SCRIPT", r.EnvScript},
		{"POST-INSTALL", postInstallStatus(r.PostInstall)},
	}
	for _, row := range rows {
		fmt.Fprintf(tw, "%s:\t%s\n", row[0], row[1])
	}
	outcomes(tw, "PATCHES", r.Patches)
	outcomes(tw, "PULL REQUESTS", r.PullRequests)
	outcomes(tw, "PACKAGES", r.Packages)
	return tw.Flush()
}

// Summary writes the outcome of every step recorded during creation.
func Summary(w io.Writer, r registry.Record) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "PHASE\tITEM\tSTATUS")
	for _, g := range []struct {
		phase string
		items []registry.Outcome
	}{
		{"patch", r.Patches},
		{"pr", r.PullRequests},
		{"package", r.Packages},
	} {
		for _, o := range g.items {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", g.phase, o.Name, status(o.Success))
		}
	}
	if r.PostInstall.Ran() {
		fmt.Fprintf(tw, "script\tpost-install\t%s\n", postInstallStatus(r.PostInstall))
	}
	return tw.Flush()
}

func outcomes(w io.Writer, title string, items []registry.Outcome) {
	if len(items) == 0 {
		fmt.Fprintf(w, "%s:\t-\n", title)
		return
	}
	fmt.Fprintf(w, "%s:\t\n", title)
	for _, o := range items {
		fmt.Fprintf(w, "  %s\t%s\n", o.Name, status(o.Success))
	}
}

func status(ok bool) string {
	if ok {
		return "ok"
	}
	return "failed"
}

func postInstallStatus(p registry.PostInstall) string {
	if !p.Ran() {
		return "not run"
	}
	return status(p.Succeeded())
}
