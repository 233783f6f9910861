package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/huangsam/coredev/internal/contract"
	"github.com/huangsam/coredev/schema"
	"github.com/olekukonko/tablewriter"
)

// WriteAliases outputs the alias groups, dispatching based on the output format configured.
func WriteAliases(groups []schema.AliasGroup, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, groups)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAliasesCSV(w, groups)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAliasesTable(w, groups)
		}, "Wrote table")
	}
}

// writeAliasesTable writes one row per alias with its members.
func writeAliasesTable(w io.Writer, groups []schema.AliasGroup) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Alias", "Count", "Members"})

	nameWidth := getMaxTableNameWidth()
	data := make([][]string, 0, len(groups))
	merged := 0
	for _, g := range groups {
		if len(g.Members) > 1 {
			merged++
		}
		data = append(data, []string{
			contract.TruncateName(g.Alias, nameWidth),
			fmt.Sprintf("%d", len(g.Members)),
			strings.Join(g.Members, ", "),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d aliases, %d with more than one identity\n", len(groups), merged)
	return err
}

// writeAliasesCSV writes one row per alias member.
func writeAliasesCSV(w io.Writer, groups []schema.AliasGroup) error {
	return writeCSVWithHeader(w, []string{"alias", "member"}, func(cw *csv.Writer) error {
		for _, g := range groups {
			for _, m := range g.Members {
				if err := cw.Write([]string{g.Alias, m}); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
