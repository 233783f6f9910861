package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/coredev/internal/contract"
	"github.com/huangsam/coredev/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// signalColumns are the per-signal columns of the author table.
var signalColumns = []struct {
	Signal schema.Signal
	Title  string
}{
	{schema.CommitSignal, "Commit"},
	{schema.PRSignal, "PR"},
	{schema.IssueSignal, "Issue"},
	{schema.IssuePRSignal, "Issue+PR"},
	{schema.CoreDevSignal, "CoreDev"},
}

// authorRow is one author of a batch across every signal.
type authorRow struct {
	Author  string
	Commits int
	Degree  map[schema.Signal]float64
	Core    bool
}

// WriteAnalysisResult outputs the analysis results, dispatching based on the output format configured.
func WriteAnalysisResult(result *schema.AnalysisResult, cfg *contract.Config) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAnalysisCSV(w, result, fmtFloat, intFmt)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAnalysisTable(w, result, cfg, fmtFloat, intFmt)
		}, "Wrote table")
	}
	return nil
}

// buildAuthorRows merges the activity and the reports of a batch into one
// row per author, ordered by author.
func buildAuthorRows(b schema.BatchResult) []authorRow {
	rows := map[string]*authorRow{}
	get := func(author string) *authorRow {
		r, ok := rows[author]
		if !ok {
			r = &authorRow{Author: author, Degree: map[schema.Signal]float64{}}
			rows[author] = r
		}
		return r
	}
	for _, a := range b.Activity {
		get(a.Author).Commits = a.CommitCount
	}
	for s, report := range b.Reports {
		for _, a := range report.Authors {
			r := get(a.Author)
			r.Degree[s] = a.Degree
			r.Core = r.Core || a.Core
		}
	}

	out := make([]authorRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	slices.SortFunc(out, func(a, b authorRow) int { return strings.Compare(a.Author, b.Author) })
	return out
}

// writeAnalysisTable generates and writes the human-readable tables, one per batch.
func writeAnalysisTable(w io.Writer, result *schema.AnalysisResult, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	if len(result.Batches) == 0 {
		if _, err := fmt.Fprintln(w, "No commits to analyze"); err != nil {
			return err
		}
	}

	nameWidth := getMaxTableNameWidth()
	for _, b := range result.Batches {
		if _, err := fmt.Fprintf(w, "Batch %d: %s to %s (%d commits)\n",
			b.Batch.Index, b.Batch.Start.Format(time.DateOnly), b.Batch.End.Format(time.DateOnly), len(b.Batch.Commits)); err != nil {
			return err
		}

		table := tablewriter.NewWriter(w)

		// 1. Define Headers
		headers := []string{"Author", "Commits"}
		for _, col := range signalColumns {
			headers = append(headers, col.Title)
		}
		headers = append(headers, "Label")
		table.Header(headers)

		// 2. Configure alignment
		table.Configure(func(config *tablewriter.Config) {
			config.Row.Alignment.Global = tw.AlignRight
		})

		// 3. Populate Rows
		var data [][]string
		for _, r := range buildAuthorRows(b) {
			row := []string{
				contract.TruncateName(r.Author, nameWidth),
				fmt.Sprintf(intFmt, r.Commits),
			}
			for _, col := range signalColumns {
				if v, ok := r.Degree[col.Signal]; ok {
					row = append(row, fmtFloat(v))
				} else {
					row = append(row, "-")
				}
			}
			row = append(row, label(r.Core, cfg))
			data = append(data, row)
		}

		// 4. Render the table
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}

		for _, col := range signalColumns {
			cores := b.CoreDevelopers(col.Signal)
			list := "none"
			if len(cores) > 0 {
				list = strings.Join(cores, ", ")
			}
			if _, err := fmt.Fprintf(w, "Core developers (%s): %s\n", col.Title, list); err != nil {
				return err
			}
		}
		if cfg.Verbose {
			if err := writeMetricsTable(w, b.Metrics, fmtFloat); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "Analyzed %d batches with %d distinct authors\n", len(result.Batches), len(result.Aliases)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Analysis completed in %v with %d workers. Cache backend: %s\n", result.Duration, cfg.Workers, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeMetricsTable writes the metric rows of a batch as a two column table.
func writeMetricsTable(w io.Writer, metrics []schema.Metric, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Value"})
	data := make([][]string, 0, len(metrics))
	for _, m := range metrics {
		data = append(data, []string{m.Name, fmtFloat(m.Value)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeAnalysisCSV writes one row per batch, signal and author.
func writeAnalysisCSV(w io.Writer, result *schema.AnalysisResult, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"batch",
		"batch_start",
		"signal",
		"author",
		"closeness",
		"betweenness",
		"centrality",
		"items",
		"label",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, b := range result.Batches {
			for _, s := range schema.AllSignals {
				report, ok := b.Reports[s]
				if !ok {
					continue
				}
				for _, a := range report.Authors {
					rec := []string{
						strconv.Itoa(b.Batch.Index),                  // Batch
						b.Batch.Start.Format(contract.DateTimeFormat), // Batch start
						string(s),                                     // Signal
						a.Author,                                      // Author
						fmtFloat(a.Closeness),                         // Closeness
						fmtFloat(a.Betweenness),                       // Betweenness
						fmtFloat(a.Degree),                            // Degree centrality
						fmt.Sprintf(intFmt, a.Items),                  // Items
						contract.GetPlainLabel(a.Core),                // Label
					}
					if err := cw.Write(rec); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
}

// label returns the role label, colored when colors are enabled.
func label(core bool, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorLabel(core)
	}
	return contract.GetPlainLabel(core)
}
