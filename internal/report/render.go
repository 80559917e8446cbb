// Package report renders tables, analysis results and dataset overviews
// for the terminal.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/KaramelBytes/varsum/internal/dataset"
	"github.com/KaramelBytes/varsum/internal/stats"
	"github.com/KaramelBytes/varsum/internal/utils"
)

// Format is a table output format.
type Format string

const (
	FormatTable    Format = "table"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
)

// ParseFormat decodes a format token; "" selects FormatTable.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "table":
		return FormatTable, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", dataset.Invalid("format", s, "unknown format %q (use table|markdown|csv|json)", s)
	}
}

// cell formats a value for display; floats are rounded to four decimals.
func cell(c *dataset.Column, i int) string {
	if c.IsMissing(i) {
		return "NA"
	}
	if c.Kind() == dataset.KindFloat {
		return strconv.FormatFloat(stats.Round(c.Value(i).Num, 4), 'f', -1, 64)
	}
	return c.Format(i)
}

func newWriter(ds *dataset.Dataset) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	header := make(table.Row, ds.NumCols())
	for i, n := range ds.Names() {
		header[i] = n
	}
	t.AppendHeader(header)
	cols := ds.Columns()
	for r := 0; r < ds.NumRows(); r++ {
		row := make(table.Row, len(cols))
		for j, c := range cols {
			row[j] = cell(c, r)
		}
		t.AppendRow(row)
	}
	return t
}

// RenderTable writes ds to w in the given format.
func RenderTable(w io.Writer, ds *dataset.Dataset, format Format) error {
	switch format {
	case FormatJSON:
		b, err := utils.PrettyJSON(records(ds))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case FormatCSV:
		_, err := fmt.Fprintln(w, newWriter(ds).RenderCSV())
		return err
	case FormatMarkdown:
		_, err := fmt.Fprintln(w, newWriter(ds).RenderMarkdown())
		return err
	default:
		if ds.NumRows() == 0 {
			_, err := fmt.Fprintln(w, "(0 rows)")
			return err
		}
		if _, err := fmt.Fprintln(w, newWriter(ds).Render()); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "(%d rows)\n", ds.NumRows())
		return err
	}
}

// records converts ds to row objects keyed by column name. Missing cells are
// null; numbers stay numbers.
func records(ds *dataset.Dataset) []map[string]any {
	cols := ds.Columns()
	out := make([]map[string]any, ds.NumRows())
	for r := range out {
		row := make(map[string]any, len(cols))
		for _, c := range cols {
			v := c.Value(r)
			switch {
			case !v.Valid:
				row[c.Name()] = nil
			case c.Kind() == dataset.KindInt:
				row[c.Name()] = int64(v.Num)
			case c.Kind() == dataset.KindFloat:
				row[c.Name()] = v.Num
			case c.Kind() == dataset.KindBool:
				row[c.Name()] = v.Bool
			default:
				row[c.Name()] = c.Format(r)
			}
		}
		out[r] = row
	}
	return out
}
