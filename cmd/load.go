package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	cfgpkg "github.com/KaramelBytes/varsum/internal/config"
	"github.com/KaramelBytes/varsum/internal/dataset"
	"github.com/KaramelBytes/varsum/internal/ingest"
	"github.com/spf13/cobra"
)

// loadFlags are the file reading flags shared by every command that takes
// a data file.
type loadFlags struct {
	delimiter  string
	decimal    string
	thousands  string
	maxRows    int
	sheetName  string
	sheetIndex int
}

func addLoadFlags(c *cobra.Command, f *loadFlags) {
	c.Flags().StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | '|' | 'tab' (default: config, then file extension)")
	c.Flags().StringVar(&f.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	c.Flags().StringVar(&f.thousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (auto-detect if omitted)")
	c.Flags().IntVar(&f.maxRows, "max-rows", 0, "maximum rows to read (0 = config max_rows, unlimited by default)")
	c.Flags().StringVar(&f.sheetName, "sheet-name", "", "XLSX: sheet name to read")
	c.Flags().IntVar(&f.sheetIndex, "sheet-index", 0, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}

func (f *loadFlags) options(c *cfgpkg.Global) (ingest.Options, error) {
	opt := ingest.Options{MaxRows: c.MaxRows, Sheet: f.sheetName, SheetIndex: f.sheetIndex}
	if f.maxRows > 0 {
		opt.MaxRows = f.maxRows
	}
	delim := f.delimiter
	if delim == "" {
		delim = c.Delimiter
	}
	switch delim {
	case "":
	case "\t", "tab":
		opt.Delimiter = '\t'
	default:
		r, size := utf8.DecodeRuneInString(delim)
		if size != len(delim) || r == utf8.RuneError {
			return opt, fmt.Errorf("unsupported --delimiter: %s", delim)
		}
		opt.Delimiter = r
	}
	switch strings.ToLower(strings.TrimSpace(f.decimal)) {
	case ",", "comma":
		opt.Number.Decimal = ','
	case ".", "dot":
		opt.Number.Decimal = '.'
	case "":
	default:
		return opt, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", f.decimal)
	}
	switch strings.ToLower(strings.TrimSpace(f.thousands)) {
	case ",":
		opt.Number.Thousands = ','
	case ".":
		opt.Number.Thousands = '.'
	case "space", " ":
		opt.Number.Thousands = ' '
	case "":
	default:
		return opt, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", f.thousands)
	}
	return opt, nil
}

// load reads path with the flag and config settings applied.
func (f *loadFlags) load(path string) (*dataset.Dataset, *cfgpkg.Global, error) {
	c, err := settings()
	if err != nil {
		return nil, nil, err
	}
	opt, err := f.options(c)
	if err != nil {
		return nil, nil, err
	}
	ds, err := ingest.Load(path, opt)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("dataset loaded", "path", path, "rows", ds.NumRows(), "cols", ds.NumCols())
	return ds, c, nil
}

// expandInputs resolves glob patterns, dropping duplicates, in sorted order.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

// splitList splits a comma separated flag value, trimming blanks.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
