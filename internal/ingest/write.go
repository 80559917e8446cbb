package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/KaramelBytes/varsum/internal/dataset"
	"github.com/KaramelBytes/varsum/internal/utils"
)

// EncodeCSV writes ds with a header row. Missing cells are written empty so
// the file reads back with the same gaps.
func EncodeCSV(w io.Writer, ds *dataset.Dataset, delim rune) error {
	cw := csv.NewWriter(w)
	if delim != 0 {
		cw.Comma = delim
	}
	if err := cw.Write(ds.Names()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	cols := ds.Columns()
	rec := make([]string, len(cols))
	for i := 0; i < ds.NumRows(); i++ {
		for j, c := range cols {
			rec[j] = c.Format(i)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSV replaces path atomically with ds encoded as CSV.
func WriteCSV(path string, ds *dataset.Dataset, delim rune) error {
	var buf bytes.Buffer
	if err := EncodeCSV(&buf, ds, delim); err != nil {
		return err
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}
