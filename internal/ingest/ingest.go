// Package ingest loads tabular files into datasets.
package ingest

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/varsum/internal/dataset"
)

// Options controls how a file is read.
type Options struct {
	// MaxRows limits the data rows read; 0 means unlimited.
	MaxRows int
	// Delimiter for CSV. If 0, chosen from the file extension.
	Delimiter rune
	// Number fixes the decimal and thousands separators; zero auto-detects.
	Number dataset.NumberFormat
	// Sheet selects an XLSX sheet by name; SheetIndex (1-based) is used
	// when Sheet is empty, and the first sheet when both are unset.
	Sheet      string
	SheetIndex int
}

// Loader reads one file format.
type Loader interface {
	CanLoad(path string) bool
	Load(path string, opt Options) (*dataset.Dataset, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

// ErrUnsupported indicates no loader accepts the file.
var ErrUnsupported = errors.New("unsupported file format")

// Load picks a loader by file name and reads path into a dataset.
func Load(path string, opt Options) (*dataset.Dataset, error) {
	for _, l := range registry {
		if l.CanLoad(path) {
			ds, err := l.Load(path, opt)
			if err != nil {
				return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
			}
			return ds, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Base(path))
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
}
