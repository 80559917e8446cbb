package dispatch

import (
	"fmt"

	"github.com/KaramelBytes/varsum/internal/dataset"
)

// ResultKind tags which member of Result is populated.
type ResultKind int

const (
	ResultEmpty ResultKind = iota
	ResultTable
	ResultPlot
)

func (k ResultKind) String() string {
	switch k {
	case ResultTable:
		return "table"
	case ResultPlot:
		return "plot"
	default:
		return "empty"
	}
}

// Result is the outcome of Resolve: exactly one of a table, a plot spec, or
// nothing. Empty results carry a Reason and, for repeated variables, a Notice.
type Result struct {
	ID       string
	Kind     ResultKind
	Strategy Strategy
	Table    *dataset.Dataset
	Plot     *PlotSpec
	Notice   *DuplicateNotice
	Reason   string
}

// ChartKind is the concrete chart a PlotSpec describes.
type ChartKind string

const (
	ChartHistogram ChartKind = "histogram"
	ChartBox       ChartKind = "box"
	ChartViolin    ChartKind = "violin"
	ChartBar       ChartKind = "bar"
	ChartPie       ChartKind = "pie"
	ChartScatter   ChartKind = "scatter"
	ChartScatter3D ChartKind = "scatter3d"
	ChartLine      ChartKind = "line"
)

// Orientation of bar-like charts.
type Orientation string

const (
	Vertical   Orientation = "v"
	Horizontal Orientation = "h"
)

// PlotSpec is a renderer-independent chart description. Channel fields hold
// column names of Data; empty channels are unused.
type PlotSpec struct {
	Kind        ChartKind
	Title       string
	Data        *dataset.Dataset
	X           string
	Y           string
	Z           string
	Color       string
	Facet       string
	Orientation Orientation
	// Labels maps column names to axis and legend captions.
	Labels     map[string]string
	Colors     []string
	Background string
	Height     int
	Hole       float64
}

// DuplicateNotice names the selection positions that repeat a variable.
type DuplicateNotice struct {
	Positions string
	Names     []string
}

func (n *DuplicateNotice) String() string {
	if n.Positions == "all" {
		return "all selected variables are the same; choose different variables"
	}
	return fmt.Sprintf("the %s variables are the same; choose different variables", n.Positions)
}

// detectDuplicates checks the pairs in the order: all, first/third,
// second/third, first/second.
func detectDuplicates(sel []string) *DuplicateNotice {
	switch len(sel) {
	case 2:
		if sel[0] == sel[1] {
			return &DuplicateNotice{Positions: "first and second", Names: []string{sel[0]}}
		}
	case 3:
		switch {
		case sel[0] == sel[1] && sel[1] == sel[2]:
			return &DuplicateNotice{Positions: "all", Names: []string{sel[0]}}
		case sel[0] == sel[2]:
			return &DuplicateNotice{Positions: "first and third", Names: []string{sel[0]}}
		case sel[1] == sel[2]:
			return &DuplicateNotice{Positions: "second and third", Names: []string{sel[1]}}
		case sel[0] == sel[1]:
			return &DuplicateNotice{Positions: "first and second", Names: []string{sel[0]}}
		}
	}
	return nil
}
