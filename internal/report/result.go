package report

import (
	"fmt"
	"io"

	"github.com/KaramelBytes/varsum/internal/dispatch"
	"github.com/KaramelBytes/varsum/internal/utils"
)

// plotSummary is the JSON view of a PlotSpec without its data.
type plotSummary struct {
	Kind        dispatch.ChartKind   `json:"kind"`
	Title       string               `json:"title"`
	Orientation dispatch.Orientation `json:"orientation"`
	X           string               `json:"x,omitempty"`
	Y           string               `json:"y,omitempty"`
	Z           string               `json:"z,omitempty"`
	Color       string               `json:"color,omitempty"`
	Facet       string               `json:"facet,omitempty"`
	Labels      map[string]string    `json:"labels,omitempty"`
	Colors      []string             `json:"colors,omitempty"`
	Background  string               `json:"background"`
	Height      int                  `json:"height"`
	Hole        float64              `json:"hole,omitempty"`
	Rows        int                  `json:"rows"`
}

// RenderResult writes an analysis result. Tables use format; plot specs are
// described as JSON followed by their data table.
func RenderResult(w io.Writer, res *dispatch.Result, format Format) error {
	switch res.Kind {
	case dispatch.ResultTable:
		return RenderTable(w, res.Table, format)
	case dispatch.ResultPlot:
		p := res.Plot
		b, err := utils.PrettyJSON(plotSummary{
			Kind: p.Kind, Title: p.Title, Orientation: p.Orientation,
			X: p.X, Y: p.Y, Z: p.Z, Color: p.Color, Facet: p.Facet,
			Labels: p.Labels, Colors: p.Colors, Background: p.Background,
			Height: p.Height, Hole: p.Hole, Rows: p.Data.NumRows(),
		})
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, string(b)); err != nil {
			return err
		}
		return RenderTable(w, p.Data, format)
	default:
		if res.Notice != nil {
			_, err := fmt.Fprintf(w, "⚠ %s\n", res.Notice)
			return err
		}
		_, err := fmt.Fprintf(w, "(no result: %s)\n", res.Reason)
		return err
	}
}
