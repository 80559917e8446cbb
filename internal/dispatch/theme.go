package dispatch

// Theme holds the colors and sizes stamped onto every PlotSpec.
type Theme struct {
	Background string   `json:"background"`
	Bar        string   `json:"bar"`
	Point      string   `json:"point"`
	Accent     string   `json:"accent"`
	Grid       string   `json:"grid"`
	Groups     []string `json:"groups"`
	Height     int      `json:"height"`
}

// DefaultTheme is the stock palette.
func DefaultTheme() Theme {
	return Theme{
		Background: "#E9ECEF",
		Bar:        "#495057",
		Point:      "#343A40",
		Accent:     "#9400D3",
		Grid:       "#DEE2E6",
		Groups: []string{
			"#3CB371", "#CD6600", "#0000FF", "#CD1076", "#6B4226", "#BA55D3",
			"#CD3700", "#007FFF", "#CDB38B", "#00C5CD", "#4F2F4F",
		},
		Height: 600,
	}
}

func (t Theme) withDefaults() Theme {
	def := DefaultTheme()
	if t.Background == "" {
		t.Background = def.Background
	}
	if t.Bar == "" {
		t.Bar = def.Bar
	}
	if t.Point == "" {
		t.Point = def.Point
	}
	if t.Accent == "" {
		t.Accent = def.Accent
	}
	if t.Grid == "" {
		t.Grid = def.Grid
	}
	if len(t.Groups) == 0 {
		t.Groups = def.Groups
	}
	if t.Height <= 0 {
		t.Height = def.Height
	}
	return t
}
