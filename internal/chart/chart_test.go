package chart

import (
	"bytes"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/varsum/internal/dataset"
	"github.com/KaramelBytes/varsum/internal/dispatch"
)

func salesFixture() *dataset.Dataset {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	var (
		price, qty, score []float64
		city              []string
		when              []time.Time
	)
	for i := 0; i < 30; i++ {
		price = append(price, float64(i%7)+0.5)
		qty = append(qty, float64(i%5))
		score = append(score, float64(i))
		city = append(city, []string{"Rome", "Oslo", "Lima", "Kyiv"}[i%4])
		when = append(when, day.AddDate(0, 0, i%6))
	}
	return dataset.MustNew(
		dataset.Floats("price", price...),
		dataset.Floats("qty", qty...),
		dataset.Floats("score", score...),
		dataset.Strings("city", city...),
		dataset.Times("when", when...),
	)
}

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestWritePNGForEveryDrawableStrategy(t *testing.T) {
	ds := salesFixture()
	cases := []struct {
		name string
		sel  []string
		opt  dispatch.Options
	}{
		{"histogram", []string{"price"}, dispatch.Options{}},
		{"box", []string{"price"}, dispatch.Options{Plot: dispatch.PlotBox}},
		{"bar", []string{"city"}, dispatch.Options{}},
		{"date histogram", []string{"when"}, dispatch.Options{}},
		{"scatter", []string{"price", "qty"}, dispatch.Options{}},
		{"gradient scatter", []string{"price", "qty", "score"}, dispatch.Options{}},
		{"grouped bar", []string{"city", "price"}, dispatch.Options{}},
		{"time line", []string{"when", "price"}, dispatch.Options{}},
		{"colored scatter", []string{"price", "qty", "city"}, dispatch.Options{}},
		{"grouped time line", []string{"when", "price", "city"}, dispatch.Options{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.opt.Output = dispatch.OutputPlot
			res, err := dispatch.Resolve(ds, tc.sel, tc.opt)
			require.NoError(t, err)
			require.Equal(t, dispatch.ResultPlot, res.Kind)
			var buf bytes.Buffer
			require.NoError(t, WritePNG(&buf, res.Plot, Options{WidthIn: 4, HeightIn: 3, Grid: "#DEE2E6"}))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
		})
	}
}

func TestSaveWritesFile(t *testing.T) {
	res, err := dispatch.Resolve(salesFixture(), []string{"city", "price"}, dispatch.Options{Output: dispatch.OutputPlot})
	require.NoError(t, err)
	p := filepath.Join(t.TempDir(), "bar.png")
	require.NoError(t, Save(res.Plot, p, Options{}))
	info, err := os.Stat(p)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestUnsupportedKinds(t *testing.T) {
	ds := salesFixture()
	res, err := dispatch.Resolve(ds, []string{"city"}, dispatch.Options{Output: dispatch.OutputPlot, Plot: dispatch.PlotPie})
	require.NoError(t, err)
	_, err = Build(res.Plot, Options{})
	assert.True(t, errors.Is(err, ErrUnsupported))
}

func TestParseHex(t *testing.T) {
	c, err := parseHex("#9400D3")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0x94, G: 0x00, B: 0xD3, A: 255}, c)
	_, err = parseHex("#abc")
	assert.Error(t, err)
	_, err = parseHex("zzzzzz")
	assert.Error(t, err)
}
