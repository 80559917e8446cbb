package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/varsum/internal/dispatch"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "mean", c.DefaultAggregation)
	assert.Equal(t, "table", c.DefaultOutput)
	assert.Equal(t, "none", c.DefaultOutliers)
	assert.Equal(t, 10, c.LumpKeepN)
	assert.Equal(t, "Others", c.LumpOtherLabel)
	assert.Equal(t, 10, c.TopN)
	assert.Equal(t, 600, c.PlotHeight)
	assert.Equal(t, dispatch.DefaultTheme(), c.Theme())
}

func TestLoadFileAndEnv(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte("default_aggregation: sum\ntop_n: 5\ntheme_bar: \"#112233\"\n"), 0o644))
	t.Setenv("VARSUM_TOP_N", "7")

	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "sum", c.DefaultAggregation)
	assert.Equal(t, 7, c.TopN, "env wins over the file")
	assert.Equal(t, "#112233", c.Theme().Bar)
	assert.Equal(t, dispatch.DefaultTheme().Point, c.Theme().Point)
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte("default_output: chart\n"), 0o644))
	_, err := Load(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default_output")
}

func TestSetValidatesAndRoundTrips(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	c, err := Load(p)
	require.NoError(t, err)

	tests := []struct {
		key, val string
		ok       bool
	}{
		{"default_aggregation", "Median", true},
		{"default_aggregation", "mode", false},
		{"lump_keep_n", "4", true},
		{"lump_keep_n", "0", false},
		{"top_n", "x", false},
		{"default_outliers", "strong_upper", true},
		{"default_outliers", "wild", false},
		{"delimiter", "tab", true},
		{"delimiter", ";;", false},
		{"theme_groups", "#000000, #FFFFFF", true},
		{"theme_accent", "purple", false},
		{"plot_width_in", "6.5", true},
		{"nope", "1", false},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.val, func(t *testing.T) {
			before := *c
			err := c.Set(tt.key, tt.val)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Equal(t, before, *c, "failed set leaves config unchanged")
		})
	}

	require.NoError(t, Save(c, p))
	back, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "median", back.DefaultAggregation)
	assert.Equal(t, 4, back.LumpKeepN)
	assert.Equal(t, "\t", back.Delimiter)
	assert.Equal(t, []string{"#000000", "#FFFFFF"}, back.ThemeGroups)
	assert.Equal(t, 6.5, back.PlotWidthIn)

	for _, k := range Keys() {
		_, err := back.Get(k)
		assert.NoError(t, err, k)
	}
}
