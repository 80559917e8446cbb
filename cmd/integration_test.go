package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag to its default; cobra keeps values and
// Changed state across Execute calls in one process.
func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// runCmd is execute that fails the test on error.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

// shopHome isolates HOME and writes a small sales CSV into it.
func shopHome(t *testing.T) (home, csvPath string) {
	t.Helper()
	home = t.TempDir()
	t.Setenv("HOME", home)
	var b strings.Builder
	b.WriteString("price,qty,city,ordered\n")
	cities := []string{"Rome", "Oslo", "Lima"}
	for i := 0; i < 12; i++ {
		fmt.Fprintf(&b, "%d,%d,%s,2024-03-%02d\n", i+1, 12-i, cities[i%3], 1+i/4)
	}
	csvPath = filepath.Join(home, "shop.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(b.String()), 0o644))
	return home, csvPath
}

func TestCLI_InspectSingleFile(t *testing.T) {
	_, p := shopHome(t)
	out := runCmd(t, "inspect", p)
	assert.Contains(t, out, "[DATASET SUMMARY]")
	assert.Contains(t, out, "File: shop.csv")
	assert.Contains(t, out, "Rows: 12")
	assert.Contains(t, out, "[NUMERIC SUMMARY]")
}

func TestCLI_InspectBatchWritesSummaries(t *testing.T) {
	home, _ := shopHome(t)

	// Two files with the same basename in different directories
	csv := "col1,col2\nA,1\nB,2\nC,3\n"
	for _, d := range []string{"d1", "d2"} {
		require.NoError(t, os.MkdirAll(filepath.Join(home, d), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(home, d, "metrics.csv"), []byte(csv), 0o644))
	}
	outDir := filepath.Join(home, "summaries")
	out := runCmd(t, "inspect", filepath.Join(home, "d*", "metrics.csv"), "--out-dir", outDir, "--workers", "2")
	assert.Equal(t, 2, strings.Count(out, "✓ Wrote summary"))

	for _, name := range []string{"metrics.summary.md", "metrics__2.summary.md"} {
		body, err := os.ReadFile(filepath.Join(outDir, name))
		require.NoError(t, err, name)
		assert.Contains(t, string(body), "File: metrics.csv")
	}
}

func TestCLI_InspectNoMatches(t *testing.T) {
	home, _ := shopHome(t)
	_, err := execute(t, "inspect", filepath.Join(home, "nothing*.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no input files matched")
}

func TestCLI_SummaryGroupedTableJSON(t *testing.T) {
	_, p := shopHome(t)
	out := runCmd(t, "summary", p, "--vars", "city,price", "--agg", "sum", "--format", "json")
	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 3)
	sums := map[string]float64{}
	for _, r := range rows {
		for _, k := range []string{"min", "mean", "median", "max", "sum"} {
			assert.Contains(t, r, k)
		}
		sums[r["city"].(string)] = r["sum"].(float64)
	}
	assert.Equal(t, map[string]float64{"Lima": 30, "Oslo": 26, "Rome": 22}, sums)
}

func TestCLI_SummaryPlotToPNG(t *testing.T) {
	home, p := shopHome(t)
	png := filepath.Join(home, "scatter.png")
	out := runCmd(t, "summary", p, "--vars", "price,qty", "--png", png)
	assert.Contains(t, out, `"kind": "scatter"`)
	assert.Contains(t, out, "✓ Wrote plot to")
	info, err := os.Stat(png)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestCLI_SummaryPNGToStdout(t *testing.T) {
	_, p := shopHome(t)
	out := runCmd(t, "summary", p, "--vars", "price,qty", "--png", "-")
	assert.True(t, strings.HasPrefix(out, "\x89PNG\r\n\x1a\n"))
	assert.NotContains(t, out, "✓ Wrote plot")

	out = runCmd(t, "summary", p, "--vars", "city", "--plot", "pie", "--png", "-")
	assert.Contains(t, out, `"kind": "pie"`)
	assert.Contains(t, out, "cannot be exported as PNG")
}

func TestSummaryPath(t *testing.T) {
	dir := t.TempDir()
	got, err := summaryPath(dir, "/data/metrics.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "metrics.summary.md"), got)

	require.NoError(t, os.WriteFile(got, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "metrics__2.summary.md"), []byte("x"), 0o644))
	got, err = summaryPath(dir, "/other/metrics.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "metrics__3.summary.md"), got)

	// A regular file in place of the directory fails instead of retrying.
	notDir := filepath.Join(dir, "plain")
	require.NoError(t, os.WriteFile(notDir, []byte("x"), 0o644))
	_, err = summaryPath(notDir, "metrics.csv")
	assert.Error(t, err)
}

func TestCLI_SummaryPieIsSpecOnly(t *testing.T) {
	home, p := shopHome(t)
	png := filepath.Join(home, "pie.png")
	out := runCmd(t, "summary", p, "--vars", "city", "--plot", "pie", "--png", png)
	assert.Contains(t, out, `"kind": "pie"`)
	assert.Contains(t, out, "cannot be exported as PNG")
	_, err := os.Stat(png)
	assert.True(t, os.IsNotExist(err))
}

func TestCLI_SummaryDuplicateSelection(t *testing.T) {
	_, p := shopHome(t)
	out := runCmd(t, "summary", p, "--vars", "price,price")
	assert.Contains(t, out, "⚠")
}

func TestCLI_SummaryRejectsBadOptions(t *testing.T) {
	_, p := shopHome(t)
	_, err := execute(t, "summary", p, "--vars", "city,price", "--agg", "mode")
	assert.Error(t, err)
	_, err = execute(t, "summary", p, "--vars", "price", "--outliers", "wild")
	assert.Error(t, err)
	_, err = execute(t, "summary", p, "--vars", "nope")
	assert.Error(t, err)
}

func TestCLI_SummaryUsesConfigDefaults(t *testing.T) {
	_, p := shopHome(t)
	runCmd(t, "config", "set", "default_aggregation", "max")
	runCmd(t, "config", "set", "default_output", "plot")
	out := runCmd(t, "summary", p, "--vars", "city,price")
	assert.Contains(t, out, `"kind": "bar"`)
	assert.Contains(t, out, `"y": "max"`)
	assert.Contains(t, out, `"title": "Maximum Price By City"`)
}

func TestCLI_Options(t *testing.T) {
	_, p := shopHome(t)
	out := runCmd(t, "options", p, "--vars", "city")
	assert.Contains(t, out, "Strategy: category_frequency")
	assert.Contains(t, out, "plot_kind: bar, pie")

	out = runCmd(t, "options", p, "--vars", "price,city", "--purpose", "aggregation", "--json")
	var ans struct {
		Strategy string   `json:"strategy"`
		Choices  []string `json:"choices"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &ans))
	assert.Equal(t, "grouped_bar", ans.Strategy)
	assert.Equal(t, []string{"min", "mean", "median", "max", "sum"}, ans.Choices)

	out = runCmd(t, "options", p, "--vars", "city,ordered")
	assert.Contains(t, out, "No plot_kind choices")
}

func TestCLI_CleanDropsAndWrites(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	src := filepath.Join(home, "raw.csv")
	require.NoError(t, os.WriteFile(src, []byte("a,b,when\n1,x,2024-01-05\nNA,y,2024-02-07\n3,z,2024-03-09\n"), 0o644))
	dst := filepath.Join(home, "clean.csv")

	out := runCmd(t, "clean", src, "--drop", "all_rows", "--extract", "when:year,month", "--out", dst)
	assert.Contains(t, out, "Removed 1 rows")
	assert.Contains(t, out, "✓ Wrote 2 rows")

	body, err := os.ReadFile(dst)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "a,b,when,year,month", lines[0])
}

func TestCLI_CleanPlanFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	src := filepath.Join(home, "raw.csv")
	require.NoError(t, os.WriteFile(src, []byte("a,b\n1,x\n2, \n3,z\n"), 0o644))
	plan := filepath.Join(home, "plan.yaml")
	require.NoError(t, os.WriteFile(plan, []byte("coercions:\n  - columns: [a]\n    target: character\n"), 0o644))

	out := runCmd(t, "clean", src, "--plan", plan, "--empty-report", "b", "--format", "csv")
	assert.Contains(t, out, "⚠ Blank values in: b")
	assert.Contains(t, out, "✓ coerce [a] to character")

	_, err := execute(t, "clean", src, "--coerce", "a")
	assert.Error(t, err)

	out = runCmd(t, "clean", src, "--coerce", "b:character", "--format", "csv")
	assert.Contains(t, out, "Removed 1 rows")
	assert.Contains(t, out, "⚠ Rows with blank values removed from: b")
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	out := runCmd(t, "config", "set", "top_n", "3")
	assert.Contains(t, out, "✓ Set top_n = 3")
	_, err := os.Stat(filepath.Join(home, ".varsum", "config.yaml"))
	require.NoError(t, err)

	out = runCmd(t, "config", "show")
	assert.Contains(t, out, "top_n: 3")
	assert.Contains(t, out, "theme_bar: (default)")

	_, err = execute(t, "config", "set", "default_output", "chart")
	assert.Error(t, err)
}
