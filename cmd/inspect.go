package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/varsum/internal/report"
	"github.com/KaramelBytes/varsum/internal/utils"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	insLoad    loadFlags
	insOutDir  string
	insWorkers int
	insQuiet   bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <files...>",
	Short: "Describe the structure, types, missing values and statistics of data files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		if insWorkers < 1 {
			return fmt.Errorf("--workers must be at least 1, got %d", insWorkers)
		}
		// Load config once up front so workers share it.
		if _, err := settings(); err != nil {
			return err
		}

		docs := make([]string, len(files))
		var g errgroup.Group
		g.SetLimit(insWorkers)
		for i, path := range files {
			g.Go(func() error {
				ds, _, err := insLoad.load(path)
				if err != nil {
					return err
				}
				ov, err := report.Inspect(filepath.Base(path), ds)
				if err != nil {
					return fmt.Errorf("inspect %s: %w", filepath.Base(path), err)
				}
				docs[i] = ov.Markdown()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		total := len(files)
		if insOutDir != "" {
			if err := utils.EnsureDir(insOutDir); err != nil {
				return err
			}
		}
		for i, path := range files {
			if insOutDir == "" {
				if total > 1 && !insQuiet {
					fmt.Fprintf(out, "[%d/%d] %s\n", i+1, total, path)
				}
				fmt.Fprintln(out, docs[i])
				continue
			}
			dst, err := summaryPath(insOutDir, path)
			if err != nil {
				return err
			}
			if err := utils.SafeWriteFile(dst, []byte(docs[i])); err != nil {
				return fmt.Errorf("write summary: %w", err)
			}
			if !insQuiet {
				fmt.Fprintf(out, "✓ Wrote summary of %s to %s\n", filepath.Base(path), dst)
			}
		}
		return nil
	},
}

// summaryPath picks <name>.summary.md in dir, adding a __N suffix instead
// of overwriting an existing file.
func summaryPath(dir, path string) (string, error) {
	base := filepath.Base(path)
	safe := strings.TrimSuffix(base, filepath.Ext(base))
	for idx := 1; ; idx++ {
		cand := filepath.Join(dir, safe+".summary.md")
		if idx > 1 {
			cand = filepath.Join(dir, fmt.Sprintf("%s__%d.summary.md", safe, idx))
		}
		_, err := os.Stat(cand)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return cand, nil
		case err != nil:
			return "", fmt.Errorf("check %s: %w", cand, err)
		}
	}
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	addLoadFlags(inspectCmd, &insLoad)
	inspectCmd.Flags().StringVarP(&insOutDir, "out-dir", "o", "", "write one <name>.summary.md per file into this directory")
	inspectCmd.Flags().IntVar(&insWorkers, "workers", 4, "number of files inspected concurrently")
	inspectCmd.Flags().BoolVar(&insQuiet, "quiet", false, "suppress progress and non-essential output")
}
