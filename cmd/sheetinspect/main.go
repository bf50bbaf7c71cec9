// Command sheetinspect parses a local .xls/.xlsx file the same way the upload
// endpoint does and prints the dataset, or a projection of it, as JSON.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"excel-analytics/internal/pkg/sheetparse"
	"excel-analytics/internal/projection"
)

type options struct {
	xColumn string
	yColumn string
	chart   string
	pretty  bool
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "sheetinspect [file.xlsx|file.xls]",
		Short: "Parse a spreadsheet and print its dataset or chart series",
		Long: `sheetinspect reads the first sheet of an Excel workbook and prints
{columns, rows} as JSON. With --chart it prints the series for the
--x/--y column pair instead.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(out, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.xColumn, "x", "", "X axis column")
	cmd.Flags().StringVar(&opts.yColumn, "y", "", "Y axis column")
	cmd.Flags().StringVar(&opts.chart, "chart", "", "Chart type: bar, line, pie, scatter, 3d")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "Pretty-print JSON output")
	return cmd
}

func run(out io.Writer, path string, opts options) error {
	kind, err := sheetparse.KindFromFilename(filepath.Base(path))
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	ds, err := sheetparse.Parse(data, kind)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	var result interface{} = ds
	if opts.chart != "" {
		chart, err := projection.ParseChart(opts.chart)
		if err != nil {
			return err
		}
		series, err := projection.Project(ds, opts.xColumn, opts.yColumn, chart)
		if err != nil {
			return err
		}
		result = series
	}

	enc := json.NewEncoder(out)
	if opts.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(result)
}
