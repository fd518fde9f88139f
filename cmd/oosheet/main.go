// Command oosheet reads and edits .xlsx workbooks through oosheet ranges.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Governa/oosheet"
	"github.com/Governa/oosheet/xlsx"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds the flags shared by every subcommand.
type app struct {
	verbose bool
	output  string
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "oosheet",
		Short: "Read and edit spreadsheet ranges",
		Long: `oosheet addresses cells of an .xlsx workbook with selectors such as
"Sheet1.A1:C10" and reads, edits or exports them.

Selectors:
  A1           first sheet, one cell
  B2:D8        first sheet, a block
  Sheet2.B3:10 column B, rows 3 to 10 of Sheet2

Examples:
  oosheet get report.xlsx Sheet1.B2:B10
  oosheet set report.xlsx A1 42
  oosheet fill report.xlsx A2 A20
  oosheet find report.xlsx A1:H100 --where 'value > 1000'
  oosheet dump report.xlsx A1:H100 --format parquet -o cells.parquet`,
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log editing commands to stderr")

	root.AddCommand(
		a.getCmd(),
		a.setCmd(),
		a.findCmd(),
		a.fillCmd(),
		a.flattenCmd(),
		a.describeCmd(),
		a.validateCmd(),
		a.dumpCmd(),
	)
	return root
}

func (a *app) logger(cmd *cobra.Command) *slog.Logger {
	if !a.verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// open loads the workbook at path and binds a Document to it.
func (a *app) open(cmd *cobra.Command, path string) (*oosheet.Document, *xlsx.Workbook, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil, fmt.Errorf("file not found: %s", path)
	}
	log := a.logger(cmd)
	w, err := xlsx.Open(path, xlsx.WithLogger(log), xlsx.WithUndoLimit(0))
	if err != nil {
		return nil, nil, err
	}
	return oosheet.New(w, oosheet.WithLogger(log)), w, nil
}

// save writes w to --output, or back to path when the flag is empty.
func (a *app) save(cmd *cobra.Command, w *xlsx.Workbook, path string) error {
	target := path
	if a.output != "" {
		target = a.output
	}
	if err := w.SaveAs(target); err != nil {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "Saved", target)
	return nil
}

func (a *app) outputFlag(cmd *cobra.Command, usage string) {
	cmd.Flags().StringVarP(&a.output, "output", "o", "", usage)
}
