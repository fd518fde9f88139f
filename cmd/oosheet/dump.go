package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Governa/oosheet"
)

// cellRecord is one exported cell.
type cellRecord struct {
	Sheet   string  `json:"sheet" parquet:"sheet,dict"`
	Cell    string  `json:"cell" parquet:"cell"`
	Column  int32   `json:"column" parquet:"column"`
	Row     int32   `json:"row" parquet:"row"`
	Type    string  `json:"type" parquet:"type,dict"`
	Value   float64 `json:"value" parquet:"value"`
	Text    string  `json:"text" parquet:"text"`
	Formula string  `json:"formula,omitempty" parquet:"formula"`
}

func (a *app) dumpCmd() *cobra.Command {
	var format string
	var skipBlank bool
	cmd := &cobra.Command{
		Use:   "dump FILE SELECTOR",
		Short: "Export the cells of a range as CSV, JSON or Parquet",
		Long: `Export every cell of SELECTOR, column by column, with its type, value,
text and formula. Parquet output needs --output.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			write, ok := writers[format]
			if !ok {
				return fmt.Errorf("invalid format: %s (must be csv, json or parquet)", format)
			}
			if format == "parquet" && a.output == "" {
				return fmt.Errorf("parquet output needs --output")
			}

			doc, w, err := a.open(cmd, args[0])
			if err != nil {
				return err
			}
			defer w.Close()

			records, err := collect(doc.Range(args[1]), skipBlank)
			if err != nil {
				return err
			}

			var out io.Writer = cmd.OutOrStdout()
			if a.output != "" {
				f, err := os.Create(a.output)
				if err != nil {
					return fmt.Errorf("create %s: %w", a.output, err)
				}
				defer f.Close()
				out = f
			}
			if err := write(out, records); err != nil {
				return err
			}
			if a.output != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d cell(s) written to %s\n", len(records), a.output)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "F", "csv", "Output format: csv, json or parquet")
	cmd.Flags().BoolVar(&skipBlank, "skip-blank", false, "Leave out blank cells")
	a.outputFlag(cmd, "Write to this file instead of stdout")
	return cmd
}

// collect reads the cells of r in column-major order.
func collect(r *oosheet.Range, skipBlank bool) ([]cellRecord, error) {
	if err := r.Err(); err != nil {
		return nil, err
	}
	var records []cellRecord
	for cell := range r.Cells() {
		typ, err := cell.CellType()
		if err != nil {
			return nil, err
		}
		if skipBlank && typ == oosheet.CellBlank {
			continue
		}
		rec := cellRecord{
			Sheet:  cell.Sheet(),
			Cell:   cell.Address().Ref(),
			Column: int32(cell.Address().StartCol),
			Row:    int32(cell.Address().StartRow),
			Type:   typ.String(),
		}
		if rec.Value, err = cell.Value(); err != nil {
			return nil, err
		}
		if rec.Text, err = cell.Text(); err != nil {
			return nil, err
		}
		formula, err := cell.Formula()
		if err != nil {
			return nil, err
		}
		if len(formula) > 0 && formula[0] == '=' {
			rec.Formula = formula
		}
		records = append(records, rec)
	}
	return records, nil
}
