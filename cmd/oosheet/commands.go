package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Governa/oosheet"
)

func (a *app) getCmd() *cobra.Command {
	var field string
	cmd := &cobra.Command{
		Use:   "get FILE SELECTOR",
		Short: "Print the cells of a range",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, w, err := a.open(cmd, args[0])
			if err != nil {
				return err
			}
			defer w.Close()

			r := doc.Range(args[1])
			if err := r.Err(); err != nil {
				return err
			}
			for cell := range r.Cells() {
				s, err := cellField(cell, field)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", cell.Selector(), s)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&field, "field", "f", "text", "Cell field to print: text, value, formula or type")
	return cmd
}

func cellField(cell *oosheet.Range, field string) (string, error) {
	switch field {
	case "text":
		return cell.Text()
	case "formula":
		return cell.Formula()
	case "value":
		v, err := cell.Value()
		return strconv.FormatFloat(v, 'f', -1, 64), err
	case "type":
		t, err := cell.CellType()
		return t.String(), err
	}
	return "", fmt.Errorf("invalid field: %s (must be text, value, formula or type)", field)
}

func (a *app) setCmd() *cobra.Command {
	var asText, asFormula bool
	cmd := &cobra.Command{
		Use:   "set FILE SELECTOR CONTENT",
		Short: "Write a value, text or formula into every cell of a range",
		Long: `Write CONTENT into every cell of SELECTOR. CONTENT is stored as a number
when it parses as one and as text otherwise; a leading "=" makes it a formula.
--text and --formula force the kind.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if asText && asFormula {
				return fmt.Errorf("--text and --formula are mutually exclusive")
			}
			doc, w, err := a.open(cmd, args[0])
			if err != nil {
				return err
			}
			defer w.Close()

			r, content := doc.Range(args[1]), args[2]
			v, numErr := strconv.ParseFloat(content, 64)
			switch {
			case asFormula || (!asText && len(content) > 1 && content[0] == '='):
				r.SetFormula(content)
			case asText || numErr != nil:
				r.SetText(content)
			default:
				r.SetValue(v)
			}
			if err := r.Err(); err != nil {
				return err
			}
			return a.save(cmd, w, args[0])
		},
	}
	cmd.Flags().BoolVar(&asText, "text", false, "Store CONTENT as text")
	cmd.Flags().BoolVar(&asFormula, "formula", false, "Store CONTENT as a formula")
	a.outputFlag(cmd, "Write the result to this file instead of FILE")
	return cmd
}

func (a *app) findCmd() *cobra.Command {
	var where string
	cmd := &cobra.Command{
		Use:   "find FILE SELECTOR [TEXT]",
		Short: "List the cells of a range whose text equals TEXT or that match --where",
		Long: `List matching cells row by row. Either TEXT or --where is required.

--where takes an expr-lang expression over the fields value, text, formula,
empty, date, col and row, for example:
  value > 14 && text endsWith "8"
  date.Year() == 2011`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var cond oosheet.Condition
			switch {
			case len(args) == 3 && where != "":
				return fmt.Errorf("give either TEXT or --where, not both")
			case len(args) == 3:
				cond = oosheet.Equals(args[2])
			case where != "":
				p, err := oosheet.Expr(where)
				if err != nil {
					return err
				}
				cond = oosheet.Satisfies(p)
			default:
				return fmt.Errorf("TEXT or --where is required")
			}

			doc, w, err := a.open(cmd, args[0])
			if err != nil {
				return err
			}
			defer w.Close()

			n := 0
			for cell, err := range doc.Range(args[1]).Find(cond) {
				if err != nil {
					return err
				}
				text, err := cell.Text()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", cell.Selector(), text)
				n++
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%d match(es)\n", n)
			return nil
		},
	}
	cmd.Flags().StringVarP(&where, "where", "w", "", "expr-lang condition each cell must satisfy")
	return cmd
}

func (a *app) fillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fill FILE SOURCE DESTINATION",
		Short: "Extend SOURCE towards DESTINATION like dragging the fill handle",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, w, err := a.open(cmd, args[0])
			if err != nil {
				return err
			}
			defer w.Close()

			r := doc.Range(args[1]).DragTo(args[2])
			if err := r.Err(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), r.Selector())
			return a.save(cmd, w, args[0])
		},
	}
	a.outputFlag(cmd, "Write the result to this file instead of FILE")
	return cmd
}

func (a *app) flattenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flatten FILE SELECTOR",
		Short: "Replace the formulas of a range by their results",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, w, err := a.open(cmd, args[0])
			if err != nil {
				return err
			}
			defer w.Close()

			if err := doc.Range(args[1]).Flatten().Err(); err != nil {
				return err
			}
			return a.save(cmd, w, args[0])
		},
	}
	a.outputFlag(cmd, "Write the result to this file instead of FILE")
	return cmd
}

func (a *app) describeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe FILE SELECTOR",
		Short: "Print a listing of the non-blank cells of a range",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, w, err := a.open(cmd, args[0])
			if err != nil {
				return err
			}
			defer w.Close()

			out, err := doc.Range(args[1]).Describe()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check every formula of the workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, w, err := a.open(cmd, args[0])
			if err != nil {
				return err
			}
			defer w.Close()

			issues, err := w.Validate()
			if err != nil {
				return err
			}
			for _, issue := range issues {
				fmt.Fprintln(cmd.OutOrStdout(), issue)
			}
			if len(issues) > 0 {
				return fmt.Errorf("%d issue(s) found", len(issues))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "No issues found")
			return nil
		},
	}
}
