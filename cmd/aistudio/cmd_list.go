package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/leofalp/aistudio/internal/app"
	"github.com/leofalp/aistudio/internal/history"
	"github.com/leofalp/aistudio/tools"
)

func (c *cli) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [tool]",
		Short: "List the tools, or show the fields of one tool",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := tools.Default(c.cfg.Models)

			if len(args) == 1 {
				t, err := registry.Get(args[0])
				if err != nil {
					return err
				}
				c.printFields(t.Spec())
				return nil
			}

			tw := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tTITLE\tMODEL\tOUTPUT")
			for _, spec := range registry.List() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", spec.Name, spec.Title, spec.Model, spec.Output)
			}
			return tw.Flush()
		},
	}
}

func (c *cli) printFields(spec tools.Spec) {
	fmt.Fprintf(c.stdout, "%s (%s) on %s\n%s\n\n", spec.Title, spec.Name, spec.Model, spec.Description)

	tw := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tKIND\tREQUIRED\tDEFAULT\tOPTIONS")
	for _, f := range spec.Fields {
		opts := strings.Join(f.Options, "|")
		if f.Kind == tools.KindNumber {
			opts = fmt.Sprintf("%d..%d", f.Min, f.Max)
		}
		fmt.Fprintf(tw, "%s\t%s\t%t\t%s\t%s\n", f.Name, f.Kind, f.Required, f.Default, opts)
	}
	_ = tw.Flush()
}

func (c *cli) newHistoryCmd() *cobra.Command {
	var (
		tool  string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "history [id]",
		Short: "Show recent runs, or one run in full",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.OpenHistory(cmd.Context(), c.cfg.History)
			if err != nil {
				return err
			}
			if store == nil {
				return fmt.Errorf("history is disabled (history.backend: off)")
			}
			defer store.Close()

			if len(args) == 1 {
				rec, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return writeIndentedJSON(c.stdout, rec)
			}

			records, err := store.List(cmd.Context(), history.ListOptions{Tool: tool, Limit: limit})
			if err != nil {
				return err
			}
			c.printHistory(records)
			return nil
		},
	}
	cmd.Flags().StringVar(&tool, "tool", "", "only runs of this tool")
	cmd.Flags().IntVar(&limit, "limit", history.DefaultLimit, "maximum number of runs")
	return cmd
}

func (c *cli) printHistory(records []history.Record) {
	if len(records) == 0 {
		fmt.Fprintln(c.stdout, "No runs recorded.")
		return
	}

	tw := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWHEN\tTOOL\tMODEL\tTOKENS\tCOST\tSTATUS")
	for _, r := range records {
		status := "ok"
		if r.Error != "" {
			status = "error"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t$%.6f\t%s\n",
			r.ID, r.CreatedAt.Local().Format(time.DateTime), r.Tool, r.Model, r.Usage.TotalTokens, r.CostUSD, status)
	}
	_ = tw.Flush()
}
