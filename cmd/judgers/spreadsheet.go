package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/judgers-dev/judgers/internal/domain"
)

func (c *cli) spreadsheetCommand() *cobra.Command {
	var (
		input     string
		output    string
		judgeTime int
		startTime string
	)
	cmd := &cobra.Command{
		Use:   "spreadsheet",
		Short: "Generate a judging workbook with one sheet per judge",
		Long: `Generate a judging workbook.

Projects are assigned with the sequence strategy so that each is seen by
three judges. Every judge gets a sheet listing their projects with a
scheduled time; a results sheet totals the ranks judges enter.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := c.cfg.Spreadsheet
			flags := cmd.Flags()
			if changed(flags, "output") {
				cfg.OutputPath = output
			}
			if changed(flags, "judge-time") {
				cfg.JudgeTime = judgeTime
			}
			if changed(flags, "start-time") {
				if _, err := domain.ParseTimeOfDay(startTime); err != nil {
					return fmt.Errorf("invalid --start-time: %w", err)
				}
				cfg.StartTime = startTime
			}

			in, err := c.svc.Loader().LoadInput(cmd.Context(), input)
			if err != nil {
				return fmt.Errorf("failed to load input: %w", err)
			}
			res, err := c.svc.Spreadsheet(cmd.Context(), in, cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Spreadsheet written to %s\n", res.Location)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&input, "input", "i", "", "judges and projects document (JSON)")
	flags.StringVarP(&output, "output", "o", "", "workbook location (default judging.xlsx)")
	flags.IntVarP(&judgeTime, "judge-time", "t", 5, "minutes each judge spends per project")
	flags.StringVar(&startTime, "start-time", "09:00", "time judging begins, HH:MM")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
