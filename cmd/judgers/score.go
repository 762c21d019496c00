package main

import (
	"github.com/spf13/cobra"

	"github.com/judgers-dev/judgers/internal/application"
	"github.com/judgers-dev/judgers/internal/domain"
)

type scoreFlags struct {
	input     string
	decisions []string
	weights   string
	order     string
	mode      string
	format    string
	output    string
}

func (c *cli) scoreCommand() *cobra.Command {
	var f scoreFlags
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Aggregate stack-rank decisions into project scores",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := c.svc.Score(cmd.Context(), c.scoreRequest(cmd, f))
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.input, "input", "i", "", "judges and projects document (JSON)")
	flags.StringSliceVarP(&f.decisions, "decisions", "d", nil, "stack-rank decision documents (JSON), repeatable")
	flags.StringVarP(&f.weights, "weights", "w", "", "rank weights document (YAML or JSON)")
	flags.StringVar(&f.order, "order", "score_desc", "score_asc, score_desc, project_name_asc or project_name_desc")
	flags.StringVar(&f.mode, "mode", "average", "average or total")
	flags.StringVarP(&f.format, "format", "f", "json", "output format: json or xlsx")
	flags.StringVarP(&f.output, "output", "o", "", "output location (default stdout for json)")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("decisions")
	return cmd
}

// scoreRequest merges the scoring section of the run configuration with any
// flags set on the command line.
func (c *cli) scoreRequest(cmd *cobra.Command, f scoreFlags) application.ScoreRequest {
	section := c.cfg.Scoring
	flags := cmd.Flags()

	if changed(flags, "order") {
		section.Order = domain.ParseOrder(f.order)
	}
	if changed(flags, "mode") {
		section.Mode = domain.ParseMode(f.mode)
	}
	if changed(flags, "format") {
		section.Format = domain.ParseFormat(f.format)
	}
	if changed(flags, "output") {
		section.OutputPath = f.output
	}

	return application.ScoreRequest{
		InputPath:     f.input,
		DecisionPaths: f.decisions,
		WeightsPath:   f.weights,
		Weights:       section.RankWeights,
		Config:        section.ScorerConfig,
		OutputPath:    section.OutputPath,
	}
}
