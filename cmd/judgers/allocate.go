package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/judgers-dev/judgers/internal/application"
	"github.com/judgers-dev/judgers/internal/domain"
)

type allocateFlags struct {
	input        string
	allocator    string
	judgeCount   int
	timePerJudge int
	format       string
	output       string
	startTime    string
	seed         uint64
}

func (c *cli) allocateCommand() *cobra.Command {
	var f allocateFlags
	cmd := &cobra.Command{
		Use:   "allocate",
		Short: "Assign judges to projects",
		Long: `Assign every judge a list of projects to visit.

Strategies:
  random        every project is seen by exactly --judge-count judges
  sequence      judges walk the project list from staggered offsets
  presentation  every judge sees every project`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := c.allocationRequest(cmd, f)
			if err != nil {
				return err
			}
			input, err := c.svc.Loader().LoadInput(cmd.Context(), f.input)
			if err != nil {
				return fmt.Errorf("failed to load input: %w", err)
			}
			_, err = c.svc.Allocate(cmd.Context(), input, req)
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.input, "input", "i", "", "judges and projects document (JSON)")
	flags.StringVarP(&f.allocator, "allocator", "a", "random", "allocation strategy: random, sequence or presentation")
	flags.IntVarP(&f.judgeCount, "judge-count", "n", 3, "minimum judges per project")
	flags.IntVarP(&f.timePerJudge, "time-per-judge", "t", 5, "minutes each judge spends per project")
	flags.StringVarP(&f.format, "format", "f", "json", "output format: json or xlsx")
	flags.StringVarP(&f.output, "output", "o", "", "output location (default stdout for json)")
	flags.StringVar(&f.startTime, "start-time", "09:00", "time judging begins, HH:MM")
	flags.Uint64Var(&f.seed, "seed", 0, "seed for reproducible random allocation")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

// allocationRequest merges the allocation section of the run configuration
// with any flags set on the command line.
func (c *cli) allocationRequest(cmd *cobra.Command, f allocateFlags) (application.AllocationRequest, error) {
	section := c.cfg.Allocation
	flags := cmd.Flags()

	if changed(flags, "allocator") {
		section.Strategy = f.allocator
	}
	if changed(flags, "judge-count") {
		section.JudgeAmountMin = f.judgeCount
	}
	if changed(flags, "time-per-judge") {
		section.JudgeTime = f.timePerJudge
	}
	if changed(flags, "format") {
		section.Format = domain.ParseFormat(f.format)
	}
	if changed(flags, "output") {
		section.OutputPath = f.output
	}
	if changed(flags, "seed") {
		seed := f.seed
		section.Seed = &seed
	}

	start := section.Start()
	if changed(flags, "start-time") {
		t, err := domain.ParseTimeOfDay(f.startTime)
		if err != nil {
			return application.AllocationRequest{}, fmt.Errorf("invalid --start-time: %w", err)
		}
		start = t
	}

	return application.AllocationRequest{
		Strategy:  section.Strategy,
		Config:    section.AllocationConfig,
		StartTime: start,
		Seed:      section.Seed,
	}, nil
}
