package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kinetic-ui/kinetic/reactive"
	"github.com/kinetic-ui/kinetic/scheduler"
)

// graphstatsCmd runs a small scripted reactive graph — two signals, a
// computed sum, an effect watching it, and a handful of scheduler jobs
// — and reports how many times each node ran. There is no live-runtime
// introspection hook to attach to (out of scope per SPEC_FULL.md's
// DevTools-protocol Non-goal); this instead demonstrates the wiring
// between reactive, scheduler and Flush in one self-contained run,
// grounded on vango/cmd/vango's scripted-demo subcommands (create.go,
// add.go) rather than any one-to-one diagnostic command.
func graphstatsCmd() *cobra.Command {
	var jobCount int

	cmd := &cobra.Command{
		Use:   "graphstats",
		Short: "Run a scripted reactive graph and report run and job counts",
		Long: `graphstats builds a small signal/computed/effect graph, mutates
its inputs a fixed number of times, and reports how many times each
node re-ran — a quick sanity check that dependency tracking and the
scheduler's pre/main/post flush are wired correctly.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runGraphStats(jobCount)
			return nil
		},
	}

	cmd.Flags().IntVar(&jobCount, "jobs", 5, "number of scheduler jobs to enqueue across phases")
	return cmd
}

func runGraphStats(jobCount int) {
	rt := reactive.New()

	a := rt.NewValueRef(1)
	b := rt.NewValueRef(2)

	computedRuns := 0
	sum := rt.NewComputed(func() int {
		computedRuns++
		return a.Get() + b.Get()
	})

	effectRuns := 0
	eff := rt.NewEffect(func() {
		effectRuns++
		_ = sum.Get()
	})
	defer eff.Dispose()

	for i := 0; i < 3; i++ {
		a.Update(func(v int) int { return v + 1 })
	}
	b.Set(b.Peek()) // no-op write: should not trigger anything

	sched := scheduler.New()
	jobsRun := 0
	for i := 0; i < jobCount; i++ {
		i := i
		phase := scheduler.Main
		switch i % 3 {
		case 0:
			phase = scheduler.Pre
		case 2:
			phase = scheduler.Post
		}
		sched.QueueJob(string(phase), i, func() { jobsRun++ })
	}
	sched.FlushSync(context.Background())

	info("signal a:        %d", a.Peek())
	info("signal b:        %d", b.Peek())
	info("computed sum:    %d", sum.Peek())
	info("computed evals:  %d", computedRuns)
	info("effect runs:     %d", effectRuns)
	info("scheduler jobs:  %d/%d ran", jobsRun, jobCount)
	fmt.Println()
}
