package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/lattice-surgery/lsqecc/lattice"
	_ "github.com/lattice-surgery/lsqecc/lattice/magicstate"
	_ "github.com/lattice-surgery/lsqecc/lattice/routing"
	"github.com/lattice-surgery/lsqecc/lattice/trace"
)

// compileOptions is shared by every assembly of one compile run.
type compileOptions struct {
	Config     lattice.SchedulerConfig
	TraceLevel trace.TraceLevel
	Workers    int
}

// compileReport is the outcome of compiling one assembly file. An
// instruction failure is an outcome, not an error: the partial timeline is
// still reported.
type compileReport struct {
	RunID        string               `json:"run_id"`
	Assembly     string               `json:"assembly"`
	Qubits       int                  `json:"qubits"`
	Instructions int                  `json:"instructions"`
	Scheduled    int                  `json:"scheduled"`
	Slices       []sliceSummary       `json:"slices"`
	Failure      *failureSummary      `json:"failure,omitempty"`
	Trace        *trace.ScheduleTrace `json:"trace,omitempty"`
}

// sliceSummary condenses one slice for printing.
type sliceSummary struct {
	Index        int      `json:"index"`
	Duration     int      `json:"duration"`
	Patches      int      `json:"patches"`
	Measured     int      `json:"measured"`
	Unitary      int      `json:"unitary"`
	RoutingCells int      `json:"routing_cells"`
	Operations   []string `json:"operations,omitempty"`
}

type failureSummary struct {
	Instruction int    `json:"instruction"`
	LastSlice   int    `json:"last_slice"`
	Op          string `json:"op"`
	Reason      string `json:"reason"`
}

// compileAll compiles every path concurrently, each with its own Scheduler.
// Reports come back in path order. Unreadable or invalid files abort the run.
func compileAll(ctx context.Context, paths []string, runID string, opts compileOptions) ([]*compileReport, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	reports := make([]*compileReport, len(paths))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rep, err := compileFile(path, runID, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			reports[i] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func compileFile(path, runID string, opts compileOptions) (*compileReport, error) {
	a, err := lattice.LoadAssembly(path)
	if err != nil {
		return nil, err
	}
	s, err := lattice.NewScheduler(a, lattice.DefaultLayout(a, opts.Config), opts.Config)
	if err != nil {
		return nil, err
	}
	if opts.TraceLevel == trace.TraceLevelDecisions {
		s.Trace = trace.NewScheduleTrace(opts.TraceLevel)
	}

	rep := &compileReport{
		RunID:        runID,
		Assembly:     path,
		Qubits:       len(a.CoreQubits),
		Instructions: len(a.Instructions),
		Scheduled:    len(a.Instructions),
		Trace:        s.Trace,
	}
	runErr := s.Run()
	var ie *lattice.InstructionError
	switch {
	case errors.As(runErr, &ie):
		rep.Scheduled = ie.Index
		rep.Failure = &failureSummary{Instruction: ie.Index, LastSlice: ie.LastSlice, Op: ie.Op, Reason: ie.Err.Error()}
		logrus.Warnf("%s: stopped at instruction %d: %v", path, ie.Index, ie.Err)
	case runErr != nil:
		return nil, runErr
	}

	for i, sl := range s.Computation().All() {
		rep.Slices = append(rep.Slices, summarizeSlice(i, sl))
	}
	return rep, nil
}

func summarizeSlice(idx int, s lattice.Slice) sliceSummary {
	sum := sliceSummary{Index: idx, Duration: s.Duration, Patches: len(s.Patches)}
	for _, p := range s.Patches {
		switch p.Activity {
		case lattice.ActivityMeasurement:
			sum.Measured++
		case lattice.ActivityUnitary:
			sum.Unitary++
		}
		if p.Type == lattice.PatchRouting {
			sum.RoutingCells += len(p.Regions())
		}
	}
	for _, op := range s.Operations {
		sum.Operations = append(sum.Operations, op.String())
	}
	return sum
}

// idleSlices counts sealed slices that carry no instruction.
func (r *compileReport) idleSlices() int {
	n := 0
	for i, s := range r.Slices {
		if i < len(r.Slices)-1 && len(s.Operations) == 0 {
			n++
		}
	}
	return n
}

func (r *compileReport) routingCells() int {
	n := 0
	for _, s := range r.Slices {
		n += s.RoutingCells
	}
	return n
}
