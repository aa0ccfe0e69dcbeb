package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/lattice-surgery/lsqecc/lattice/trace"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	failStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// reportWriter prints compile reports as text or JSON.
type reportWriter struct {
	w      io.Writer
	json   bool
	styled bool // terminal output; headers are colored
}

func newReportWriter(w io.Writer, jsonOutput bool) reportWriter {
	return reportWriter{w: w, json: jsonOutput, styled: isTerminal(w)}
}

// isTerminal reports whether w is a file attached to a terminal. Buffers
// and pipes are never styled.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (rw reportWriter) write(reports []*compileReport) error {
	if rw.json {
		enc := json.NewEncoder(rw.w)
		for _, r := range reports {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	}
	for _, r := range reports {
		rw.printReport(r)
	}
	return nil
}

func (rw reportWriter) style(s lipgloss.Style, text string) string {
	if !rw.styled {
		return text
	}
	return s.Render(text)
}

func (rw reportWriter) printReport(r *compileReport) {
	fmt.Fprintln(rw.w, rw.style(headerStyle, fmt.Sprintf("=== %s ===", r.Assembly)))
	fmt.Fprintf(rw.w, "Run ID             : %s\n", r.RunID)
	fmt.Fprintf(rw.w, "Core Qubits        : %d\n", r.Qubits)
	fmt.Fprintf(rw.w, "Instructions       : %d/%d scheduled\n", r.Scheduled, r.Instructions)
	fmt.Fprintf(rw.w, "Slices             : %d\n", len(r.Slices))
	fmt.Fprintf(rw.w, "Idle Slices        : %d\n", r.idleSlices())
	fmt.Fprintf(rw.w, "Routing Cells      : %d\n", r.routingCells())
	if r.Failure != nil {
		fmt.Fprintln(rw.w, rw.style(failStyle, fmt.Sprintf("FAILED at instruction %d (%s): %s",
			r.Failure.Instruction, r.Failure.Op, r.Failure.Reason)))
	}

	fmt.Fprintln(rw.w, "  slice  dur  patches  meas  unit  route  operations")
	for _, s := range r.Slices {
		ops := strings.Join(s.Operations, "; ")
		if ops == "" {
			ops = "-"
		}
		fmt.Fprintf(rw.w, "  %5d  %3d  %7d  %4d  %4d  %5d  %s\n",
			s.Index, s.Duration, s.Patches, s.Measured, s.Unitary, s.RoutingCells, ops)
	}
	printTraceSummary(rw.w, r.Trace)
	fmt.Fprintln(rw.w)
}

// printTraceSummary prints decision trace aggregates. No output for a nil trace.
func printTraceSummary(w io.Writer, st *trace.ScheduleTrace) {
	if st == nil {
		return
	}
	summary := trace.Summarize(st)
	fmt.Fprintln(w, "=== Trace Summary ===")
	fmt.Fprintf(w, "Routed Measurements: %d\n", summary.RoutedMeasurements)
	fmt.Fprintf(w, "Mean Region Size   : %.2f (max %d)\n", summary.MeanRegionSize, summary.MaxRegionSize)
	fmt.Fprintf(w, "Magic State Waits  : %d idle slices (max %d)\n", summary.IdleSlices, summary.MaxWait)
	kinds := make([]string, 0, len(summary.ConsumedByKind))
	for k := range summary.ConsumedByKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Fprintf(w, "Consumed %-10s: %d\n", k, summary.ConsumedByKind[k])
	}
}
