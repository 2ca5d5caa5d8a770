// Package report formats evaluations for the console.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/banshee-data/presence.report/internal/csi/pipeline"
)

// Mode controls the table output format.
type Mode int

const (
	ASCII    Mode = iota // Fixed-width terminal tables
	Markdown             // GitHub-flavoured Markdown tables
)

var summaryHeader = table.Row{
	"Scenario", "Frames", "Subcarriers", "Rejected",
	"Mean Energy", "Temporal Var", "Motion Var",
	"Z Energy", "Z Motion", "Detection", "Confidence",
}

// Summary renders one row per evaluation. The baseline row is marked with
// an asterisk.
func Summary(evals []pipeline.Evaluation, mode Mode) string {
	w := newTable(mode)
	w.AppendHeader(summaryHeader)

	numeric := make([]table.ColumnConfig, 0, 8)
	for col := 2; col <= 9; col++ {
		numeric = append(numeric, table.ColumnConfig{Number: col, Align: text.AlignRight})
	}
	w.SetColumnConfigs(numeric)

	for _, e := range evals {
		name := e.Dataset.Name
		if e.Baseline {
			name += " *"
		}
		frames, subcarriers := e.Raw.Dims()
		w.AppendRow(table.Row{
			name, frames, subcarriers, e.Stats.Rejected,
			fmt.Sprintf("%.2f", e.Features.MeanEnergy),
			fmt.Sprintf("%.2f", e.Features.TemporalVariance),
			fmt.Sprintf("%.2f", e.Features.MotionVariance),
			fmt.Sprintf("%+.3f", e.Result.ZEnergy),
			fmt.Sprintf("%+.3f", e.Result.ZMotion),
			string(e.Result.Label),
			string(e.Result.Confidence),
		})
	}

	return render(w, mode)
}

// WriteCards writes the card-per-scenario layout.
func WriteCards(out io.Writer, evals []pipeline.Evaluation) error {
	_, err := io.WriteString(out, Cards(evals))
	return err
}

// Cards renders each evaluation as a bordered card of two-decimal features.
func Cards(evals []pipeline.Evaluation) string {
	var b strings.Builder
	rule := strings.Repeat("-", 50)

	b.WriteString("\n" + strings.Repeat("=", 60) + "\n")
	b.WriteString("        CSI PRESENCE DETECTION RESULTS\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	for _, e := range evals {
		fmt.Fprintln(&b, rule)
		fmt.Fprintf(&b, " SCENARIO: %s\n", e.Dataset.Name)
		fmt.Fprintln(&b, rule)
		fmt.Fprintf(&b, " Mean CSI Energy      : %.2f\n", e.Features.MeanEnergy)
		fmt.Fprintf(&b, " Temporal Variance    : %.2f\n", e.Features.TemporalVariance)
		fmt.Fprintf(&b, " Motion Variance      : %.2f\n", e.Features.MotionVariance)
		fmt.Fprintf(&b, " Person Detection     : %s\n", e.Result.Label)
		fmt.Fprintf(&b, " Confidence Level     : %s\n", e.Result.Confidence)
		fmt.Fprintln(&b, rule)
		b.WriteString("\n")
	}
	b.WriteString("Detection Complete.\n")
	return b.String()
}
