package report

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/banshee-data/presence.report/internal/db"
)

func newTable(mode Mode) table.Writer {
	w := table.NewWriter()
	if mode == ASCII {
		w.SetStyle(table.StyleLight)
	}
	return w
}

func render(w table.Writer, mode Mode) string {
	if mode == Markdown {
		return w.RenderMarkdown()
	}
	return w.Render()
}

// Runs lists archived runs, newest first as returned by db.ListRuns.
func Runs(runs []db.RunSummary, mode Mode) string {
	w := newTable(mode)
	w.AppendHeader(table.Row{"Run", "Created", "Baseline", "Datasets"})
	w.SetColumnConfigs([]table.ColumnConfig{{Number: 4, Align: text.AlignRight}})
	for _, r := range runs {
		w.AppendRow(table.Row{r.ID, r.CreatedAt.Local().Format(time.DateTime), r.Baseline, r.Datasets})
	}
	return render(w, mode)
}

// RunDetail renders the stored results of a single run.
func RunDetail(results []db.Result, mode Mode) string {
	w := newTable(mode)
	w.AppendHeader(table.Row{"Scenario", "Frames", "Z Energy", "Z Motion", "Detection", "Confidence"})
	w.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	for _, r := range results {
		name := r.Dataset
		if r.Baseline {
			name += " *"
		}
		w.AppendRow(table.Row{
			name, r.Frames,
			fmt.Sprintf("%+.3f", r.ZEnergy),
			fmt.Sprintf("%+.3f", r.ZMotion),
			r.Label, r.Confidence,
		})
	}
	return render(w, mode)
}
