package visual

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/presence.report/internal/csi"
	"github.com/banshee-data/presence.report/internal/csi/pipeline"
	"github.com/banshee-data/presence.report/internal/fsutil"
)

const echartsAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

// maxHeatmapFrames caps the frames per HTML heatmap; longer captures are
// strided.
const maxHeatmapFrames = 600

// diverging blue-white-red ramp for the heatmap visual map
var heatColors = []string{"#3b4cc0", "#6f92f3", "#aac7fd", "#dddddd", "#f7b89c", "#e7745b", "#b40426"}

// RenderHTML writes a single page with energy and motion path line charts
// and one heatmap per dataset.
func RenderHTML(w io.Writer, analyses []*pipeline.Analysis) error {
	if len(analyses) == 0 {
		return fmt.Errorf("no analyses to render")
	}

	normalized := make([]*csi.Matrix, len(analyses))
	for i, a := range analyses {
		normalized[i] = NormalizeForDisplay(a.Raw)
	}
	lo, hi := ValueRange(normalized...)

	page := components.NewPage()
	page.SetAssetsHost(echartsAssetsHost)
	page.AddCharts(
		lineChart("CSI Energy Comparison", "CSI Energy", analyses, func(a *pipeline.Analysis) []float64 { return a.Energy }),
		lineChart("Motion Path Comparison", "Subcarrier Index", analyses, func(a *pipeline.Analysis) []float64 { return a.Path }),
	)
	for i, a := range analyses {
		page.AddCharts(heatmapChart(a, normalized[i], lo, hi))
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("render error: %w", err)
	}
	return nil
}

// WriteHTML renders the page to path.
func WriteHTML(fsys fsutil.FileSystem, path string, analyses []*pipeline.Analysis) error {
	if fsys == nil {
		fsys = fsutil.OSFileSystem{}
	}
	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := RenderHTML(f, analyses); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func lineChart(title, yName string, analyses []*pipeline.Analysis, values func(*pipeline.Analysis) []float64) *charts.Line {
	frames := 0
	for _, a := range analyses {
		frames = max(frames, len(values(a)))
	}
	x := make([]int, frames)
	for i := range x {
		x[i] = i
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("datasets=%d frames=%d", len(analyses), frames)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "30px"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Time Frame", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName}),
	)
	line.SetXAxis(x)
	for _, a := range analyses {
		v := values(a)
		data := make([]opts.LineData, len(v))
		for i, y := range v {
			data[i] = opts.LineData{Value: y}
		}
		line.AddSeries(a.Dataset.Name, data)
	}
	return line
}

func heatmapChart(a *pipeline.Analysis, m *csi.Matrix, lo, hi float64) *charts.HeatMap {
	frames, subcarriers := m.Dims()
	stride := 1
	if frames > maxHeatmapFrames {
		stride = (frames + maxHeatmapFrames - 1) / maxHeatmapFrames
	}

	x := make([]int, 0, frames/stride+1)
	data := make([]opts.HeatMapData, 0, (frames/stride+1)*subcarriers)
	for t := 0; t < frames; t += stride {
		col := len(x)
		x = append(x, t)
		for k := 0; k < subcarriers; k++ {
			data = append(data, opts.HeatMapData{Value: [3]interface{}{col, k, m.At(t, k)}})
		}
	}
	y := make([]int, subcarriers)
	for k := range y {
		y[k] = k
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: a.Dataset.Name, Subtitle: fmt.Sprintf("%d frames x %d subcarriers, stride=%d", frames, subcarriers, stride)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Name: "Time Frame", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: y, Name: "Subcarrier"}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(lo),
			Max:        float32(hi),
			InRange:    &opts.VisualMapInRange{Color: heatColors},
		}),
	)
	hm.SetXAxis(x).AddSeries(a.Dataset.Slug(), data)
	return hm
}
