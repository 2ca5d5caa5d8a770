package visual

import (
	"fmt"
	"image/color"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/presence.report/internal/csi"
	"github.com/banshee-data/presence.report/internal/csi/pipeline"
	"github.com/banshee-data/presence.report/internal/fsutil"
	"github.com/banshee-data/presence.report/internal/monitoring"
)

const (
	wideWidth   = 12 * vg.Inch
	wideHeight  = 6 * vg.Inch
	panelWidth  = 7 * vg.Inch
	panelHeight = 5 * vg.Inch

	paletteSteps = 64
)

var pathColor = color.RGBA{R: 0, G: 255, B: 0, A: 255}

// Plotter writes the PNG set for a batch of analyses into Dir.
type Plotter struct {
	FS  fsutil.FileSystem
	Dir string
}

// NewPlotter returns a Plotter writing to dir on the host filesystem.
func NewPlotter(dir string) *Plotter {
	return &Plotter{FS: fsutil.OSFileSystem{}, Dir: dir}
}

// WriteAll renders every plot and returns the written paths in order.
func (p *Plotter) WriteAll(analyses []*pipeline.Analysis) ([]string, error) {
	if len(analyses) == 0 {
		return nil, fmt.Errorf("no analyses to plot")
	}
	fsys := p.FS
	if fsys == nil {
		fsys = fsutil.OSFileSystem{}
	}
	if err := fsys.MkdirAll(p.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	var written []string
	save := func(name string, pl *plot.Plot, w, h vg.Length) error {
		path := filepath.Join(p.Dir, name)
		if err := savePNG(fsys, path, pl, w, h); err != nil {
			return err
		}
		written = append(written, path)
		return nil
	}

	energy := make([]Series, len(analyses))
	paths := make([]Series, len(analyses))
	normalized := make([]*csi.Matrix, len(analyses))
	for i, a := range analyses {
		energy[i] = Series{Name: a.Dataset.Name, Values: a.Energy}
		paths[i] = Series{Name: a.Dataset.Name, Values: a.Path}
		normalized[i] = NormalizeForDisplay(a.Raw)
	}

	comparison, err := LinePlot("CSI Energy Comparison", "CSI Energy", energy)
	if err != nil {
		return written, err
	}
	if err := save("energy_comparison.png", comparison, wideWidth, wideHeight); err != nil {
		return written, err
	}

	motion, err := LinePlot("Motion Path Comparison Across Datasets", "Detected Motion Position (Subcarrier Index)", paths)
	if err != nil {
		return written, err
	}
	if err := save("motion_paths.png", motion, wideWidth, wideHeight); err != nil {
		return written, err
	}

	lo, hi := ValueRange(normalized...)
	colors := lineColors(len(analyses))
	for i, a := range analyses {
		slug := a.Dataset.Slug()

		single, err := LinePlot(a.Dataset.Name+" CSI Energy", "CSI Energy", energy[i:i+1])
		if err != nil {
			return written, err
		}
		if err := save("energy_"+slug+".png", single, panelWidth, panelHeight); err != nil {
			return written, err
		}

		scatter, err := ScatterPlot(a.Dataset.Name+" CSI Energy Scatter", energy[i], colors[i])
		if err != nil {
			return written, err
		}
		if err := save("energy_scatter_"+slug+".png", scatter, panelWidth, panelHeight); err != nil {
			return written, err
		}

		if a.Raw.Frames() < 2 || a.Raw.Subcarriers() < 2 {
			monitoring.Logf("skipping heatmap for %q: %dx%d is too small", a.Dataset.Name, a.Raw.Frames(), a.Raw.Subcarriers())
			continue
		}
		heat, err := HeatmapPlot(a.Dataset.Name, normalized[i], a.Path, lo, hi)
		if err != nil {
			return written, err
		}
		if err := save("heatmap_"+slug+".png", heat, panelWidth, panelHeight); err != nil {
			return written, err
		}
	}

	monitoring.Logf("wrote %d plots to %s", len(written), p.Dir)
	return written, nil
}

// Series is one named curve over frames.
type Series struct {
	Name   string
	Values []float64
}

func frameXYs(values []float64) plotter.XYs {
	pts := make(plotter.XYs, len(values))
	for i, v := range values {
		pts[i] = plotter.XY{X: float64(i), Y: v}
	}
	return pts
}

// LinePlot draws each series against frame index with a legend.
func LinePlot(title, yLabel string, series []Series) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Time Frame"
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())

	colors := lineColors(len(series))
	for i, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		line, err := plotter.NewLine(frameXYs(s.Values))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.Name, err)
		}
		line.Color = colors[i]
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(s.Name, line)
	}
	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

// ScatterPlot draws one series as small translucent dots.
func ScatterPlot(title string, s Series, c color.Color) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Time Frame"
	p.Y.Label.Text = "CSI Energy"
	p.Add(plotter.NewGrid())

	sc, err := plotter.NewScatter(frameXYs(s.Values))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Name, err)
	}
	r, g, b, _ := c.RGBA()
	sc.GlyphStyle.Color = color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 153}
	sc.GlyphStyle.Shape = draw.CircleGlyph{}
	sc.GlyphStyle.Radius = vg.Points(1.5)
	p.Add(sc)
	return p, nil
}

// HeatmapPlot draws m with time on X and subcarrier on Y, using a diverging
// blue-red palette clamped to [lo, hi], and overlays path.
func HeatmapPlot(title string, m *csi.Matrix, path csi.MotionPath, lo, hi float64) (*plot.Plot, error) {
	if lo >= hi {
		lo, hi = lo-1, hi+1
	}
	cmap := moreland.SmoothBlueRed()
	cmap.SetMin(lo)
	cmap.SetMax(hi)

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Time Frame"
	p.Y.Label.Text = "Subcarrier Index"

	hm := plotter.NewHeatMap(matrixGrid{m}, cmap.Palette(paletteSteps))
	hm.Min, hm.Max = lo, hi
	p.Add(hm)

	if len(path) > 0 {
		line, err := plotter.NewLine(frameXYs(path))
		if err != nil {
			return nil, fmt.Errorf("motion path: %w", err)
		}
		line.Color = pathColor
		line.Width = vg.Points(2)
		p.Add(line)
		p.Legend.Add("motion path", line)
	}
	return p, nil
}

// matrixGrid adapts a frames x subcarriers matrix to plotter.GridXYZ with
// frames along X.
type matrixGrid struct{ m *csi.Matrix }

func (g matrixGrid) Dims() (c, r int) {
	frames, subcarriers := g.m.Dims()
	return frames, subcarriers
}
func (g matrixGrid) Z(c, r int) float64 { return g.m.At(c, r) }
func (g matrixGrid) X(c int) float64    { return float64(c) }
func (g matrixGrid) Y(r int) float64    { return float64(r) }

func savePNG(fsys fsutil.FileSystem, path string, p *plot.Plot, w, h vg.Length) error {
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return fmt.Errorf("render %s: %w", filepath.Base(path), err)
	}
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := wt.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
