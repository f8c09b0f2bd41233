// Package chart renders bar charts to PNG files with gonum/plot.
package chart

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/okian/alurastore/pkg/logger"
	"github.com/okian/alurastore/pkg/metrics"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const fileExt = ".png"

// Range fixes an axis to [Min, Max].
type Range struct {
	Min, Max float64
}

// BarChart is one bar per label.
type BarChart struct {
	Name   string // file name without extension
	Title  string
	XLabel string
	YLabel string
	Labels []string
	Values []float64
	YRange *Range
}

// Series is one hue of a grouped chart; Values align with the chart labels.
type Series struct {
	Name   string
	Values []float64
}

// GroupedBarChart draws one bar per series within each label.
type GroupedBarChart struct {
	Name        string
	Title       string
	XLabel      string
	YLabel      string
	LegendTitle string
	Labels      []string
	Series      []Series
	// Width and Height override the renderer size when both are set.
	Width, Height vg.Length
}

// Renderer writes charts under a directory.
type Renderer struct {
	dir           string
	width, height vg.Length
	log           logger.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithOutputDir sets the directory receiving the images.
func WithOutputDir(dir string) Option {
	return func(r *Renderer) {
		if dir != "" {
			r.dir = dir
		}
	}
}

// WithSize sets the image size.
func WithSize(width, height vg.Length) Option {
	return func(r *Renderer) {
		if width > 0 && height > 0 {
			r.width, r.height = width, height
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(r *Renderer) {
		if log != nil {
			r.log = log
		}
	}
}

// NewRenderer builds a Renderer writing 10x6 inch images to the working directory.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{dir: ".", width: 10 * vg.Inch, height: 6 * vg.Inch}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Path returns where the chart called name is written.
func (r *Renderer) Path(name string) string {
	return filepath.Join(r.dir, name+fileExt)
}

// RenderBars draws c and returns the written file path.
func (r *Renderer) RenderBars(ctx context.Context, c BarChart) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if c.Name == "" || len(c.Labels) != len(c.Values) {
		return "", fmt.Errorf("%w: %q has %d labels and %d values", ErrInvalidChart, c.Name, len(c.Labels), len(c.Values))
	}

	p := newPlot(c.Title, c.XLabel, c.YLabel)
	if len(c.Values) > 0 {
		bars, err := plotter.NewBarChart(plotter.Values(c.Values), vg.Points(40))
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrRender, c.Name, err)
		}
		bars.Color = plotutil.Color(0)
		bars.LineStyle.Width = 0
		p.Add(bars)
	}
	p.NominalX(c.Labels...)
	if c.YRange != nil {
		p.Y.Min, p.Y.Max = c.YRange.Min, c.YRange.Max
	}
	return r.save(ctx, p, c.Name, r.width, r.height)
}

// RenderGroupedBars draws c with one color per series and a legend.
func (r *Renderer) RenderGroupedBars(ctx context.Context, c GroupedBarChart) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if c.Name == "" {
		return "", fmt.Errorf("%w: grouped chart without a name", ErrInvalidChart)
	}
	for _, s := range c.Series {
		if len(s.Values) != len(c.Labels) {
			return "", fmt.Errorf("%w: series %q has %d values for %d labels", ErrInvalidChart, s.Name, len(s.Values), len(c.Labels))
		}
	}

	p := newPlot(c.Title, c.XLabel, c.YLabel)
	p.Legend.Top = true
	if c.LegendTitle != "" && len(c.Series) > 0 {
		p.Legend.Add(c.LegendTitle, heading{})
	}

	n := len(c.Series)
	width := groupWidth(n)
	for i, s := range c.Series {
		bars, err := plotter.NewBarChart(plotter.Values(s.Values), width)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrRender, c.Name, err)
		}
		bars.Color = plotutil.Color(i)
		bars.LineStyle.Width = 0
		bars.Offset = vg.Length(float64(i)-float64(n-1)/2) * width
		p.Add(bars)
		p.Legend.Add(s.Name, bars)
	}
	p.NominalX(c.Labels...)
	w, h := r.width, r.height
	if c.Width > 0 && c.Height > 0 {
		w, h = c.Width, c.Height
	}
	return r.save(ctx, p, c.Name, w, h)
}

func (r *Renderer) save(ctx context.Context, p *plot.Plot, name string, w, h vg.Length) (string, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %w", ErrRender, err)
	}
	path := r.Path(name)
	if err := p.Save(w, h, path); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrRender, path, err)
	}
	metrics.RecordChartRendered(name)
	if r.log != nil {
		r.log.Info(ctx, "chart written", logger.String("path", path))
	}
	return path, nil
}

func newPlot(title, x, y string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = x
	p.Y.Label.Text = y
	p.Y.Tick.Marker = plainTicks{}
	p.Add(plotter.NewGrid())
	return p
}

// groupWidth keeps a whole group within one nominal slot.
func groupWidth(series int) vg.Length {
	if series < 1 {
		series = 1
	}
	w := vg.Points(60) / vg.Length(series)
	if w > vg.Points(30) {
		w = vg.Points(30)
	}
	return w
}

// plainTicks labels ticks in positional notation instead of 1e+06.
type plainTicks struct{}

func (plainTicks) Ticks(lo, hi float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(lo, hi)
	for i, t := range ticks {
		if t.Label == "" {
			continue
		}
		v := math.Round(t.Value*1e6) / 1e6
		ticks[i].Label = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ticks
}

// heading is a legend entry without a swatch.
type heading struct{}

func (heading) Thumbnail(*draw.Canvas) {}

var _ plot.Thumbnailer = heading{}
