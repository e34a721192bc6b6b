package app

import (
	"fmt"
	"image"
	"image/color"
	imgdraw "image/draw"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/roman-kulish/wavescope/internal/analysis"
)

const (
	dpi      = 96
	fontSize = 12.0 // points
	spacing  = 1.3  // line height relative to the font size

	lineWidth          = 1.0 // points
	minPixelsPerTrace  = 60
	yAxisLabel         = "volts, amps"
	xAxisLabel         = "seconds"
	yAxisLabelPadding  = 24 // points reserved left of the subplots
	subplotGap         = 8  // points between stacked subplots
	defaultTopBorder   = 48
	defaultRightBorder = 16
)

// BorderConfig defines the sizes of white space around the chart in pixels.
// Bottom is derived from the number of info bar lines when left at zero.
type BorderConfig struct {
	Top    int // Space for the title
	Bottom int // Space for the x label and the information bar
	Right  int // Right padding
}

// RenderConfig holds the output size and text settings of the chart
type RenderConfig struct {
	Width    int     // Pixels
	Height   int     // Pixels
	FontSize float64 // Points

	BorderConfig BorderConfig
}

// ChartRenderer draws one subplot per trace, stacked vertically, framed by a title
// and an information bar.
type ChartRenderer struct {
	config RenderConfig
}

// NewChartRenderer creates a renderer, zero values are replaced with defaults
func NewChartRenderer(config RenderConfig) (*ChartRenderer, error) {
	if config.Width <= 0 {
		config.Width = defaultWidth
	}
	if config.Height <= 0 {
		config.Height = defaultHeight
	}
	if config.FontSize == 0 {
		config.FontSize = fontSize
	}
	if config.BorderConfig.Top == 0 {
		config.BorderConfig.Top = defaultTopBorder
	}
	if config.BorderConfig.Right == 0 {
		config.BorderConfig.Right = defaultRightBorder
	}

	return &ChartRenderer{config: config}, nil
}

// Render draws the report into a new image. The title is usually the capture file name.
func (r *ChartRenderer) Render(title string, report *analysis.Report) (*image.RGBA, error) {
	if len(report.Traces) == 0 {
		return nil, analysis.ErrNoTraces
	}

	ann, err := newAnnotator(annotatorConfig{
		FontSize: r.config.FontSize,
	})
	if err != nil {
		return nil, fmt.Errorf("creating annotator: %w", err)
	}
	defer ann.Close()

	borders := r.config.BorderConfig
	if borders.Bottom == 0 {
		// x label plus one line of timing and one line per trace
		borders.Bottom = ann.lineHeight() * (len(report.Traces) + 3)
	}

	chartArea := image.Rect(0, borders.Top, r.config.Width-borders.Right, r.config.Height-borders.Bottom)
	if chartArea.Dx() <= 0 || chartArea.Dy() < minPixelsPerTrace*len(report.Traces) {
		return nil, fmt.Errorf("%w: %dx%d pixels cannot fit %d traces",
			ErrValueOutOfRange, r.config.Width, r.config.Height, len(report.Traces))
	}

	img := image.NewRGBA(image.Rect(0, 0, r.config.Width, r.config.Height))
	imgdraw.Draw(img, img.Bounds(), image.White, image.Point{}, imgdraw.Src)

	chart, err := r.renderTraces(chartArea.Dx(), chartArea.Dy(), report.Traces)
	if err != nil {
		return nil, err
	}
	imgdraw.Draw(img, chartArea, chart, chart.Bounds().Min, imgdraw.Src)

	if err = ann.annotate(img, chartArea, title, report); err != nil {
		return nil, fmt.Errorf("drawing annotations: %w", err)
	}

	return img, nil
}

// renderTraces draws the subplots with gonum/plot into an image of width x height pixels
func (r *ChartRenderer) renderTraces(width, height int, traces []analysis.TraceResult) (image.Image, error) {
	palette := TracePalette(len(traces))

	plots := make([][]*plot.Plot, len(traces))
	for i, trace := range traces {
		p, err := newTracePlot(trace, palette[i])
		if err != nil {
			return nil, fmt.Errorf("plotting trace %d: %w", trace.Index, err)
		}
		plots[i] = []*plot.Plot{p}
	}

	canvas := vgimg.NewWith(
		vgimg.UseWH(pixelsToLength(width), pixelsToLength(height)),
		vgimg.UseDPI(dpi))
	dc := draw.New(canvas)

	tiles := draw.Tiles{
		Rows:     len(traces),
		Cols:     1,
		PadY:     vg.Points(subplotGap),
		PadTop:   vg.Points(subplotGap / 2),
		PadLeft:  vg.Points(yAxisLabelPadding),
		PadRight: vg.Points(subplotGap / 2),
	}

	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		plots[i][0].Draw(canvases[i][0])
	}

	// shared y label, centered on the stack of subplots
	dc.FillText(text.Style{
		Color:    color.Black,
		Font:     font.From(plot.DefaultFont, vg.Points(r.config.FontSize)),
		Rotation: math.Pi / 2,
		XAlign:   text.XCenter,
		YAlign:   text.YTop,
		Handler:  plot.DefaultTextHandler,
	}, vg.Point{
		X: dc.Min.X + vg.Points(yAxisLabelPadding/4),
		Y: (dc.Min.Y + dc.Max.Y) / 2,
	}, yAxisLabel)

	return canvas.Image(), nil
}

func newTracePlot(trace analysis.TraceResult, c color.Color) (*plot.Plot, error) {
	xys := make(plotter.XYs, len(trace.Time))
	for i := range xys {
		xys[i].X = trace.Time[i]
		xys[i].Y = trace.Amplitude[i]
	}

	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Color = c
	line.LineStyle.Width = vg.Points(lineWidth)

	p := plot.New()
	p.Title.Text = trace.Label
	p.Add(plotter.NewGrid(), line)

	return p, nil
}

// pixelsToLength converts a pixel count at the output DPI into a vg length
func pixelsToLength(px int) vg.Length {
	return vg.Length(float64(px) / dpi * vg.Inch.Points())
}
