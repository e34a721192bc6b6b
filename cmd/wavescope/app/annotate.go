package app

import (
	"fmt"
	"image"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"

	"github.com/roman-kulish/wavescope/internal/analysis"
)

type annotatorConfig struct {
	FontSize float64
}

// annotator draws the title, the x label and the information bar around the chart
type annotator struct {
	context  *freetype.Context
	config   annotatorConfig
	fontFace font.Face
}

func newAnnotator(config annotatorConfig) (*annotator, error) {
	parsedFont, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	ctx := freetype.NewContext()
	ctx.SetDPI(dpi)
	ctx.SetFont(parsedFont)
	ctx.SetFontSize(config.FontSize)
	ctx.SetHinting(font.HintingNone)
	ctx.SetSrc(image.Black)

	return &annotator{
		context: ctx,
		config:  config,
		fontFace: truetype.NewFace(parsedFont, &truetype.Options{
			Size:    config.FontSize,
			DPI:     dpi,
			Hinting: font.HintingNone,
		}),
	}, nil
}

func (a *annotator) Close() error {
	if a.fontFace != nil {
		return a.fontFace.Close()
	}
	return nil
}

// lineHeight returns the distance between two baselines in pixels
func (a *annotator) lineHeight() int {
	metrics := a.fontFace.Metrics()
	return int(float64((metrics.Ascent + metrics.Descent).Ceil()) * spacing)
}

func (a *annotator) annotate(img *image.RGBA, chart image.Rectangle, title string, report *analysis.Report) error {
	a.context.SetClip(img.Bounds())
	a.context.SetDst(img)

	if err := a.drawTitle(img, chart, title); err != nil {
		return fmt.Errorf("drawing title: %w", err)
	}
	if err := a.drawXLabel(chart); err != nil {
		return fmt.Errorf("drawing x label: %w", err)
	}
	if err := a.drawInfoBar(chart, report); err != nil {
		return fmt.Errorf("drawing info bar: %w", err)
	}

	return nil
}

func (a *annotator) drawTitle(img *image.RGBA, chart image.Rectangle, title string) error {
	metrics := a.fontFace.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()

	// center text in the top border
	width := font.MeasureString(a.fontFace, title).Round()
	x := (img.Bounds().Dx() - width) / 2
	y := chart.Min.Y - (chart.Min.Y-fontHeight)/2 - metrics.Descent.Round()

	_, err := a.context.DrawString(title, freetype.Pt(x, y))
	return err
}

func (a *annotator) drawXLabel(chart image.Rectangle) error {
	width := font.MeasureString(a.fontFace, xAxisLabel).Round()
	x := chart.Min.X + (chart.Dx()-width)/2
	y := chart.Max.Y + a.lineHeight()

	_, err := a.context.DrawString(xAxisLabel, freetype.Pt(x, y))
	return err
}

func (a *annotator) drawInfoBar(chart image.Rectangle, report *analysis.Report) error {
	lines := infoLines(report)

	left := chart.Min.X + a.lineHeight()
	pt := freetype.Pt(left, chart.Max.Y+2*a.lineHeight())
	for _, s := range lines {
		if _, err := a.context.DrawString(s, pt); err != nil {
			return fmt.Errorf("drawing info text: %w", err)
		}
		pt.Y += fixed.I(a.lineHeight())
	}

	return nil
}

// infoLines lists the timing of the capture followed by one line per trace
func infoLines(report *analysis.Report) []string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Sample rate: %s", humanSI(report.SampleRate, "S/s")))
	sb.WriteString("; ")
	sb.WriteString(fmt.Sprintf("Duration: %s", humanSI(report.Duration, "s")))
	sb.WriteString("; ")
	sb.WriteString(fmt.Sprintf("Carrier: %s", humanSI(report.CarrierFrequency, "Hz")))
	sb.WriteString("; ")
	sb.WriteString(fmt.Sprintf("Symbol rate: %s", humanSI(report.SymbolRate, "Hz")))
	sb.WriteString("; ")
	sb.WriteString(fmt.Sprintf("Window: %s plotted, %s averaged",
		humanize.Comma(int64(report.PlotWindow.Len())), humanize.Comma(int64(report.StatsWindow.Len()))))

	lines := []string{sb.String()}
	for _, trace := range report.Traces {
		line := fmt.Sprintf("%d. %s: RMS %s, mean %s", trace.Index, trace.Label, humanSI(trace.RMS, ""), humanSI(trace.Mean, ""))
		if trace.HasTone {
			line += fmt.Sprintf(", tone %s", humanSI(trace.Tone.Frequency, "Hz"))
		}
		lines = append(lines, line)
	}

	return lines
}

func humanSI(v float64, unit string) string {
	fract, suffix := humanize.ComputeSI(v)
	return strings.TrimSpace(fmt.Sprintf("%0.2f %s%s", fract, suffix, unit))
}
