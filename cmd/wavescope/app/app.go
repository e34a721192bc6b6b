package app

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/roman-kulish/wavescope/internal/analysis"
	"github.com/roman-kulish/wavescope/internal/waveform"
)

// Run loads the capture named by config, analyzes it and writes the rendered chart.
// The context is checked between stages, a cancelled run leaves no output behind.
func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	name := filepath.Base(config.FilePath)
	logger.Info(fmt.Sprintf("analyzing %s", name))

	capture, err := waveform.LoadFile(config.FilePath, waveform.Delimiter)
	if err != nil {
		return fmt.Errorf("loading '%s': %w", config.FilePath, err)
	}
	if err = ctx.Err(); err != nil {
		return err
	}

	analyzer := analysis.New(
		analysis.WithLogger(logger),
		analysis.WithToneEstimation(config.EstimateTones))

	report, err := analyzer.Analyze(capture, float64(config.SymbolRate))
	if err != nil {
		return fmt.Errorf("analyzing '%s': %w", name, err)
	}
	if err = ctx.Err(); err != nil {
		return err
	}

	renderer, err := NewChartRenderer(RenderConfig{
		Width:  config.Width,
		Height: config.Height,
	})
	if err != nil {
		return fmt.Errorf("creating chart renderer: %w", err)
	}

	logger.Info("rendering chart",
		slog.Group("image",
			slog.String("destination", config.OutputFile),
			slog.String("format", string(config.Format)),
			slog.Int("width", config.Width),
			slog.Int("height", config.Height),
		))

	img, err := renderer.Render(name, report)
	if err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	if err = ctx.Err(); err != nil {
		return err
	}

	return writeImage(config.OutputFile, config.Format, img)
}

func writeImage(path string, format ImageFormat, img image.Image) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cErr := out.Close(); cErr != nil && err == nil {
			err = cErr
		}
	}()

	return encodeImage(out, format, img)
}

func encodeImage(w io.Writer, format ImageFormat, img image.Image) error {
	switch format {
	case ImagePNG:
		return png.Encode(w, img)

	case ImageJPEG:
		return jpeg.Encode(w, img, &jpeg.Options{
			Quality: 98,
		})
	}
	return fmt.Errorf("invalid image format: %s", format)
}
