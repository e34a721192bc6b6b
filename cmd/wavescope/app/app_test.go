package app

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/roman-kulish/wavescope/internal/logging"
	"github.com/roman-kulish/wavescope/internal/waveform"
)

func writeSyntheticFile(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "scope.csv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if err = WriteSynthetic(f, SynthConfig{Samples: 6_000, SampleRate: 100e6, Amplitude: 0.5}); err != nil {
		t.Fatalf("WriteSynthetic failed: %v", err)
	}
	return path
}

func TestRun(t *testing.T) {
	dir := t.TempDir()

	config := NewConfig()
	config.FilePath = writeSyntheticFile(t, dir)
	config.Width, config.Height = 800, 600
	if err := config.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	var buf bytes.Buffer
	if err := Run(context.Background(), config, logging.New(&buf, slog.LevelInfo)); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "scope.png"))
	if err != nil {
		t.Fatalf("Expected output image: %v", err)
	}
	defer f.Close()

	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("Decoding output failed: %v", err)
	}
	if cfg.Width != 800 || cfg.Height != 600 {
		t.Errorf("Expected 800x600, got %dx%d", cfg.Width, cfg.Height)
	}

	out := buf.String()
	for _, msg := range []string{"analyzing scope.csv", "Waveform 3: RMS", "rendering chart"} {
		if !strings.Contains(out, msg) {
			t.Errorf("Expected log to contain %q:\n%s", msg, out)
		}
	}
}

func TestRun_MissingFile(t *testing.T) {
	config := NewConfig()
	config.FilePath = filepath.Join(t.TempDir(), "missing.csv")
	if err := config.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	err := Run(context.Background(), config, logging.Discard())
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist, got %v", err)
	}
}

func TestRun_ParseError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.csv")
	if err := os.WriteFile(path, []byte("0,1\n1e-8,2,3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	config := NewConfig()
	config.FilePath = path
	if err := config.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	err := Run(context.Background(), config, logging.Discard())

	var parseErr *waveform.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Expected a ParseError, got %v", err)
	}
	if parseErr.Line != 2 {
		t.Errorf("Expected line 2, got %d", parseErr.Line)
	}
	if _, statErr := os.Stat(config.OutputFile); !errors.Is(statErr, os.ErrNotExist) {
		t.Error("No image must be written for a broken capture")
	}
}

func TestRun_Cancelled(t *testing.T) {
	config := NewConfig()
	config.FilePath = writeSyntheticFile(t, t.TempDir())
	if err := config.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := Run(ctx, config, logging.Discard()); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if _, err := os.Stat(config.OutputFile); !errors.Is(err, os.ErrNotExist) {
		t.Error("No image must be written for a cancelled run")
	}
}

func TestCommand(t *testing.T) {
	dir := t.TempDir()
	capture := writeSyntheticFile(t, dir)
	output := filepath.Join(dir, "chart.jpg")

	configPath := filepath.Join(dir, "wavescope.yaml")
	if err := os.WriteFile(configPath, []byte("symbolRate: 200kHz\nwidth: 1024\nformat: png\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var level slog.LevelVar
	var buf bytes.Buffer
	cmd := NewCommand(logging.New(&buf, &level), &level)
	cmd.SetArgs([]string{
		"--config", configPath,
		"--symbol-rate", "400",
		"--format", "jpeg",
		"--height", "700",
		"--log-level", "debug",
		"-o", output,
		capture,
	})

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if level.Level() != slog.LevelDebug {
		t.Errorf("Expected debug level, got %s", level.Level())
	}

	f, err := os.Open(output)
	if err != nil {
		t.Fatalf("Expected output image: %v", err)
	}
	defer f.Close()

	// width from the file, height and format from flags
	cfg, err := jpeg.DecodeConfig(f)
	if err != nil {
		t.Fatalf("Decoding output failed: %v", err)
	}
	if cfg.Width != 1024 || cfg.Height != 700 {
		t.Errorf("Expected 1024x700, got %dx%d", cfg.Width, cfg.Height)
	}

	// the flag wins over the 200 kHz from the file
	if !strings.Contains(buf.String(), "400 kHz symbol rate") {
		t.Errorf("Expected the flag symbol rate in the log:\n%s", buf.String())
	}
}

func TestCommand_SymbolRateOutOfRange(t *testing.T) {
	dir := t.TempDir()
	capture := writeSyntheticFile(t, dir)

	for _, rate := range []string{"99", "3011"} {
		var level slog.LevelVar
		cmd := NewCommand(logging.Discard(), &level)
		cmd.SetArgs([]string{"--symbol-rate", rate, capture})

		if err := cmd.ExecuteContext(context.Background()); !errors.Is(err, ErrValueOutOfRange) {
			t.Errorf("Symbol rate %s kHz: expected ErrValueOutOfRange, got %v", rate, err)
		}
	}
}

func TestCommand_Synth(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "synthetic.csv")

	var level slog.LevelVar
	cmd := NewCommand(logging.Discard(), &level)
	cmd.SetArgs([]string{"synth", "-o", output, "--samples", "100", "--sample-rate", "50MS/s"})

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	capture, err := waveform.LoadFile(output, waveform.Delimiter)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if capture.Len() != 100 {
		t.Errorf("Expected 100 samples, got %d", capture.Len())
	}
	if got := capture.Time[1] - capture.Time[0]; got < 1.99e-8 || got > 2.01e-8 {
		t.Errorf("Expected a 20ns interval, got %g", got)
	}
}

func TestEncodeImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))

	for _, format := range []ImageFormat{ImagePNG, ImageJPEG} {
		var buf bytes.Buffer
		if err := encodeImage(&buf, format, img); err != nil {
			t.Fatalf("Encoding %s failed: %v", format, err)
		}

		cfg, name, err := image.DecodeConfig(&buf)
		if err != nil {
			t.Fatalf("Decoding %s failed: %v", format, err)
		}
		if name != string(format) || cfg.Width != 4 || cfg.Height != 3 {
			t.Errorf("Expected 4x3 %s, got %dx%d %s", format, cfg.Width, cfg.Height, name)
		}
	}

	if err := encodeImage(&bytes.Buffer{}, "bmp", img); err == nil {
		t.Error("Expected an error for an unknown format")
	}
}
