package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/roman-kulish/wavescope/internal/logging"
)

const (
	ImagePNG  ImageFormat = "png"
	ImageJPEG ImageFormat = "jpeg"
)

const (
	DefaultSymbolRate SymbolRate = 400e3
	MinSymbolRate     SymbolRate = 100e3
	MaxSymbolRate     SymbolRate = 3010e3

	defaultWidth  = 1280
	defaultHeight = 960
	minWidth      = 320
	minHeight     = 240
	maxDimension  = 16384
)

// ErrValueOutOfRange is returned when a setting lies outside of its accepted range
var ErrValueOutOfRange = errors.New("value out of range")

type ImageFormat string

var validImageFormats = map[ImageFormat]struct{}{
	ImagePNG:  {},
	ImageJPEG: {},
}

// ParseImageFormat accepts png, jpeg or jpg in any case
func ParseImageFormat(s string) (ImageFormat, error) {
	f := ImageFormat(strings.ToLower(strings.TrimSpace(s)))
	if f == "jpg" {
		f = ImageJPEG
	}
	if _, ok := validImageFormats[f]; !ok {
		return "", fmt.Errorf("invalid image format: %s", s)
	}
	return f, nil
}

func (f *ImageFormat) UnmarshalYAML(value *yaml.Node) error {
	format, err := ParseImageFormat(value.Value)
	if err != nil {
		return fmt.Errorf("app.ImageFormat: %w", err)
	}

	*f = format
	return nil
}

// SymbolRate is expressed in Hz. In YAML it is either a plain number or an SI string
// such as 400kHz or 1.2MHz.
type SymbolRate float64

// ParseSymbolRate parses a plain or SI-prefixed rate, the unit is optional but must be Hz
func ParseSymbolRate(s string) (SymbolRate, error) {
	v, unit, err := humanize.ParseSI(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("parsing symbol rate '%s': %w", s, err)
	}
	if unit != "" && !strings.EqualFold(unit, "Hz") {
		return 0, fmt.Errorf("parsing symbol rate '%s': unexpected unit '%s'", s, unit)
	}
	return SymbolRate(v), nil
}

func (r *SymbolRate) UnmarshalYAML(value *yaml.Node) error {
	rate, err := ParseSymbolRate(value.Value)
	if err != nil {
		return fmt.Errorf("app.SymbolRate: %w", err)
	}

	*r = rate
	return nil
}

func (r SymbolRate) MarshalYAML() (interface{}, error) {
	return r.String(), nil
}

func (r SymbolRate) String() string {
	return humanize.SIWithDigits(float64(r), 3, "Hz")
}

// Config holds everything a single run needs. It is filled from defaults, an optional
// YAML file and the command line, in that order.
type Config struct {
	FilePath      string      `yaml:"-"`
	SymbolRate    SymbolRate  `yaml:"symbolRate"`
	OutputFile    string      `yaml:"output"`
	Format        ImageFormat `yaml:"format"`
	Width         int         `yaml:"width"`
	Height        int         `yaml:"height"`
	LogLevel      string      `yaml:"logLevel"`
	EstimateTones bool        `yaml:"estimateTones"`
}

func NewConfig() *Config {
	return &Config{
		SymbolRate:    DefaultSymbolRate,
		Format:        ImagePNG,
		Width:         defaultWidth,
		Height:        defaultHeight,
		LogLevel:      "info",
		EstimateTones: true,
	}
}

// LoadConfigFile decodes the YAML file at path on top of the values already in c,
// keys missing from the file keep their current values.
func LoadConfigFile(path string, c *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening config file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err = dec.Decode(c); err != nil {
		return fmt.Errorf("decoding config file '%s': %w", path, err)
	}

	return nil
}

// Validate checks the ranges of every setting and fills the derived output path.
func (c *Config) Validate() error {
	if c.FilePath == "" {
		return errors.New("capture file is required")
	}

	if c.SymbolRate < MinSymbolRate || c.SymbolRate > MaxSymbolRate {
		return fmt.Errorf("%w: symbol rate %s, accepted %s to %s",
			ErrValueOutOfRange, c.SymbolRate, MinSymbolRate, MaxSymbolRate)
	}

	if _, ok := validImageFormats[c.Format]; !ok {
		return fmt.Errorf("invalid image format: %s", c.Format)
	}

	if c.Width < minWidth || c.Width > maxDimension {
		return fmt.Errorf("%w: width %d, accepted %d to %d", ErrValueOutOfRange, c.Width, minWidth, maxDimension)
	}
	if c.Height < minHeight || c.Height > maxDimension {
		return fmt.Errorf("%w: height %d, accepted %d to %d", ErrValueOutOfRange, c.Height, minHeight, maxDimension)
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}

	if c.OutputFile == "" {
		c.OutputFile = fmt.Sprintf("%s.%s", strings.TrimSuffix(c.FilePath, filepath.Ext(c.FilePath)), c.Format)
	}
	if filepath.Clean(c.OutputFile) == filepath.Clean(c.FilePath) {
		return fmt.Errorf("output file '%s' would overwrite the capture", c.OutputFile)
	}

	return nil
}
