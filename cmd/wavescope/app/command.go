package app

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roman-kulish/wavescope/internal/logging"
)

// NewCommand builds the root command. The level is raised or lowered once the
// configuration is known, logger must be built on top of it.
func NewCommand(logger *slog.Logger, level *slog.LevelVar) *cobra.Command {
	config := NewConfig()

	var (
		configPath    string
		symbolRateKHz int
		outputFile    string
		imageFormat   string
		width, height int
		logLevel      string
		noTones       bool
	)

	cmd := &cobra.Command{
		Use:   "wavescope [flags] <capture.csv>",
		Short: "Inspect antenna current and voltage captures",
		Long: `wavescope loads a comma separated oscilloscope capture (time in the first column,
one trace per remaining column), computes RMS and mean of every trace over a window
derived from the symbol rate, labels the traces and renders them to an image.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				if err := LoadConfigFile(configPath, config); err != nil {
					return err
				}
			}

			flags := cmd.Flags()
			if flags.Changed("symbol-rate") {
				config.SymbolRate = SymbolRate(symbolRateKHz) * 1e3
			}
			if flags.Changed("output") {
				config.OutputFile = outputFile
			}
			if flags.Changed("format") {
				format, err := ParseImageFormat(imageFormat)
				if err != nil {
					return err
				}
				config.Format = format
			}
			if flags.Changed("width") {
				config.Width = width
			}
			if flags.Changed("height") {
				config.Height = height
			}
			if flags.Changed("log-level") {
				config.LogLevel = logLevel
			}
			if flags.Changed("no-tones") {
				config.EstimateTones = !noTones
			}

			config.FilePath = args[0]
			if err := config.Validate(); err != nil {
				return err
			}

			lvl, err := logging.ParseLevel(config.LogLevel)
			if err != nil {
				return err
			}
			level.Set(lvl)

			return Run(cmd.Context(), config, logger)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "Path to a YAML configuration file")
	flags.IntVar(&symbolRateKHz, "symbol-rate", int(DefaultSymbolRate/1e3), "Symbol rate in kHz (100 to 3010)")
	flags.StringVarP(&outputFile, "output", "o", "", "Path to the output image (default: capture path with the image extension)")
	flags.StringVarP(&imageFormat, "format", "f", string(ImagePNG), "Output image format. [png, jpeg]")
	flags.IntVar(&width, "width", defaultWidth, "Image width in pixels")
	flags.IntVar(&height, "height", defaultHeight, "Image height in pixels")
	flags.StringVar(&logLevel, "log-level", "info", "Log level. [debug, info, warn, error]")
	flags.BoolVar(&noTones, "no-tones", false, "Skip dominant tone estimation")

	cmd.AddCommand(newSynthCommand(logger))

	return cmd
}
