// Package config defines the declarative configuration that drives a
// conversion run, along with its defaults and semantic validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/book-expert/logger"
)

// WorkMode selects which conversion pipeline a run executes.
type WorkMode string

// Supported work modes.
const (
	WorkModeImageToPDF WorkMode = "img2pdf"
	WorkModePDFToImage WorkMode = "pdf2img"
)

// FanInPolicy governs how many PDF documents a batch of images produces.
type FanInPolicy string

// Supported fan-in policies.
const (
	FanInManyToOne FanInPolicy = "many_to_one"
	FanInOneToOne  FanInPolicy = "one_to_one"
)

// OverwritePolicy governs what happens when a desired output path already
// exists on disk.
type OverwritePolicy string

// Supported overwrite policies.
const (
	OverwriteAutoRename OverwritePolicy = "auto_rename"
	OverwriteReplace    OverwritePolicy = "overwrite"
	OverwriteFail       OverwritePolicy = "fail"
)

// ColorMode selects the channel layout of rendered page images.
type ColorMode string

// Supported color modes.
const (
	ColorModeRGB       ColorMode = "rgb"
	ColorModeGrayscale ColorMode = "grayscale"
)

// ImageFormat selects the encoding of rendered page images.
type ImageFormat string

// Supported output image formats.
const (
	ImageFormatPNG  ImageFormat = "png"
	ImageFormatJPG  ImageFormat = "jpg"
	ImageFormatWebP ImageFormat = "webp"
)

var (
	// ErrWorkModeRequired is returned when work_mode is missing.
	ErrWorkModeRequired = errors.New("work_mode is required")
	// ErrUnknownWorkMode is returned for an unrecognized work_mode value.
	ErrUnknownWorkMode = errors.New("unknown work_mode")
	// ErrUnknownFanInPolicy is returned for an unrecognized fan_in_policy.
	ErrUnknownFanInPolicy = errors.New("unknown fan_in_policy")
	// ErrUnknownOverwritePolicy is returned for an unrecognized
	// overwrite_policy.
	ErrUnknownOverwritePolicy = errors.New("unknown overwrite_policy")
	// ErrNonPositiveDPI is returned when dpi is zero or negative.
	ErrNonPositiveDPI = errors.New("dpi must be positive")
	// ErrUnknownImageFormat is returned for an unrecognized output format.
	ErrUnknownImageFormat = errors.New("unknown image format")
	// ErrUnknownColorMode is returned for an unrecognized color_mode.
	ErrUnknownColorMode = errors.New("unknown color_mode")
	// ErrQualityOutOfRange is returned when quality is outside 1..100.
	ErrQualityOutOfRange = errors.New("quality must be between 1 and 100")
	// ErrNegativeStartIndex is returned when start_index is negative.
	ErrNegativeStartIndex = errors.New("start_index must not be negative")
)

// Defaults applied by Normalize for optional settings.
const (
	DefaultInputDir   = "input"
	DefaultOutputDir  = "output"
	DefaultOutputName = "merged.pdf"
	DefaultDPI        = 300
	DefaultQuality    = 90
	DefaultStartIndex = 1
)

// Paths holds the directory layout of a run. Relative input and output
// directories are resolved against the workspace.
type Paths struct {
	WorkSpace   string `toml:"work_space"`
	InputDir    string `toml:"input_dir"`
	OutputDir   string `toml:"output_dir"`
	BaseLogsDir string `toml:"base_logs_dir"`
}

// Settings holds the mode selection for the run.
type Settings struct {
	WorkMode WorkMode `toml:"work_mode"`
}

// PDFOutput holds the settings consumed by the image-to-PDF pipeline.
type PDFOutput struct {
	FanInPolicy     FanInPolicy     `toml:"fan_in_policy"`
	OutputName      string          `toml:"output_name"`
	OverwritePolicy OverwritePolicy `toml:"overwrite_policy"`
}

// ImageOutput holds the settings consumed by the PDF-to-image pipeline.
type ImageOutput struct {
	Format          ImageFormat     `toml:"format"`
	ColorMode       ColorMode       `toml:"color_mode"`
	OverwritePolicy OverwritePolicy `toml:"overwrite_policy"`
	DPI             int             `toml:"dpi"`
	Quality         int             `toml:"quality"`
	StartIndex      int             `toml:"start_index"`
}

// Config is the immutable configuration value for one run. It is decoded
// once at startup, normalized, validated, and then only read.
type Config struct {
	Paths       Paths       `toml:"paths"`
	Settings    Settings    `toml:"settings"`
	PDFOutput   PDFOutput   `toml:"pdf_output"`
	ImageOutput ImageOutput `toml:"image_output"`
}

// Normalize fills absent optional settings with their defaults. Each
// fallback is reported through the logger so a run's effective settings are
// visible in the log. Required settings are left untouched for Validate to
// reject.
func (cfg *Config) Normalize(log *logger.Logger) {
	cfg.normalizePaths(log)
	cfg.normalizePDFOutput(log)
	cfg.normalizeImageOutput(log)
}

func (cfg *Config) normalizePaths(log *logger.Logger) {
	if cfg.Paths.WorkSpace == "" {
		workDir, err := os.Getwd()
		if err != nil {
			workDir = "."
		}

		cfg.Paths.WorkSpace = workDir

		log.Warn("work_space not set. Using current directory: %s", workDir)
	}

	if cfg.Paths.InputDir == "" {
		cfg.Paths.InputDir = DefaultInputDir

		log.Warn("input_dir not set. Using '%s' in work_space.", DefaultInputDir)
	}

	if cfg.Paths.OutputDir == "" {
		cfg.Paths.OutputDir = DefaultOutputDir

		log.Warn("output_dir not set. Using '%s' in work_space.", DefaultOutputDir)
	}
}

func (cfg *Config) normalizePDFOutput(log *logger.Logger) {
	if cfg.PDFOutput.FanInPolicy == "" {
		cfg.PDFOutput.FanInPolicy = FanInManyToOne

		log.Warn("fan_in_policy not set. Using default: %s", FanInManyToOne)
	}

	if cfg.PDFOutput.OutputName == "" {
		cfg.PDFOutput.OutputName = DefaultOutputName

		log.Warn("output_name not set. Using default: %s", DefaultOutputName)
	}

	if cfg.PDFOutput.OverwritePolicy == "" {
		cfg.PDFOutput.OverwritePolicy = OverwriteAutoRename

		log.Warn("pdf_output overwrite_policy not set. Using default: %s",
			OverwriteAutoRename)
	}
}

func (cfg *Config) normalizeImageOutput(log *logger.Logger) {
	if cfg.ImageOutput.Format == "" {
		cfg.ImageOutput.Format = ImageFormatPNG

		log.Warn("image format not set. Using default: %s", ImageFormatPNG)
	}

	if cfg.ImageOutput.ColorMode == "" {
		cfg.ImageOutput.ColorMode = ColorModeRGB

		log.Warn("color_mode not set. Using default: %s", ColorModeRGB)
	}

	if cfg.ImageOutput.OverwritePolicy == "" {
		cfg.ImageOutput.OverwritePolicy = OverwriteAutoRename

		log.Warn("image_output overwrite_policy not set. Using default: %s",
			OverwriteAutoRename)
	}

	if cfg.ImageOutput.DPI == 0 {
		cfg.ImageOutput.DPI = DefaultDPI

		log.Warn("dpi not set. Using default: %d", DefaultDPI)
	}

	if cfg.ImageOutput.Quality == 0 {
		cfg.ImageOutput.Quality = DefaultQuality

		log.Warn("quality not set. Using default: %d", DefaultQuality)
	}

	if cfg.ImageOutput.StartIndex == 0 {
		cfg.ImageOutput.StartIndex = DefaultStartIndex

		log.Warn("start_index not set. Using default: %d", DefaultStartIndex)
	}
}

// Validate performs the semantic checks the dispatcher requires before any
// work is attempted. Only the active mode's settings are validated.
func (cfg *Config) Validate() error {
	switch cfg.Settings.WorkMode {
	case WorkModeImageToPDF:
		return cfg.validatePDFOutput()
	case WorkModePDFToImage:
		return cfg.validateImageOutput()
	case "":
		return ErrWorkModeRequired
	default:
		return fmt.Errorf("%w: %q", ErrUnknownWorkMode, cfg.Settings.WorkMode)
	}
}

func (cfg *Config) validatePDFOutput() error {
	switch cfg.PDFOutput.FanInPolicy {
	case FanInManyToOne, FanInOneToOne:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFanInPolicy, cfg.PDFOutput.FanInPolicy)
	}

	return validateOverwritePolicy(cfg.PDFOutput.OverwritePolicy)
}

func (cfg *Config) validateImageOutput() error {
	switch cfg.ImageOutput.Format {
	case ImageFormatPNG, ImageFormatJPG, ImageFormatWebP:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownImageFormat, cfg.ImageOutput.Format)
	}

	switch cfg.ImageOutput.ColorMode {
	case ColorModeRGB, ColorModeGrayscale:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownColorMode, cfg.ImageOutput.ColorMode)
	}

	if cfg.ImageOutput.DPI <= 0 {
		return fmt.Errorf("%w: %d", ErrNonPositiveDPI, cfg.ImageOutput.DPI)
	}

	if cfg.ImageOutput.Quality < 1 || cfg.ImageOutput.Quality > 100 {
		return fmt.Errorf("%w: %d", ErrQualityOutOfRange, cfg.ImageOutput.Quality)
	}

	if cfg.ImageOutput.StartIndex < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeStartIndex, cfg.ImageOutput.StartIndex)
	}

	return validateOverwritePolicy(cfg.ImageOutput.OverwritePolicy)
}

func validateOverwritePolicy(policy OverwritePolicy) error {
	switch policy {
	case OverwriteAutoRename, OverwriteReplace, OverwriteFail:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOverwritePolicy, policy)
	}
}

// AbsInputDir returns the input directory resolved against the workspace.
func (cfg *Config) AbsInputDir() string {
	return resolveAgainst(cfg.Paths.WorkSpace, cfg.Paths.InputDir)
}

// AbsOutputDir returns the output directory resolved against the workspace.
func (cfg *Config) AbsOutputDir() string {
	return resolveAgainst(cfg.Paths.WorkSpace, cfg.Paths.OutputDir)
}

// LogsDir returns the directory the run log is written to.
func (cfg *Config) LogsDir() string {
	if cfg.Paths.BaseLogsDir == "" {
		return os.TempDir()
	}

	return cfg.Paths.BaseLogsDir
}

func resolveAgainst(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(base, path)
}
