package convert

import (
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"

	"github.com/book-expert/pdf-image-converter/internal/config"

	// Decoder registrations so probeImage covers every accepted input
	// format.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// encodeImageFile writes img to path in the given format. Quality applies to
// the lossy formats only.
func encodeImageFile(
	path string,
	img image.Image,
	format config.ImageFormat,
	quality int,
) error {
	outFile, createErr := os.Create(path)
	if createErr != nil {
		return fmt.Errorf("could not create %s: %w", path, createErr)
	}

	encodeErr := encodeImage(outFile, img, format, quality)

	closeErr := outFile.Close()
	if encodeErr != nil {
		return fmt.Errorf("could not encode %s: %w", path, encodeErr)
	}

	if closeErr != nil {
		return fmt.Errorf("could not close %s: %w", path, closeErr)
	}

	return nil
}

func encodeImage(
	outFile *os.File,
	img image.Image,
	format config.ImageFormat,
	quality int,
) error {
	switch format {
	case config.ImageFormatJPG:
		return imaging.Encode(outFile, img, imaging.JPEG, imaging.JPEGQuality(quality))
	case config.ImageFormatWebP:
		return encodeWebP(outFile, img, quality)
	case config.ImageFormatPNG:
		fallthrough
	default:
		return imaging.Encode(outFile, img, imaging.PNG)
	}
}

func encodeWebP(outFile *os.File, img image.Image, quality int) error {
	options, optionsErr := encoder.NewLossyEncoderOptions(
		encoder.PresetDefault,
		float32(quality),
	)
	if optionsErr != nil {
		return fmt.Errorf("webp encoder options: %w", optionsErr)
	}

	return webp.Encode(outFile, img, options)
}

// probeImage decodes just the header of the image at path. A file that does
// not parse as one of the registered formats is treated as corrupt.
func probeImage(path string) error {
	imgFile, openErr := os.Open(path)
	if openErr != nil {
		return fmt.Errorf("%w: %w", ErrUnreadableImage, openErr)
	}

	_, _, decodeErr := image.DecodeConfig(imgFile)

	closeErr := imgFile.Close()
	if decodeErr != nil {
		return fmt.Errorf("%w: %w", ErrUnreadableImage, decodeErr)
	}

	if closeErr != nil {
		return fmt.Errorf("could not close %s: %w", path, closeErr)
	}

	return nil
}
