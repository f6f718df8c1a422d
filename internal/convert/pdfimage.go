package convert

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"path/filepath"

	"github.com/book-expert/logger"
	"github.com/disintegration/imaging"
	"github.com/gen2brain/go-fitz"

	"github.com/book-expert/pdf-image-converter/internal/config"
)

// pageIndexWidth is the zero-padding width of the page number in rendered
// file names, e.g. "scan_page_01.png". Fixed so page files sort lexically.
const pageIndexWidth = 2

// pdfToImageConverter renders each discovered PDF into one image per page at
// the configured DPI, color mode, and output format.
type pdfToImageConverter struct {
	cfg   *config.Config
	log   *logger.Logger
	namer *Namer
}

func newPDFToImageConverter(cfg *config.Config, log *logger.Logger) *pdfToImageConverter {
	return &pdfToImageConverter{
		cfg:   cfg,
		log:   log,
		namer: NewNamer(cfg.ImageOutput.OverwritePolicy),
	}
}

// Convert renders the batch, one PDF at a time. A PDF that fails to open or
// render fails only its own item; the loop continues with the next PDF.
func (c *pdfToImageConverter) Convert(
	ctx context.Context,
	items []*Item,
	step func(),
) error {
	for _, item := range items {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %w", ErrRunCanceled, ctxErr)
		}

		convertErr := c.convertOnePDF(item)
		if convertErr != nil {
			item.fail(convertErr)
			c.log.Warn(
				"Failed to convert %s: %v",
				filepath.Base(item.Path),
				convertErr,
			)
		} else {
			item.succeed()
		}

		step()
	}

	return nil
}

// convertOnePDF renders every page of one PDF. The item is the PDF, not the
// page: the first page that fails to render or encode fails the whole item.
func (c *pdfToImageConverter) convertOnePDF(item *Item) error {
	doc, openErr := fitz.New(item.Path)
	if openErr != nil {
		return fmt.Errorf("could not open pdf: %w", openErr)
	}
	defer func() {
		closeErr := doc.Close()
		if closeErr != nil {
			c.log.Warn(
				"Failed to close %s: %v",
				filepath.Base(item.Path),
				closeErr,
			)
		}
	}()

	pageCount := doc.NumPage()
	if pageCount <= 0 {
		return ErrPDFNoPages
	}

	for page := range pageCount {
		renderErr := c.renderPage(doc, item, page)
		if renderErr != nil {
			return renderErr
		}
	}

	c.log.Success(
		"Rendered %d page(s) of %s at %d DPI",
		pageCount,
		filepath.Base(item.Path),
		c.cfg.ImageOutput.DPI,
	)

	return nil
}

// renderPage rasterizes one page and writes it through the namer.
func (c *pdfToImageConverter) renderPage(doc *fitz.Document, item *Item, page int) error {
	rendered, renderErr := doc.ImageDPI(page, float64(c.cfg.ImageOutput.DPI))
	if renderErr != nil {
		return fmt.Errorf("could not render page %d: %w", page+1, renderErr)
	}

	var pageImage image.Image = rendered
	if c.cfg.ImageOutput.ColorMode == config.ColorModeGrayscale {
		pageImage = toGray(imaging.Grayscale(rendered))
	}

	fileName := c.pageFileName(item, page)

	outPath, resolveErr := c.namer.Resolve(c.cfg.AbsOutputDir(), fileName)
	if resolveErr != nil {
		return resolveErr
	}

	encodeErr := encodeImageFile(
		outPath,
		pageImage,
		c.cfg.ImageOutput.Format,
		c.cfg.ImageOutput.Quality,
	)
	if encodeErr != nil {
		return encodeErr
	}

	return nil
}

// toGray re-draws a grayscale-valued image into a single-channel buffer.
// imaging.Grayscale keeps four channels, so without this the encoders would
// write truecolor files for grayscale output.
func toGray(src image.Image) *image.Gray {
	bounds := src.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, src, bounds.Min, draw.Src)

	return gray
}

// pageFileName builds "<pdf-stem>_page_<NN>.<ext>" with the page number
// offset by the configured start index.
func (c *pdfToImageConverter) pageFileName(item *Item, page int) string {
	return fmt.Sprintf(
		"%s_page_%0*d.%s",
		item.baseName(),
		pageIndexWidth,
		c.cfg.ImageOutput.StartIndex+page,
		c.cfg.ImageOutput.Format,
	)
}
