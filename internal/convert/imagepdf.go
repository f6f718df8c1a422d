package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/book-expert/logger"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"

	"github.com/book-expert/pdf-image-converter/internal/config"
)

// imageToPDFConverter turns discovered images into PDF documents according
// to the configured fan-in policy.
type imageToPDFConverter struct {
	cfg   *config.Config
	log   *logger.Logger
	namer *Namer
}

func newImageToPDFConverter(cfg *config.Config, log *logger.Logger) *imageToPDFConverter {
	return &imageToPDFConverter{
		cfg:   cfg,
		log:   log,
		namer: NewNamer(cfg.PDFOutput.OverwritePolicy),
	}
}

// Convert processes the batch. Every item is first probed so a corrupt image
// fails only itself; with the many-to-one policy the merge then proceeds
// over the remaining valid images.
func (c *imageToPDFConverter) Convert(
	ctx context.Context,
	items []*Item,
	step func(),
) error {
	valid := make([]*Item, 0, len(items))

	for _, item := range items {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %w", ErrRunCanceled, ctxErr)
		}

		probeErr := probeImage(item.Path)
		if probeErr != nil {
			item.fail(probeErr)
			c.log.Warn("Skipping %s: %v", filepath.Base(item.Path), probeErr)
			step()

			continue
		}

		valid = append(valid, item)
	}

	if c.cfg.PDFOutput.FanInPolicy == config.FanInOneToOne {
		return c.convertOneToOne(ctx, valid, step)
	}

	c.convertManyToOne(valid, step)

	return nil
}

// convertManyToOne merges all valid images, in discovery order, into a
// single multi-page PDF. Page order matches the sorted input order. An image
// that passes the header check but fails the full import decode is excluded
// and the merge retried over the survivors.
func (c *imageToPDFConverter) convertManyToOne(valid []*Item, step func()) {
	if len(valid) == 0 {
		return
	}

	outPath, resolveErr := c.namer.Resolve(
		c.cfg.AbsOutputDir(),
		c.cfg.PDFOutput.OutputName,
	)
	if resolveErr != nil {
		c.failAll(valid, resolveErr, step)

		return
	}

	importErr := importImages(itemPaths(valid), outPath)
	if importErr == nil {
		c.succeedAll(valid, step)
		c.log.Success("Merged %d image(s) -> %s", len(valid), outPath)

		return
	}

	// The import reports one error for the whole batch without naming the
	// offending file. Re-check each image on its own and merge the
	// survivors so one bad input does not sink the batch.
	survivors := c.excludeUnimportable(valid, step)
	if len(survivors) == 0 {
		return
	}

	retryErr := importImages(itemPaths(survivors), outPath)
	if retryErr != nil {
		c.failAll(survivors, retryErr, step)

		return
	}

	c.succeedAll(survivors, step)
	c.log.Success("Merged %d image(s) -> %s", len(survivors), outPath)
}

// excludeUnimportable imports each image on its own into a scratch
// directory, failing the items the importer rejects and returning the rest.
func (c *imageToPDFConverter) excludeUnimportable(items []*Item, step func()) []*Item {
	scratchDir, tempErr := os.MkdirTemp("", "pdf-image-converter-")
	if tempErr != nil {
		c.failAll(
			items,
			fmt.Errorf("could not create scratch directory: %w", tempErr),
			step,
		)

		return nil
	}
	defer func() {
		removeErr := os.RemoveAll(scratchDir)
		if removeErr != nil {
			c.log.Warn(
				"Failed to remove scratch directory %s: %v",
				scratchDir,
				removeErr,
			)
		}
	}()

	survivors := make([]*Item, 0, len(items))

	for index, item := range items {
		scratchPDF := filepath.Join(scratchDir, fmt.Sprintf("check_%d.pdf", index))

		importErr := importImages([]string{item.Path}, scratchPDF)
		if importErr != nil {
			item.fail(importErr)
			c.log.Warn("Skipping %s: %v", filepath.Base(item.Path), importErr)
			step()

			continue
		}

		survivors = append(survivors, item)
	}

	return survivors
}

// convertOneToOne writes one single-page PDF per valid image, named after
// the source image's base name. Failures stay scoped to their item.
func (c *imageToPDFConverter) convertOneToOne(
	ctx context.Context,
	valid []*Item,
	step func(),
) error {
	for _, item := range valid {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %w", ErrRunCanceled, ctxErr)
		}

		convertErr := c.convertSingleImage(item)
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

func (c *imageToPDFConverter) convertSingleImage(item *Item) error {
	outPath, resolveErr := c.namer.Resolve(c.cfg.AbsOutputDir(), item.baseName()+".pdf")
	if resolveErr != nil {
		return resolveErr
	}

	importErr := importImages([]string{item.Path}, outPath)
	if importErr != nil {
		return importErr
	}

	c.log.Success("Converted %s -> %s", filepath.Base(item.Path), filepath.Base(outPath))

	return nil
}

func (c *imageToPDFConverter) failAll(items []*Item, reason error, step func()) {
	for _, item := range items {
		item.fail(reason)
		c.log.Warn("Failed to convert %s: %v", filepath.Base(item.Path), reason)
		step()
	}
}

func (c *imageToPDFConverter) succeedAll(items []*Item, step func()) {
	for _, item := range items {
		item.succeed()
		step()
	}
}

func itemPaths(items []*Item) []string {
	paths := make([]string, 0, len(items))
	for _, item := range items {
		paths = append(paths, item.Path)
	}

	return paths
}

// importImages builds a PDF from the given image files, one page per image.
// An existing file at outPath is removed first: pdfcpu appends pages to an
// existing PDF, and a conversion run always replaces its resolved output.
func importImages(imagePaths []string, outPath string) error {
	removeErr := os.Remove(outPath)
	if removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
		return fmt.Errorf("could not replace %s: %w", outPath, removeErr)
	}

	imp := pdfcpu.DefaultImportConfig()

	importErr := api.ImportImagesFile(imagePaths, outPath, imp, nil)
	if importErr != nil {
		return fmt.Errorf("pdf import failed: %w", importErr)
	}

	return nil
}
