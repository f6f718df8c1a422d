package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/book-expert/logger"
	"github.com/cheggaaa/pb/v3"
	"github.com/google/uuid"

	"github.com/book-expert/pdf-image-converter/internal/config"
)

// defaultDirMode is the permission mode for created output directories.
const defaultDirMode = 0o750

// State tracks the dispatcher's progress through a run.
type State int

// Dispatcher states, in order of progression.
const (
	StateIdle State = iota
	StateDiscovering
	StateConverting
	StateFinalizing
	StateDone
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDiscovering:
		return "discovering"
	case StateConverting:
		return "converting"
	case StateFinalizing:
		return "finalizing"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Converter is the capability the dispatcher drives: process the discovered
// items in order, record each item's outcome on the item itself, and invoke
// step once per item as it reaches a terminal status. A returned error is
// fatal for the whole run; per-item failures must never surface here.
type Converter interface {
	Convert(ctx context.Context, items []*Item, step func()) error
}

// Dispatcher selects the converter for the configured work mode and drives
// the discover, convert, and finalize phases of one batch run. Items are
// processed strictly one at a time, in discovery order.
type Dispatcher struct {
	cfg         *config.Config
	log         *logger.Logger
	converter   Converter
	progressOut io.Writer
	extensions  []string
	runID       string
	state       State
}

// New validates the configuration and builds a dispatcher for it. Validation
// failures are fatal; no partial work is attempted. A nil progressOut
// disables the progress bar.
func New(cfg *config.Config, log *logger.Logger, progressOut io.Writer) (*Dispatcher, error) {
	// Idle-state semantic validation, before any filesystem access.
	validationErr := cfg.Validate()
	if validationErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validationErr)
	}

	if progressOut == nil {
		progressOut = io.Discard
	}

	dispatcher := &Dispatcher{
		cfg:         cfg,
		log:         log,
		converter:   nil,
		progressOut: progressOut,
		extensions:  nil,
		runID:       uuid.New().String(),
		state:       StateIdle,
	}

	switch cfg.Settings.WorkMode {
	case config.WorkModeImageToPDF:
		dispatcher.converter = newImageToPDFConverter(cfg, log)
		dispatcher.extensions = imageExtensions
	case config.WorkModePDFToImage:
		dispatcher.converter = newPDFToImageConverter(cfg, log)
		dispatcher.extensions = pdfExtensions
	default:
		// Unreachable after Validate; kept so a future mode cannot
		// slip through silently.
		return nil, fmt.Errorf("invalid configuration: %w: %q",
			config.ErrUnknownWorkMode, cfg.Settings.WorkMode)
	}

	return dispatcher, nil
}

// State returns the dispatcher's current state.
func (d *Dispatcher) State() State {
	return d.state
}

// RunID returns the identifier logged for this run.
func (d *Dispatcher) RunID() string {
	return d.runID
}

// Run executes one batch: discovery, conversion with per-item failure
// isolation, and the final summary. The returned error is non-nil only for
// fatal failures (discovery errors, cancellation); item failures are
// reported through the summary instead.
func (d *Dispatcher) Run(ctx context.Context) (*Summary, error) {
	d.log.Info("Run %s: work mode %s", d.runID, d.cfg.Settings.WorkMode)

	items, discoverErr := d.discover()
	if discoverErr != nil {
		return nil, discoverErr
	}

	convertErr := d.convert(ctx, items)
	if convertErr != nil {
		return nil, convertErr
	}

	return d.finalize(items), nil
}

// discover lists the input set for the active mode. The item set is fixed
// from here on.
func (d *Dispatcher) discover() ([]*Item, error) {
	d.state = StateDiscovering

	paths, discoveryErr := discoverFiles(d.cfg.AbsInputDir(), d.extensions)
	if discoveryErr != nil {
		d.log.Error("Run %s: discovery failed: %v", d.runID, discoveryErr)

		return nil, fmt.Errorf("discovery failed: %w", discoveryErr)
	}

	d.log.Info("Run %s: found %d input file(s) in %s",
		d.runID, len(paths), d.cfg.AbsInputDir())

	return newItems(paths), nil
}

// convert runs the selected converter over the item set. An empty set skips
// straight to finalizing.
func (d *Dispatcher) convert(ctx context.Context, items []*Item) error {
	if len(items) == 0 {
		return nil
	}

	d.state = StateConverting

	mkdirErr := os.MkdirAll(d.cfg.AbsOutputDir(), defaultDirMode)
	if mkdirErr != nil {
		d.log.Error("Run %s: could not create output directory: %v",
			d.runID, mkdirErr)

		return fmt.Errorf("could not create output directory %s: %w",
			d.cfg.AbsOutputDir(), mkdirErr)
	}

	progressBar := pb.New(len(items)).
		SetTemplateString(`{{ bar . " " "━" "━" " " " "}} {{percent .}} {{rtime .}}`).
		SetWriter(d.progressOut).
		Start()
	defer progressBar.Finish()

	convertErr := d.converter.Convert(ctx, items, func() { progressBar.Increment() })
	if convertErr != nil {
		d.log.Error("Run %s: aborted: %v", d.runID, convertErr)

		return convertErr
	}

	return nil
}

// finalize aggregates the per-item outcomes and logs the run summary.
func (d *Dispatcher) finalize(items []*Item) *Summary {
	d.state = StateFinalizing

	summary := summarize(d.runID, items)

	if summary.Ok() {
		d.log.Success("Run %s: %d succeeded, %d failed",
			d.runID, summary.Succeeded, summary.Failed)
	} else {
		d.log.Warn("Run %s: %d succeeded, %d failed",
			d.runID, summary.Succeeded, summary.Failed)

		for _, failure := range summary.Failures {
			d.log.Warn("  %s: %s", filepath.Base(failure.Path), failure.Reason)
		}
	}

	d.state = StateDone

	return summary
}
