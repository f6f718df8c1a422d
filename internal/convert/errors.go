package convert

import "errors"

var (
	// ErrOutputExists is returned by the namer when the desired output
	// path already exists and the overwrite policy is "fail".
	ErrOutputExists = errors.New("output path already exists")
	// ErrPDFNoPages is returned for a PDF with zero pages.
	ErrPDFNoPages = errors.New("pdf has no pages")
	// ErrUnreadableImage wraps decode failures for corrupt or unsupported
	// image inputs.
	ErrUnreadableImage = errors.New("unreadable image")
	// ErrRunCanceled is returned when the context is canceled between
	// items. Partially written outputs are not rolled back.
	ErrRunCanceled = errors.New("run canceled")
)
