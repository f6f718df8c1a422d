package convert

// Exported test-only accessors for unexported functions and fields.
// This file is compiled only during tests and does not affect the public API.

// DiscoverFilesForTest exposes discoverFiles for tests in external package.
func DiscoverFilesForTest(dirPath string, extensions []string) ([]string, error) {
	return discoverFiles(dirPath, extensions)
}

// Accepted extension sets for assertions in tests.
var (
	ImageExtensionsForTest = imageExtensions
	PDFExtensionsForTest   = pdfExtensions
)

// ProbeImageForTest exposes probeImage for tests in external package.
func ProbeImageForTest(path string) error { return probeImage(path) }

// NewItemsForTest exposes newItems for tests in external package.
func NewItemsForTest(paths []string) []*Item { return newItems(paths) }

// SummarizeForTest exposes summarize for tests in external package.
func SummarizeForTest(runID string, items []*Item) *Summary {
	return summarize(runID, items)
}

// FailForTest and SucceedForTest let stub converters flip item statuses.
func (item *Item) FailForTest(reason error) { item.fail(reason) }

func (item *Item) SucceedForTest() { item.succeed() }

// SetConverterForTest injects a stub converter into the dispatcher.
func (d *Dispatcher) SetConverterForTest(converter Converter) {
	d.converter = converter
}
