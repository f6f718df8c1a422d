// Package convert implements the batch conversion engine: mode dispatch,
// input discovery, collision-free output naming, and the two converters.
package convert

import "path/filepath"

// Status tracks an item's progress through the batch.
type Status int

// Item statuses.
const (
	StatusPending Status = iota
	StatusSucceeded
	StatusFailed
)

// String returns the lowercase name of the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Item is one unit of work: a single discovered input file tracked
// independently through success or failure. The item set is fixed once
// discovery returns; converters only flip each item's status exactly once.
type Item struct {
	// Path is the absolute path of the discovered input file.
	Path string
	// Err records the failure reason when Status is StatusFailed.
	Err error
	// Status is the item's resolved outcome.
	Status Status
}

// newItems wraps discovered paths into pending items.
func newItems(paths []string) []*Item {
	items := make([]*Item, 0, len(paths))
	for _, path := range paths {
		items = append(items, &Item{Path: path, Err: nil, Status: StatusPending})
	}

	return items
}

// fail marks the item failed with the given reason.
func (item *Item) fail(reason error) {
	item.Status = StatusFailed
	item.Err = reason
}

// succeed marks the item successfully converted.
func (item *Item) succeed() {
	item.Status = StatusSucceeded
}

// baseName returns the item's file name without its extension.
func (item *Item) baseName() string {
	name := filepath.Base(item.Path)

	return name[:len(name)-len(filepath.Ext(name))]
}

// Failure is one failed item's path and human-readable reason, retained in
// the run summary.
type Failure struct {
	Path   string
	Reason string
}

// Summary aggregates per-item outcomes for one run.
type Summary struct {
	// RunID uniquely identifies the run in the logs.
	RunID string
	// Failures lists one entry per failed item.
	Failures []Failure
	// Total is the number of discovered items.
	Total int
	// Succeeded counts items that produced all of their artifacts.
	Succeeded int
	// Failed counts items that recorded a failure.
	Failed int
}

// Ok reports whether every discovered item succeeded.
func (s *Summary) Ok() bool {
	return s.Failed == 0
}

// summarize folds the final item statuses into a Summary.
func summarize(runID string, items []*Item) *Summary {
	summary := &Summary{
		RunID:     runID,
		Failures:  nil,
		Total:     len(items),
		Succeeded: 0,
		Failed:    0,
	}

	for _, item := range items {
		switch item.Status {
		case StatusSucceeded:
			summary.Succeeded++
		case StatusFailed:
			summary.Failed++
			summary.Failures = append(summary.Failures, Failure{
				Path:   item.Path,
				Reason: item.Err.Error(),
			})
		case StatusPending:
			// A converter bug; surface it as a failure rather than
			// silently dropping the item.
			summary.Failed++
			summary.Failures = append(summary.Failures, Failure{
				Path:   item.Path,
				Reason: "item was never processed",
			})
		}
	}

	return summary
}
