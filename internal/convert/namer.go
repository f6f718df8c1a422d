package convert

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/book-expert/pdf-image-converter/internal/config"
)

// Namer resolves desired output file names to collision-free paths inside a
// target directory, according to the configured overwrite policy.
//
// The existence check is best-effort: no lock is held across the
// check-then-write gap, so the guarantee only holds while this process is
// the sole writer to the output directory.
type Namer struct {
	policy config.OverwritePolicy
}

// NewNamer returns a Namer applying the given overwrite policy.
func NewNamer(policy config.OverwritePolicy) *Namer {
	return &Namer{policy: policy}
}

// Resolve returns the path to write fileName into dir.
//
// With the auto-rename policy, an occupied candidate gets a numeric suffix
// before the extension: "name (1).ext", "name (2).ext", and so on until a
// free name is found. The suffix scheme is a documented contract, not an
// implementation detail. With the overwrite policy the candidate is returned
// unconditionally; with the fail policy an occupied candidate is an error.
func (n *Namer) Resolve(dir, fileName string) (string, error) {
	candidate := filepath.Join(dir, fileName)

	switch n.policy {
	case config.OverwriteReplace:
		return candidate, nil
	case config.OverwriteFail:
		if pathExists(candidate) {
			return "", fmt.Errorf("%w: %s", ErrOutputExists, candidate)
		}

		return candidate, nil
	case config.OverwriteAutoRename:
		fallthrough
	default:
		return n.resolveAutoRename(dir, fileName), nil
	}
}

// resolveAutoRename increments the numeric suffix until the candidate path
// is free.
func (n *Namer) resolveAutoRename(dir, fileName string) string {
	candidate := filepath.Join(dir, fileName)
	if !pathExists(candidate) {
		return candidate
	}

	ext := filepath.Ext(fileName)
	stem := fileName[:len(fileName)-len(ext)]

	for counter := 1; ; counter++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, counter, ext))
		if !pathExists(candidate) {
			return candidate
		}
	}
}

// pathExists reports whether a path exists on the filesystem. Stat errors
// other than "not exist" are treated as occupied so the namer keeps probing
// rather than silently overwriting.
func pathExists(path string) bool {
	_, statErr := os.Stat(path)

	return !errors.Is(statErr, os.ErrNotExist)
}
