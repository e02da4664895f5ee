package imagefile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bryanwahyu/mould-triage/internal/domain/triage"
)

// CheckExtension accepts jpg, jpeg and png names (case-insensitive).
func CheckExtension(name string) error {
	if _, ok := triage.MediaType(name); !ok {
		return fmt.Errorf("%w: %q (supported: jpg, jpeg, png)", triage.ErrUnsupportedFormat, strings.ToLower(filepath.Ext(name)))
	}
	return nil
}

// ReadFile reads an image from disk, telling a missing file apart from other
// read failures.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", triage.ErrImageNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", triage.ErrImageRead, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", triage.ErrImageRead, path)
	}
	return data, nil
}
