package middleware

import (
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/bryanwahyu/mould-triage/internal/domain/triage"
	"github.com/bryanwahyu/mould-triage/internal/infra/imagefile"
)

// ValidateUpload checks the multipart header of an uploaded image before it is
// staged: a filename is present, the extension is allowed and the size fits.
func ValidateUpload(h *multipart.FileHeader, maxBytes int64) error {
	if h == nil || strings.TrimSpace(h.Filename) == "" {
		return fmt.Errorf("%w: no file selected", triage.ErrUnsupportedFormat)
	}
	if err := imagefile.CheckExtension(h.Filename); err != nil {
		return err
	}
	if maxBytes > 0 && h.Size > maxBytes {
		return fmt.Errorf("file too large: %d bytes (max %d)", h.Size, maxBytes)
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")

	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}
