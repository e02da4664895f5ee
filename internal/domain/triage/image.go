package triage

import (
	"encoding/base64"
	"path/filepath"
	"strings"
)

var mediaTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// MediaType returns the image media type for name's extension, and false when
// the extension is not jpg, jpeg or png.
func MediaType(name string) (string, bool) {
	mt, ok := mediaTypes[strings.ToLower(filepath.Ext(name))]
	return mt, ok
}

// DataURI encodes the image for embedding in a chat message. The media type
// follows the extension of Source and falls back to image/jpeg.
func (r AnalysisRequest) DataURI() string {
	mt, ok := MediaType(r.Source)
	if !ok {
		mt = "image/jpeg"
	}
	return "data:" + mt + ";base64," + base64.StdEncoding.EncodeToString(r.Image)
}
