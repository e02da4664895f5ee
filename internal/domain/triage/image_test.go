package triage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMediaType(t *testing.T) {
	mt, ok := MediaType("x.PNG")
	require.True(t, ok)
	require.Equal(t, "image/png", mt)

	mt, ok = MediaType("dir/x.jpeg")
	require.True(t, ok)
	require.Equal(t, "image/jpeg", mt)

	_, ok = MediaType("x.gif")
	require.False(t, ok)
}

func TestAnalysisRequestDataURI(t *testing.T) {
	img := []byte{1, 2, 3}
	require.Equal(t, "data:image/png;base64,AQID", AnalysisRequest{Image: img, Source: "x.png"}.DataURI())
	require.Equal(t, "data:image/jpeg;base64,AQID", AnalysisRequest{Image: img, Source: "x.JPEG"}.DataURI())
	require.Equal(t, "data:image/jpeg;base64,AQID", AnalysisRequest{Image: img, Source: "staged-key"}.DataURI())
}
