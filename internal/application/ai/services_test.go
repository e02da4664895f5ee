package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/mould-triage/internal/domain/triage"
)

type stubClient struct {
	answer string
	err    error
	uri    string
}

func (s *stubClient) Describe(_ context.Context, uri string) (string, error) {
	s.uri = uri
	return s.answer, s.err
}

func TestAnalyze_PassesAnswerThrough(t *testing.T) {
	c := &stubClient{answer: "  No mould was detected in the image.\n"}
	res := NewService(c).Analyze(context.Background(), triage.AnalysisRequest{Image: []byte{1, 2, 3}, Source: "hall.png"})

	require.False(t, res.IsError())
	require.Equal(t, "  No mould was detected in the image.\n", res.Text)
	require.Equal(t, "data:image/png;base64,AQID", c.uri)
}

func TestAnalyze_ErrorBecomesMarker(t *testing.T) {
	c := &stubClient{answer: "ignored", err: errors.New("tls handshake timeout")}
	res := NewService(c).Analyze(context.Background(), triage.AnalysisRequest{Image: []byte{1}, Source: "a.jpg"})

	require.True(t, res.IsError())
	require.ErrorIs(t, res.Err, triage.ErrModelCallFailed)
	require.Empty(t, res.Text)
	require.Equal(t, triage.LabelAnalysisError, triage.Classify(res))
}

func TestAnalyze_AlreadyWrapped(t *testing.T) {
	c := &stubClient{err: triage.ErrModelCallFailed}
	res := NewService(c).Analyze(context.Background(), triage.AnalysisRequest{Image: []byte{1}, Source: "a.jpg"})
	require.Equal(t, triage.ErrModelCallFailed, res.Err)
}
