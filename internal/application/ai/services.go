package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/bryanwahyu/mould-triage/internal/domain/ai"
	"github.com/bryanwahyu/mould-triage/internal/domain/triage"
)

type Service struct {
	client ai.Client
}

func NewService(client ai.Client) *Service {
	return &Service{client: client}
}

// Analyze sends the image to the model. It never returns an error: a failed
// call becomes a result tagged with ErrModelCallFailed, so it cannot be read as
// a "no mould" answer.
func (s *Service) Analyze(ctx context.Context, req triage.AnalysisRequest) triage.AnalysisResult {
	text, err := s.client.Describe(ctx, req.DataURI())
	if err != nil {
		if !errors.Is(err, triage.ErrModelCallFailed) {
			err = fmt.Errorf("%w: %w", triage.ErrModelCallFailed, err)
		}
		return triage.AnalysisResult{Err: err}
	}
	return triage.AnalysisResult{Text: text}
}
