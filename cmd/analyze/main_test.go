package main

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/mould-triage/internal/domain/triage"
)

func TestReportExitCodes(t *testing.T) {
	published := &domain.Outcome{State: domain.StatePublished, Label: domain.LabelUrgent, Queue: "urgent", Result: "This is an urgent request."}
	require.Equal(t, 0, report(published, nil))

	classified := &domain.Outcome{State: domain.StateClassified, Label: domain.LabelStandard, Queue: "standard"}
	require.Equal(t, 3, report(classified, fmt.Errorf("%w: down", domain.ErrQueuePublishFailed)))

	errored := &domain.Outcome{State: domain.StateErrored, Label: domain.LabelAnalysisError}
	require.Equal(t, 2, report(errored, domain.ErrModelCallFailed))

	received := &domain.Outcome{State: domain.StateReceived}
	require.Equal(t, 1, report(received, domain.ErrImageNotFound))
	require.Equal(t, 1, report(nil, domain.ErrUnsupportedFormat))
}
