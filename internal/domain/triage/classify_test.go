package triage

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		text string
		want Label
	}{
		{"standard kitchen", "This is a standard request. Mould detected in the kitchen.", LabelStandard},
		{"urgent bedroom", "This is an urgent request. Mould detected in the bedroom.", LabelUrgent},
		{"no mould", "No mould was detected in the image.", LabelNoMould},
		{"upper case urgent", "THIS IS AN URGENT REQUEST", LabelUrgent},
		{"mixed case standard", "a Standard Request for the bathroom", LabelStandard},
		{"both markers urgent wins", "Not a standard request: this is an urgent request.", LabelUrgent},
		{"standard before urgent in text", "standard request? no, urgent request", LabelUrgent},
		{"unrecognised phrasing", "I cannot tell what this is.", LabelNoMould},
		{"empty answer", "", LabelNoMould},
		{"marker split by newline", "urgent\nrequest", LabelNoMould},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Classify(AnalysisResult{Text: tc.text}))
		})
	}
}

func TestClassify_ErrorResult(t *testing.T) {
	// an error marker wins even when the text looks like a verdict
	r := AnalysisResult{Text: "This is an urgent request.", Err: errors.New("boom")}
	require.True(t, r.IsError())
	require.Equal(t, LabelAnalysisError, Classify(r))

	r = AnalysisResult{Err: ErrModelCallFailed}
	require.Equal(t, LabelAnalysisError, Classify(r))
}

func TestQueueNames_For(t *testing.T) {
	q := QueueNames{Urgent: "urgent-cases", Standard: "standard-cases", NoMould: "no-mould-cases"}

	name, err := q.For(LabelUrgent)
	require.NoError(t, err)
	require.Equal(t, "urgent-cases", name)

	name, err = q.For(LabelStandard)
	require.NoError(t, err)
	require.Equal(t, "standard-cases", name)

	name, err = q.For(LabelNoMould)
	require.NoError(t, err)
	require.Equal(t, "no-mould-cases", name)

	_, err = q.For(LabelAnalysisError)
	require.Error(t, err)
}

func TestNewQueueMessage(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 30, 0, 0, time.FixedZone("CET", 3600))
	msg := NewQueueMessage(now, "This is a standard request.", "kitchen.jpg", "standard")

	require.Equal(t, "2026-03-01T11:30:00Z", msg.Timestamp)
	require.Equal(t, "This is a standard request.", msg.AnalysisResult)
	require.Equal(t, "kitchen.jpg", msg.ImagePath)
	require.Equal(t, "standard", msg.Severity)
}

func TestQueueMessageEncode(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	body, err := NewQueueMessage(now, "This is an urgent request.", "bedroom.png", "urgent").Encode()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(body, &doc))
	require.Equal(t, map[string]any{
		"timestamp":       "2026-03-01T12:30:00Z",
		"analysis_result": "This is an urgent request.",
		"image_path":      "bedroom.png",
		"severity":        "urgent",
	}, doc)
}
