package triage

import (
	"fmt"
	"strings"
)

const (
	urgentMarker   = "urgent request"
	standardMarker = "standard request"
)

// Classify maps a model answer to a severity label. The urgent marker is checked
// first, so an answer containing both markers is urgent.
func Classify(r AnalysisResult) Label {
	if r.IsError() {
		return LabelAnalysisError
	}
	text := strings.ToLower(r.Text)
	switch {
	case strings.Contains(text, urgentMarker):
		return LabelUrgent
	case strings.Contains(text, standardMarker):
		return LabelStandard
	default:
		return LabelNoMould
	}
}

// QueueNames maps publishable labels to queue names.
type QueueNames struct {
	Urgent   string `yaml:"urgent"`
	Standard string `yaml:"standard"`
	NoMould  string `yaml:"noMould"`
}

// DefaultQueueNames are used when configuration leaves a name empty.
var DefaultQueueNames = QueueNames{
	Urgent:   "urgent",
	Standard: "standard",
	NoMould:  "nomould",
}

// For returns the queue for a label. AnalysisError has no queue.
func (q QueueNames) For(l Label) (string, error) {
	switch l {
	case LabelUrgent:
		return q.Urgent, nil
	case LabelStandard:
		return q.Standard, nil
	case LabelNoMould:
		return q.NoMould, nil
	default:
		return "", fmt.Errorf("no queue for label %q", l)
	}
}
