package triage

import (
	"encoding/json"
	"time"
)

// RequestID identifies one analysis request
type RequestID string

// Label enum
type Label string

const (
	LabelUrgent        Label = "urgent"
	LabelStandard      Label = "standard"
	LabelNoMould       Label = "no_mould"
	LabelAnalysisError Label = "analysis_error"
)

// State of a request in the pipeline
type State string

const (
	StateReceived   State = "received"
	StateLoaded     State = "loaded"
	StateAnalyzed   State = "analyzed"
	StateClassified State = "classified"
	StatePublished  State = "published"
	StateErrored    State = "errored"
)

// AnalysisRequest is one image waiting for analysis. Source is the path or the
// uploaded filename.
type AnalysisRequest struct {
	ID     RequestID
	Image  []byte
	Source string
}

// AnalysisResult holds the model answer, or Err when the call failed.
type AnalysisResult struct {
	Text string
	Err  error
}

// IsError reports whether the result is an error marker rather than a model answer.
func (r AnalysisResult) IsError() bool { return r.Err != nil }

// QueueMessage is the document published to a severity queue.
// Severity carries the queue name the message was routed to.
type QueueMessage struct {
	Timestamp      string `json:"timestamp"`
	AnalysisResult string `json:"analysis_result"`
	ImagePath      string `json:"image_path"`
	Severity       string `json:"severity"`
}

// NewQueueMessage builds the outbound record for a classified result.
func NewQueueMessage(now time.Time, text, source, queue string) QueueMessage {
	return QueueMessage{
		Timestamp:      now.UTC().Format(time.RFC3339Nano),
		AnalysisResult: text,
		ImagePath:      source,
		Severity:       queue,
	}
}

// Encode returns the JSON body sent to the queue.
func (m QueueMessage) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// Outcome is the terminal view of one request.
type Outcome struct {
	ID      RequestID     `json:"id"`
	Source  string        `json:"source"`
	State   State         `json:"state"`
	Label   Label         `json:"label,omitempty"`
	Result  string        `json:"result,omitempty"`
	Queue   string        `json:"queue,omitempty"`
	Message *QueueMessage `json:"message,omitempty"`
}
