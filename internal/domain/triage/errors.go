package triage

import "errors"

var (
	// ErrImageNotFound means the image path or staged key does not exist.
	ErrImageNotFound = errors.New("image not found")
	// ErrImageRead covers permission errors, directories and empty or truncated reads.
	ErrImageRead = errors.New("image read error")
	// ErrUnsupportedFormat means the extension is not jpg, jpeg or png.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrUploadStaging means an upload could not be written to the staging store.
	ErrUploadStaging = errors.New("upload staging failed")
	// ErrModelCallFailed wraps transport and service errors from the vision model.
	ErrModelCallFailed = errors.New("vision model call failed")
	// ErrQueuePublishFailed wraps connection and publish errors from the queue backend.
	ErrQueuePublishFailed = errors.New("queue publish failed")
	// ErrMissingConfiguration means a required credential or endpoint is absent.
	ErrMissingConfiguration = errors.New("missing configuration")
)
