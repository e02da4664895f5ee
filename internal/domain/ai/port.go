package ai

import "context"

// Client describes an image given as a data URI and returns the model answer verbatim.
type Client interface {
	Describe(ctx context.Context, imageDataURI string) (string, error)
}
