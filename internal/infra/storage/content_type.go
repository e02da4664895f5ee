package storage

import "github.com/bryanwahyu/mould-triage/internal/domain/triage"

func contentType(key string) string {
	if mt, ok := triage.MediaType(key); ok {
		return mt
	}
	return "application/octet-stream"
}
