package application

import "time"

// Clock stamps queue messages; tests swap in a fixed time
type Clock interface {
	Now() time.Time
}

// SystemClock returns the current UTC time
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
