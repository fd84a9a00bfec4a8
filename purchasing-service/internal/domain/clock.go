package domain

import "time"

// Clock supplies the current time to the aggregates. They never read the
// system clock directly, so tests can pin or advance time deterministically.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock returns the wall-clock implementation used in production.
func SystemClock() Clock { return systemClock{} }
