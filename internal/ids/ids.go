// Package ids supplies identifiers and timestamps to the command handlers.
package ids

import (
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// IDGenerator returns a fresh opaque identifier on every call.
type IDGenerator interface {
	Generate() string
}

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// UUIDGenerator generates random (v4) UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) Generate() string { return uuid.NewString() }

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// Sequence yields "1", "2", ... and is safe for concurrent use.
type Sequence struct {
	mu   sync.Mutex
	next int
}

func (s *Sequence) Generate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return strconv.Itoa(s.next)
}

// FixedClock always returns T.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }
