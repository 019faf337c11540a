// Package ids generates and validates record identifiers.
package ids

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropy     = ulid.Monotonic(rand.Reader, 0)
	entropyLock sync.Mutex
)

// New returns a new ULID string for the current time.
func New() string {
	return NewAt(time.Now())
}

// NewAt returns a new ULID string stamped with t.
func NewAt(t time.Time) string {
	entropyLock.Lock()
	defer entropyLock.Unlock()

	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// Valid reports whether s is a well-formed ULID. Lower-case input is accepted.
func Valid(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}

// Normalize returns the canonical (upper-case) form of a ULID.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
