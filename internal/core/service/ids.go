package service

import (
	"crypto/rand"
	"fmt"
	"time"
)

// newID returns a prefixed random identifier, e.g. "assign_7a8b9c2d".
func newID(prefix string) string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("%s_%08x", prefix, time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("%s_%x", prefix, b)
}
