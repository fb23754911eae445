package xid

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

func New(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, uuid.NewString())
}

// Sequence issues human-readable numbers of the form PREFIX-YYYYMMDD-HHMMSS-NNNN.
// The suffix comes from a process-wide counter, so numbers minted within the
// same second stay distinct.
type Sequence struct {
	prefix  string
	counter atomic.Uint64
	now     func() time.Time
}

func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix, now: time.Now}
}

func (s *Sequence) Next() string {
	n := s.counter.Add(1) % 10000
	return fmt.Sprintf("%s-%s-%04d", s.prefix, s.now().UTC().Format("20060102-150405"), n)
}
