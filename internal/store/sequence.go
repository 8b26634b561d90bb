package store

import (
	"errors"
	"math"
	"sync/atomic"
)

// ErrIDOutOfRange is returned for ids the sequence cannot move past.
var ErrIDOutOfRange = errors.New("message id out of range")

// Sequence hands out message ids. The first id is 0.
// Ids are never handed out twice, even across goroutines, and never wrap.
type Sequence struct {
	next atomic.Int64
}

// Next returns a fresh id, or ErrIDOutOfRange once math.MaxInt64 is reached.
func (s *Sequence) Next() (int64, error) {
	for {
		cur := s.next.Load()
		if cur == math.MaxInt64 {
			return 0, ErrIDOutOfRange
		}
		if s.next.CompareAndSwap(cur, cur+1) {
			return cur, nil
		}
	}
}

// Observe moves the sequence past id so that Next never returns it.
// Used when a message is written under a caller-chosen id.
// math.MaxInt64 has no successor and is refused.
func (s *Sequence) Observe(id int64) error {
	if id == math.MaxInt64 {
		return ErrIDOutOfRange
	}
	for {
		cur := s.next.Load()
		if id < cur {
			return nil
		}
		if s.next.CompareAndSwap(cur, id+1) {
			return nil
		}
	}
}
