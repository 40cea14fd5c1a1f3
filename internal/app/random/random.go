// Package random provides buffered, cryptographically secure random bytes
// and unbiased bounded integers drawn from them.
//
// A Pool is owned by exactly one worker and is not safe for concurrent use.
// Refills are one bulk read from the underlying reader; once a refill fails
// the pool stays failed and every later call returns the same
// models.EnvironmentError.
package random

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/AlenaMolokova/passgen/internal/app/models"
)

const DefaultPoolSize = 1024

// Source is the random byte source a worker samples from.
type Source interface {
	NextByte() (byte, error)
	NextInRange(min, max int) (int, error)
}

type Pool struct {
	reader  io.Reader
	buf     []byte
	pos     int
	refills int
	failed  error
}

// NewPool returns a pool of the given size backed by crypto/rand.
func NewPool(size int) *Pool {
	return NewPoolFromReader(rand.Reader, size)
}

// NewPoolFromReader returns a pool backed by r. Tests use it to inject a
// deterministic or failing reader.
func NewPoolFromReader(r io.Reader, size int) *Pool {
	if size <= 0 {
		size = DefaultPoolSize
	}
	return &Pool{
		reader: r,
		buf:    make([]byte, size),
		pos:    size,
	}
}

func (p *Pool) NextByte() (byte, error) {
	if p.pos >= len(p.buf) {
		if err := p.refill(); err != nil {
			return 0, err
		}
	}
	b := p.buf[p.pos]
	p.pos++
	return b, nil
}

// NextInRange returns a uniform integer in [min, max]. Draws at or above
// the largest multiple of the range size that fits in a byte are rejected,
// so every result has exactly 256/bound byte preimages.
func (p *Pool) NextInRange(min, max int) (int, error) {
	if max < min {
		return 0, fmt.Errorf("invalid range [%d, %d]", min, max)
	}
	bound := max - min + 1
	if bound > 256 {
		return 0, fmt.Errorf("range [%d, %d] is wider than one byte", min, max)
	}
	limit := (256 / bound) * bound

	for {
		b, err := p.NextByte()
		if err != nil {
			return 0, err
		}
		if int(b) < limit {
			return int(b)%bound + min, nil
		}
	}
}

// Refills reports how many bulk reads the pool has made.
func (p *Pool) Refills() int {
	return p.refills
}

func (p *Pool) refill() error {
	if p.failed != nil {
		return p.failed
	}
	if _, err := io.ReadFull(p.reader, p.buf); err != nil {
		p.failed = &models.EnvironmentError{Err: err}
		return p.failed
	}
	p.pos = 0
	p.refills++
	return nil
}
