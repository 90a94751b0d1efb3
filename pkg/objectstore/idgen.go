package objectstore

import (
	"strconv"
	"sync/atomic"
)

// DefaultIDStart is the first identifier handed out by a new IDGenerator.
const DefaultIDStart int64 = 100

// IDGenerator produces strictly increasing identifiers. It is safe for
// concurrent use and never hands out the same value twice.
type IDGenerator struct {
	next atomic.Int64
}

// NewIDGenerator creates a generator whose first value is start
func NewIDGenerator(start int64) *IDGenerator {
	g := &IDGenerator{}
	g.next.Store(start)
	return g
}

// Next returns the current value and advances the counter
func (g *IDGenerator) Next() int64 {
	return g.next.Add(1) - 1
}

// NextID returns Next formatted as an object identifier
func (g *IDGenerator) NextID() string {
	return strconv.FormatInt(g.Next(), 10)
}

// defaultIDs is shared by every store created without WithIDGenerator.
var defaultIDs = NewIDGenerator(DefaultIDStart)
