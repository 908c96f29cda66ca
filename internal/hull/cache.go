package hull

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Cache keeps the last computed path of a group. The path is recomputed only
// when the children or the padding change, and never while frozen (e.g. while
// a node is being dragged) if a path already exists.
type Cache struct {
	key   uint64
	path  string
	ok    bool
	valid bool
}

// Path returns the cached path or computes a new one
func (c *Cache) Path(children []Bounds, padding float64, frozen bool) (string, bool) {
	if frozen && c.valid && c.ok {
		return c.path, c.ok
	}

	key := Key(children, padding)
	if c.valid && c.key == key {
		return c.path, c.ok
	}

	c.path, c.ok = ComputePath(children, padding)
	c.key = key
	c.valid = true
	return c.path, c.ok
}

// Invalidate forces the next Path call to recompute
func (c *Cache) Invalidate() {
	c.valid = false
}

// Key hashes the inputs of ComputePath
func Key(children []Bounds, padding float64) uint64 {
	d := xxhash.New()
	var buf [8]byte
	write := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		_, _ = d.Write(buf[:])
	}

	write(padding)
	for _, c := range children {
		write(c.X)
		write(c.Y)
		write(c.Width)
		write(c.Height)
		write(float64(c.Shape))
	}
	return d.Sum64()
}
