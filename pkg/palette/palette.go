// Package palette assigns material indices to voxel colors.
package palette

import (
	"github.com/cespare/xxhash/v2"

	"pixvox/internal/models"
)

// DefaultBuckets sizes the hash index for a full-size raster.
const DefaultBuckets = models.MaxDimension * models.MaxDimension

// Table maps each distinct color to a stable index in first-seen order.
//
// A hash of the color picks a bucket; every color already in that bucket is
// compared for equality before a new index is handed out, so colliding
// colors never share an index. A Table is not safe for concurrent use.
type Table struct {
	buckets [][]int32
	mask    uint64
	colors  []models.RGB
	hash    func(models.RGB) uint64
}

// NewTable creates an empty table with DefaultBuckets buckets.
func NewTable() *Table {
	return newTable(DefaultBuckets, hashRGB)
}

func newTable(buckets int, hash func(models.RGB) uint64) *Table {
	n := 1
	for n < buckets {
		n <<= 1
	}
	return &Table{
		buckets: make([][]int32, n),
		mask:    uint64(n - 1),
		hash:    hash,
	}
}

func hashRGB(c models.RGB) uint64 {
	return xxhash.Sum64([]byte{c.R, c.G, c.B})
}

// Lookup returns the index of c, assigning the next free index if c has not
// been seen before.
func (t *Table) Lookup(c models.RGB) int {
	slot := t.hash(c) & t.mask
	for _, idx := range t.buckets[slot] {
		if t.colors[idx] == c {
			return int(idx)
		}
	}

	idx := int32(len(t.colors))
	t.colors = append(t.colors, c)
	t.buckets[slot] = append(t.buckets[slot], idx)
	return int(idx)
}

// Index returns the index of c without inserting it.
func (t *Table) Index(c models.RGB) (int, bool) {
	for _, idx := range t.buckets[t.hash(c)&t.mask] {
		if t.colors[idx] == c {
			return int(idx), true
		}
	}
	return -1, false
}

// Len is the number of distinct colors seen.
func (t *Table) Len() int {
	return len(t.colors)
}

// Color returns the color assigned to index i.
func (t *Table) Color(i int) models.RGB {
	return t.colors[i]
}

// Colors returns the distinct colors in discovery order.
func (t *Table) Colors() []models.RGB {
	out := make([]models.RGB, len(t.colors))
	copy(out, t.colors)
	return out
}

// FromModel indexes every voxel color of m in voxel order.
func FromModel(m *models.VoxelModel) *Table {
	t := NewTable()
	for _, v := range m.Voxels {
		t.Lookup(v.Color)
	}
	return t
}
