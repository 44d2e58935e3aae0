// Package sparse provides the sparse feature-vector container emitted
// by the word-vector filter. Only non-zero entries are stored, as
// (index, value) pairs with strictly ascending indices.
package sparse

import (
	"fmt"
	"sort"
)

// Vector is a weighted sparse float64 vector of a declared total width.
// Indices are strictly ascending and duplicate-free; omitted indices
// are implicitly zero.
type Vector struct {
	Weight  float64
	Indices []int
	Values  []float64
	Width   int
}

// NumNonZero returns the number of stored entries.
func (v Vector) NumNonZero() int { return len(v.Indices) }

// Get returns the value at an index, zero when the index is not stored.
func (v Vector) Get(idx int) float64 {
	i := sort.SearchInts(v.Indices, idx)
	if i < len(v.Indices) && v.Indices[i] == idx {
		return v.Values[i]
	}
	return 0
}

// ToDense expands the vector to a dense slice of length Width.
func (v Vector) ToDense() []float64 {
	dense := make([]float64, v.Width)
	for i, idx := range v.Indices {
		dense[idx] = v.Values[i]
	}
	return dense
}

// Validate checks the container invariants: every index in
// [0, Width), strictly ascending, one value per index.
func (v Vector) Validate() error {
	if len(v.Indices) != len(v.Values) {
		return fmt.Errorf("sparse vector has %d indices but %d values", len(v.Indices), len(v.Values))
	}
	prev := -1
	for _, idx := range v.Indices {
		if idx < 0 || idx >= v.Width {
			return fmt.Errorf("sparse index %d outside [0, %d)", idx, v.Width)
		}
		if idx <= prev {
			return fmt.Errorf("sparse index %d not ascending after %d", idx, prev)
		}
		prev = idx
	}
	return nil
}

// Collector accumulates (index, value) pairs in any order and emits a
// sorted Vector. Setting the same index twice overwrites the value, so
// presence encoding stays idempotent.
type Collector struct {
	entries map[int]float64
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{entries: make(map[int]float64)}
}

// Set records a value for an index, replacing any previous value.
func (c *Collector) Set(idx int, val float64) {
	c.entries[idx] = val
}

// Len returns the number of distinct indices recorded.
func (c *Collector) Len() int { return len(c.entries) }

// Vector emits the collected pairs sorted ascending by index.
func (c *Collector) Vector(weight float64, width int) Vector {
	indices := make([]int, 0, len(c.entries))
	for idx := range c.entries {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	values := make([]float64, len(indices))
	for i, idx := range indices {
		values[i] = c.entries[idx]
	}
	return Vector{Weight: weight, Indices: indices, Values: values, Width: width}
}
