// Package filter defines the two-phase batch protocol every dataset
// filter implements, plus the output queue filters push converted
// records onto.
//
// The protocol: BeginBatch declares the shape of incoming records,
// Accept submits one record (true means converted output is already
// pending, false means the record was buffered for a first pass), and
// EndOfBatch flushes whatever the filter was holding back. Converted
// output is pulled one record at a time from the concrete filter's
// typed Pop method.
package filter

import "github.com/textgrain/textgrain/pkg/textgrain/dataset"

// Processor is the protocol shared by all filters. The output type
// differs per filter (instances, sparse vectors), so retrieval lives
// on the concrete type.
type Processor interface {
	// BeginBatch declares the incoming schema and resets batch state.
	BeginBatch(s *dataset.Schema) error

	// Accept submits one instance. It returns true when converted
	// output can be pulled immediately, false when the instance was
	// buffered for a later pass.
	Accept(in dataset.Instance) (bool, error)

	// EndOfBatch marks the batch complete, running any deferred pass
	// and flushing buffered instances. It returns whether output is
	// pending.
	EndOfBatch() (bool, error)

	// OutputSchema returns the schema of converted output, or nil if
	// it has not been determined yet.
	OutputSchema() *dataset.Schema

	// Pending returns the number of converted records awaiting Pop.
	Pending() int
}

// Queue is the FIFO buffer filters push converted output onto.
type Queue[T any] struct {
	items []T
}

// Push appends an item.
func (q *Queue[T]) Push(item T) {
	q.items = append(q.items, item)
}

// Pop removes and returns the oldest item; ok is false when empty.
func (q *Queue[T]) Pop() (item T, ok bool) {
	if len(q.items) == 0 {
		return item, false
	}
	item = q.items[0]
	q.items = q.items[1:]
	return item, true
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int { return len(q.items) }

// Reset discards all queued items.
func (q *Queue[T]) Reset() { q.items = nil }
