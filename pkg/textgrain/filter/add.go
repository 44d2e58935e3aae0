package filter

import (
	"fmt"

	"github.com/textgrain/textgrain/pkg/textgrain/dataset"
	"github.com/textgrain/textgrain/pkg/textgrain/internalerr"
)

// AddAttribute is a streaming filter that inserts one new attribute
// into the dataset. The new attribute holds a missing value in every
// instance. It is numeric unless labels are supplied, in which case it
// is nominal.
type AddAttribute struct {
	// Name of the new attribute.
	Name string
	// Insert is the position of the new attribute; -1 appends it after
	// the last existing attribute.
	Insert int
	// Labels, when non-empty, make the new attribute nominal.
	Labels []string

	in       *dataset.Schema
	out      *dataset.Schema
	insertAt int
	q        Queue[dataset.Instance]
}

// NewAddAttribute creates a filter that appends a numeric attribute
// with the given name.
func NewAddAttribute(name string) *AddAttribute {
	return &AddAttribute{Name: name, Insert: -1}
}

// BeginBatch derives the output schema by inserting the new attribute.
func (f *AddAttribute) BeginBatch(s *dataset.Schema) error {
	if s == nil {
		return internalerr.ErrNoSchema
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("add attribute: %w", err)
	}
	pos := f.Insert
	if pos < 0 || pos > s.NumAttrs() {
		pos = s.NumAttrs()
	}

	attr := dataset.Attribute{Name: f.Name, Type: dataset.Numeric}
	if len(f.Labels) > 0 {
		labels := make([]string, len(f.Labels))
		copy(labels, f.Labels)
		attr = dataset.Attribute{Name: f.Name, Type: dataset.Nominal, Labels: labels}
	}

	out := s.Clone()
	out.Attrs = append(out.Attrs[:pos], append([]dataset.Attribute{attr}, out.Attrs[pos:]...)...)
	if out.LabelIndex >= pos {
		out.LabelIndex++
	}

	f.in = s
	f.out = out
	f.insertAt = pos
	f.q.Reset()
	return nil
}

// Accept converts the instance immediately; this filter never buffers.
func (f *AddAttribute) Accept(in dataset.Instance) (bool, error) {
	if f.in == nil {
		return false, internalerr.ErrNoSchema
	}
	values := make([]dataset.Value, 0, len(in.Values)+1)
	values = append(values, in.Values[:f.insertAt]...)
	values = append(values, dataset.Missing())
	values = append(values, in.Values[f.insertAt:]...)
	f.q.Push(dataset.Instance{Weight: in.Weight, Values: values})
	return true, nil
}

// EndOfBatch reports whether converted instances are still pending.
func (f *AddAttribute) EndOfBatch() (bool, error) {
	if f.in == nil {
		return false, internalerr.ErrNoSchema
	}
	return f.q.Len() > 0, nil
}

// OutputSchema returns the derived schema.
func (f *AddAttribute) OutputSchema() *dataset.Schema { return f.out }

// Pending returns the number of converted instances awaiting Pop.
func (f *AddAttribute) Pending() int { return f.q.Len() }

// Pop retrieves the next converted instance.
func (f *AddAttribute) Pop() (dataset.Instance, bool) { return f.q.Pop() }
