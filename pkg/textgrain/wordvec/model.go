package wordvec

import (
	"fmt"

	"github.com/textgrain/textgrain/pkg/textgrain/dataset"
	"github.com/textgrain/textgrain/pkg/textgrain/internalerr"
)

// Model is the portable form of a frozen filter: the dictionary words
// in index order plus the input schema they were built against. The
// output schema is derived, not stored. A model can be persisted
// through a store and later turned back into an encoding-only filter
// with NewFromModel.
type Model struct {
	WordsToKeep int
	Words       []string
	Input       *dataset.Schema
}

// Model exports the frozen state of the filter. It fails before the
// first batch completes.
func (f *Filter) Model() (Model, error) {
	if f.state != stateFrozen {
		return Model{}, fmt.Errorf("word vector model: %w", internalerr.ErrNotFrozen)
	}
	return Model{
		WordsToKeep: f.WordsToKeep,
		Words:       f.dict.Words(),
		Input:       f.in.Clone(),
	}, nil
}

// NewFromModel reconstructs an encoding-only filter from a persisted
// model. The returned filter is already frozen: Accept encodes
// immediately and BeginBatch is rejected.
func NewFromModel(m Model) (*Filter, error) {
	if m.Input == nil {
		return nil, fmt.Errorf("word vector model missing input schema: %w", internalerr.ErrInvalidConfig)
	}
	if err := m.Input.Validate(); err != nil {
		return nil, fmt.Errorf("word vector model: %w", err)
	}

	k := m.WordsToKeep
	if k <= 0 {
		k = DefaultWordsToKeep
	}
	in := m.Input.Clone()
	dict := NewDictionary(m.Words)
	return &Filter{
		WordsToKeep: k,
		state:       stateFrozen,
		in:          in,
		out:         deriveOutput(in, dict),
		dict:        dict,
	}, nil
}
