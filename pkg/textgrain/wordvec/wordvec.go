// Package wordvec converts datasets with free-text attributes into
// sparse word-presence vectors. The filter runs in two phases: the
// first batch is buffered in full while a pruned word dictionary is
// determined (per label value when the schema designates a label
// attribute), then every instance, buffered or later, is re-encoded
// against the frozen dictionary.
package wordvec

import (
	"fmt"

	"github.com/textgrain/textgrain/pkg/textgrain/dataset"
	"github.com/textgrain/textgrain/pkg/textgrain/filter"
	"github.com/textgrain/textgrain/pkg/textgrain/internalerr"
	"github.com/textgrain/textgrain/pkg/textgrain/sparse"
)

// DefaultWordsToKeep is the target dictionary size (per label value
// when a label attribute is designated).
const DefaultWordsToKeep = 1000

// state tracks the filter lifecycle. The transition is one-way:
// a frozen dictionary is never rebuilt or extended.
type state int

const (
	stateUnset     state = iota // no input schema declared
	stateBuffering              // schema declared, corpus accumulating
	stateFrozen                 // dictionary built, encoding only
)

// Filter is the string-to-word-vector batch filter.
type Filter struct {
	// WordsToKeep is the target number of dictionary words, applied
	// per label value when the input schema designates a label
	// attribute. Ties at the pruning threshold may keep more.
	WordsToKeep int

	state  state
	in     *dataset.Schema
	out    *dataset.Schema
	corpus *dataset.Dataset
	dict   *Dictionary
	q      filter.Queue[sparse.Vector]
}

// New creates a filter targeting DefaultWordsToKeep words.
func New() *Filter {
	return &Filter{WordsToKeep: DefaultWordsToKeep}
}

// NewWithWordsToKeep creates a filter targeting k dictionary words.
func NewWithWordsToKeep(k int) *Filter {
	return &Filter{WordsToKeep: k}
}

// BeginBatch declares the shape of incoming instances and resets the
// buffering state. It must be called exactly once per filter
// lifecycle: once the dictionary is frozen, later batches reuse it and
// re-declaring the schema is rejected.
func (f *Filter) BeginBatch(s *dataset.Schema) error {
	if s == nil {
		return fmt.Errorf("word vector: %w", internalerr.ErrNoSchema)
	}
	if f.state == stateFrozen {
		return fmt.Errorf("word vector: dictionary already frozen: %w", internalerr.ErrInvalidConfig)
	}
	if f.WordsToKeep <= 0 {
		return fmt.Errorf("word vector: words to keep %d: %w", f.WordsToKeep, internalerr.ErrInvalidConfig)
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("word vector: %w", err)
	}

	f.in = s
	f.out = nil
	f.dict = nil
	f.corpus = dataset.New(s)
	f.q.Reset()
	f.state = stateBuffering
	return nil
}

// Accept submits one instance. Before the dictionary is frozen the
// instance is buffered and false is returned; afterwards it is encoded
// immediately and the sparse vector can be pulled with Pop.
func (f *Filter) Accept(in dataset.Instance) (bool, error) {
	if f.state == stateUnset {
		return false, fmt.Errorf("word vector: %w", internalerr.ErrNoSchema)
	}
	if len(in.Values) != f.in.NumAttrs() {
		return false, fmt.Errorf("word vector: instance has %d values, schema has %d attributes: %w",
			len(in.Values), f.in.NumAttrs(), internalerr.ErrValueType)
	}
	if f.state == stateFrozen {
		vec, err := f.encode(in)
		if err != nil {
			return false, err
		}
		f.q.Push(vec)
		return true, nil
	}
	f.corpus.Add(in)
	return false, nil
}

// EndOfBatch completes the current batch. On the first batch it builds
// the dictionary and drains every buffered instance through the
// encoder; on later batches it only reports whether output is pending.
func (f *Filter) EndOfBatch() (bool, error) {
	switch f.state {
	case stateUnset:
		return false, fmt.Errorf("word vector: %w", internalerr.ErrNoSchema)
	case stateBuffering:
		if err := f.buildDictionary(); err != nil {
			return false, err
		}
		f.state = stateFrozen
		for _, in := range f.corpus.Instances {
			vec, err := f.encode(in)
			if err != nil {
				return false, err
			}
			f.q.Push(vec)
		}
		f.corpus = nil // corpus only backs the dictionary pass
	}
	return f.q.Len() > 0, nil
}

// OutputSchema returns the derived schema: one numeric attribute per
// dictionary word in index order, followed by the original non-string
// attributes. It is nil until the dictionary is frozen.
func (f *Filter) OutputSchema() *dataset.Schema { return f.out }

// Pending returns the number of encoded vectors awaiting Pop.
func (f *Filter) Pending() int { return f.q.Len() }

// Pop retrieves the next encoded vector.
func (f *Filter) Pop() (sparse.Vector, bool) { return f.q.Pop() }

// Dictionary returns the frozen dictionary, or nil before the first
// batch completes.
func (f *Filter) Dictionary() *Dictionary { return f.dict }

// buildDictionary runs the first pass over the buffered corpus:
// per-label counting, rank-threshold pruning, and the merge that
// assigns indices. Partitions are visited in label-value order and
// words lexicographically within a partition; a word surviving in
// several partitions keeps the index from its first sight.
func (f *Filter) buildDictionary() error {
	s := f.in
	numValues := s.NumLabelValues()

	tables := make([]countTable, numValues)
	for i := range tables {
		tables[i] = make(countTable)
	}

	for _, in := range f.corpus.Instances {
		part := in.LabelOrdinal(s)
		if part < 0 || part >= numValues {
			return fmt.Errorf("word vector: label ordinal %d outside %d label values: %w",
				part, numValues, internalerr.ErrValueType)
		}
		table := tables[part]
		for j, attr := range s.Attrs {
			if attr.Type != dataset.String {
				continue
			}
			v := in.Values[j]
			if v.IsMissing() {
				continue
			}
			if !v.IsText() {
				return fmt.Errorf("word vector: string attribute %q holds a non-text value: %w",
					attr.Name, internalerr.ErrValueType)
			}
			for _, word := range Tokenize(v.Text()) {
				table.add(word)
			}
		}
	}

	thresholds := make([]int, numValues)
	for i, table := range tables {
		thresholds[i] = table.pruneThreshold(f.WordsToKeep)
	}

	dict := newDictionary()
	for i, table := range tables {
		for _, word := range table.sortedWords() {
			if table[word] >= thresholds[i] {
				dict.add(word)
			}
		}
	}

	f.dict = dict
	f.out = deriveOutput(f.in, dict)
	return nil
}

// deriveOutput builds the frozen output shape: dictionary words first,
// then every non-string input attribute in original order, with the
// label attribute's new position recorded.
func deriveOutput(in *dataset.Schema, dict *Dictionary) *dataset.Schema {
	attrs := make([]dataset.Attribute, 0, dict.Size())
	for _, word := range dict.words {
		attrs = append(attrs, dataset.Attribute{Name: word, Type: dataset.Numeric})
	}

	labelIndex := -1
	for i, attr := range in.Attrs {
		if attr.Type == dataset.String {
			continue
		}
		if i == in.LabelIndex {
			labelIndex = len(attrs)
		}
		labels := make([]string, len(attr.Labels))
		copy(labels, attr.Labels)
		if len(labels) == 0 {
			labels = nil
		}
		attrs = append(attrs, dataset.Attribute{Name: attr.Name, Type: attr.Type, Labels: labels})
	}

	return &dataset.Schema{Relation: in.Relation, Attrs: attrs, LabelIndex: labelIndex}
}

// encode converts one instance against the frozen dictionary. Words
// absent from the dictionary contribute nothing; repeated occurrences
// of a known word still encode as a single 1.0 (presence, not count).
func (f *Filter) encode(in dataset.Instance) (sparse.Vector, error) {
	if f.state != stateFrozen {
		return sparse.Vector{}, fmt.Errorf("word vector: %w", internalerr.ErrNotFrozen)
	}

	col := sparse.NewCollector()
	for j, attr := range f.in.Attrs {
		if attr.Type != dataset.String {
			continue
		}
		v := in.Values[j]
		if v.IsMissing() {
			continue
		}
		if !v.IsText() {
			return sparse.Vector{}, fmt.Errorf("word vector: string attribute %q holds a non-text value: %w",
				attr.Name, internalerr.ErrValueType)
		}
		for _, word := range Tokenize(v.Text()) {
			if idx, ok := f.dict.Lookup(word); ok {
				col.Set(idx, 1.0)
			}
		}
	}

	// Non-string attributes shift to just past the dictionary block.
	// The shifted index depends only on the attribute's rank, never on
	// which values happen to be zero.
	shift := f.dict.Size()
	rank := 0
	for i, attr := range f.in.Attrs {
		if attr.Type == dataset.String {
			continue
		}
		v := in.Values[i]
		if !v.IsMissing() {
			if !v.IsNum() {
				return sparse.Vector{}, fmt.Errorf("word vector: attribute %q holds a non-numeric value: %w",
					attr.Name, internalerr.ErrValueType)
			}
			if v.Float() != 0 {
				col.Set(shift+rank, v.Float())
			}
		}
		rank++
	}

	return col.Vector(in.Weight, f.out.NumAttrs()), nil
}
