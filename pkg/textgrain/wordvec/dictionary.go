package wordvec

// Dictionary is the frozen mapping from word to output feature index.
// Indices are contiguous from 0 in assignment order. Once built the
// dictionary is never mutated; every encoder invocation reads it
// concurrently without locking.
type Dictionary struct {
	index map[string]int
	words []string // index order
}

// NewDictionary reconstructs a dictionary from words in index order,
// e.g. when loading a persisted model. Duplicate words keep their
// first index.
func NewDictionary(words []string) *Dictionary {
	d := &Dictionary{index: make(map[string]int, len(words))}
	for _, w := range words {
		d.add(w)
	}
	return d
}

func newDictionary() *Dictionary {
	return &Dictionary{index: make(map[string]int)}
}

// add assigns the next unused index to a word not already present.
func (d *Dictionary) add(word string) {
	if _, ok := d.index[word]; ok {
		return
	}
	d.index[word] = len(d.words)
	d.words = append(d.words, word)
}

// Lookup returns the index assigned to a word.
func (d *Dictionary) Lookup(word string) (int, bool) {
	idx, ok := d.index[word]
	return idx, ok
}

// Size returns the number of dictionary entries.
func (d *Dictionary) Size() int { return len(d.words) }

// Words returns a copy of the words in index order.
func (d *Dictionary) Words() []string {
	out := make([]string, len(d.words))
	copy(out, d.words)
	return out
}
