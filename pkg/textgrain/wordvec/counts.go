package wordvec

import "sort"

// countTable accumulates word occurrence counts for one label
// partition. Tables are transient: they exist only while the
// dictionary is being determined and are discarded afterwards.
type countTable map[string]int

// add counts one occurrence of a word.
func (t countTable) add(word string) {
	t[word]++
}

// sortedWords returns the distinct words in lexicographic order.
// Iteration order is an observable contract (it decides which index a
// word receives), so it is never left to map ordering.
func (t countTable) sortedWords() []string {
	words := make([]string, 0, len(t))
	for w := range t {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// pruneThreshold returns the minimum count a word needs to survive
// into the dictionary when roughly k words should be kept. With at
// most k distinct words everything survives (threshold 1); otherwise
// the threshold is the count at ascending rank size-k (ranks starting
// at 1), floored at 1. Words tied with the threshold survive too, so
// the retained set can exceed k; the overshoot is part of the
// contract, never "fixed" to a strict top-k cut.
func (t countTable) pruneThreshold(k int) int {
	if len(t) <= k {
		return 1
	}
	counts := make([]int, 0, len(t))
	for _, c := range t {
		counts = append(counts, c)
	}
	sort.Ints(counts)

	threshold := counts[len(counts)-k-1]
	if threshold < 1 {
		threshold = 1
	}
	return threshold
}
