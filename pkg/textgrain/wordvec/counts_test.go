package wordvec

import (
	"reflect"
	"testing"
)

func TestCountTableAdd(t *testing.T) {
	table := make(countTable)
	table.add("cat")
	table.add("dog")
	table.add("cat")

	if table["cat"] != 2 {
		t.Errorf("cat count = %d, want 2", table["cat"])
	}
	if table["dog"] != 1 {
		t.Errorf("dog count = %d, want 1", table["dog"])
	}
}

func TestSortedWordsIsLexicographic(t *testing.T) {
	table := countTable{"dog": 2, "bird": 1, "cat": 2}
	got := table.sortedWords()
	want := []string{"bird", "cat", "dog"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sortedWords = %v, want %v", got, want)
	}
}

func TestPruneThresholdSmallVocabulary(t *testing.T) {
	table := countTable{"a": 5, "b": 3}
	if got := table.pruneThreshold(10); got != 1 {
		t.Errorf("threshold with vocab smaller than k = %d, want 1", got)
	}
	if got := table.pruneThreshold(2); got != 1 {
		t.Errorf("threshold with vocab equal to k = %d, want 1", got)
	}
}

func TestPruneThresholdRank(t *testing.T) {
	// Ascending counts [1 2 3], k=1: the count at rank size-k is 2.
	table := countTable{"a": 1, "b": 2, "c": 3}
	if got := table.pruneThreshold(1); got != 2 {
		t.Errorf("threshold = %d, want 2", got)
	}
}

func TestPruneThresholdTie(t *testing.T) {
	// The documented scenario: counts cat=2 dog=2 bird=1, k=2.
	// Ascending [1 2 2], rank size-k picks 1, so everything survives.
	table := countTable{"cat": 2, "dog": 2, "bird": 1}
	if got := table.pruneThreshold(2); got != 1 {
		t.Errorf("threshold = %d, want 1", got)
	}
}
