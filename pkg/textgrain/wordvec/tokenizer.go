package wordvec

import "strings"

// Delimiters is the fixed character set that separates words. Every
// maximal run of non-delimiter characters is one word; words are
// compared verbatim, with no case folding or stemming.
const Delimiters = " \n\t.,:'\"()?!"

func isDelimiter(r rune) bool {
	return strings.ContainsRune(Delimiters, r)
}

// Tokenize splits text into words on the fixed delimiter set. Empty
// runs are skipped, so consecutive delimiters produce no empty words.
func Tokenize(text string) []string {
	return strings.FieldsFunc(text, isDelimiter)
}
