package lsa

import (
	"strings"
	"unicode"
)

// minTokenRunes is the shortest token kept by the tokeniser.
const minTokenRunes = 2

// Tokenize lowercases text, splits it into runs of letters, digits and
// underscores, and drops tokens shorter than two characters and English
// stop words.
func Tokenize(text string) []string {
	var (
		tokens []string
		cur    []rune
	)
	flush := func() {
		if len(cur) >= minTokenRunes {
			tok := string(cur)
			if !isStopWord(tok) {
				tokens = append(tokens, tok)
			}
		}
		cur = cur[:0]
	}

	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			cur = append(cur, r)
			continue
		}
		flush()
	}
	flush()
	return tokens
}

// Terms returns the unigrams of text followed by the bigrams of adjacent
// surviving tokens, joined by a single space.
func Terms(text string) []string {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	terms := make([]string, 0, 2*len(tokens)-1)
	terms = append(terms, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		terms = append(terms, tokens[i]+" "+tokens[i+1])
	}
	return terms
}
