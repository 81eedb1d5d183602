package keyword

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Lexicon is a closed vocabulary of flagged tokens, plus a lower-cased
// concatenation used for the substring fast-path.
type Lexicon struct {
	tokens map[string]bool
	// raw (normalized) entries, retained for the containment pre-check
	entries []string
}

func NewLexicon(vocab []string) *Lexicon {
	lex := &Lexicon{
		tokens: make(map[string]bool, len(vocab)),
	}
	for _, w := range vocab {
		tok := NormalizeToken(w)
		if tok == "" || lex.tokens[tok] {
			continue
		}
		lex.tokens[tok] = true
		lex.entries = append(lex.entries, tok)
	}
	return lex
}

// Loads a JSON file containing a flat array of vocabulary entries.
func NewLexiconFromFileJSON(p string) (*Lexicon, error) {
	raw, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	var vocab []string
	if err := json.Unmarshal(raw, &vocab); err != nil {
		return nil, fmt.Errorf("parsing vocabulary file: %w", err)
	}
	return NewLexicon(vocab), nil
}

func (lex *Lexicon) Size() int {
	return len(lex.entries)
}

// Scan counts vocabulary hits in the text: token-exact matches only, so
// entries embedded as substrings of innocent words don't count. A message
// with three flagged tokens scores 3, not 1.
//
// The substring containment check up front only gates whether the text is
// worth tokenizing at all; the authoritative count always comes from the
// token pass. The gate input gets the same fold as the stored entries, so
// it can never reject a text the token pass would count.
func (lex *Lexicon) Scan(text string) int {
	if text == "" || len(lex.tokens) == 0 {
		return 0
	}
	if !lex.containsAny(FoldText(strings.ToLower(text))) {
		return 0
	}
	hits := 0
	for _, tok := range TokenizeText(text) {
		if lex.tokens[tok] {
			hits++
		}
	}
	return hits
}

func (lex *Lexicon) containsAny(lowered string) bool {
	for _, entry := range lex.entries {
		if strings.Contains(lowered, entry) {
			return true
		}
	}
	return false
}
