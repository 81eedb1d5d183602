package keyword

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonTokenChars = regexp.MustCompile(`[^\pL\pN\s]+`)

// Splits free-form message text in to tokens: lower-case, punctuation
// stripped, unicode normalization with combining-mark folding.
//
// The intent is fast exact matching against a closed vocabulary, so the
// tokenizer has to agree with however the vocabulary itself was normalized
// (see NormalizeToken). Cyrillic "ё" folds to "е" via the mark strip.
func TokenizeText(text string) []string {
	split := strings.ToLower(nonTokenChars.ReplaceAllString(text, " "))
	return strings.Fields(FoldText(split))
}

// FoldText applies the tokenizer's unicode folding (NFD, strip combining
// marks, NFC) without splitting. Any text compared against normalized
// vocabulary entries has to pass through here first.
func FoldText(text string) string {
	// the transform chain carries state, so it has to be constructed per call
	normFunc := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(normFunc, text)
	if err != nil {
		slog.Warn("unicode normalization error", "err", err)
		return text
	}
	return folded
}

// Applies the same lower-casing and unicode folding as TokenizeText to a
// single vocabulary entry.
func NormalizeToken(orig string) string {
	toks := TokenizeText(orig)
	if len(toks) != 1 {
		return strings.ToLower(strings.TrimSpace(orig))
	}
	return toks[0]
}
