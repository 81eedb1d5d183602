package keyword

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLexiconScan(t *testing.T) {
	assert := assert.New(t)

	lex := NewLexicon([]string{"бля", "хуй"})

	fixtures := []struct {
		text string
		hits int
	}{
		{text: "", hits: 0},
		{text: "привет мир", hits: 0},
		{text: "привет бля мир хуй", hits: 2},
		{text: "БЛЯ!", hits: 1},
		{text: "бля бля бля", hits: 3},
		// embedded as substring of an innocent token: the fast-path fires
		// but the token-exact count stays zero
		{text: "хуйня", hits: 0},
	}

	for _, fix := range fixtures {
		assert.Equal(fix.hits, lex.Scan(fix.text), "text: %q", fix.text)
	}
}

func TestLexiconNormalization(t *testing.T) {
	assert := assert.New(t)

	// vocabulary entries get the same folding as message tokens
	lex := NewLexicon([]string{"Ёж"})
	assert.Equal(1, lex.Size())
	assert.Equal(1, lex.Scan("еж пробежал"))

	// and the message side folds before the containment gate: a "ё"
	// spelling must not slip past an "е" vocabulary entry
	lex = NewLexicon([]string{"заебали"})
	assert.Equal(1, lex.Scan("вы меня заёбали"))
	assert.Equal(1, DefaultLexicon().Scan("заёбали вы все"))
}

func TestDefaultLexicon(t *testing.T) {
	assert := assert.New(t)

	lex := DefaultLexicon()
	assert.Greater(lex.Size(), 50)
	assert.Equal(2, lex.Scan("привет бля мир хуй"))
	assert.Equal(0, lex.Scan("обычное сообщение без лишнего"))
}
