package keyword

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenizeText(t *testing.T) {
	assert := assert.New(t)

	fixtures := []struct {
		text string
		out  []string
	}{
		{text: "", out: []string{}},
		{text: "Привет, мир!", out: []string{"привет", "мир"}},
		{text: "ПРИВЕТ---мир", out: []string{"привет", "мир"}},
		{text: "Hello, мир!", out: []string{"hello", "мир"}},
		{text: "ёж", out: []string{"еж"}},
		{text: "сло🙂во", out: []string{"сло", "во"}},
	}

	for _, fix := range fixtures {
		assert.Equal(fix.out, TokenizeText(fix.text))
	}
}

func TestNormalizeToken(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("бля", NormalizeToken("БЛЯ"))
	assert.Equal("еж", NormalizeToken("Ёж"))
	assert.Equal("слово", NormalizeToken(" слово "))
}
