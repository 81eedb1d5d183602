package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKinds(t *testing.T) {
	assert := assert.New(t)

	fixtures := []struct {
		text string
		kind Kind
	}{
		{text: "", kind: KindNone},
		{text: "обычное сообщение", kind: KindNone},
		{text: "Спринг стоп", kind: KindStop},
		{text: "СПРИНГ СТОП", kind: KindStop},
		{text: "эй, спринг стоп", kind: KindStop},
		{text: "спринг стоп все", kind: KindStopAll},
		{text: "Спринг стоп ВСЕ", kind: KindStopAll},
		// "все" must be a complete qualifier word
		{text: "спринг стоп всегда", kind: KindStop},
		// keyword must not be glued inside a longer word
		{text: "спринг стопор", kind: KindNone},
		{text: "васпринг стоп", kind: KindNone},
		{text: "Спринг список", kind: KindList},
		{text: "спринг список мои", kind: KindListMine},
		{text: "спринг топ", kind: KindTop},
		{text: "спринг топливо", kind: KindNone},
	}

	for _, fix := range fixtures {
		assert.Equal(fix.kind, Parse(fix.text).Kind, "text: %q", fix.text)
	}
}

func TestParsePayload(t *testing.T) {
	assert := assert.New(t)

	// payload is the lines after the command line
	cmd := Parse("Спринг стоп @vasya\nЯ занят, отвечу позже")
	assert.Equal(KindStop, cmd.Kind)
	assert.Equal("Я занят, отвечу позже", cmd.Payload)

	// same-line remainder alone is not payload
	cmd = Parse("Спринг стоп @vasya")
	assert.Equal(KindStop, cmd.Kind)
	assert.Equal("", cmd.Payload)

	// keyword at end of line, payload on the next
	cmd = Parse("Спринг стоп\nнет времени")
	assert.Equal("нет времени", cmd.Payload)

	// multi-line payloads survive up to cleaning
	cmd = Parse("Спринг стоп все\nстрока раз\nстрока два")
	assert.Equal(KindStopAll, cmd.Kind)
	assert.Equal("строка раз\nстрока два", cmd.Payload)
}

func TestCleanPayload(t *testing.T) {
	assert := assert.New(t)

	fixtures := []struct {
		payload   string
		usernames []string
		out       string
	}{
		{payload: "", out: ""},
		{payload: "   \n  ", out: ""},
		{payload: "- не пишите мне", out: "не пишите мне"},
		{payload: ": занят", out: "занят"},
		{payload: "— позже", out: "позже"},
		{payload: "текст  с   пробелами\nи переносом", out: "текст с пробелами и переносом"},
		{payload: "@vasya не пишите", usernames: []string{"vasya"}, out: "не пишите"},
		{payload: "не пишите @VASYA больше", usernames: []string{"vasya"}, out: "не пишите больше"},
		// stripping the mention may leave nothing
		{payload: "@vasya", usernames: []string{"vasya"}, out: ""},
	}

	for _, fix := range fixtures {
		assert.Equal(fix.out, CleanPayload(fix.payload, fix.usernames), "payload: %q", fix.payload)
	}
}
