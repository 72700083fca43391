package normalizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/central-university-dev/go-wanbit/internal/bot/normalizer"
	"github.com/central-university-dev/go-wanbit/internal/domain/models"
)

const (
	testGroupID  = "120363000000000000@g.us"
	testSenderID = "5511988887777@s.whatsapp.net"
)

func TestFormatCommand(t *testing.T) {
	cases := map[string]string{
		"Ping!":     "ping",
		"SUGESTÃO":  "sugestao",
		" Menu ":    "menu",
		"set-date":  "setdate",
		"":          "",
		"!!!":       "",
		"Roleta123": "roleta123",
		"ção":       "cao",
	}

	for input, expected := range cases {
		assert.Equal(t, expected, normalizer.FormatCommand(input), "input %q", input)
	}
}

func TestSplitByCharacters(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, normalizer.SplitByCharacters("a|b|c", []string{"|"}))
	assert.Equal(t, []string{"a b c"}, normalizer.SplitByCharacters("a b c", []string{"|"}))
	assert.Equal(t, []string{"2025-01-01", "Group One"},
		normalizer.SplitByCharacters(" 2025-01-01 | Group One ", normalizer.ArgumentDelimiters))
	assert.Equal(t, []string{"x", "y"}, normalizer.SplitByCharacters(`x\\ /y|`, normalizer.ArgumentDelimiters))
	assert.Empty(t, normalizer.SplitByCharacters("|||", []string{"|"}))
}

func TestParseArgs(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, normalizer.ParseArgs("a   b c"))
	assert.Equal(t, []string{"2025-01-01", "Group One"}, normalizer.ParseArgs("2025-01-01 / Group One"))
	assert.Equal(t, []string{`2025-01-01`, `"Group`, `One"`}, normalizer.ParseArgs(`2025-01-01 "Group One"`))
	assert.Empty(t, normalizer.ParseArgs("   "))
}

func TestNormalize_GroupCommandWithReply(t *testing.T) {
	n := normalizer.New("/")

	msg := &models.InboundMessage{
		ChatID:       testGroupID,
		Participant:  testSenderID,
		IsGroup:      true,
		ExtendedText: "/Roubar agora",
		PushName:     "Ana",
		Quoted: &models.QuotedMessage{
			AuthorID: "5511911112222@s.whatsapp.net",
			Media:    models.MediaImage,
		},
	}

	inv, ok := n.Normalize(msg)
	require.True(t, ok)

	assert.Equal(t, "roubar", inv.CommandToken)
	assert.Equal(t, "/", inv.Prefix)
	assert.Equal(t, []string{"agora"}, inv.Args)
	assert.Equal(t, "agora", inv.FullArgs)
	assert.Equal(t, testSenderID, inv.SenderID)
	assert.Equal(t, testGroupID, inv.ChatID)
	assert.True(t, inv.IsGroup)
	assert.True(t, inv.IsReply)
	assert.Equal(t, "5511911112222@s.whatsapp.net", inv.ReplyTargetID)
	assert.Equal(t, models.MediaImage, inv.Media)
	assert.Same(t, msg, inv.Message)
}

func TestNormalize_DirectMessageUsesChatAsSender(t *testing.T) {
	n := normalizer.New("/")

	inv, ok := n.Normalize(&models.InboundMessage{
		ChatID:       testSenderID,
		Conversation: "/ping",
	})
	require.True(t, ok)

	assert.Equal(t, testSenderID, inv.SenderID)
	assert.False(t, inv.IsGroup)
	assert.False(t, inv.IsReply)
	assert.Empty(t, inv.Args)
}

func TestNormalize_CaptionOfImage(t *testing.T) {
	n := normalizer.New("/")

	inv, ok := n.Normalize(&models.InboundMessage{
		ChatID:       testSenderID,
		ImageCaption: "/s",
		Media:        models.MediaImage,
	})
	require.True(t, ok)

	assert.Equal(t, "s", inv.CommandToken)
	assert.Equal(t, models.MediaImage, inv.Media)
}

func TestNormalize_NotACommand(t *testing.T) {
	n := normalizer.New("/")

	cases := map[string]*models.InboundMessage{
		"nil":            nil,
		"no text":        {ChatID: testSenderID, Media: models.MediaImage},
		"wrong prefix":   {ChatID: testSenderID, Conversation: "!ping"},
		"plain text":     {ChatID: testSenderID, Conversation: "hello /ping"},
		"from bot":       {ChatID: testSenderID, Conversation: "/ping", FromMe: true},
		"empty token":    {ChatID: testSenderID, Conversation: "/ ping"},
		"only specials":  {ChatID: testSenderID, Conversation: "/!!!"},
		"leading spaces": {ChatID: testSenderID, Conversation: "  /ping"},
	}

	for name, msg := range cases {
		t.Run(name, func(t *testing.T) {
			inv, ok := n.Normalize(msg)
			assert.False(t, ok)
			assert.Nil(t, inv)
		})
	}
}

func TestNormalize_CustomPrefix(t *testing.T) {
	n := normalizer.New("!")

	_, ok := n.Normalize(&models.InboundMessage{ChatID: testSenderID, Conversation: "/ping"})
	assert.False(t, ok)

	inv, ok := n.Normalize(&models.InboundMessage{ChatID: testSenderID, Conversation: "!Ping!"})
	require.True(t, ok)
	assert.Equal(t, "ping", inv.CommandToken)
}
