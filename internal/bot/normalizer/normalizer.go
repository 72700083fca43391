package normalizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/central-university-dev/go-wanbit/internal/domain/models"
)

// ArgumentDelimiters - символы, по которым режутся аргументы, если хотя бы один из них встречается в тексте.
var ArgumentDelimiters = []string{`\`, "|", "/"}

type Normalizer struct {
	prefix string
}

func New(prefix string) *Normalizer {
	return &Normalizer{prefix: prefix}
}

func (n *Normalizer) Prefix() string {
	return n.prefix
}

// Normalize превращает входящее событие в Invocation. Второй результат false означает "не команда":
// нет текста, сообщение от самого бота, текст не начинается с префикса или токен пуст после нормализации.
func (n *Normalizer) Normalize(msg *models.InboundMessage) (*models.Invocation, bool) {
	if msg == nil || msg.FromMe {
		return nil, false
	}

	text := msg.Text()
	if text == "" || n.prefix == "" || !strings.HasPrefix(text, n.prefix) {
		return nil, false
	}

	head, rest := splitHead(text)

	token := FormatCommand(strings.TrimPrefix(head, n.prefix))
	if token == "" {
		return nil, false
	}

	inv := &models.Invocation{
		RawText:      text,
		Prefix:       n.prefix,
		CommandToken: token,
		Args:         ParseArgs(rest),
		FullArgs:     rest,
		SenderID:     msg.SenderID(),
		ChatID:       msg.ChatID,
		IsGroup:      msg.IsGroup,
		MentionedIDs: msg.MentionedIDs,
		PushName:     msg.PushName,
		Media:        msg.Media,
		Message:      msg,
	}

	if msg.Quoted != nil {
		inv.IsReply = true
		inv.ReplyTargetID = msg.Quoted.AuthorID

		if inv.Media == models.MediaNone {
			inv.Media = msg.Quoted.Media
		}
	}

	return inv, true
}

func splitHead(text string) (head, rest string) {
	idx := strings.IndexFunc(text, unicode.IsSpace)
	if idx < 0 {
		return text, ""
	}

	return text[:idx], strings.TrimSpace(text[idx:])
}

// ParseArgs режет текст аргументов по разделителям, если они есть, иначе по пробелам.
func ParseArgs(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}

	if strings.ContainsAny(raw, strings.Join(ArgumentDelimiters, "")) {
		return SplitByCharacters(raw, ArgumentDelimiters)
	}

	return strings.Fields(raw)
}

// SplitByCharacters режет строку по любому из символов, обрезает пробелы и выбрасывает пустые куски.
func SplitByCharacters(s string, characters []string) []string {
	set := strings.Join(characters, "")

	pieces := strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(set, r)
	})

	result := make([]string, 0, len(pieces))

	for _, piece := range pieces {
		if trimmed := strings.TrimSpace(piece); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// FormatCommand: нижний регистр, без диакритики, только латинские буквы и цифры.
func FormatCommand(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return ""
	}

	stripper := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	stripped, _, err := transform.String(stripper, text)
	if err != nil {
		stripped = text
	}

	var b strings.Builder

	b.Grow(len(stripped))

	for _, r := range stripped {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}

	return b.String()
}
