package models

import "time"

type MediaKind string

const (
	MediaNone     MediaKind = ""
	MediaImage    MediaKind = "image"
	MediaVideo    MediaKind = "video"
	MediaSticker  MediaKind = "sticker"
	MediaDocument MediaKind = "document"
)

// InboundMessage - транспортно-независимое входящее событие.
// Адаптер транспорта заполняет поля текста в том виде, в каком они пришли в событии.
type InboundMessage struct {
	ID          string
	ChatID      string
	Participant string
	IsGroup     bool
	FromMe      bool
	PushName    string
	Timestamp   time.Time

	Conversation string
	ExtendedText string
	ImageCaption string
	VideoCaption string

	Media        MediaKind
	MentionedIDs []string
	Quoted       *QuotedMessage

	// Raw хранит исходное событие транспорта для скачивания медиа и ответов с цитатой.
	Raw any
}

type QuotedMessage struct {
	ID       string
	AuthorID string
	Text     string
	Media    MediaKind
	Raw      any
}

// Text возвращает первый непустой текст в порядке: сообщение, расширенный текст, подпись к фото, подпись к видео.
func (m *InboundMessage) Text() string {
	for _, text := range []string{m.Conversation, m.ExtendedText, m.ImageCaption, m.VideoCaption} {
		if text != "" {
			return text
		}
	}

	return ""
}

// SenderID - участник для групп, сам чат для личных сообщений.
func (m *InboundMessage) SenderID() string {
	if m.IsGroup && m.Participant != "" {
		return m.Participant
	}

	return m.ChatID
}
