package models

// Invocation - разобранная команда, живет в пределах обработки одного сообщения.
type Invocation struct {
	RawText      string
	Prefix       string
	CommandToken string
	Args         []string
	FullArgs     string

	SenderID      string
	ChatID        string
	IsGroup       bool
	IsReply       bool
	ReplyTargetID string
	MentionedIDs  []string
	PushName      string
	Media         MediaKind

	Message *InboundMessage
}

// Target возвращает автора процитированного сообщения, а при его отсутствии первого упомянутого.
func (i *Invocation) Target() string {
	if i.ReplyTargetID != "" {
		return i.ReplyTargetID
	}

	if len(i.MentionedIDs) > 0 {
		return i.MentionedIDs[0]
	}

	return ""
}
