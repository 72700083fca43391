package whatsapp

import (
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	"google.golang.org/protobuf/proto"

	"github.com/central-university-dev/go-wanbit/internal/bot/domain"
	"github.com/central-university-dev/go-wanbit/internal/domain/models"
)

// toInbound возвращает nil для статусов и событий без сообщения.
func toInbound(evt *events.Message) *models.InboundMessage {
	if evt == nil || evt.Message == nil {
		return nil
	}

	if evt.Info.Chat.Server == types.BroadcastServer {
		return nil
	}

	m := evt.Message

	msg := &models.InboundMessage{
		ID:           evt.Info.ID,
		ChatID:       evt.Info.Chat.String(),
		Participant:  evt.Info.Sender.String(),
		IsGroup:      evt.Info.IsGroup,
		FromMe:       evt.Info.IsFromMe,
		PushName:     evt.Info.PushName,
		Timestamp:    evt.Info.Timestamp,
		Conversation: m.GetConversation(),
		ExtendedText: m.GetExtendedTextMessage().GetText(),
		ImageCaption: m.GetImageMessage().GetCaption(),
		VideoCaption: m.GetVideoMessage().GetCaption(),
		Media:        mediaKind(m),
		Raw:          evt,
	}

	if info := contextInfo(m); info != nil {
		msg.MentionedIDs = info.GetMentionedJID()

		if info.GetStanzaID() != "" && info.GetQuotedMessage() != nil {
			quoted := info.GetQuotedMessage()

			msg.Quoted = &models.QuotedMessage{
				ID:       info.GetStanzaID(),
				AuthorID: info.GetParticipant(),
				Text:     textOf(quoted),
				Media:    mediaKind(quoted),
				Raw:      quoted,
			}
		}
	}

	return msg
}

func mediaKind(m *waE2E.Message) models.MediaKind {
	switch {
	case m.GetImageMessage() != nil:
		return models.MediaImage
	case m.GetVideoMessage() != nil:
		return models.MediaVideo
	case m.GetStickerMessage() != nil:
		return models.MediaSticker
	case m.GetDocumentMessage() != nil:
		return models.MediaDocument
	default:
		return models.MediaNone
	}
}

func textOf(m *waE2E.Message) string {
	for _, text := range []string{
		m.GetConversation(),
		m.GetExtendedTextMessage().GetText(),
		m.GetImageMessage().GetCaption(),
		m.GetVideoMessage().GetCaption(),
	} {
		if text != "" {
			return text
		}
	}

	return ""
}

func contextInfo(m *waE2E.Message) *waE2E.ContextInfo {
	switch {
	case m.GetExtendedTextMessage().GetContextInfo() != nil:
		return m.GetExtendedTextMessage().GetContextInfo()
	case m.GetImageMessage().GetContextInfo() != nil:
		return m.GetImageMessage().GetContextInfo()
	case m.GetVideoMessage().GetContextInfo() != nil:
		return m.GetVideoMessage().GetContextInfo()
	case m.GetStickerMessage().GetContextInfo() != nil:
		return m.GetStickerMessage().GetContextInfo()
	case m.GetDocumentMessage().GetContextInfo() != nil:
		return m.GetDocumentMessage().GetContextInfo()
	default:
		return nil
	}
}

// buildContextInfo собирает цитату и упоминания исходящего сообщения, nil если нечего прикладывать.
func buildContextInfo(opts domain.SendOptions) *waE2E.ContextInfo {
	if opts.Quoted == nil && len(opts.Mentions) == 0 {
		return nil
	}

	info := &waE2E.ContextInfo{}

	if len(opts.Mentions) > 0 {
		info.MentionedJID = opts.Mentions
	}

	if q := opts.Quoted; q != nil {
		info.StanzaID = proto.String(q.ID)
		info.Participant = proto.String(q.SenderID())

		if evt, ok := q.Raw.(*events.Message); ok && evt.Message != nil {
			info.QuotedMessage = evt.Message
		} else {
			info.QuotedMessage = &waE2E.Message{Conversation: proto.String(q.Text())}
		}
	}

	return info
}

func textMessage(text string, opts domain.SendOptions) *waE2E.Message {
	info := buildContextInfo(opts)
	if info == nil {
		return &waE2E.Message{Conversation: proto.String(text)}
	}

	return &waE2E.Message{
		ExtendedTextMessage: &waE2E.ExtendedTextMessage{
			Text:        proto.String(text),
			ContextInfo: info,
		},
	}
}

// downloadable ищет медиа нужного вида сначала в самом сообщении, затем в процитированном.
func downloadable(msg *models.InboundMessage, kind models.MediaKind) (whatsmeow.DownloadableMessage, bool) {
	if evt, ok := msg.Raw.(*events.Message); ok && evt.Message != nil {
		if media, found := mediaOf(evt.Message, kind); found {
			return media, true
		}
	}

	if msg.Quoted != nil {
		if quoted, ok := msg.Quoted.Raw.(*waE2E.Message); ok && quoted != nil {
			return mediaOf(quoted, kind)
		}
	}

	return nil, false
}

func mediaOf(m *waE2E.Message, kind models.MediaKind) (whatsmeow.DownloadableMessage, bool) {
	switch kind {
	case models.MediaImage:
		if img := m.GetImageMessage(); img != nil {
			return img, true
		}
	case models.MediaVideo:
		if video := m.GetVideoMessage(); video != nil {
			return video, true
		}
	case models.MediaSticker:
		if sticker := m.GetStickerMessage(); sticker != nil {
			return sticker, true
		}
	case models.MediaDocument:
		if doc := m.GetDocumentMessage(); doc != nil {
			return doc, true
		}
	}

	return nil, false
}

func toRoster(info *types.GroupInfo) *models.Roster {
	roster := &models.Roster{
		GroupID:      info.JID.String(),
		Name:         info.Name,
		OwnerID:      info.OwnerJID.String(),
		Participants: make([]models.Participant, 0, len(info.Participants)),
	}

	if info.OwnerJID.IsEmpty() {
		roster.OwnerID = ""
	}

	for _, p := range info.Participants {
		jid := p.JID
		if jid.Server == types.HiddenUserServer && !p.PhoneNumber.IsEmpty() {
			jid = p.PhoneNumber
		}

		roster.Participants = append(roster.Participants, models.Participant{
			ID:           jid.String(),
			IsAdmin:      p.IsAdmin,
			IsSuperAdmin: p.IsSuperAdmin,
			IsOwner:      !info.OwnerJID.IsEmpty() && jid.User == info.OwnerJID.User,
		})
	}

	return roster
}

// toGroupEvents раскладывает уведомление о группе на события по видам изменений.
// Смена названия, темы и прочих настроек группы не возвращается.
func toGroupEvents(evt *events.GroupInfo) []*models.GroupEvent {
	if evt == nil || evt.JID.IsEmpty() {
		return nil
	}

	actor := ""
	if evt.Sender != nil && !evt.Sender.IsEmpty() {
		actor = evt.Sender.String()
	}

	changes := []struct {
		action models.GroupAction
		jids   []types.JID
	}{
		{action: models.GroupJoin, jids: evt.Join},
		{action: models.GroupLeave, jids: evt.Leave},
		{action: models.GroupPromote, jids: evt.Promote},
		{action: models.GroupDemote, jids: evt.Demote},
	}

	var out []*models.GroupEvent

	for _, change := range changes {
		if len(change.jids) == 0 {
			continue
		}

		participants := make([]string, 0, len(change.jids))
		for _, jid := range change.jids {
			participants = append(participants, jid.String())
		}

		out = append(out, &models.GroupEvent{
			GroupID:      evt.JID.String(),
			Action:       change.action,
			Participants: participants,
			ActorID:      actor,
			Timestamp:    evt.Timestamp,
		})
	}

	return out
}
