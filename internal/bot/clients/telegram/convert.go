package telegram

import (
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/central-university-dev/go-wanbit/internal/domain/models"
)

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// toInbound переводит сообщение Telegram в общий вид. Суффикс "@имя_бота" у команды отбрасывается.
func toInbound(msg *tgbotapi.Message, botUsername string) *models.InboundMessage {
	if msg == nil || msg.Chat == nil {
		return nil
	}

	inbound := &models.InboundMessage{
		ID:           strconv.Itoa(msg.MessageID),
		ChatID:       formatID(msg.Chat.ID),
		IsGroup:      msg.Chat.IsGroup() || msg.Chat.IsSuperGroup(),
		Timestamp:    msg.Time(),
		Conversation: stripBotMention(msg.Text, botUsername),
		Media:        mediaKind(msg),
		MentionedIDs: mentions(msg),
		Raw:          msg,
	}

	caption := stripBotMention(msg.Caption, botUsername)

	switch inbound.Media {
	case models.MediaImage:
		inbound.ImageCaption = caption
	case models.MediaVideo:
		inbound.VideoCaption = caption
	default:
		inbound.ExtendedText = caption
	}

	if msg.From != nil {
		inbound.Participant = formatID(msg.From.ID)
		inbound.FromMe = msg.From.IsBot && msg.From.UserName == botUsername
		inbound.PushName = displayName(msg.From)
	}

	if reply := msg.ReplyToMessage; reply != nil {
		quoted := &models.QuotedMessage{
			ID:    strconv.Itoa(reply.MessageID),
			Text:  firstNonEmpty(reply.Text, reply.Caption),
			Media: mediaKind(reply),
			Raw:   reply,
		}

		if reply.From != nil {
			quoted.AuthorID = formatID(reply.From.ID)
		}

		inbound.Quoted = quoted
	}

	return inbound
}

func stripBotMention(text, botUsername string) string {
	if botUsername == "" || text == "" {
		return text
	}

	token, rest, found := strings.Cut(text, " ")

	token = strings.TrimSuffix(token, "@"+botUsername)
	if !found {
		return token
	}

	return token + " " + rest
}

func mediaKind(msg *tgbotapi.Message) models.MediaKind {
	switch {
	case len(msg.Photo) > 0:
		return models.MediaImage
	case msg.Video != nil, msg.Animation != nil:
		return models.MediaVideo
	case msg.Sticker != nil:
		return models.MediaSticker
	case msg.Document != nil:
		return models.MediaDocument
	default:
		return models.MediaNone
	}
}

// fileID возвращает идентификатор файла нужного вида. Для фото берется самый крупный размер.
func fileID(msg *tgbotapi.Message, kind models.MediaKind) (string, bool) {
	if msg == nil {
		return "", false
	}

	switch kind {
	case models.MediaImage:
		if len(msg.Photo) > 0 {
			return msg.Photo[len(msg.Photo)-1].FileID, true
		}
	case models.MediaVideo:
		if msg.Video != nil {
			return msg.Video.FileID, true
		}

		if msg.Animation != nil {
			return msg.Animation.FileID, true
		}
	case models.MediaSticker:
		if msg.Sticker != nil {
			return msg.Sticker.FileID, true
		}
	case models.MediaDocument:
		if msg.Document != nil {
			return msg.Document.FileID, true
		}
	}

	return "", false
}

func mentions(msg *tgbotapi.Message) []string {
	var ids []string

	for _, entities := range [][]tgbotapi.MessageEntity{msg.Entities, msg.CaptionEntities} {
		for _, entity := range entities {
			if entity.Type == "text_mention" && entity.User != nil {
				ids = append(ids, formatID(entity.User.ID))
			}
		}
	}

	return ids
}

func displayName(user *tgbotapi.User) string {
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name != "" {
		return name
	}

	return user.UserName
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}

func toRoster(chat tgbotapi.Chat, admins []tgbotapi.ChatMember) *models.Roster {
	roster := &models.Roster{
		GroupID:      formatID(chat.ID),
		Name:         chat.Title,
		Participants: make([]models.Participant, 0, len(admins)),
	}

	for _, member := range admins {
		if member.User == nil {
			continue
		}

		id := formatID(member.User.ID)

		if member.IsCreator() {
			roster.OwnerID = id
		}

		roster.Participants = append(roster.Participants, models.Participant{
			ID:           id,
			IsAdmin:      member.IsAdministrator(),
			IsSuperAdmin: member.IsCreator(),
			IsOwner:      member.IsCreator(),
		})
	}

	return roster
}

// toGroupEvents извлекает вход и выход участников из служебного сообщения группы.
func toGroupEvents(msg *tgbotapi.Message) []*models.GroupEvent {
	if msg == nil || msg.Chat == nil || !(msg.Chat.IsGroup() || msg.Chat.IsSuperGroup()) {
		return nil
	}

	actor := ""
	if msg.From != nil {
		actor = formatID(msg.From.ID)
	}

	var out []*models.GroupEvent

	if len(msg.NewChatMembers) > 0 {
		evt := &models.GroupEvent{
			GroupID:   formatID(msg.Chat.ID),
			Action:    models.GroupJoin,
			Names:     make(map[string]string, len(msg.NewChatMembers)),
			ActorID:   actor,
			Timestamp: msg.Time(),
		}

		for i := range msg.NewChatMembers {
			member := &msg.NewChatMembers[i]
			if member.IsBot {
				continue
			}

			id := formatID(member.ID)
			evt.Participants = append(evt.Participants, id)
			evt.Names[id] = displayName(member)
		}

		if len(evt.Participants) > 0 {
			out = append(out, evt)
		}
	}

	if left := msg.LeftChatMember; left != nil {
		id := formatID(left.ID)

		out = append(out, &models.GroupEvent{
			GroupID:      formatID(msg.Chat.ID),
			Action:       models.GroupLeave,
			Participants: []string{id},
			Names:        map[string]string{id: displayName(left)},
			ActorID:      actor,
			Timestamp:    msg.Time(),
		})
	}

	return out
}
