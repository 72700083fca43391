package telegram

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/central-university-dev/go-wanbit/internal/bot/domain"
	"github.com/central-university-dev/go-wanbit/internal/bot/domain/mocks"
	"github.com/central-university-dev/go-wanbit/internal/domain/models"
)

const (
	testToken  = "123:ABC"
	botName    = "wanbit_bot"
	groupChat  = int64(-1001234)
	memberUser = int64(555)
)

type botAPI struct {
	mu       sync.Mutex
	requests map[string]url.Values
}

func (a *botAPI) last(method string) url.Values {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.requests[method]
}

func newBotAPI(t *testing.T) (*botAPI, *httptest.Server) {
	t.Helper()

	api := &botAPI{requests: make(map[string]url.Values)}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()

		method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]

		api.mu.Lock()
		api.requests[method] = r.PostForm
		api.mu.Unlock()

		var result string

		switch method {
		case "getMe":
			result = fmt.Sprintf(`{"id":1,"is_bot":true,"first_name":"Wanbit","username":%q}`, botName)
		case "sendMessage":
			result = fmt.Sprintf(`{"message_id":99,"date":0,"chat":{"id":%d,"type":"supergroup"}}`, groupChat)
		case "setMessageReaction":
			result = `true`
		case "getChat":
			result = fmt.Sprintf(`{"id":%d,"type":"supergroup","title":"Grupo Um"}`, groupChat)
		case "getChatAdministrators":
			result = `[{"user":{"id":1000,"is_bot":false,"first_name":"Dono"},"status":"creator"},` +
				`{"user":{"id":2000,"is_bot":false,"first_name":"Adm"},"status":"administrator"}]`
		default:
			w.WriteHeader(http.StatusNotFound)
			result = `null`
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"ok":%t,"result":%s}`, result != "null", result)
	}))

	t.Cleanup(server.Close)

	return api, server
}

func newTestClient(t *testing.T) (*Client, *botAPI) {
	t.Helper()

	api, server := newBotAPI(t)

	client, err := NewClient(testToken, server.URL+"/bot%s/%s", resty.New(), slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	require.NoError(t, err)

	return client, api
}

func TestClient_SendTextReplies(t *testing.T) {
	client, api := newTestClient(t)

	assert.Equal(t, botName, client.Username())

	err := client.SendText(context.Background(), fmt.Sprint(groupChat), "🤖 pong", domain.SendOptions{
		Quoted: &models.InboundMessage{ID: "42"},
	})
	require.NoError(t, err)

	form := api.last("sendMessage")
	assert.Equal(t, fmt.Sprint(groupChat), form.Get("chat_id"))
	assert.Equal(t, "🤖 pong", form.Get("text"))
	assert.Equal(t, "42", form.Get("reply_to_message_id"))
}

func TestClient_SendTextInvalidChat(t *testing.T) {
	client, _ := newTestClient(t)

	err := client.SendText(context.Background(), "5511@s.whatsapp.net", "oi", domain.SendOptions{})
	require.Error(t, err)
}

func TestClient_SendReaction(t *testing.T) {
	client, api := newTestClient(t)

	err := client.SendReaction(context.Background(), &models.InboundMessage{ID: "7", ChatID: fmt.Sprint(groupChat)}, "🏓")
	require.NoError(t, err)

	form := api.last("setMessageReaction")
	assert.Equal(t, "7", form.Get("message_id"))
	assert.JSONEq(t, `[{"type":"emoji","emoji":"🏓"}]`, form.Get("reaction"))
}

func TestClient_FetchRosterAndJoinedGroups(t *testing.T) {
	client, _ := newTestClient(t)

	roster, err := client.FetchRoster(context.Background(), fmt.Sprint(groupChat))
	require.NoError(t, err)

	assert.Equal(t, "Grupo Um", roster.Name)
	assert.Equal(t, "1000", roster.OwnerID)
	require.Len(t, roster.Participants, 2)
	assert.True(t, roster.Participants[0].IsOwner)
	assert.True(t, roster.Participants[1].HasAdminRights())

	groups, err := client.JoinedGroups(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "Grupo Um", groups[0].Name)
}

func TestClient_DownloadMediaMissing(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.DownloadMedia(context.Background(), &models.InboundMessage{Raw: &tgbotapi.Message{}}, models.MediaImage)
	require.Error(t, err)
}

func groupMessage(text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 10,
		From:      &tgbotapi.User{ID: memberUser, FirstName: "Fulano", LastName: "Silva"},
		Chat:      &tgbotapi.Chat{ID: groupChat, Type: "supergroup", Title: "Grupo Um"},
		Date:      1700000000,
		Text:      text,
	}
}

func TestToInbound_Text(t *testing.T) {
	msg := toInbound(groupMessage("/roubar@wanbit_bot 10"), botName)
	require.NotNil(t, msg)

	assert.Equal(t, "10", msg.ID)
	assert.Equal(t, fmt.Sprint(groupChat), msg.ChatID)
	assert.Equal(t, "555", msg.SenderID())
	assert.True(t, msg.IsGroup)
	assert.Equal(t, "Fulano Silva", msg.PushName)
	assert.Equal(t, "/roubar 10", msg.Text())
	assert.Equal(t, time.Unix(1700000000, 0), msg.Timestamp)
}

func TestToInbound_PhotoReplyAndMentions(t *testing.T) {
	reply := groupMessage("")
	reply.MessageID = 5
	reply.From = &tgbotapi.User{ID: 777, FirstName: "Vitima"}
	reply.Sticker = &tgbotapi.Sticker{FileID: "sticker-file"}

	raw := groupMessage("")
	raw.Photo = []tgbotapi.PhotoSize{{FileID: "small"}, {FileID: "large"}}
	raw.Caption = "/s"
	raw.CaptionEntities = []tgbotapi.MessageEntity{{Type: "text_mention", User: &tgbotapi.User{ID: 888}}}
	raw.ReplyToMessage = reply

	msg := toInbound(raw, botName)
	require.NotNil(t, msg)

	assert.Equal(t, models.MediaImage, msg.Media)
	assert.Equal(t, "/s", msg.Text())
	assert.Equal(t, []string{"888"}, msg.MentionedIDs)
	require.NotNil(t, msg.Quoted)
	assert.Equal(t, "777", msg.Quoted.AuthorID)
	assert.Equal(t, models.MediaSticker, msg.Quoted.Media)

	id, ok := fileID(raw, models.MediaImage)
	require.True(t, ok)
	assert.Equal(t, "large", id)

	client := &Client{}

	id, ok = client.mediaFileID(msg, models.MediaSticker)
	require.True(t, ok)
	assert.Equal(t, "sticker-file", id)
}

func TestToInbound_PrivateChat(t *testing.T) {
	raw := &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: memberUser, UserName: "fulano"},
		Chat:      &tgbotapi.Chat{ID: memberUser, Type: "private"},
		Text:      "/menu",
	}

	msg := toInbound(raw, botName)
	require.NotNil(t, msg)

	assert.False(t, msg.IsGroup)
	assert.Equal(t, "fulano", msg.PushName)
	assert.Nil(t, toInbound(nil, botName))
}

func TestStripBotMention(t *testing.T) {
	assert.Equal(t, "/menu", stripBotMention("/menu@wanbit_bot", botName))
	assert.Equal(t, "/s a b", stripBotMention("/s@wanbit_bot a b", botName))
	assert.Equal(t, "/s@other_bot", stripBotMention("/s@other_bot", botName))
	assert.Equal(t, "oi", stripBotMention("oi", ""))
}

func TestPoller_DispatchesUpdates(t *testing.T) {
	client, _ := newTestClient(t)

	handler := mocks.NewMessageHandler(t)

	done := make(chan struct{})

	handler.On("Dispatch", mock.Anything, mock.MatchedBy(func(msg *models.InboundMessage) bool {
		return msg.Text() == "/ping"
	})).Run(func(mock.Arguments) { close(done) }).
		Return(domain.DispatchResult{State: domain.StateCompleted, Command: "ping"}).Once()

	poller := NewPoller(client, time.Second, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	poller.handler = handler
	poller.baseCtx = context.Background()

	poller.processUpdate(&tgbotapi.Update{Message: groupMessage("/ping")})
	poller.processUpdate(&tgbotapi.Update{})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("обновление не было передано обработчику")
	}

	poller.wg.Wait()

	groups, err := client.JoinedGroups(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, fmt.Sprint(groupChat), groups[0].GroupID)
}

func TestToGroupEvents_JoinAndLeave(t *testing.T) {
	raw := groupMessage("")
	raw.NewChatMembers = []tgbotapi.User{
		{ID: 901, FirstName: "Ana"},
		{ID: 902, FirstName: "Robo", IsBot: true},
	}
	raw.LeftChatMember = &tgbotapi.User{ID: 903, UserName: "saiu"}

	events := toGroupEvents(raw)
	require.Len(t, events, 2)

	join := events[0]
	assert.Equal(t, models.GroupJoin, join.Action)
	assert.Equal(t, fmt.Sprint(groupChat), join.GroupID)
	assert.Equal(t, []string{"901"}, join.Participants)
	assert.Equal(t, "Ana", join.Names["901"])
	assert.Equal(t, "555", join.ActorID)

	leave := events[1]
	assert.Equal(t, models.GroupLeave, leave.Action)
	assert.Equal(t, []string{"903"}, leave.Participants)
	assert.Equal(t, "saiu", leave.Names["903"])

	private := &tgbotapi.Message{
		Chat:           &tgbotapi.Chat{ID: memberUser, Type: "private"},
		NewChatMembers: []tgbotapi.User{{ID: 901}},
	}
	assert.Empty(t, toGroupEvents(private))
	assert.Empty(t, toGroupEvents(nil))
}

func TestPoller_GroupEventsReachHandler(t *testing.T) {
	client, _ := newTestClient(t)

	handler := mocks.NewMessageHandler(t)
	handler.On("Dispatch", mock.Anything, mock.Anything).
		Return(domain.DispatchResult{State: domain.StateNotACommand}).Maybe()

	groupHandler := mocks.NewGroupEventHandler(t)

	done := make(chan struct{})

	groupHandler.On("HandleGroupEvent", mock.Anything, mock.MatchedBy(func(evt *models.GroupEvent) bool {
		return evt.Action == models.GroupJoin && len(evt.Participants) == 1 && evt.Participants[0] == "901"
	})).Run(func(mock.Arguments) { close(done) }).Once()

	poller := NewPoller(client, time.Second, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	poller.handler = handler
	poller.baseCtx = context.Background()
	poller.OnGroupEvent(groupHandler)

	raw := groupMessage("")
	raw.NewChatMembers = []tgbotapi.User{{ID: 901, FirstName: "Ana"}}

	poller.processUpdate(&tgbotapi.Update{Message: raw})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("событие группы не было передано обработчику")
	}

	poller.wg.Wait()
}
