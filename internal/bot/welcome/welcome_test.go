package welcome_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/central-university-dev/go-wanbit/internal/bot/domain"
	"github.com/central-university-dev/go-wanbit/internal/bot/welcome"
	"github.com/central-university-dev/go-wanbit/internal/bot/welcome/mocks"
	"github.com/central-university-dev/go-wanbit/internal/domain/models"
)

const (
	groupID  = "120363000000000000@g.us"
	memberID = "5511999990000@s.whatsapp.net"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func joinEvent(participants ...string) *models.GroupEvent {
	return &models.GroupEvent{
		GroupID:      groupID,
		Action:       models.GroupJoin,
		Participants: participants,
		Names:        map[string]string{memberID: "Ana"},
	}
}

func TestRender(t *testing.T) {
	at := time.Date(2026, 3, 7, 9, 5, 0, 0, time.UTC)

	text, mentions, err := welcome.Render("Oi @{memberName}, bem-vindo ao {groupName} em {date} às {time}", welcome.Variables{
		MemberID:   memberID,
		MemberName: "Ana",
		GroupName:  "Amigos",
		At:         at,
	})
	require.NoError(t, err)

	assert.Equal(t, "Oi @Ana, bem-vindo ao Amigos em 07/03/2026 às 09:05", text)
	assert.Equal(t, []string{memberID}, mentions)
}

func TestRender_NoMentionWithoutMemberName(t *testing.T) {
	text, mentions, err := welcome.Render("Bem-vindos ao {groupName}", welcome.Variables{
		MemberID:   memberID,
		MemberName: "Ana",
		GroupName:  "Amigos",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bem-vindos ao Amigos", text)
	assert.Empty(t, mentions)
}

func TestRender_RejectsMissingVariables(t *testing.T) {
	testCases := []struct {
		name     string
		template string
		vars     welcome.Variables
	}{
		{name: "empty template", template: "  ", vars: welcome.Variables{MemberName: "Ana", GroupName: "G"}},
		{name: "no member name", template: "{memberName}", vars: welcome.Variables{GroupName: "G"}},
		{name: "no group name", template: "{groupName}", vars: welcome.Variables{MemberName: "Ana"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := welcome.Render(tc.template, tc.vars)
			assert.Error(t, err)
		})
	}
}

func TestService_WelcomeUsesDefaults(t *testing.T) {
	ctx := context.Background()

	store := mocks.NewGroupStore(t)
	sender := mocks.NewSender(t)

	store.On("GetGroup", ctx, groupID).Return(nil, nil).Once()
	sender.On("SendText", ctx, groupID,
		mock.MatchedBy(func(text string) bool {
			return strings.HasPrefix(text, "Bem-vindo @Ana ao grupo Grupo!")
		}),
		domain.SendOptions{Mentions: []string{memberID}},
	).Return(nil).Once()

	svc := welcome.NewService(store, sender, time.UTC, discardLogger())
	require.NoError(t, svc.Welcome(ctx, joinEvent(memberID)))
}

func TestService_WelcomeUsesGroupTemplate(t *testing.T) {
	ctx := context.Background()

	store := mocks.NewGroupStore(t)
	sender := mocks.NewSender(t)

	store.On("GetGroup", ctx, groupID).Return(&models.Group{
		ID:             groupID,
		Name:           "Amigos",
		WelcomeMessage: "Olá {memberName}, este é o {groupName}",
		WelcomeEnabled: true,
	}, nil).Once()
	sender.On("SendText", ctx, groupID, "Olá Ana, este é o Amigos",
		domain.SendOptions{Mentions: []string{memberID}},
	).Return(nil).Once()

	svc := welcome.NewService(store, sender, time.UTC, discardLogger())
	require.NoError(t, svc.Welcome(ctx, joinEvent(memberID)))
}

func TestService_WelcomeDisabled(t *testing.T) {
	ctx := context.Background()

	store := mocks.NewGroupStore(t)
	sender := mocks.NewSender(t)

	store.On("GetGroup", ctx, groupID).Return(&models.Group{
		ID:             groupID,
		Name:           "Amigos",
		WelcomeEnabled: false,
	}, nil).Once()

	svc := welcome.NewService(store, sender, time.UTC, discardLogger())
	require.NoError(t, svc.Welcome(ctx, joinEvent(memberID)))

	sender.AssertNotCalled(t, "SendText", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_WelcomeContinuesAfterSendFailure(t *testing.T) {
	ctx := context.Background()
	other := "5511888880000@s.whatsapp.net"

	store := mocks.NewGroupStore(t)
	sender := mocks.NewSender(t)

	store.On("GetGroup", ctx, groupID).Return(nil, errors.New("db down")).Once()
	sender.On("SendText", ctx, groupID, mock.Anything, domain.SendOptions{Mentions: []string{memberID}}).
		Return(errors.New("offline")).Once()
	sender.On("SendText", ctx, groupID,
		mock.MatchedBy(func(text string) bool { return strings.Contains(text, "@5511888880000") }),
		domain.SendOptions{Mentions: []string{other}},
	).Return(nil).Once()

	svc := welcome.NewService(store, sender, time.UTC, discardLogger())
	err := svc.Welcome(ctx, joinEvent(memberID, other))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "offline")
}

func TestService_WelcomeIgnoresOtherActions(t *testing.T) {
	store := mocks.NewGroupStore(t)
	sender := mocks.NewSender(t)

	svc := welcome.NewService(store, sender, time.UTC, discardLogger())
	require.NoError(t, svc.Welcome(context.Background(), &models.GroupEvent{
		GroupID:      groupID,
		Action:       models.GroupLeave,
		Participants: []string{memberID},
	}))
}
