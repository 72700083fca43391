package notify_test

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

	domainmocks "github.com/central-university-dev/go-wanbit/internal/bot/domain/mocks"
	"github.com/central-university-dev/go-wanbit/internal/bot/notify"
	"github.com/central-university-dev/go-wanbit/internal/bot/notify/mocks"
	"github.com/central-university-dev/go-wanbit/internal/config"
	"github.com/central-university-dev/go-wanbit/internal/domain/models"
)

const ownerID = "5511900000000@s.whatsapp.net"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testIncident() *models.Incident {
	return &models.Incident{
		Command:   "roleta",
		SenderID:  "5511988887777:3@s.whatsapp.net",
		ChatID:    "120363000000000000@g.us",
		Error:     "connection reset",
		Stack:     "goroutine 1 [running]:\nmain.main()",
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestFallbackNotifier_PrimarySuccess(t *testing.T) {
	// Arrange
	primary := mocks.NewNotifier(t)
	secondary := mocks.NewNotifier(t)

	notifier := notify.NewFallbackNotifier(primary, secondary, discardLogger())
	incident := testIncident()

	primary.On("NotifyIncident", mock.Anything, incident).Return(nil)

	// Act
	err := notifier.NotifyIncident(context.Background(), incident)

	// Assert
	require.NoError(t, err)
	secondary.AssertNotCalled(t, "NotifyIncident")
}

func TestFallbackNotifier_PrimaryFailsSecondarySuccess(t *testing.T) {
	// Arrange
	primary := mocks.NewNotifier(t)
	secondary := mocks.NewNotifier(t)

	notifier := notify.NewFallbackNotifier(primary, secondary, discardLogger())
	suggestion := &models.Suggestion{SenderID: "5511988887777@s.whatsapp.net", Text: "modo escuro"}

	primary.On("NotifySuggestion", mock.Anything, suggestion).Return(errors.New("broker down"))
	secondary.On("NotifySuggestion", mock.Anything, suggestion).Return(nil)

	// Act
	err := notifier.NotifySuggestion(context.Background(), suggestion)

	// Assert
	require.NoError(t, err)
}

func TestFallbackNotifier_BothFail(t *testing.T) {
	// Arrange
	primary := mocks.NewNotifier(t)
	secondary := mocks.NewNotifier(t)

	notifier := notify.NewFallbackNotifier(primary, secondary, discardLogger())
	incident := testIncident()
	primaryErr := errors.New("broker down")

	primary.On("NotifyIncident", mock.Anything, incident).Return(primaryErr)
	secondary.On("NotifyIncident", mock.Anything, incident).Return(errors.New("disk full"))

	// Act
	err := notifier.NotifyIncident(context.Background(), incident)

	// Assert
	assert.Equal(t, primaryErr, err)
}

func TestLogNotifier_AssignsIncidentID(t *testing.T) {
	incident := testIncident()

	require.NoError(t, notify.NewLogNotifier(discardLogger()).NotifyIncident(context.Background(), incident))

	assert.Len(t, incident.ID, 36)
}

func TestOwnerNotifier_SendsIncidentToOwner(t *testing.T) {
	// Arrange
	messenger := domainmocks.NewMessenger(t)
	incident := testIncident()

	var sent string

	messenger.On("SendText", mock.Anything, ownerID, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.String(2) }).
		Return(nil)

	// Act
	err := notify.NewOwnerNotifier(messenger, ownerID).NotifyIncident(context.Background(), incident)

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, incident.ID)
	assert.Contains(t, sent, incident.ID)
	assert.Contains(t, sent, "Comando: roleta")
	assert.Contains(t, sent, "Usuário: 5511988887777\n")
	assert.Contains(t, sent, "connection reset")
}

func TestOwnerNotifier_NoOwnerConfigured(t *testing.T) {
	messenger := domainmocks.NewMessenger(t)

	err := notify.NewOwnerNotifier(messenger, "").NotifyIncident(context.Background(), testIncident())

	require.Error(t, err)
	messenger.AssertNotCalled(t, "SendText")
}

func TestFormatIncident_TruncatesStack(t *testing.T) {
	incident := testIncident()
	incident.Stack = strings.Repeat("x", 5000)

	text := notify.FormatIncident(incident)

	assert.Less(t, len(text), 2000)
	assert.True(t, strings.HasSuffix(text, "...```"))
}

func TestFormatSuggestion(t *testing.T) {
	text := notify.FormatSuggestion(&models.Suggestion{
		SenderID:  "5511988887777:3@s.whatsapp.net",
		Text:      "modo escuro",
		CreatedAt: time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC),
	})

	assert.Contains(t, text, "Nova Sugestão Recebida")
	assert.Contains(t, text, "01/06/2025 12:30:00")
	assert.Contains(t, text, "Número: 5511988887777\n")
	assert.Contains(t, text, "Sugestão: modo escuro")
}

func TestEncodeIncident_Decodes(t *testing.T) {
	incident := testIncident()
	incident.ID = "7f1c5a9e-0000-4000-8000-000000000001"
	incident.Error = "quote \" and\nnewline"

	decoded, err := notify.DecodeIncident(notify.EncodeIncident(incident))
	require.NoError(t, err)

	assert.Equal(t, incident.ID, decoded.ID)
	assert.Equal(t, incident.Error, decoded.Error)
	assert.True(t, incident.CreatedAt.Equal(decoded.CreatedAt))
}

func TestNotifierFactory(t *testing.T) {
	tests := []struct {
		name      string
		transport string
		wantType  any
		wantErr   bool
	}{
		{name: "default log", transport: "", wantType: &notify.LogNotifier{}},
		{name: "log", transport: "log", wantType: &notify.LogNotifier{}},
		{name: "kafka", transport: "KAFKA", wantType: &notify.FallbackNotifier{}},
		{name: "owner", transport: "OWNER", wantType: &notify.FallbackNotifier{}},
		{name: "unknown", transport: "SMTP", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory := notify.NewNotifierFactory(&config.Config{
				NotifyTransport:  tt.transport,
				KafkaBrokers:     "localhost:9092",
				TopicIncidents:   "incidents",
				TopicSuggestions: "suggestions",
				OwnerID:          ownerID,
			}, discardLogger())

			notifier, closeFn, err := factory.CreateNotifier(domainmocks.NewMessenger(t))
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.IsType(t, tt.wantType, notifier)
			assert.NoError(t, closeFn())
		})
	}
}
