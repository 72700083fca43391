package permission_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/central-university-dev/go-wanbit/internal/bot/permission"
	"github.com/central-university-dev/go-wanbit/internal/bot/permission/mocks"
	"github.com/central-university-dev/go-wanbit/internal/domain/models"
)

const (
	ownerID  = "5511900000000@s.whatsapp.net"
	memberID = "5511988887777@s.whatsapp.net"
	adminID  = "5511977776666@s.whatsapp.net"
	groupID  = "120363000000000000@g.us"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newResolver(t *testing.T) (*permission.Resolver, *mocks.RosterProvider, *mocks.EntitlementStore) {
	t.Helper()

	rosters := mocks.NewRosterProvider(t)
	entitlements := mocks.NewEntitlementStore(t)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	r := permission.NewResolver(ownerID, rosters, entitlements, logger).
		WithClock(func() time.Time { return fixedNow })

	return r, rosters, entitlements
}

func groupRoster() *models.Roster {
	return &models.Roster{
		GroupID: groupID,
		OwnerID: "5511955554444@s.whatsapp.net",
		Participants: []models.Participant{
			{ID: memberID},
			{ID: adminID, IsAdmin: true},
			{ID: "5511955554444@s.whatsapp.net"},
			{ID: "5511933332222@s.whatsapp.net", IsSuperAdmin: true},
		},
	}
}

func TestAuthorize_GlobalOwnerBypassesEverything(t *testing.T) {
	r, _, _ := newResolver(t)
	ctx := context.Background()

	for _, tier := range []models.AccessTier{models.TierMember, models.TierAdmin, models.TierOwner, "custom"} {
		for _, isGroup := range []bool{true, false} {
			decision := r.Authorize(ctx, permission.Request{
				Tier:     tier,
				SenderID: "5511900000000:3@s.whatsapp.net",
				ChatID:   groupID,
				IsGroup:  isGroup,
			})
			assert.Equal(t, permission.Allow, decision, "tier %s group %v", tier, isGroup)
		}
	}
}

func TestAuthorize_OwnerTierDeniedForOthers(t *testing.T) {
	r, _, _ := newResolver(t)

	decision := r.Authorize(context.Background(), permission.Request{
		Tier:     models.TierOwner,
		SenderID: adminID,
		ChatID:   groupID,
		IsGroup:  true,
	})

	assert.Equal(t, permission.DenyPermission, decision)
}

func TestAuthorize_UnknownTierDenied(t *testing.T) {
	r, _, _ := newResolver(t)

	decision := r.Authorize(context.Background(), permission.Request{Tier: "vip", SenderID: memberID, ChatID: groupID, IsGroup: true})

	assert.Equal(t, permission.DenyPermission, decision)
}

func TestAuthorize_AdminTier(t *testing.T) {
	cases := []struct {
		name     string
		sender   string
		expected permission.Decision
	}{
		{name: "admin flag", sender: adminID, expected: permission.Allow},
		{name: "superadmin", sender: "5511933332222@s.whatsapp.net", expected: permission.Allow},
		{name: "group owner", sender: "5511955554444@s.whatsapp.net", expected: permission.Allow},
		{name: "plain member", sender: memberID, expected: permission.DenyPermission},
		{name: "not in roster", sender: "5511000000001@s.whatsapp.net", expected: permission.DenyPermission},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, rosters, _ := newResolver(t)

			rosters.On("FetchRoster", mock.Anything, groupID).Return(groupRoster(), nil).Once()

			decision := r.Authorize(context.Background(), permission.Request{
				Tier:     models.TierAdmin,
				SenderID: tc.sender,
				ChatID:   groupID,
				IsGroup:  true,
			})

			assert.Equal(t, tc.expected, decision)
		})
	}
}

func TestAuthorize_AdminTierFailsClosed(t *testing.T) {
	t.Run("roster error", func(t *testing.T) {
		r, rosters, _ := newResolver(t)
		rosters.On("FetchRoster", mock.Anything, groupID).Return(nil, errors.New("timeout")).Once()

		decision := r.Authorize(context.Background(), permission.Request{Tier: models.TierAdmin, SenderID: adminID, ChatID: groupID, IsGroup: true})
		assert.Equal(t, permission.DenyPermission, decision)
	})

	t.Run("empty roster", func(t *testing.T) {
		r, rosters, _ := newResolver(t)
		rosters.On("FetchRoster", mock.Anything, groupID).Return(&models.Roster{GroupID: groupID}, nil).Once()

		decision := r.Authorize(context.Background(), permission.Request{Tier: models.TierAdmin, SenderID: adminID, ChatID: groupID, IsGroup: true})
		assert.Equal(t, permission.DenyPermission, decision)
	})

	t.Run("direct chat", func(t *testing.T) {
		r, rosters, _ := newResolver(t)

		decision := r.Authorize(context.Background(), permission.Request{Tier: models.TierAdmin, SenderID: adminID, ChatID: adminID})
		assert.Equal(t, permission.DenyPermission, decision)
		rosters.AssertNotCalled(t, "FetchRoster", mock.Anything, mock.Anything)
	})
}

func TestAuthorize_MemberGroupRental(t *testing.T) {
	past := fixedNow.Add(-time.Hour)
	future := fixedNow.Add(24 * time.Hour)

	cases := []struct {
		name     string
		expiry   *time.Time
		err      error
		expected permission.Decision
	}{
		{name: "expired", expiry: &past, expected: permission.DenyEntitlement},
		{name: "active", expiry: &future, expected: permission.Allow},
		{name: "never rented", expiry: nil, expected: permission.DenyEntitlement},
		{name: "store error", err: errors.New("db down"), expected: permission.DenyEntitlement},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, _, entitlements := newResolver(t)

			entitlements.On("GetGroupRental", mock.Anything, groupID).Return(tc.expiry, tc.err).Once()

			decision := r.Authorize(context.Background(), permission.Request{
				Tier:     models.TierMember,
				SenderID: memberID,
				ChatID:   groupID,
				IsGroup:  true,
			})

			assert.Equal(t, tc.expected, decision)
		})
	}
}

func TestAuthorize_MemberDirectChatStandingPermission(t *testing.T) {
	r, _, entitlements := newResolver(t)
	ctx := context.Background()

	entitlements.On("HasStandingPermission", mock.Anything, memberID).Return(true, nil).Once()
	entitlements.On("HasStandingPermission", mock.Anything, adminID).Return(false, nil).Once()

	assert.Equal(t, permission.Allow,
		r.Authorize(ctx, permission.Request{Tier: models.TierMember, SenderID: memberID, ChatID: memberID}))
	assert.Equal(t, permission.DenyEntitlement,
		r.Authorize(ctx, permission.Request{Tier: models.TierMember, SenderID: adminID, ChatID: adminID}))
}

func TestDecision_String(t *testing.T) {
	assert.Equal(t, "allow", permission.Allow.String())
	assert.Equal(t, "deny_entitlement", permission.DenyEntitlement.String())
	assert.Equal(t, "deny_permission", permission.DenyPermission.String())
}
