package registry_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/central-university-dev/go-wanbit/internal/bot/command"
	"github.com/central-university-dev/go-wanbit/internal/bot/command/mocks"
	"github.com/central-university-dev/go-wanbit/internal/bot/registry"
	domainerrors "github.com/central-university-dev/go-wanbit/internal/domain/errors"
	"github.com/central-university-dev/go-wanbit/internal/domain/models"
)

func noop(context.Context, *command.Context) error { return nil }

func def(name string, tier models.AccessTier, triggers ...string) *command.Definition {
	return &command.Definition{Name: name, Tier: tier, Triggers: triggers, Handler: noop}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func defaultSet() command.StaticSource {
	return command.StaticSource{
		def("ping", models.TierMember, "ping"),
		def("sticker", models.TierMember, "sticker", "s", "fig"),
		def("sugestao", models.TierMember, "sugestão"),
		def("hidetag", models.TierAdmin, "hidetag"),
		def("setrentaldate", models.TierOwner, "setrentaldate", "srd"),
	}
}

func TestRegistry_LookupExactMatch(t *testing.T) {
	r := registry.New(defaultSet(), testLogger())
	ctx := context.Background()

	match, err := r.Lookup(ctx, "ping")
	require.NoError(t, err)
	assert.Equal(t, "ping", match.Definition.Name)
	assert.Equal(t, models.TierMember, match.Tier)

	match, err = r.Lookup(ctx, "srd")
	require.NoError(t, err)
	assert.Equal(t, "setrentaldate", match.Definition.Name)
	assert.Equal(t, models.TierOwner, match.Tier)

	match, err = r.Lookup(ctx, "sugestao")
	require.NoError(t, err)
	assert.Equal(t, "sugestao", match.Definition.Name)
}

func TestRegistry_NoSubstringMatch(t *testing.T) {
	r := registry.New(defaultSet(), testLogger())
	ctx := context.Background()

	for _, token := range []string{"pin", "pingg", "stick", "hide", ""} {
		_, err := r.Lookup(ctx, token)
		require.Error(t, err, "token %q", token)
		assert.ErrorIs(t, err, &domainerrors.ErrUnknownCommand{})
	}
}

func TestRegistry_CrossTierCollisionIsLoadError(t *testing.T) {
	src := command.StaticSource{
		def("ping", models.TierMember, "ping"),
		def("ping-admin", models.TierAdmin, "Ping!"),
	}

	r := registry.New(src, testLogger())

	err := r.Load(context.Background())
	require.Error(t, err)

	var collision *domainerrors.ErrCommandCollision
	require.ErrorAs(t, err, &collision)
	assert.Equal(t, "ping", collision.Token)
	assert.Equal(t, [2]string{"member", "admin"}, collision.Tiers)

	_, err = r.Lookup(context.Background(), "ping")
	assert.ErrorIs(t, err, &domainerrors.ErrCommandCollision{})
}

func TestRegistry_EmptyTriggerIsLoadError(t *testing.T) {
	r := registry.New(command.StaticSource{def("broken", models.TierMember, "!!!")}, testLogger())

	err := r.Load(context.Background())
	assert.ErrorIs(t, err, &domainerrors.ErrInvalidTrigger{})
}

func TestRegistry_DuplicateTriggerOnSameCommandIsAllowed(t *testing.T) {
	r := registry.New(command.StaticSource{def("ping", models.TierMember, "ping", "PING")}, testLogger())

	require.NoError(t, r.Load(context.Background()))
}

func TestRegistry_LoadIsMemoized(t *testing.T) {
	src := mocks.NewSource(t)
	grouped, _ := defaultSet().Definitions(context.Background())

	src.On("Definitions", mock.Anything).Return(grouped, nil).Once()

	r := registry.New(src, testLogger())
	ctx := context.Background()

	require.NoError(t, r.Load(ctx))
	require.NoError(t, r.Load(ctx))

	_, err := r.Lookup(ctx, "ping")
	require.NoError(t, err)
}

func TestRegistry_ConcurrentFirstLoadRunsOnce(t *testing.T) {
	src := mocks.NewSource(t)
	grouped, _ := defaultSet().Definitions(context.Background())

	src.On("Definitions", mock.Anything).
		Run(func(mock.Arguments) { time.Sleep(50 * time.Millisecond) }).
		Return(grouped, nil).Once()

	r := registry.New(src, testLogger())

	var wg sync.WaitGroup

	for range 10 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := r.Lookup(context.Background(), "hidetag")
			assert.NoError(t, err)
		}()
	}

	wg.Wait()
}

func TestRegistry_InvalidateAndReloadIsIdempotent(t *testing.T) {
	src := mocks.NewSource(t)
	grouped, _ := defaultSet().Definitions(context.Background())

	src.On("Definitions", mock.Anything).Return(grouped, nil).Twice()

	r := registry.New(src, testLogger())
	ctx := context.Background()

	tokens := []string{"ping", "s", "fig", "hidetag", "srd", "unknown"}

	before := make(map[string]string)

	for _, token := range tokens {
		match, err := r.Lookup(ctx, token)
		if err == nil {
			before[token] = match.Definition.Name + "/" + string(match.Tier)
		}
	}

	r.Invalidate()

	after := make(map[string]string)

	for _, token := range tokens {
		match, err := r.Lookup(ctx, token)
		if err == nil {
			after[token] = match.Definition.Name + "/" + string(match.Tier)
		}
	}

	assert.Equal(t, before, after)
	assert.Len(t, after, 5)
}

func TestRegistry_InvalidateDuringLoadForcesRescan(t *testing.T) {
	src := mocks.NewSource(t)

	stale, _ := command.StaticSource{def("old", models.TierMember, "old")}.Definitions(context.Background())
	fresh, _ := command.StaticSource{def("new", models.TierMember, "new")}.Definitions(context.Background())

	started := make(chan struct{})
	release := make(chan struct{})

	src.On("Definitions", mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(stale, nil).Once()
	src.On("Definitions", mock.Anything).Return(fresh, nil).Once()

	r := registry.New(src, testLogger())
	ctx := context.Background()

	firstDone := make(chan error, 1)

	go func() {
		firstDone <- r.Load(ctx)
	}()

	<-started

	r.Invalidate()
	require.NoError(t, r.Load(ctx))

	close(release)
	require.NoError(t, <-firstDone)

	match, err := r.Lookup(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, "new", match.Definition.Name)

	_, err = r.Lookup(ctx, "old")
	assert.ErrorIs(t, err, &domainerrors.ErrUnknownCommand{})
}

func TestRegistry_SourceErrorIsNotCached(t *testing.T) {
	src := mocks.NewSource(t)
	grouped, _ := defaultSet().Definitions(context.Background())

	src.On("Definitions", mock.Anything).Return(nil, errors.New("disk")).Once()
	src.On("Definitions", mock.Anything).Return(grouped, nil).Once()

	r := registry.New(src, testLogger())
	ctx := context.Background()

	require.Error(t, r.Load(ctx))
	require.NoError(t, r.Load(ctx))
}

func TestRegistry_Definitions(t *testing.T) {
	r := registry.New(defaultSet(), testLogger())

	defs, err := r.Definitions(context.Background(), models.TierMember)
	require.NoError(t, err)
	require.Len(t, defs, 3)
	assert.Equal(t, "ping", defs[0].Name)
	assert.Equal(t, "sticker", defs[1].Name)
	assert.Equal(t, "sugestao", defs[2].Name)
}
