package guildconfig

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/Jacobbrewer1/invoicer/pkg/entities"
	"github.com/stretchr/testify/require"
)

type memoryPersister struct {
	mu      sync.Mutex
	doc     map[string]entities.GuildConfig
	saves   int
	loadErr error
	saveErr error
}

func (m *memoryPersister) Load(context.Context) (map[string]entities.GuildConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.doc, nil
}

func (m *memoryPersister) Save(_ context.Context, guilds map[string]entities.GuildConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.doc = guilds
	return nil
}

func ptr(s string) *string { return &s }

func TestStore_SetMergesPatch(t *testing.T) {
	p := new(memoryPersister)
	s := NewStore(slog.Default(), p)
	ctx := context.Background()

	_, err := s.Set(ctx, "g1", Patch{StaffRoleID: ptr("role")})
	require.NoError(t, err)

	got, err := s.Set(ctx, "g1", Patch{TranscriptChannelID: ptr("transcripts")})
	require.NoError(t, err)

	want := entities.GuildConfig{StaffRoleID: "role", TranscriptChannelID: "transcripts"}
	require.Equal(t, want, got)
	require.Equal(t, want, s.Get("g1"))
	require.Equal(t, 2, p.saves)
	require.Equal(t, want, p.doc["g1"])
}

func TestStore_FeedSettings(t *testing.T) {
	s := NewStore(slog.Default(), new(memoryPersister))
	ctx := context.Background()
	on, off := true, false

	_, err := s.Set(ctx, "g1", Patch{StaffRoleID: ptr("role"), InvoiceChannelID: ptr("feed")})
	require.NoError(t, err)
	require.Empty(t, s.Get("g1").FeedChannel())

	got, err := s.Set(ctx, "g1", Patch{AutoCheck: &on})
	require.NoError(t, err)
	require.Equal(t, entities.GuildConfig{StaffRoleID: "role", InvoiceChannelID: "feed", AutoCheck: true}, got)
	require.Equal(t, "feed", s.Get("g1").FeedChannel())

	all := s.All()
	require.Len(t, all, 1)
	all["g2"] = entities.GuildConfig{}
	require.Equal(t, 1, s.Len())

	_, err = s.Set(ctx, "g1", Patch{AutoCheck: &off})
	require.NoError(t, err)
	require.Empty(t, s.Get("g1").FeedChannel())
	require.Equal(t, "feed", s.Get("g1").InvoiceChannelID)
}

func TestStore_SetLeavesOtherGuildsAlone(t *testing.T) {
	s := NewStore(slog.Default(), new(memoryPersister))
	ctx := context.Background()

	_, err := s.Set(ctx, "g1", Patch{StaffRoleID: ptr("a")})
	require.NoError(t, err)
	_, err = s.Set(ctx, "g2", Patch{StaffRoleID: ptr("b")})
	require.NoError(t, err)

	require.Equal(t, "a", s.Get("g1").StaffRoleID)
	require.Equal(t, "b", s.Get("g2").StaffRoleID)
	require.Equal(t, 2, s.Len())
}

func TestStore_Reset(t *testing.T) {
	p := new(memoryPersister)
	s := NewStore(slog.Default(), p)
	ctx := context.Background()

	_, err := s.Set(ctx, "g1", Patch{StaffRoleID: ptr("a"), TicketCategoryID: ptr("c")})
	require.NoError(t, err)

	require.NoError(t, s.Reset(ctx, "g1"))
	require.True(t, s.Get("g1").IsEmpty())
	require.NotContains(t, p.doc, "g1")
}

func TestStore_SaveError(t *testing.T) {
	p := &memoryPersister{saveErr: errors.New("disk full")}
	s := NewStore(slog.Default(), p)

	_, err := s.Set(context.Background(), "g1", Patch{StaffRoleID: ptr("a")})
	require.ErrorContains(t, err, "disk full")
	require.True(t, s.Get("g1").IsEmpty())
	require.Zero(t, s.Len())
}

func TestStore_SaveErrorRestoresPrevious(t *testing.T) {
	ctx := context.Background()
	p := &memoryPersister{}
	s := NewStore(slog.Default(), p)

	_, err := s.Set(ctx, "g1", Patch{StaffRoleID: ptr("a"), TicketCategoryID: ptr("c")})
	require.NoError(t, err)

	p.saveErr = errors.New("disk full")
	got, err := s.Set(ctx, "g1", Patch{StaffRoleID: ptr("b")})
	require.Error(t, err)
	require.Equal(t, entities.GuildConfig{StaffRoleID: "a", TicketCategoryID: "c"}, got)
	require.Equal(t, "a", s.Get("g1").StaffRoleID)

	require.Error(t, s.Reset(ctx, "g1"))
	require.Equal(t, "c", s.Get("g1").TicketCategoryID)

	// An unrelated later save does not persist the rejected change.
	p.saveErr = nil
	_, err = s.Set(ctx, "g2", Patch{StaffRoleID: ptr("z")})
	require.NoError(t, err)
	require.Equal(t, "a", p.doc["g1"].StaffRoleID)
}

func TestStore_LoadAll(t *testing.T) {
	p := &memoryPersister{doc: map[string]entities.GuildConfig{
		"g1": {StaffRoleID: "r"},
	}}
	s := NewStore(slog.Default(), p)
	_, err := s.Set(context.Background(), "stale", Patch{StaffRoleID: ptr("x")})
	require.NoError(t, err)

	p.doc = map[string]entities.GuildConfig{"g1": {StaffRoleID: "r"}}
	require.NoError(t, s.LoadAll(context.Background()))
	require.Equal(t, "r", s.Get("g1").StaffRoleID)
	require.True(t, s.Get("stale").IsEmpty())
}

func TestStore_LoadAllUnreadable(t *testing.T) {
	p := &memoryPersister{loadErr: errors.New("corrupt")}
	s := NewStore(slog.Default(), p)

	require.NoError(t, s.LoadAll(context.Background()))
	require.Zero(t, s.Len())
}

func TestStore_ConcurrentSetsKeepEveryField(t *testing.T) {
	p := new(memoryPersister)
	s := NewStore(slog.Default(), p)
	ctx := context.Background()

	var wg sync.WaitGroup
	patches := []Patch{
		{StaffRoleID: ptr("role")},
		{TicketCategoryID: ptr("category")},
		{TranscriptChannelID: ptr("transcript")},
	}
	for _, patch := range patches {
		wg.Add(1)
		go func(patch Patch) {
			defer wg.Done()
			_, err := s.Set(ctx, "g1", patch)
			require.NoError(t, err)
		}(patch)
	}
	wg.Wait()

	want := entities.GuildConfig{StaffRoleID: "role", TicketCategoryID: "category", TranscriptChannelID: "transcript"}
	require.Equal(t, want, s.Get("g1"))
	require.Equal(t, want, p.doc["g1"])
}
