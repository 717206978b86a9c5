package dataaccess

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Jacobbrewer1/invoicer/pkg/entities"
	"github.com/stretchr/testify/require"
)

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	s := NewFileStore(slog.Default(), path)
	ctx := context.Background()

	want := map[string]entities.GuildConfig{
		"g1": {StaffRoleID: "r1", TicketCategoryID: "c1", TranscriptChannelID: "t1"},
		"g2": {StaffRoleID: "r2"},
	}
	require.NoError(t, s.Save(ctx, want))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, want, got)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(b), `"staffRole": "r1"`)
	require.NotContains(t, string(b), `"ticketCategory": ""`)
}

func TestFileStore_LoadMissing(t *testing.T) {
	s := NewFileStore(slog.Default(), filepath.Join(t.TempDir(), "config.json"))

	_, err := s.Load(context.Background())
	require.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestFileStore_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStore(slog.Default(), path).Load(context.Background())
	require.Error(t, err)
}

func TestFileStore_ReadsCamelCaseKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	doc := `{"123":{"staffRole":"1","ticketCategory":"2","transcriptChannel":"3"}}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	got, err := NewFileStore(slog.Default(), path).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, entities.GuildConfig{StaffRoleID: "1", TicketCategoryID: "2", TranscriptChannelID: "3"}, got["123"])
}

func TestFileStore_Ping(t *testing.T) {
	require.NoError(t, NewFileStore(slog.Default(), filepath.Join(t.TempDir(), "config.json")).Ping(context.Background()))
	require.Error(t, NewFileStore(slog.Default(), "/does/not/exist/config.json").Ping(context.Background()))
}
