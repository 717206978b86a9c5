package guildconfig

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Jacobbrewer1/invoicer/pkg/entities"
	"github.com/Jacobbrewer1/invoicer/pkg/logging"
)

// Repository holds the configuration of every guild.
type Repository interface {
	// Get returns the configuration of the guild. An unknown guild has an empty configuration.
	Get(guildID string) entities.GuildConfig

	// Set merges the patch into the guild configuration and persists it before returning.
	Set(ctx context.Context, guildID string, patch Patch) (entities.GuildConfig, error)

	// Reset removes the guild configuration and persists the removal before returning.
	Reset(ctx context.Context, guildID string) error

	// LoadAll replaces every configuration with the persisted ones.
	LoadAll(ctx context.Context) error

	// SaveAll persists every configuration.
	SaveAll(ctx context.Context) error
}

// Persister reads and writes the whole guild configuration document.
type Persister interface {
	// Load returns the persisted document. A document that does not exist yet is returned as an error.
	Load(ctx context.Context) (map[string]entities.GuildConfig, error)

	// Save replaces the persisted document.
	Save(ctx context.Context, guilds map[string]entities.GuildConfig) error
}

// Patch is a partial update of a guild configuration. Nil fields are left unchanged.
type Patch struct {
	StaffRoleID         *string
	TicketCategoryID    *string
	TranscriptChannelID *string
	InvoiceChannelID    *string
	AutoCheck           *bool
}

// Apply returns cfg with the patch applied.
func (p Patch) Apply(cfg entities.GuildConfig) entities.GuildConfig {
	if p.StaffRoleID != nil {
		cfg.StaffRoleID = *p.StaffRoleID
	}
	if p.TicketCategoryID != nil {
		cfg.TicketCategoryID = *p.TicketCategoryID
	}
	if p.TranscriptChannelID != nil {
		cfg.TranscriptChannelID = *p.TranscriptChannelID
	}
	if p.InvoiceChannelID != nil {
		cfg.InvoiceChannelID = *p.InvoiceChannelID
	}
	if p.AutoCheck != nil {
		cfg.AutoCheck = *p.AutoCheck
	}
	return cfg
}

// Store is an in-memory Repository that writes through to a Persister on every mutation.
type Store struct {
	l *slog.Logger
	p Persister

	// saveMu serializes mutations with their saves so the latest snapshot is always the last one written.
	saveMu sync.Mutex

	mu     sync.RWMutex
	guilds map[string]entities.GuildConfig
}

// NewStore creates a new store backed by p.
func NewStore(l *slog.Logger, p Persister) *Store {
	return &Store{
		l:      l,
		p:      p,
		guilds: make(map[string]entities.GuildConfig),
	}
}

func (s *Store) Get(guildID string) entities.GuildConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.guilds[guildID]
}

func (s *Store) Set(ctx context.Context, guildID string, patch Patch) (entities.GuildConfig, error) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	prev, existed := s.guilds[guildID]
	cfg := patch.Apply(prev)
	s.guilds[guildID] = cfg
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.p.Save(ctx, snapshot); err != nil {
		s.restore(guildID, prev, existed)
		return prev, fmt.Errorf("error saving guild configuration: %w", err)
	}

	s.l.Info("Guild configuration updated", slog.String(logging.KeyGuild, guildID))
	return cfg, nil
}

func (s *Store) Reset(ctx context.Context, guildID string) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	prev, existed := s.guilds[guildID]
	delete(s.guilds, guildID)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.p.Save(ctx, snapshot); err != nil {
		s.restore(guildID, prev, existed)
		return fmt.Errorf("error saving guild configuration: %w", err)
	}

	s.l.Info("Guild configuration reset", slog.String(logging.KeyGuild, guildID))
	return nil
}

// LoadAll replaces the in-memory configuration. Absent or unreadable storage starts the store empty.
func (s *Store) LoadAll(ctx context.Context) error {
	guilds, err := s.p.Load(ctx)
	if err != nil {
		s.l.Warn("No existing guild configuration found, starting fresh", slog.String(logging.KeyError, err.Error()))
		guilds = nil
	}

	loaded := make(map[string]entities.GuildConfig, len(guilds))
	for id, cfg := range guilds {
		loaded[id] = cfg
	}

	s.mu.Lock()
	s.guilds = loaded
	s.mu.Unlock()

	s.l.Info("Guild configuration loaded", slog.Int("guilds", len(loaded)))
	return nil
}

func (s *Store) SaveAll(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.RLock()
	snapshot := s.snapshotLocked()
	s.mu.RUnlock()

	if err := s.p.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("error saving guild configuration: %w", err)
	}
	return nil
}

// All returns a copy of every guild configuration.
func (s *Store) All() map[string]entities.GuildConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Len returns the number of configured guilds.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.guilds)
}

// restore puts back the configuration a failed save replaced. Callers hold saveMu.
func (s *Store) restore(guildID string, cfg entities.GuildConfig, existed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existed {
		s.guilds[guildID] = cfg
		return
	}
	delete(s.guilds, guildID)
}

func (s *Store) snapshotLocked() map[string]entities.GuildConfig {
	snapshot := make(map[string]entities.GuildConfig, len(s.guilds))
	for id, cfg := range s.guilds {
		snapshot[id] = cfg
	}
	return snapshot
}
