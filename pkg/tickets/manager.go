package tickets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Jacobbrewer1/invoicer/pkg/entities"
	"github.com/Jacobbrewer1/invoicer/pkg/guildconfig"
	"github.com/Jacobbrewer1/invoicer/pkg/logging"
	"github.com/Jacobbrewer1/invoicer/pkg/messages"
	"github.com/Jacobbrewer1/invoicer/pkg/sellauth"
	"github.com/bwmarrin/discordgo"
)

const (
	// DefaultCategoryName is the name of the category created when none is configured.
	DefaultCategoryName = "Tickets"

	// TranscriptMessageLimit is the number of most recent messages a transcript covers.
	TranscriptMessageLimit = 100

	ticketPermissions = discordgo.PermissionViewChannel |
		discordgo.PermissionSendMessages |
		discordgo.PermissionReadMessageHistory |
		discordgo.PermissionAttachFiles
)

// Manager runs the ticket lifecycle.
type Manager struct {
	l        *slog.Logger
	platform Platform
	configs  guildconfig.Repository
	invoices sellauth.InvoiceFetcher

	// resolved holds the ticket channels that already had an invoice resolved.
	resolved DedupTracker

	// closing holds the ticket channels scheduled for deletion.
	closing DedupTracker

	// creating holds the guild and user pairs with a creation in flight.
	creating DedupTracker

	// lookupMu guards inFlight and deleted.
	lookupMu sync.Mutex

	// inFlight counts the invoice lookups running per channel.
	inFlight map[string]int

	// deleted holds deleted channels whose closing mark waits for in-flight lookups.
	deleted map[string]struct{}

	requireFullConfig bool
	closeDelay        time.Duration
	afterFunc         func(d time.Duration, fn func())
}

// NewManager creates a new ticket manager.
func NewManager(l *slog.Logger, platform Platform, configs guildconfig.Repository, invoices sellauth.InvoiceFetcher, opts ...Option) *Manager {
	m := &Manager{
		l:          l,
		platform:   platform,
		configs:    configs,
		invoices:   invoices,
		resolved:   NewMemoryTracker(),
		closing:    NewMemoryTracker(),
		creating:   NewMemoryTracker(),
		inFlight:   make(map[string]int),
		deleted:    make(map[string]struct{}),
		closeDelay: DefaultCloseDelay,
		afterFunc: func(d time.Duration, fn func()) {
			time.AfterFunc(d, fn)
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CreateRequest asks for a ticket for a user.
type CreateRequest struct {
	GuildID string
	UserID  string
}

// Create opens a private ticket channel for the user. When the user already has one, it is returned
// together with ErrAlreadyOpen.
func (m *Manager) Create(ctx context.Context, req CreateRequest) (*discordgo.Channel, error) {
	l := m.l.With(
		slog.String(logging.KeyGuild, req.GuildID),
		slog.String(logging.KeyUser, req.UserID),
	)

	cfg := m.configs.Get(req.GuildID)
	if m.requireFullConfig {
		if missing := blockingMissing(cfg); len(missing) > 0 {
			return nil, &ConfigIncompleteError{Missing: missing}
		}
	}

	key := req.GuildID + "/" + req.UserID
	if !m.creating.Add(key) {
		return nil, ErrAlreadyOpen
	}
	defer m.creating.Remove(key)

	channels, err := m.platform.GuildChannels(ctx, req.GuildID)
	if err != nil {
		return nil, fmt.Errorf("error getting guild channels: %w", err)
	}

	name := entities.TicketChannelName(req.UserID)
	if existing := findChannel(channels, func(c *discordgo.Channel) bool { return c.Name == name }); existing != nil {
		return existing, ErrAlreadyOpen
	}

	categoryID, err := m.ensureCategory(ctx, l, req.GuildID, cfg, channels)
	if err != nil {
		return nil, err
	}

	overwrites := []*discordgo.PermissionOverwrite{
		{
			ID:   req.GuildID,
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel,
		},
		{
			ID:    req.UserID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: ticketPermissions,
		},
	}
	if cfg.StaffRoleID != "" {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    cfg.StaffRoleID,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: ticketPermissions,
		})
	}

	channel, err := m.platform.CreateChannel(ctx, req.GuildID, discordgo.GuildChannelCreateData{
		Name:                 name,
		Type:                 discordgo.ChannelTypeGuildText,
		Topic:                "Ticket for " + messages.UserMention(req.UserID),
		ParentID:             categoryID,
		PermissionOverwrites: overwrites,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating ticket channel: %w", err)
	}
	TicketsCreated.Inc()

	if _, err := m.platform.SendMessage(ctx, channel.ID, messages.TicketWelcome(req.UserID)); err != nil {
		l.Warn("Error sending ticket welcome",
			slog.String(logging.KeyChannel, channel.ID),
			slog.String(logging.KeyError, err.Error()),
		)
	}

	l.Info("Ticket created", slog.String(logging.KeyChannel, channel.ID))
	return channel, nil
}

// ensureCategory returns the configured category, creating and persisting one if it is not configured or
// no longer exists.
func (m *Manager) ensureCategory(ctx context.Context, l *slog.Logger, guildID string, cfg entities.GuildConfig, channels []*discordgo.Channel) (string, error) {
	if cfg.TicketCategoryID != "" {
		category := findChannel(channels, func(c *discordgo.Channel) bool {
			return c.ID == cfg.TicketCategoryID && c.Type == discordgo.ChannelTypeGuildCategory
		})
		if category != nil {
			return category.ID, nil
		}
		l.Warn("Configured ticket category does not exist, creating it now")
	}

	category, err := m.platform.CreateChannel(ctx, guildID, discordgo.GuildChannelCreateData{
		Name: DefaultCategoryName,
		Type: discordgo.ChannelTypeGuildCategory,
		PermissionOverwrites: []*discordgo.PermissionOverwrite{
			{
				ID:   guildID,
				Type: discordgo.PermissionOverwriteTypeRole,
				Deny: discordgo.PermissionViewChannel,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("error creating ticket category: %w", err)
	}

	if _, err := m.configs.Set(ctx, guildID, guildconfig.Patch{TicketCategoryID: &category.ID}); err != nil {
		return "", fmt.Errorf("error saving ticket category: %w", err)
	}
	return category.ID, nil
}

// State returns where the user's ticket is in its lifecycle. A deleted ticket has no channel and
// reports TicketStateNone.
func (m *Manager) State(ctx context.Context, guildID, userID string) (entities.TicketState, error) {
	channels, err := m.platform.GuildChannels(ctx, guildID)
	if err != nil {
		return entities.TicketStateNone, fmt.Errorf("error getting guild channels: %w", err)
	}

	name := entities.TicketChannelName(userID)
	channel := findChannel(channels, func(c *discordgo.Channel) bool { return c.Name == name })
	if channel == nil {
		return entities.TicketStateNone, nil
	}
	return m.ChannelState(channel.ID), nil
}

// ChannelState returns the state of an existing ticket channel.
func (m *Manager) ChannelState(channelID string) entities.TicketState {
	switch {
	case m.closing.Has(channelID):
		return entities.TicketStateClosing
	case m.resolved.Has(channelID):
		return entities.TicketStateOpenResolved
	default:
		return entities.TicketStateOpenUnresolved
	}
}

// beginLookup records a lookup in flight for the channel. The returned func ends it.
func (m *Manager) beginLookup(channelID string) func() {
	m.lookupMu.Lock()
	m.inFlight[channelID]++
	m.lookupMu.Unlock()

	return func() {
		m.lookupMu.Lock()
		defer m.lookupMu.Unlock()

		m.inFlight[channelID]--
		if m.inFlight[channelID] > 0 {
			return
		}
		delete(m.inFlight, channelID)
		if _, ok := m.deleted[channelID]; ok {
			delete(m.deleted, channelID)
			m.resolved.Remove(channelID)
			m.closing.Remove(channelID)
		}
	}
}

// releaseClosing clears the closing mark of a deleted channel, or defers it until the lookups still
// running for the channel have seen it.
func (m *Manager) releaseClosing(channelID string) {
	m.lookupMu.Lock()
	defer m.lookupMu.Unlock()

	if m.inFlight[channelID] > 0 {
		m.deleted[channelID] = struct{}{}
		return
	}
	m.closing.Remove(channelID)
}

// blockingMissing returns the missing settings that block creation. The category never blocks since it is
// created on demand.
func blockingMissing(cfg entities.GuildConfig) []string {
	missing := make([]string, 0, 2)
	for _, s := range cfg.Missing() {
		if s != entities.SettingCategory {
			missing = append(missing, s)
		}
	}
	return missing
}

func findChannel(channels []*discordgo.Channel, match func(c *discordgo.Channel) bool) *discordgo.Channel {
	for _, c := range channels {
		if c != nil && match(c) {
			return c
		}
	}
	return nil
}

// IsConfigIncomplete reports whether err is a ConfigIncompleteError, returning it.
func IsConfigIncomplete(err error) (*ConfigIncompleteError, bool) {
	cie := new(ConfigIncompleteError)
	if errors.As(err, &cie) {
		return cie, true
	}
	return nil, false
}
