package tickets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Jacobbrewer1/invoicer/pkg/entities"
	"github.com/Jacobbrewer1/invoicer/pkg/guildconfig"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
)

var errFake = errors.New("fake failure")

type sentMessage struct {
	ChannelID string
	Message   *discordgo.MessageSend
	Body      string
}

type fakePlatform struct {
	mu sync.Mutex

	nextID   int
	channels map[string][]*discordgo.Channel
	history  map[string][]*discordgo.Message
	sent     []sentMessage
	deleted  []string

	createErr   error
	deleteErr   error
	historyErr  error
	channelsErr error
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		nextID:   100,
		channels: make(map[string][]*discordgo.Channel),
		history:  make(map[string][]*discordgo.Message),
	}
}

func (f *fakePlatform) addChannel(guildID string, c *discordgo.Channel) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.GuildID = guildID
	f.channels[guildID] = append(f.channels[guildID], c)
}

func (f *fakePlatform) GuildChannels(_ context.Context, guildID string) ([]*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.channelsErr != nil {
		return nil, f.channelsErr
	}
	return append([]*discordgo.Channel(nil), f.channels[guildID]...), nil
}

func (f *fakePlatform) Channel(_ context.Context, channelID string) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, cs := range f.channels {
		for _, c := range cs {
			if c.ID == channelID {
				return c, nil
			}
		}
	}
	return nil, fmt.Errorf("channel %s: %w", channelID, errFake)
}

func (f *fakePlatform) CreateChannel(_ context.Context, guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	c := &discordgo.Channel{
		ID:                   fmt.Sprintf("%d", f.nextID),
		GuildID:              guildID,
		Name:                 data.Name,
		Type:                 data.Type,
		ParentID:             data.ParentID,
		PermissionOverwrites: data.PermissionOverwrites,
	}
	f.channels[guildID] = append(f.channels[guildID], c)
	return c, nil
}

func (f *fakePlatform) DeleteChannel(_ context.Context, channelID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, channelID)
	for g, cs := range f.channels {
		for idx, c := range cs {
			if c.ID == channelID {
				f.channels[g] = append(cs[:idx], cs[idx+1:]...)
				break
			}
		}
	}
	return nil
}

func (f *fakePlatform) SendMessage(_ context.Context, channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	var body string
	for _, file := range msg.Files {
		b, err := io.ReadAll(file.Reader)
		if err != nil {
			return nil, err
		}
		body = string(b)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{ChannelID: channelID, Message: msg, Body: body})
	return &discordgo.Message{ChannelID: channelID, Content: msg.Content}, nil
}

func (f *fakePlatform) ChannelMessages(_ context.Context, channelID string, limit int) ([]*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	msgs := f.history[channelID]
	if len(msgs) > limit {
		msgs = msgs[:limit]
	}
	return msgs, nil
}

func (f *fakePlatform) sentTo(channelID string) []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sentMessage
	for _, s := range f.sent {
		if s.ChannelID == channelID {
			out = append(out, s)
		}
	}
	return out
}

func (f *fakePlatform) channelNamed(guildID, name string) *discordgo.Channel {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.channels[guildID] {
		if c.Name == name {
			return c
		}
	}
	return nil
}

type fakeInvoices struct {
	calls atomic.Int32

	// gate, when set, blocks every lookup until it is closed.
	gate chan struct{}

	invoices map[string]*entities.Invoice
	err      error
}

func (f *fakeInvoices) Invoice(_ context.Context, invoiceID string) (*entities.Invoice, bool, error) {
	f.calls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	if f.err != nil {
		return nil, false, f.err
	}
	inv, ok := f.invoices[invoiceID]
	return inv, ok, nil
}

type memoryPersister struct {
	mu     sync.Mutex
	guilds map[string]entities.GuildConfig
}

func (p *memoryPersister) Load(context.Context) (map[string]entities.GuildConfig, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.guilds == nil {
		return nil, errFake
	}
	return p.guilds, nil
}

func (p *memoryPersister) Save(_ context.Context, guilds map[string]entities.GuildConfig) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.guilds = guilds
	return nil
}

// scheduler records delayed functions so tests can run them on demand.
type scheduler struct {
	mu     sync.Mutex
	delays []time.Duration
	fns    []func()
}

func (s *scheduler) AfterFunc(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays = append(s.delays, d)
	s.fns = append(s.fns, fn)
}

func (s *scheduler) runAll() {
	s.mu.Lock()
	fns := s.fns
	s.fns = nil
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

type harness struct {
	platform  *fakePlatform
	invoices  *fakeInvoices
	configs   *guildconfig.Store
	persister *memoryPersister
	scheduler *scheduler
	manager   *Manager
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()

	l := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := &harness{
		platform:  newFakePlatform(),
		invoices:  &fakeInvoices{invoices: make(map[string]*entities.Invoice)},
		persister: &memoryPersister{},
		scheduler: &scheduler{},
	}
	h.configs = guildconfig.NewStore(l, h.persister)
	require.NoError(t, h.configs.LoadAll(context.Background()))

	opts = append([]Option{WithAfterFunc(h.scheduler.AfterFunc)}, opts...)
	h.manager = NewManager(l, h.platform, h.configs, h.invoices, opts...)
	return h
}

func strPtr(s string) *string {
	return &s
}
