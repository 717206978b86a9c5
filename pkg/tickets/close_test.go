package tickets

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Jacobbrewer1/invoicer/pkg/entities"
	"github.com/Jacobbrewer1/invoicer/pkg/guildconfig"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
)

func openTicket(t *testing.T, h *harness) *discordgo.Channel {
	t.Helper()
	channel, err := h.manager.Create(context.Background(), CreateRequest{GuildID: testGuild, UserID: testUser})
	require.NoError(t, err)
	return channel
}

func closeRequest(c *discordgo.Channel) CloseRequest {
	return CloseRequest{GuildID: testGuild, ChannelID: c.ID, ChannelName: c.Name, UserID: testUser}
}

func TestManager_Close_NotTicketChannel(t *testing.T) {
	h := newHarness(t)
	h.manager.resolved.Add("c1")

	acked := false
	err := h.manager.Close(context.Background(), CloseRequest{GuildID: testGuild, ChannelID: "c1", ChannelName: "general"}, func() error {
		acked = true
		return nil
	})
	require.ErrorIs(t, err, ErrNotTicketChannel)
	require.False(t, acked)
	require.True(t, h.manager.resolved.Has("c1"))
	require.Empty(t, h.scheduler.fns)
}

func TestManager_Close_TranscriptAndDelete(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.platform.addChannel(testGuild, &discordgo.Channel{ID: "900", Name: "transcripts"})
	_, err := h.configs.Set(ctx, testGuild, guildconfig.Patch{TranscriptChannelID: strPtr("900")})
	require.NoError(t, err)

	channel := openTicket(t, h)
	h.manager.resolved.Add(channel.ID)

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	h.platform.history[channel.ID] = []*discordgo.Message{
		{Content: "second", Timestamp: base.Add(time.Minute), Author: &discordgo.User{Username: "staff"}},
		{Content: "INV-1", Timestamp: base, Author: &discordgo.User{Username: "buyer"}},
	}

	var resolvedAtAck bool
	err = h.manager.Close(ctx, closeRequest(channel), func() error {
		resolvedAtAck = h.manager.resolved.Has(channel.ID)
		return nil
	})
	require.NoError(t, err)
	require.False(t, resolvedAtAck)

	transcripts := h.platform.sentTo("900")
	require.Len(t, transcripts, 1)
	require.Equal(t, "Ticket Transcript - ticket-2000", transcripts[0].Message.Embeds[0].Title)
	require.Equal(t, "transcript-ticket-2000.txt", transcripts[0].Message.Files[0].Name)
	require.Equal(t, "[2024-01-01 12:00:00] buyer: INV-1\n[2024-01-01 12:01:00] staff: second\n", transcripts[0].Body)

	require.Equal(t, []time.Duration{DefaultCloseDelay}, h.scheduler.delays)
	require.Empty(t, h.platform.deleted)

	// A second close while the first is pending is rejected.
	require.ErrorIs(t, h.manager.Close(ctx, closeRequest(channel), nil), ErrAlreadyClosing)

	h.scheduler.runAll()
	require.Equal(t, []string{channel.ID}, h.platform.deleted)
	require.False(t, h.manager.closing.Has(channel.ID))
	require.False(t, h.manager.resolved.Has(channel.ID))
}

func TestManager_Close_SkipsTranscript(t *testing.T) {
	tests := []struct {
		name       string
		transcript string
	}{
		{name: "not configured"},
		{name: "channel missing", transcript: "404"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			ctx := context.Background()
			if tt.transcript != "" {
				_, err := h.configs.Set(ctx, testGuild, guildconfig.Patch{TranscriptChannelID: strPtr(tt.transcript)})
				require.NoError(t, err)
			}

			channel := openTicket(t, h)
			require.NoError(t, h.manager.Close(ctx, closeRequest(channel), nil))

			for _, s := range h.platform.sent {
				require.Empty(t, s.Message.Files)
			}
			h.scheduler.runAll()
			require.Equal(t, []string{channel.ID}, h.platform.deleted)
		})
	}
}

func TestManager_Close_FailuresDoNotStopClose(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	channel := openTicket(t, h)
	h.platform.historyErr = errFake

	err := h.manager.Close(ctx, closeRequest(channel), func() error {
		return errors.New("unknown interaction")
	})
	require.NoError(t, err)
	require.Len(t, h.scheduler.fns, 1)

	h.platform.deleteErr = errFake
	h.scheduler.runAll()
	require.Empty(t, h.platform.deleted)

	// The ticket can be closed again once the failed deletion is over.
	h.platform.deleteErr = nil
	require.NoError(t, h.manager.Close(ctx, closeRequest(channel), nil))
	h.scheduler.runAll()
	require.Equal(t, []string{channel.ID}, h.platform.deleted)
}

func TestManager_Close_CustomDelay(t *testing.T) {
	h := newHarness(t, WithCloseDelay(time.Minute))
	channel := openTicket(t, h)

	require.NoError(t, h.manager.Close(context.Background(), closeRequest(channel), nil))
	require.Equal(t, []time.Duration{time.Minute}, h.scheduler.delays)
}

func TestManager_Close_DuringLookup(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.invoices.gate = make(chan struct{})
	h.invoices.invoices["INV-1"] = &entities.Invoice{ID: "INV-1", Status: "paid"}

	channel := openTicket(t, h)
	welcome := len(h.platform.sentTo(channel.ID))

	msg := ticketMessage("INV-1")
	msg.ChannelID = channel.ID

	var (
		wg      sync.WaitGroup
		outcome Outcome
		err     error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		outcome, err = h.manager.HandleMessage(ctx, msg)
	}()
	require.Eventually(t, func() bool { return h.invoices.calls.Load() == 1 }, time.Second, time.Millisecond)

	require.NoError(t, h.manager.Close(ctx, closeRequest(channel), nil))
	h.scheduler.runAll()
	require.Equal(t, []string{channel.ID}, h.platform.deleted)

	// The lookup still running keeps the deleted channel marked as closing.
	require.True(t, h.manager.closing.Has(channel.ID))

	close(h.invoices.gate)
	wg.Wait()

	require.NoError(t, err)
	require.Equal(t, OutcomeIgnored, outcome)
	require.False(t, h.manager.resolved.Has(channel.ID))
	require.False(t, h.manager.closing.Has(channel.ID))
	require.Len(t, h.platform.sentTo(channel.ID), welcome)
}

func TestManager_Close_ResolvedDuringClose(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	channel := openTicket(t, h)
	require.NoError(t, h.manager.Close(ctx, closeRequest(channel), nil))

	// A submission that passed the closing check before the close began marks the channel late.
	h.manager.resolved.Add(channel.ID)

	h.scheduler.runAll()
	require.False(t, h.manager.resolved.Has(channel.ID))
	require.False(t, h.manager.closing.Has(channel.ID))
}

func TestManager_Close_ReopenStartsUnresolved(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.invoices.invoices["INV-1"] = &entities.Invoice{ID: "INV-1", Status: "paid"}

	first := openTicket(t, h)
	msg := ticketMessage("INV-1")
	msg.ChannelID = first.ID
	outcome, err := h.manager.HandleMessage(ctx, msg)
	require.NoError(t, err)
	require.Equal(t, OutcomeResolved, outcome)

	require.NoError(t, h.manager.Close(ctx, closeRequest(first), nil))
	h.scheduler.runAll()

	second := openTicket(t, h)
	require.Equal(t, first.Name, second.Name)

	state, err := h.manager.State(ctx, testGuild, testUser)
	require.NoError(t, err)
	require.Equal(t, entities.TicketStateOpenUnresolved, state)
	require.Equal(t, entities.TicketStateOpenUnresolved, h.manager.ChannelState(first.ID))

	msg.ChannelID = second.ID
	outcome, err = h.manager.HandleMessage(ctx, msg)
	require.NoError(t, err)
	require.Equal(t, OutcomeResolved, outcome)
	require.EqualValues(t, 2, h.invoices.calls.Load())
}
