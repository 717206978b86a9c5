package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Jacobbrewer1/invoicer/pkg/entities"
	"github.com/Jacobbrewer1/invoicer/pkg/logging"
	"github.com/Jacobbrewer1/invoicer/pkg/messages"
	"github.com/bwmarrin/discordgo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// DefaultInterval is how often the storefront is polled.
	DefaultInterval = 5 * time.Minute

	// MaxTracked is the number of most recently seen invoices remembered between polls.
	MaxTracked = 100
)

var feedNotices = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "invoicer_feed_notices_total",
		Help: "Total number of invoice feed notices posted",
	},
	[]string{"kind"},
)

// Lister lists the most recent invoices of the shop.
type Lister interface {
	Invoices(ctx context.Context) ([]*entities.Invoice, error)
}

// Poster posts messages to a channel.
type Poster interface {
	SendMessage(ctx context.Context, channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error)
}

// Targets returns the channels notices are posted to.
type Targets func() []string

// StaticTargets returns Targets that always yields channelIDs, skipping empty IDs.
func StaticTargets(channelIDs ...string) Targets {
	ids := make([]string, 0, len(channelIDs))
	for _, id := range channelIDs {
		if id != "" {
			ids = append(ids, id)
		}
	}
	return func() []string { return ids }
}

// Watcher posts a notice to its target channels for every new invoice and every status change.
type Watcher struct {
	l        *slog.Logger
	lister   Lister
	poster   Poster
	targets  Targets
	interval time.Duration

	mu     sync.Mutex
	seeded bool

	// statuses is the last seen status of each tracked invoice.
	statuses map[string]string

	// order is the tracked invoice IDs, least recently seen first.
	order []string
}

// NewWatcher creates a new watcher posting to the channels returned by targets.
func NewWatcher(l *slog.Logger, lister Lister, poster Poster, targets Targets, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Watcher{
		l:        l,
		lister:   lister,
		poster:   poster,
		targets:  targets,
		interval: interval,
		statuses: make(map[string]string),
	}
}

// Run polls until ctx is done. The first poll with targets only records the current invoices.
func (w *Watcher) Run(ctx context.Context) {
	w.l.Info("Invoice feed started", slog.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if err := w.Poll(ctx); err != nil && !errors.Is(err, context.Canceled) {
			w.l.Error("Error polling invoices", slog.String(logging.KeyError, err.Error()))
		}

		select {
		case <-ctx.Done():
			w.l.Info("Invoice feed stopped")
			return
		case <-ticker.C:
		}
	}
}

// Poll fetches the recent invoices and posts a notice for each new invoice and status change. Without
// targets nothing is fetched, and the next poll with targets seeds again.
func (w *Watcher) Poll(ctx context.Context) error {
	targets := w.targets()
	if len(targets) == 0 {
		w.mu.Lock()
		w.seeded = false
		w.mu.Unlock()
		return nil
	}

	invoices, err := w.lister.Invoices(ctx)
	if err != nil {
		return fmt.Errorf("error listing invoices: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	// The storefront lists newest first; notices go out oldest first.
	for idx := len(invoices) - 1; idx >= 0; idx-- {
		inv := invoices[idx]
		if inv == nil || inv.ID == "" {
			continue
		}

		id := inv.ID.String()
		status := inv.NormalizedStatus()
		previous, known := w.statuses[id]
		w.track(id, status)

		if !w.seeded {
			continue
		}

		var embed *discordgo.MessageEmbed
		switch {
		case !known:
			embed = messages.NewInvoice(inv)
			feedNotices.WithLabelValues("new").Inc()
		case previous != status:
			embed = messages.InvoiceStatusUpdate(inv, previous)
			feedNotices.WithLabelValues("status").Inc()
		default:
			continue
		}

		for _, channelID := range targets {
			if _, err := w.poster.SendMessage(ctx, channelID, &discordgo.MessageSend{
				Embeds: []*discordgo.MessageEmbed{embed},
			}); err != nil {
				w.l.Error("Error posting invoice notice",
					slog.String(logging.KeyChannel, channelID),
					slog.String(logging.KeyInvoice, id),
					slog.String(logging.KeyError, err.Error()),
				)
			}
		}
	}

	if !w.seeded {
		w.seeded = true
		w.l.Debug("Invoice feed seeded", slog.Int("invoices", len(w.order)))
	}
	return nil
}

// track records the status of an invoice as the most recently seen, forgetting the least recently seen
// beyond MaxTracked.
func (w *Watcher) track(id, status string) {
	if _, ok := w.statuses[id]; ok {
		for idx, o := range w.order {
			if o == id {
				w.order = append(w.order[:idx], w.order[idx+1:]...)
				break
			}
		}
	}
	w.statuses[id] = status
	w.order = append(w.order, id)

	for len(w.order) > MaxTracked {
		delete(w.statuses, w.order[0])
		w.order = w.order[1:]
	}
}

// Tracked returns the number of remembered invoices.
func (w *Watcher) Tracked() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.order)
}
