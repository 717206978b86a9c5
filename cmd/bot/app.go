package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/Jacobbrewer1/invoicer/pkg/entities"
	"github.com/Jacobbrewer1/invoicer/pkg/feed"
	"github.com/Jacobbrewer1/invoicer/pkg/guildconfig"
	"github.com/Jacobbrewer1/invoicer/pkg/logging"
	"github.com/Jacobbrewer1/invoicer/pkg/messages"
	"github.com/Jacobbrewer1/invoicer/pkg/request"
	"github.com/Jacobbrewer1/invoicer/pkg/sellauth"
	"github.com/Jacobbrewer1/invoicer/pkg/tickets"
	"github.com/bwmarrin/discordgo"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// PathMetrics is the path for metrics.
	PathMetrics = "/metrics"

	// PathHealth is the path for the health check.
	PathHealth = "/health"

	shutdownTimeout = 10 * time.Second
)

// IApp is the interface for the application.
type IApp interface {
	// Log returns the application logger.
	Log() *slog.Logger

	// Session returns the discord session.
	Session() *discordgo.Session

	// Platform returns the Discord operations used by tickets and the feed.
	Platform() tickets.Platform

	// Invoices returns the invoice lookup.
	Invoices() sellauth.InvoiceFetcher

	// GuildConfigs returns the guild configuration store.
	GuildConfigs() guildconfig.Repository

	// Tickets returns the ticket manager.
	Tickets() *tickets.Manager
}

type App struct {
	// is the logger.
	*slog.Logger

	// r is the router for the monitoring server.
	r *mux.Router

	// svr is the monitoring server.
	svr *http.Server

	// s is the discord session.
	s *discordgo.Session

	cfg      *Config
	sellauth *sellauth.Client
	invoices sellauth.InvoiceFetcher
	configs  *guildconfig.Store
	tickets  *tickets.Manager
	platform *discordPlatform
	backend  *storeBackend
	cache    *invoiceCache
}

// NewApp creates a new instance of App.
func NewApp(
	l *slog.Logger,
	r *mux.Router,
	cfg *Config,
	s *discordgo.Session,
	client *sellauth.Client,
	invoices sellauth.InvoiceFetcher,
	configs *guildconfig.Store,
	ticketManager *tickets.Manager,
	platform *discordPlatform,
	backend *storeBackend,
	cache *invoiceCache,
) *App {
	return &App{
		Logger:   l,
		r:        r,
		s:        s,
		cfg:      cfg,
		sellauth: client,
		invoices: invoices,
		configs:  configs,
		tickets:  ticketManager,
		platform: platform,
		backend:  backend,
		cache:    cache,
	}
}

// Run validates the credentials, connects to Discord and blocks until ctx is done.
func (a *App) Run(ctx context.Context) error {
	if err := a.validateCredentials(ctx); err != nil {
		return err
	}

	if err := a.configs.LoadAll(ctx); err != nil {
		return fmt.Errorf("error loading guild configuration: %w", err)
	}
	a.Info("Guild configuration loaded", slog.Int("guilds", a.configs.Len()))

	a.registerDiscordHandlers()

	// Open websocket.
	if err := a.s.Open(); err != nil {
		return fmt.Errorf("error opening connection to Discord: %w", err)
	}

	if err := a.registerSlashCommands(ctx); err != nil {
		_ = a.s.Close()
		return fmt.Errorf("error registering slash commands: %w", err)
	}

	a.setupRoutes()
	a.runServer()

	w := feed.NewWatcher(a.With(slog.String("component", "feed")), a.sellauth, a.platform, func() []string {
		return feedTargets(a.cfg.InvoiceFeedChannelID, a.configs.All())
	}, a.cfg.InvoiceFeedInterval)
	go w.Run(ctx)

	a.Info("Bot is now running.")
	<-ctx.Done()
	a.Info("Received shutdown signal")

	return a.ShutdownHook()
}

func (a *App) ShutdownHook() error {
	// Reset the total number of guilds to 0.
	TotalDiscordGuilds.Set(0)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if a.svr != nil {
		if err := a.svr.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("error shutting down monitoring server: %w", err))
		}
	}

	if err := a.configs.SaveAll(ctx); err != nil {
		errs = append(errs, fmt.Errorf("error saving guild configuration: %w", err))
	}

	// Close the connection to Discord.
	if err := a.s.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing connection to Discord: %w", err))
	}
	return errors.Join(errs...)
}

// validateCredentials checks the Discord token and the storefront credentials against the live APIs.
func (a *App) validateCredentials(ctx context.Context) error {
	ce := new(ConfigError)

	if _, err := a.s.User("@me", discordgo.WithContext(ctx)); err != nil {
		ce.add("%s was rejected by Discord: %v", EnvBotToken, err)
	}

	shop, err := a.sellauth.Shop(ctx)
	switch {
	case sellauth.StatusCode(err) == http.StatusUnauthorized:
		ce.add("Invalid SellAuth API key")
	case err != nil:
		ce.add("SellAuth credentials could not be checked: %v", err)
	case shop.ID.String() != a.cfg.SellAuthShopID:
		ce.add("%s %q does not match the shop of the API key (%q)", EnvSellAuthShopID, a.cfg.SellAuthShopID, shop.ID)
	default:
		a.Info("SellAuth shop verified", slog.String("shop", shop.Name))
	}

	return ce.orNil()
}

// feedTargets returns the channel set in the environment followed by the channels of the guilds that turned
// the invoice feed on, without duplicates.
func feedTargets(static string, guilds map[string]entities.GuildConfig) []string {
	ids := make([]string, 0, len(guilds))
	for id := range guilds {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	seen := make(map[string]struct{}, len(ids)+1)
	targets := make([]string, 0, len(ids)+1)
	add := func(channelID string) {
		if channelID == "" {
			return
		}
		if _, ok := seen[channelID]; ok {
			return
		}
		seen[channelID] = struct{}{}
		targets = append(targets, channelID)
	}

	add(static)
	for _, id := range ids {
		add(guilds[id].FeedChannel())
	}
	return targets
}

func (a *App) registerDiscordHandlers() {
	a.s.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		a.Info("Logged in", slog.String("user", r.User.String()), slog.Int("guilds", len(r.Guilds)))
	})

	// Count every gateway event.
	a.s.AddHandler(eventCounter)

	// Bot joined guild.
	a.s.AddHandler(guildJoinedHandler(a))

	// Bot left guild.
	a.s.AddHandler(guildLeaveHandler(a))

	// Invoice submissions in ticket channels.
	a.s.AddHandler(messageCreateHandler(a))

	// Interaction create handler.
	a.s.AddHandler(interactionHandler(a,
		// Slash commands
		map[string]commandProcessor{
			invoiceCmdName:     invoiceCmdHandler,
			checkCmdName:       invoiceCmdHandler,
			ticketEmbedCmdName: adminOnly(ticketEmbedCmdHandler),
			configCmdName:      adminOnly(configCmdHandler),
			closeCmdName:       closeTicketHandler,
		},
		// Buttons
		map[string]commandProcessor{
			messages.CreateTicketButtonID: createTicketHandler,
			messages.CloseTicketButtonID:  closeTicketHandler,
		}))
}

// slashCommands returns every slash command of the bot.
func slashCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		invoiceCmd,
		checkCmd,
		ticketEmbedCmd,
		configCmd,
		closeCmd,
	}
}

// registerSlashCommands replaces the global commands of the application with the current set.
func (a *App) registerSlashCommands(ctx context.Context) error {
	cmds, err := a.s.ApplicationCommandBulkOverwrite(a.cfg.ApplicationID, "", slashCommands(), discordgo.WithContext(ctx))
	if err != nil {
		return err
	}
	a.Info("Slash commands registered", slog.Int("commands", len(cmds)))
	return nil
}

func (a *App) setupRoutes() {
	a.r.HandleFunc(PathMetrics, promhttp.Handler().ServeHTTP).Methods(http.MethodGet)
	a.r.HandleFunc(PathHealth, middlewareHttp(a.healthCheck(), a)).Methods(http.MethodGet)

	a.r.NotFoundHandler = request.NotFoundHandler(a.Logger)
	a.r.MethodNotAllowedHandler = request.MethodNotAllowedHandler(a.Logger)
}

func (a *App) runServer() {
	a.svr = &http.Server{
		Addr:              ":" + a.cfg.MonitoringPort,
		Handler:           a.r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		a.Info("Starting monitoring server", slog.String("addr", a.svr.Addr))
		if err := a.svr.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Error("Error starting monitoring server", slog.String(logging.KeyError, err.Error()))
			a.Warn("Monitoring server will not be available")
		}
	}()
}

func (a *App) Log() *slog.Logger {
	return a.Logger
}

func (a *App) Session() *discordgo.Session {
	return a.s
}

func (a *App) Platform() tickets.Platform {
	return a.platform
}

func (a *App) Invoices() sellauth.InvoiceFetcher {
	return a.invoices
}

func (a *App) GuildConfigs() guildconfig.Repository {
	return a.configs
}

func (a *App) Tickets() *tickets.Manager {
	return a.tickets
}
