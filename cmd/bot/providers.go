package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/invoicer/pkg/dataaccess"
	"github.com/Jacobbrewer1/invoicer/pkg/dataaccess/connection"
	"github.com/Jacobbrewer1/invoicer/pkg/guildconfig"
	"github.com/Jacobbrewer1/invoicer/pkg/logging"
	"github.com/Jacobbrewer1/invoicer/pkg/sellauth"
	"github.com/Jacobbrewer1/invoicer/pkg/tickets"
	"github.com/bwmarrin/discordgo"
	"github.com/redis/go-redis/v9"
)

// storeBackend is where the guild configuration document lives.
type storeBackend struct {
	guildconfig.Persister
	dataaccess.Pinger

	// driver is the name of the backend.
	driver string
}

// invoiceCache is the cache in front of invoice lookups. Both fields are nil when caching is disabled.
type invoiceCache struct {
	cache sellauth.Cache
	redis *sellauth.RedisCache
}

func newSession(c *Config) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + c.BotToken)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentMessageContent
	return s, nil
}

func newSellAuthClient(l *slog.Logger, c *Config) *sellauth.Client {
	return sellauth.New(c.SellAuthAPIKey, c.SellAuthShopID,
		sellauth.WithBaseURL(c.SellAuthBaseURL),
		sellauth.WithTimeout(c.SellAuthTimeout),
		sellauth.WithLogger(l.With(slog.String(logging.KeyDal, "sellauth"))),
	)
}

func newStoreBackend(l *slog.Logger, c *Config) (*storeBackend, func(), error) {
	switch c.StoreDriver {
	case dataaccess.DriverMongo:
		conn := &connection.MongoDB{ConnectionString: c.MongoURI}
		client, err := conn.Connect(context.Background())
		if err != nil {
			return nil, nil, fmt.Errorf("error connecting to mongo: %w", err)
		}
		l.Debug("Connected to MongoDB", slog.String("database", c.MongoDatabase))

		store := dataaccess.NewMongoStore(l, client, c.MongoDatabase)
		cleanup := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				l.Error("Error disconnecting from MongoDB", slog.String(logging.KeyError, err.Error()))
			}
		}
		return &storeBackend{Persister: store, Pinger: store, driver: c.StoreDriver}, cleanup, nil
	default:
		store := dataaccess.NewFileStore(l, c.ConfigPath)
		return &storeBackend{Persister: store, Pinger: store, driver: dataaccess.DriverFile}, func() {}, nil
	}
}

func newGuildConfigStore(l *slog.Logger, b *storeBackend) *guildconfig.Store {
	return guildconfig.NewStore(l.With(slog.String("store", b.driver)), b.Persister)
}

func newInvoiceCache(l *slog.Logger, c *Config) (*invoiceCache, func(), error) {
	switch c.CacheDriver {
	case cacheDriverNone:
		return &invoiceCache{}, func() {}, nil
	case cacheDriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		})
		rc := sellauth.NewRedisCache(client, sellauth.DefaultCacheTTL)
		if err := rc.Ping(context.Background()); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("error connecting to redis: %w", err)
		}
		cleanup := func() {
			if err := client.Close(); err != nil {
				l.Error("Error closing redis client", slog.String(logging.KeyError, err.Error()))
			}
		}
		return &invoiceCache{cache: rc, redis: rc}, cleanup, nil
	default:
		return &invoiceCache{cache: sellauth.NewMemoryCache(sellauth.DefaultCacheTTL)}, func() {}, nil
	}
}

func newInvoiceFetcher(l *slog.Logger, client *sellauth.Client, c *invoiceCache) sellauth.InvoiceFetcher {
	if c.cache == nil {
		return client
	}
	return sellauth.NewCachedClient(l, client, c.cache)
}

func newTicketManager(l *slog.Logger, p *discordPlatform, store *guildconfig.Store, invoices sellauth.InvoiceFetcher, c *Config) *tickets.Manager {
	return tickets.NewManager(l.With(slog.String("component", "tickets")), p, store, invoices,
		tickets.WithRequireFullConfig(c.RequireFullConfig),
	)
}
