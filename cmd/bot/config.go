package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Jacobbrewer1/invoicer/pkg/dataaccess"
	"github.com/Jacobbrewer1/invoicer/pkg/feed"
	"github.com/Jacobbrewer1/invoicer/pkg/sellauth"
)

const (
	// AppName is the name of the application.
	AppName = "invoicer"

	// EnvBotToken is the environment variable for the bot token.
	EnvBotToken = `BOT_TOKEN`

	// EnvApplicationID is the environment variable for the application ID.
	EnvApplicationID = `APPLICATION_ID`

	// EnvSellAuthAPIKey is the environment variable for the SellAuth API key.
	EnvSellAuthAPIKey = `SELLAUTH_API_KEY`

	// EnvSellAuthShopID is the environment variable for the SellAuth shop ID.
	EnvSellAuthShopID = `SELLAUTH_SHOP_ID`

	// EnvSellAuthBaseURL is the environment variable for the SellAuth API base URL.
	EnvSellAuthBaseURL = `SELLAUTH_BASE_URL`

	// EnvSellAuthTimeout is the environment variable for the SellAuth request timeout. Zero disables it.
	EnvSellAuthTimeout = `SELLAUTH_TIMEOUT`

	// EnvStoreDriver is the environment variable selecting where guild configuration is stored.
	EnvStoreDriver = `STORE_DRIVER`

	// EnvConfigPath is the environment variable for the guild configuration file.
	EnvConfigPath = `CONFIG_PATH`

	// EnvMongoURI is the environment variable for the MongoDB URI.
	EnvMongoURI = `MONGO_URI`

	// EnvMongoDatabase is the environment variable for the MongoDB database.
	EnvMongoDatabase = `MONGO_DATABASE`

	// EnvCacheDriver is the environment variable selecting the invoice cache.
	EnvCacheDriver = `CACHE_DRIVER`

	// EnvRedisAddr is the environment variable for the Redis address.
	EnvRedisAddr = `REDIS_ADDR`

	// EnvRedisPassword is the environment variable for the Redis password.
	EnvRedisPassword = `REDIS_PASSWORD`

	// EnvRedisDB is the environment variable for the Redis database number.
	EnvRedisDB = `REDIS_DB`

	// EnvMonitoringPort is the environment variable for the monitoring port.
	EnvMonitoringPort = `MONITORING_PORT`

	// EnvRequireFullConfig is the environment variable that blocks ticket creation until the guild is configured.
	EnvRequireFullConfig = `REQUIRE_FULL_CONFIG`

	// EnvInvoiceFeedChannelID is the environment variable for the channel the invoice feed posts to.
	EnvInvoiceFeedChannelID = `INVOICE_FEED_CHANNEL_ID`

	// EnvInvoiceFeedInterval is the environment variable for how often the invoice feed polls.
	EnvInvoiceFeedInterval = `INVOICE_FEED_INTERVAL`
)

const (
	cacheDriverMemory = "memory"
	cacheDriverRedis  = "redis"
	cacheDriverNone   = "none"

	defaultConfigPath     = "config.json"
	defaultMonitoringPort = "8080"
)

// Config is the configuration of the application.
type Config struct {
	BotToken      string
	ApplicationID string

	SellAuthAPIKey  string
	SellAuthShopID  string
	SellAuthBaseURL string
	SellAuthTimeout time.Duration

	StoreDriver   string
	ConfigPath    string
	MongoURI      string
	MongoDatabase string

	CacheDriver   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MonitoringPort    string
	RequireFullConfig bool

	InvoiceFeedChannelID string
	InvoiceFeedInterval  time.Duration
}

// ConfigError lists every problem found in the configuration.
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	var sb strings.Builder
	sb.WriteString("invalid configuration:")
	for idx, p := range e.Problems {
		fmt.Fprintf(&sb, "\n  %d. %s", idx+1, p)
	}
	return sb.String()
}

func (e *ConfigError) add(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

func (e *ConfigError) orNil() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}

// loadConfig reads the configuration from the environment.
func loadConfig(l *slog.Logger) (*Config, error) {
	return parseConfig(l, os.Getenv)
}

func parseConfig(l *slog.Logger, getenv func(string) string) (*Config, error) {
	ce := new(ConfigError)

	required := func(key string) string {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			ce.add("%s is required", key)
		}
		return v
	}
	withDefault := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			l.Debug("Found value in environment", slog.String("key", key))
			return v
		}
		return def
	}

	c := &Config{
		BotToken:             required(EnvBotToken),
		ApplicationID:        required(EnvApplicationID),
		SellAuthAPIKey:       required(EnvSellAuthAPIKey),
		SellAuthShopID:       required(EnvSellAuthShopID),
		SellAuthBaseURL:      withDefault(EnvSellAuthBaseURL, sellauth.DefaultBaseURL),
		SellAuthTimeout:      sellauth.DefaultTimeout,
		StoreDriver:          strings.ToLower(withDefault(EnvStoreDriver, dataaccess.DriverFile)),
		ConfigPath:           withDefault(EnvConfigPath, defaultConfigPath),
		MongoURI:             withDefault(EnvMongoURI, ""),
		MongoDatabase:        withDefault(EnvMongoDatabase, dataaccess.DefaultMongoDatabase),
		CacheDriver:          strings.ToLower(withDefault(EnvCacheDriver, cacheDriverMemory)),
		RedisAddr:            withDefault(EnvRedisAddr, ""),
		RedisPassword:        withDefault(EnvRedisPassword, ""),
		MonitoringPort:       withDefault(EnvMonitoringPort, defaultMonitoringPort),
		InvoiceFeedChannelID: withDefault(EnvInvoiceFeedChannelID, ""),
		InvoiceFeedInterval:  feed.DefaultInterval,
	}

	switch c.StoreDriver {
	case dataaccess.DriverFile:
	case dataaccess.DriverMongo:
		if c.MongoURI == "" {
			ce.add("%s is required when %s is %q", EnvMongoURI, EnvStoreDriver, dataaccess.DriverMongo)
		}
	default:
		ce.add("%s must be %q or %q, got %q", EnvStoreDriver, dataaccess.DriverFile, dataaccess.DriverMongo, c.StoreDriver)
	}

	switch c.CacheDriver {
	case cacheDriverMemory, cacheDriverNone:
	case cacheDriverRedis:
		if c.RedisAddr == "" {
			ce.add("%s is required when %s is %q", EnvRedisAddr, EnvCacheDriver, cacheDriverRedis)
		}
	default:
		ce.add("%s must be %q, %q or %q, got %q", EnvCacheDriver, cacheDriverMemory, cacheDriverRedis, cacheDriverNone, c.CacheDriver)
	}

	if v := withDefault(EnvRedisDB, ""); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil || db < 0 {
			ce.add("%s must be a non-negative integer, got %q", EnvRedisDB, v)
		}
		c.RedisDB = db
	}

	if port, err := strconv.Atoi(c.MonitoringPort); err != nil || port <= 0 || port > 65535 {
		ce.add("%s must be a port number, got %q", EnvMonitoringPort, c.MonitoringPort)
	}

	if v := withDefault(EnvRequireFullConfig, ""); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			ce.add("%s must be a boolean, got %q", EnvRequireFullConfig, v)
		}
		c.RequireFullConfig = b
	}

	if v := withDefault(EnvSellAuthTimeout, ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			ce.add("%s must be a non-negative duration, got %q", EnvSellAuthTimeout, v)
		}
		c.SellAuthTimeout = d
	}

	if v := withDefault(EnvInvoiceFeedInterval, ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			ce.add("%s must be a positive duration, got %q", EnvInvoiceFeedInterval, v)
		}
		c.InvoiceFeedInterval = d
	}

	if err := ce.orNil(); err != nil {
		return nil, err
	}
	return c, nil
}
