package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	// KeyError is the key for errors in the logs.
	KeyError = "err"

	// KeyDal is the key for the data access layer in the logs.
	KeyDal = "dal"

	// KeyGuild is the key for a guild ID in the logs.
	KeyGuild = "guild_id"

	// KeyChannel is the key for a channel ID in the logs.
	KeyChannel = "channel_id"

	// KeyUser is the key for a user ID in the logs.
	KeyUser = "user_id"

	// KeyInvoice is the key for an invoice ID in the logs.
	KeyInvoice = "invoice_id"

	// KeyRequestID is the key for the correlation ID of a handled event.
	KeyRequestID = "request_id"

	// KeyApp is the key for the application name in the logs.
	KeyApp = "app"
)

// EnvLogLevel is the environment variable for the log level.
const EnvLogLevel = `LOG_LEVEL`

// Name is the name of the application the logger is for.
type Name string

// Config is the configuration for the logger.
type Config struct {
	// Name is the application name attached to every record.
	Name Name

	// Level is the minimum level that is written.
	Level slog.Level

	// Writer is where the records are written. Defaults to stdout.
	Writer io.Writer
}

// NewConfig creates a new logger configuration, reading the level from the environment.
func NewConfig(name Name) *Config {
	return &Config{
		Name:  name,
		Level: levelFromString(os.Getenv(EnvLogLevel)),
	}
}

// CommonLogger creates the JSON logger used by the application and sets it as the default logger.
func CommonLogger(c *Config) (*slog.Logger, error) {
	if c == nil {
		return nil, fmt.Errorf("logging config is nil")
	}

	w := c.Writer
	if w == nil {
		w = os.Stdout
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource: c.Level == slog.LevelDebug,
		Level:     c.Level,
	})

	l := slog.New(h).With(slog.String(KeyApp, string(c.Name)))
	slog.SetDefault(l)
	return l, nil
}

func levelFromString(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
