package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/Jacobbrewer1/invoicer/pkg/logging"
	"github.com/Jacobbrewer1/invoicer/pkg/request"
	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// interactionTimeout bounds the handling of a single interaction or message.
const interactionTimeout = 30 * time.Second

// commandProcessor handles an interaction.
type commandProcessor func(ctx context.Context, a IApp, i *discordgo.InteractionCreate) error

type Controller func(w http.ResponseWriter, r *http.Request)

type loggerKey struct{}

// withLogger returns a context carrying a request scoped logger.
func withLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFrom returns the request scoped logger of ctx, or the application logger.
func loggerFrom(ctx context.Context, a IApp) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return a.Log()
}

// newRequestContext creates the context of a handled event with a request scoped logger.
func newRequestContext(a IApp, attrs ...any) (context.Context, context.CancelFunc) {
	l := a.Log().With(append([]any{slog.String(logging.KeyRequestID, uuid.NewString())}, attrs...)...)
	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	return withLogger(ctx, l), cancel
}

func middlewareHttp(handler Controller, a IApp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC()
		cw := request.NewClientWriter(w)

		// Recover from any panics that occur in the handler.
		defer func() {
			if rec := recover(); rec != nil {
				a.Log().Error("Panic in handler",
					slog.String(logging.KeyError, fmt.Sprint(rec)),
					slog.String("stack", string(debug.Stack())),
				)
				cw.WriteHeader(http.StatusInternalServerError)
				if err := json.NewEncoder(cw).Encode(request.NewMessage(request.ErrInternalServer.Error())); err != nil {
					a.Log().Error("Error encoding response", slog.String(logging.KeyError, err.Error()))
				}
			}
		}()

		var path string
		route := mux.CurrentRoute(r)
		if route != nil { // The route may be nil if the request is not routed.
			var err error
			path, err = route.GetPathTemplate()
			if err != nil {
				// An error here is only returned if the route does not define a path.
				a.Log().Error("Error getting path template", slog.String(logging.KeyError, err.Error()))
				path = r.URL.Path
			}
		} else {
			path = r.URL.Path
		}

		defer func() {
			// The status code is only known once the handler has returned.
			HttpTotalRequests.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Inc()
			HttpRequestDuration.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Observe(time.Since(now).Seconds())
		}()

		handler(cw, r)
	}
}

// interactionHandler dispatches slash commands by name and buttons by custom ID.
func interactionHandler(a IApp, commands map[string]commandProcessor, buttons map[string]commandProcessor) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		var (
			name      string
			processor commandProcessor
			ok        bool
		)
		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			name = i.ApplicationCommandData().Name
			processor, ok = commands[name]
		case discordgo.InteractionMessageComponent:
			name = i.MessageComponentData().CustomID
			processor, ok = buttons[name]
		default:
			return
		}

		ctx, cancel := newRequestContext(a,
			slog.String("command", name),
			slog.String(logging.KeyGuild, i.GuildID),
			slog.String(logging.KeyChannel, i.ChannelID),
			slog.String(logging.KeyUser, interactionUserID(i)),
		)
		defer cancel()
		l := loggerFrom(ctx, a)

		if !ok {
			l.Error("No processor found for interaction")
			if err := respondError(a, i); err != nil {
				l.Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
			}
			return
		}

		t := time.Now()
		defer func() {
			DiscordCommandDuration.WithLabelValues(name).Observe(time.Since(t).Seconds())
		}()

		defer func() {
			if rec := recover(); rec != nil {
				DiscordCommandErrors.WithLabelValues(name).Inc()
				l.Error("Panic in interaction handler",
					slog.String(logging.KeyError, fmt.Sprint(rec)),
					slog.String("stack", string(debug.Stack())),
				)
				if err := respondError(a, i); err != nil {
					l.Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
				}
			}
		}()

		l.Debug("Handling interaction")
		if err := processor(ctx, a, i); err != nil {
			DiscordCommandErrors.WithLabelValues(name).Inc()
			l.Error("Error processing interaction", slog.String(logging.KeyError, err.Error()))

			if err := respondError(a, i); err != nil {
				l.Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
			}
		}
	}
}
