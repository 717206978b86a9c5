package main

import (
	"log/slog"

	"github.com/Jacobbrewer1/invoicer/pkg/logging"
	"github.com/bwmarrin/discordgo"
)

func guildJoinedHandler(a IApp) func(s *discordgo.Session, g *discordgo.GuildCreate) {
	return func(s *discordgo.Session, g *discordgo.GuildCreate) {
		a.Log().Info("Joined guild",
			slog.String(logging.KeyGuild, g.ID),
			slog.String("name", g.Name),
		)

		setGuildCount(s)
	}
}

func guildLeaveHandler(a IApp) func(s *discordgo.Session, g *discordgo.GuildDelete) {
	return func(s *discordgo.Session, g *discordgo.GuildDelete) {
		// An outage is reported as a delete of an unavailable guild; the bot is still in it.
		if g.Unavailable {
			return
		}

		a.Log().Info("Left guild", slog.String(logging.KeyGuild, g.ID))
		setGuildCount(s)
	}
}

func eventCounter(_ *discordgo.Session, e *discordgo.Event) {
	if e.Type != "" {
		TotalDiscordEvents.WithLabelValues(e.Type).Inc()
		return
	}
	TotalDiscordEvents.WithLabelValues("UNKNOWN").Inc()
}

// setGuildCount sets the guild gauge from the session state, which is updated before handlers run.
func setGuildCount(s *discordgo.Session) {
	if s == nil || s.State == nil {
		return
	}
	s.State.RLock()
	defer s.State.RUnlock()
	TotalDiscordGuilds.Set(float64(len(s.State.Guilds)))
}
