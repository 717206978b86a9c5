package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/invoicer/pkg/guildconfig"
	"github.com/Jacobbrewer1/invoicer/pkg/logging"
	"github.com/Jacobbrewer1/invoicer/pkg/messages"
	"github.com/bwmarrin/discordgo"
)

const (
	// configCmdName is the command for all configuration commands.
	configCmdName = "config"

	// configStaffCmdName sets the staff role.
	configStaffCmdName = "staff"

	// configCategoryCmdName sets the ticket category.
	configCategoryCmdName = "category"

	// configTranscriptCmdName sets the transcript channel.
	configTranscriptCmdName = "transcript"

	// configResetCmdName removes the configuration of the guild.
	configResetCmdName = "reset"

	// configInvoiceChannelCmdName sets the channel the invoice feed posts to.
	configInvoiceChannelCmdName = "invoice-channel"

	// configAutoCheckCmdName turns the invoice feed on or off.
	configAutoCheckCmdName = "auto-check"

	roleOptionName     = "role"
	categoryOptionName = "category"
	channelOptionName  = "channel"
	enabledOptionName  = "enabled"
)

// ErrPermissionDenied is returned when a member without the administrator permission uses an admin command.
var ErrPermissionDenied = errors.New("permission denied")

// adminPermission is the default member permission of admin commands.
var adminPermission int64 = discordgo.PermissionAdministrator

var (
	// configCmd is the command for all configuration commands.
	configCmd = &discordgo.ApplicationCommand{
		Name:                     configCmdName,
		Type:                     discordgo.ChatApplicationCommand,
		Description:              "Configure the ticket system for this server",
		DefaultMemberPermissions: &adminPermission,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        configStaffCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Set the role that handles tickets",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        roleOptionName,
						Type:        discordgo.ApplicationCommandOptionRole,
						Description: "The staff role",
						Required:    true,
					},
				},
			},
			{
				Name:        configCategoryCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Set the category tickets are created in",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:         categoryOptionName,
						Type:         discordgo.ApplicationCommandOptionChannel,
						Description:  "The ticket category",
						Required:     true,
						ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildCategory},
					},
				},
			},
			{
				Name:        configTranscriptCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Set the channel transcripts are posted to",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:         channelOptionName,
						Type:         discordgo.ApplicationCommandOptionChannel,
						Description:  "The transcript channel",
						Required:     true,
						ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
					},
				},
			},
			{
				Name:        configInvoiceChannelCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Set the channel automatic invoice status updates are sent to",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:         channelOptionName,
						Type:         discordgo.ApplicationCommandOptionChannel,
						Description:  "The invoice channel",
						Required:     true,
						ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
					},
				},
			},
			{
				Name:        configAutoCheckCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Toggle automatic checking of new invoices",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        enabledOptionName,
						Type:        discordgo.ApplicationCommandOptionBoolean,
						Description: "Enable or disable automatic checking",
						Required:    true,
					},
				},
			},
			{
				Name:        configResetCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Reset all bot configuration for this server",
			},
		},
	}
)

// adminOnly rejects members without the administrator permission.
func adminOnly(next commandProcessor) commandProcessor {
	return func(ctx context.Context, a IApp, i *discordgo.InteractionCreate) error {
		if i.GuildID == "" {
			return respondEphemeral(a, i, messages.ErrGuildOnly)
		}
		if !isAdmin(i) {
			loggerFrom(ctx, a).Warn("Admin command rejected", slog.String(logging.KeyError, ErrPermissionDenied.Error()))
			return respondEphemeral(a, i, messages.ErrPermissionDenied)
		}
		return next(ctx, a, i)
	}
}

// configCmdHandler dispatches the config subcommands.
func configCmdHandler(ctx context.Context, a IApp, i *discordgo.InteractionCreate) error {
	opts := i.ApplicationCommandData().Options
	if len(opts) == 0 {
		return errors.New("config command without a subcommand")
	}
	sub := opts[0]

	var (
		patch guildconfig.Patch
		reply string
	)
	switch sub.Name {
	case configStaffCmdName:
		id, name := resolvedRole(i, sub.Options, roleOptionName)
		patch.StaffRoleID = &id
		reply = messages.StaffRoleSet(name)
	case configCategoryCmdName:
		id, name := resolvedChannel(i, sub.Options, categoryOptionName)
		patch.TicketCategoryID = &id
		reply = messages.TicketCategorySet(name)
	case configTranscriptCmdName:
		id, _ := resolvedChannel(i, sub.Options, channelOptionName)
		patch.TranscriptChannelID = &id
		reply = messages.TranscriptChannelSet(id)
	case configInvoiceChannelCmdName:
		id, _ := resolvedChannel(i, sub.Options, channelOptionName)
		patch.InvoiceChannelID = &id
		reply = messages.InvoiceChannelSet(id)
	case configAutoCheckCmdName:
		enabled := optionBool(sub.Options, enabledOptionName)
		patch.AutoCheck = &enabled
		reply = autoCheckReply(enabled, a.GuildConfigs().Get(i.GuildID).InvoiceChannelID)
	case configResetCmdName:
		if err := a.GuildConfigs().Reset(ctx, i.GuildID); err != nil {
			return fmt.Errorf("error resetting guild configuration: %w", err)
		}
		loggerFrom(ctx, a).Info("Guild configuration reset")
		return respondEphemeral(a, i, messages.ConfigReset)
	default:
		return fmt.Errorf("unknown config subcommand %q", sub.Name)
	}

	if len(sub.Options) == 0 {
		return fmt.Errorf("config %s without a value", sub.Name)
	}

	if _, err := a.GuildConfigs().Set(ctx, i.GuildID, patch); err != nil {
		return fmt.Errorf("error saving guild configuration: %w", err)
	}
	loggerFrom(ctx, a).Info("Guild configuration updated", slog.String("setting", sub.Name))
	return respondEphemeral(a, i, reply)
}

// optionValue returns the raw ID value of the named option.
func optionValue(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, o := range opts {
		if o.Name == name {
			if s, ok := o.Value.(string); ok {
				return s
			}
		}
	}
	return ""
}

// optionBool returns the boolean value of the named option, or false.
func optionBool(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) bool {
	for _, o := range opts {
		if o.Name == name && o.Type == discordgo.ApplicationCommandOptionBoolean {
			return o.BoolValue()
		}
	}
	return false
}

// autoCheckReply is the reply to toggling the invoice feed.
func autoCheckReply(enabled bool, invoiceChannelID string) string {
	switch {
	case !enabled:
		return messages.AutoCheckDisabled
	case invoiceChannelID == "":
		return messages.AutoCheckNeedsChannel
	default:
		return messages.AutoCheckEnabled
	}
}

// resolvedRole returns the ID and name of the role option, using the ID as the name if it was not resolved.
func resolvedRole(i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption, name string) (string, string) {
	id := optionValue(opts, name)
	if res := i.ApplicationCommandData().Resolved; res != nil {
		if r, ok := res.Roles[id]; ok && r != nil {
			return id, r.Name
		}
	}
	return id, id
}

// resolvedChannel returns the ID and name of the channel option, using the ID as the name if it was not resolved.
func resolvedChannel(i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption, name string) (string, string) {
	id := optionValue(opts, name)
	if res := i.ApplicationCommandData().Resolved; res != nil {
		if c, ok := res.Channels[id]; ok && c != nil {
			return id, c.Name
		}
	}
	return id, id
}
