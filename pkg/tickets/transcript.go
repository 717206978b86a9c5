package tickets

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// transcriptTimeFormat is the timestamp layout of transcript lines.
const transcriptTimeFormat = "2006-01-02 15:04:05"

// RenderTranscript renders messages in chronological order as "[timestamp] author: content" lines, each
// followed by its embeds.
func RenderTranscript(msgs []*discordgo.Message) string {
	sorted := make([]*discordgo.Message, 0, len(msgs))
	for _, msg := range msgs {
		if msg != nil {
			sorted = append(sorted, msg)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var sb strings.Builder
	for _, msg := range sorted {
		fmt.Fprintf(&sb, "[%s] %s: %s", msg.Timestamp.UTC().Format(transcriptTimeFormat), authorTag(msg.Author), msg.Content)
		writeEmbeds(&sb, msg.Embeds)
		sb.WriteString("\n")
	}
	return sb.String()
}

func writeEmbeds(sb *strings.Builder, embeds []*discordgo.MessageEmbed) {
	if len(embeds) == 0 {
		return
	}

	sb.WriteString("\n[Embeds:")
	for idx, e := range embeds {
		if e == nil {
			continue
		}
		fmt.Fprintf(sb, "\n  Embed %d:", idx+1)
		if e.Title != "" {
			fmt.Fprintf(sb, "\n    Title: %s", e.Title)
		}
		if e.Description != "" {
			fmt.Fprintf(sb, "\n    Description: %s", e.Description)
		}
		if len(e.Fields) > 0 {
			sb.WriteString("\n    Fields:")
			for _, f := range e.Fields {
				fmt.Fprintf(sb, "\n      %s: %s", f.Name, f.Value)
			}
		}
	}
	sb.WriteString("\n]")
}

// authorTag returns the username, with the discriminator for accounts that still have one.
func authorTag(u *discordgo.User) string {
	switch {
	case u == nil:
		return "unknown"
	case u.Discriminator == "" || u.Discriminator == "0":
		return u.Username
	default:
		return u.Username + "#" + u.Discriminator
	}
}
