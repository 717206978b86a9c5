package entities

// GuildConfig is the ticketing configuration for a guild. Empty fields are unconfigured.
type GuildConfig struct {
	// StaffRoleID is the ID of the role that handles tickets and is pinged for paid invoices.
	StaffRoleID string `json:"staffRole,omitempty" bson:"staff_role,omitempty"`

	// TicketCategoryID is the ID of the category that ticket channels are created in.
	TicketCategoryID string `json:"ticketCategory,omitempty" bson:"ticket_category,omitempty"`

	// TranscriptChannelID is the ID of the channel that transcripts are posted to.
	TranscriptChannelID string `json:"transcriptChannel,omitempty" bson:"transcript_channel,omitempty"`

	// InvoiceChannelID is the ID of the channel the invoice feed posts to.
	InvoiceChannelID string `json:"invoiceChannel,omitempty" bson:"invoice_channel,omitempty"`

	// AutoCheck enables the invoice feed for the guild.
	AutoCheck bool `json:"autoCheck,omitempty" bson:"auto_check,omitempty"`
}

const (
	// SettingStaff is the name of the staff role setting.
	SettingStaff = "staff"

	// SettingCategory is the name of the ticket category setting.
	SettingCategory = "category"

	// SettingTranscript is the name of the transcript channel setting.
	SettingTranscript = "transcript"
)

// IsEmpty reports whether nothing is configured.
func (g GuildConfig) IsEmpty() bool {
	return g == GuildConfig{}
}

// FeedChannel returns the channel the invoice feed posts to, or an empty string when the feed is off.
func (g GuildConfig) FeedChannel() string {
	if !g.AutoCheck {
		return ""
	}
	return g.InvoiceChannelID
}

// Missing returns the names of the ticket settings that are not configured.
func (g GuildConfig) Missing() []string {
	missing := make([]string, 0, 3)
	if g.StaffRoleID == "" {
		missing = append(missing, SettingStaff)
	}
	if g.TicketCategoryID == "" {
		missing = append(missing, SettingCategory)
	}
	if g.TranscriptChannelID == "" {
		missing = append(missing, SettingTranscript)
	}
	return missing
}
