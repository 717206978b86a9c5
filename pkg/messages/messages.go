package messages

// User facing texts.
const (
	ErrUserErrorProcessing = "There was an error processing your request. Please try again later."

	ErrPermissionDenied = "❌ You need administrator permissions to use this command."

	ErrAlreadyOpenTicket = "❌ You already have an open ticket!"

	ErrNotTicketChannel = "❌ This command can only be used in ticket channels!"

	ErrTicketCreation = "❌ An error occurred while creating your ticket. Please try again."

	ErrGuildOnly = "❌ This command can only be used in a server."

	ErrMissingInvoiceID = "❌ Please provide an invoice ID."

	TicketPanelPosted = "✅ Ticket system has been set up!"

	ConfigReset = "✅ All bot configurations have been reset for this server."

	TicketClosing = "🔒 Closing ticket in 5 seconds..."

	AutoCheckEnabled = "✅ Automatic invoice checking has been enabled."

	AutoCheckDisabled = "✅ Automatic invoice checking has been disabled."

	AutoCheckNeedsChannel = "⚠️ Automatic invoice checking has been enabled, but no invoice channel is set. Use `/config invoice-channel` to choose one."
)

// Invoice outcome texts. The ticket wording points the user at staff, the command wording does not.
const (
	invoiceNotFoundTicket  = "❌ Invalid invoice ID. Please provide a valid invoice ID or contact staff for assistance."
	invoiceNotFoundCommand = "❌ Invalid invoice ID. Please try again with a valid invoice ID."

	authFailedTicket  = "❌ Authentication failed. Please contact staff for assistance."
	authFailedCommand = "❌ Authentication failed. Please check the API key."

	lookupFailedTicket  = "❌ Error checking invoice. Please try again later or contact staff for assistance."
	lookupFailedCommand = "❌ Error checking invoice. Please try again later."

	// PendingHint replaces the invoice description when payment is still pending.
	PendingHint = "Please complete the payment. If you need assistance, please mention a staff member."

	// OtherStatusHint replaces the invoice description for cancelled, failed and unknown statuses.
	OtherStatusHint = "Please create a new invoice or contact staff for assistance."
)

// Audience is who an invoice outcome is worded for.
type Audience int

const (
	// AudienceCommand is a reply to the invoice slash command.
	AudienceCommand Audience = iota

	// AudienceTicket is a reply inside a ticket channel.
	AudienceTicket
)

// StaffRoleSet is the reply to setting the staff role.
func StaffRoleSet(roleName string) string {
	return "✅ Staff role has been set to " + roleName
}

// TicketCategorySet is the reply to setting the ticket category.
func TicketCategorySet(categoryName string) string {
	return "✅ Ticket category has been set to " + categoryName
}

// TranscriptChannelSet is the reply to setting the transcript channel.
func TranscriptChannelSet(channelID string) string {
	return "✅ Transcript channel has been set to " + ChannelMention(channelID)
}

// InvoiceChannelSet is the reply to setting the invoice feed channel.
func InvoiceChannelSet(channelID string) string {
	return "✅ Invoice status updates will now be sent to " + ChannelMention(channelID)
}

// InvoicePostedIn is the reply to an invoice lookup whose result was posted in another channel.
func InvoicePostedIn(invoiceID, channelID string) string {
	return "✅ Invoice " + invoiceID + " status has been posted in " + ChannelMention(channelID)
}

// TicketCreated is the reply to a successful ticket creation.
func TicketCreated(channelID string) string {
	return "✅ Your ticket has been created: " + ChannelMention(channelID)
}

// TicketCreatedFallback is posted in the new ticket when the interaction could no longer be answered.
func TicketCreatedFallback(userID string) string {
	return UserMention(userID) + " Your ticket has been created!"
}

// UserMention formats a user mention.
func UserMention(id string) string {
	return "<@" + id + ">"
}

// RoleMention formats a role mention.
func RoleMention(id string) string {
	return "<@&" + id + ">"
}

// ChannelMention formats a channel mention.
func ChannelMention(id string) string {
	return "<#" + id + ">"
}
