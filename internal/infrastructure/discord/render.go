package discord

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"ArticleBot/internal/view"
)

const embedColor = 0x0099ff

func renderEmbed(card *view.Card) *discordgo.MessageEmbed {
	if card == nil {
		return nil
	}
	embed := &discordgo.MessageEmbed{
		Title:       card.Title,
		URL:         card.URL,
		Description: card.Description,
		Color:       embedColor,
	}
	if card.ImageURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: card.ImageURL}
	}
	for _, f := range card.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}
	if card.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: card.Footer}
	}
	if !card.Timestamp.IsZero() {
		embed.Timestamp = card.Timestamp.UTC().Format(time.RFC3339)
	}
	return embed
}

func renderEmbeds(card *view.Card) []*discordgo.MessageEmbed {
	if embed := renderEmbed(card); embed != nil {
		return []*discordgo.MessageEmbed{embed}
	}
	return []*discordgo.MessageEmbed{}
}

func renderComponents(rows [][]view.Control) []discordgo.MessageComponent {
	components := make([]discordgo.MessageComponent, 0, len(rows))
	for _, row := range rows {
		buttons := make([]discordgo.MessageComponent, 0, len(row))
		for _, c := range row {
			style := discordgo.SecondaryButton
			if c.Active || c.Primary {
				style = discordgo.PrimaryButton
			}
			buttons = append(buttons, discordgo.Button{
				Label:    c.Label,
				Style:    style,
				CustomID: c.ID,
				Disabled: c.Disabled,
			})
		}
		components = append(components, discordgo.ActionsRow{Components: buttons})
	}
	return components
}

func flags(msg view.Message) discordgo.MessageFlags {
	if msg.Ephemeral {
		return discordgo.MessageFlagsEphemeral
	}
	return 0
}

// responseData renders a full message for an initial response or an
// in-place update.
func responseData(msg view.Message) *discordgo.InteractionResponseData {
	data := &discordgo.InteractionResponseData{
		Content: msg.Content,
		Embeds:  renderEmbeds(msg.Card),
		Flags:   flags(msg),
	}
	if msg.Rows != nil {
		data.Components = renderComponents(msg.Rows)
	}
	return data
}

// webhookEdit replaces content and embeds; components change only when
// msg.Rows is non-nil.
func webhookEdit(msg view.Message) *discordgo.WebhookEdit {
	content := msg.Content
	embeds := renderEmbeds(msg.Card)
	edit := &discordgo.WebhookEdit{
		Content: &content,
		Embeds:  &embeds,
	}
	if msg.Rows != nil {
		components := renderComponents(msg.Rows)
		edit.Components = &components
	}
	return edit
}

func messageSend(msg view.Message, channelID, replyTo string) *discordgo.MessageSend {
	send := &discordgo.MessageSend{
		Content: msg.Content,
		Embeds:  renderEmbeds(msg.Card),
	}
	if msg.Rows != nil {
		send.Components = renderComponents(msg.Rows)
	}
	if replyTo != "" {
		send.Reference = &discordgo.MessageReference{MessageID: replyTo, ChannelID: channelID}
	}
	return send
}

func messageEdit(msg view.Message, channelID, messageID string) *discordgo.MessageEdit {
	content := msg.Content
	embeds := renderEmbeds(msg.Card)
	edit := &discordgo.MessageEdit{
		ID:      messageID,
		Channel: channelID,
		Content: &content,
		Embeds:  &embeds,
	}
	if msg.Rows != nil {
		components := renderComponents(msg.Rows)
		edit.Components = &components
	}
	return edit
}

func modalData(input view.TextInput) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		CustomID: input.ID,
		Title:    input.Title,
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    input.FieldID,
					Label:       input.Label,
					Style:       discordgo.TextInputShort,
					Placeholder: input.Placeholder,
					Required:    true,
					MaxLength:   2000,
				},
			}},
		},
	}
}
