package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"ArticleBot/internal/command"
	"ArticleBot/internal/domain"
)

func interactionUser(i *discordgo.Interaction) domain.User {
	var u *discordgo.User
	if i.Member != nil && i.Member.User != nil {
		u = i.Member.User
	} else {
		u = i.User
	}
	if u == nil {
		return domain.User{}
	}
	return toUser(u)
}

func toUser(u *discordgo.User) domain.User {
	name := u.GlobalName
	if name == "" {
		name = u.Username
	}
	return domain.User{ID: u.ID, Name: name}
}

func commandEvent(i *discordgo.Interaction) domain.CommandEvent {
	data := i.ApplicationCommandData()
	options := make(map[string]string, len(data.Options))
	for _, opt := range data.Options {
		options[opt.Name] = fmt.Sprint(opt.Value)
	}
	return domain.CommandEvent{
		Name:          data.Name,
		Options:       options,
		User:          interactionUser(i),
		ChannelID:     i.ChannelID,
		InteractionID: i.ID,
		Source:        domain.CommandSlash,
	}
}

func componentEvent(i *discordgo.Interaction) domain.ComponentEvent {
	ev := domain.ComponentEvent{
		CustomID:  i.MessageComponentData().CustomID,
		User:      interactionUser(i),
		ChannelID: i.ChannelID,
	}
	if i.Message != nil {
		ev.MessageID = i.Message.ID
	}
	return ev
}

func modalEvent(i *discordgo.Interaction) domain.ModalEvent {
	data := i.ModalSubmitData()
	fields := map[string]string{}
	for _, row := range data.Components {
		for _, c := range rowComponents(row) {
			switch input := c.(type) {
			case *discordgo.TextInput:
				fields[input.CustomID] = input.Value
			case discordgo.TextInput:
				fields[input.CustomID] = input.Value
			}
		}
	}
	return domain.ModalEvent{
		CustomID:  data.CustomID,
		Fields:    fields,
		User:      interactionUser(i),
		ChannelID: i.ChannelID,
	}
}

func rowComponents(c discordgo.MessageComponent) []discordgo.MessageComponent {
	switch row := c.(type) {
	case *discordgo.ActionsRow:
		return row.Components
	case discordgo.ActionsRow:
		return row.Components
	default:
		return nil
	}
}

func threadEvent(ch *discordgo.ThreadCreate, selfID string) domain.ThreadEvent {
	return domain.ThreadEvent{
		ThreadID:      ch.ID,
		ParentID:      ch.ParentID,
		OwnerID:       ch.OwnerID,
		AppliedTags:   append([]string(nil), ch.AppliedTags...),
		NewlyCreated:  ch.NewlyCreated,
		CreatedBySelf: selfID != "" && ch.OwnerID == selfID,
	}
}

// textCommand normalizes a prefixed chat message. ok is false for messages
// that are not commands or come from bots.
func textCommand(m *discordgo.Message, prefix string) (domain.CommandEvent, bool) {
	if m.Author == nil || m.Author.Bot {
		return domain.CommandEvent{}, false
	}
	name, args, ok := command.ParseText(prefix, m.Content)
	if !ok {
		return domain.CommandEvent{}, false
	}
	options := map[string]string{}
	for i, arg := range args {
		options[fmt.Sprintf("arg%d", i)] = arg
	}
	return domain.CommandEvent{
		Name:      name,
		Options:   options,
		User:      toUser(m.Author),
		ChannelID: m.ChannelID,
		Source:    domain.CommandText,
	}, true
}

func threadMessage(m *discordgo.Message) domain.ThreadMessage {
	msg := domain.ThreadMessage{
		ID:        m.ID,
		Content:   m.Content,
		Timestamp: m.Timestamp,
	}
	if m.Author != nil {
		msg.Author = toUser(m.Author)
	}
	return msg
}
