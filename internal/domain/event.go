package domain

import "time"

// User identifies the platform user behind an event.
type User struct {
	ID   string
	Name string
}

// CommandSource distinguishes structured slash commands from prefix text.
type CommandSource string

const (
	CommandSlash CommandSource = "slash"
	CommandText  CommandSource = "text"
)

// CommandEvent is a command invocation, normalized from either source.
type CommandEvent struct {
	Name          string
	Options       map[string]string
	User          User
	ChannelID     string
	InteractionID string
	Source        CommandSource
}

// ComponentEvent is a button click on a rendered control.
type ComponentEvent struct {
	CustomID  string
	User      User
	ChannelID string
	MessageID string
}

// ModalEvent is a submitted text-input form.
type ModalEvent struct {
	CustomID  string
	Fields    map[string]string
	User      User
	ChannelID string
}

// ThreadEvent announces a thread created in some channel.
type ThreadEvent struct {
	ThreadID      string
	ParentID      string
	OwnerID       string
	AppliedTags   []string
	NewlyCreated  bool
	CreatedBySelf bool
}

// ThreadMessage is one message read back from a thread.
type ThreadMessage struct {
	ID        string
	Author    User
	Content   string
	Timestamp time.Time
}
