package view

import "time"

// RowSize is the maximum number of controls rendered on one row.
const RowSize = 5

// Message is a platform-neutral reply. Rows is nil when a message carries no
// controls; an empty non-nil slice clears existing controls on edit.
type Message struct {
	Content   string
	Card      *Card
	Rows      [][]Control
	Ephemeral bool
}

// Card is a rich summary block (an embed on Discord).
type Card struct {
	Title       string
	URL         string
	Description string
	ImageURL    string
	Fields      []Field
	Footer      string
	Timestamp   time.Time
}

// Field is a named card entry.
type Field struct {
	Name   string
	Value  string
	Inline bool
}

// Control is a clickable button.
type Control struct {
	ID       string
	Label    string
	Active   bool
	Primary  bool
	Disabled bool
}

// TextInput describes a single-field input form.
type TextInput struct {
	ID          string
	Title       string
	FieldID     string
	Label       string
	Placeholder string
}

// ForumPost is the starter content of a new forum thread.
type ForumPost struct {
	Name string
	Card Card
}

// Notice builds a plain text message.
func Notice(content string, ephemeral bool) Message {
	return Message{Content: content, Ephemeral: ephemeral}
}

// Batch splits controls into rows of at most size entries.
func Batch(controls []Control, size int) [][]Control {
	if size <= 0 {
		size = RowSize
	}
	rows := make([][]Control, 0, (len(controls)+size-1)/size)
	for start := 0; start < len(controls); start += size {
		end := min(start+size, len(controls))
		rows = append(rows, controls[start:end])
	}
	return rows
}

// Clear returns an empty row set that removes controls on edit.
func Clear() [][]Control {
	return [][]Control{}
}
