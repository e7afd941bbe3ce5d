package usecase

import (
	"fmt"
	"strings"

	"ArticleBot/internal/command"
	"ArticleBot/internal/domain"
	"ArticleBot/internal/view"
)

// User-facing texts.
const (
	TextSelectionTitle    = "Select article tags"
	TextSelectionHint     = "Choose up to 3 tags, then press Next."
	TextConfirmLabel      = "Next"
	TextMaxTags           = "You can select up to 3 tags."
	TextSelectAtLeastOne  = "Please select at least one tag."
	TextSelectionComplete = "Tag selection complete. Enter the article URL in the form."
	TextSelectionExpired  = "Tag selection timed out. Run /article again."
	TextFormUnavailable   = "Could not open the URL form. Run /article again."
	TextNotOwner          = "Only the member who started this submission can use these controls."
	TextUseSlashCommand   = "Use the /article slash command to submit an article."
	TextUnknownCommand    = "Unknown command. Use /help to see what I can do."
	TextCreated           = "Article submitted!"
	TextDuplicate         = "This article has already been submitted."
	TextNoDescription     = "No description available"
	TextMissingURL        = "Please include the article URL in your post."
	TextMetadataFailed    = "Could not read that page's metadata. Check the URL and try again."
	TextTryAgainLater     = "Something went wrong while processing your request. Please try again later."
	TextFormTitle         = "Share an article"
	TextFormLabel         = "Article URL"
	TextFormPlaceholder   = "https://example.com/article"
	TextHelpTitle         = "Article Bot Help"
	TextHelpDescription   = "Commands for submitting and sharing technical articles."
)

// SelectionMessage renders one toggle per taxonomy category plus the confirm row.
func SelectionMessage(session domain.SelectionSession) view.Message {
	controls := make([]view.Control, 0, len(domain.Taxonomy))
	for _, c := range domain.Taxonomy {
		controls = append(controls, view.Control{
			ID:     TagControlID(session.ID, c.Value),
			Label:  c.Label,
			Active: session.Has(c.Value),
		})
	}

	rows := view.Batch(controls, view.RowSize)
	rows = append(rows, []view.Control{{
		ID:       ConfirmControlID(session.ID),
		Label:    TextConfirmLabel,
		Primary:  true,
		Disabled: len(session.Selected) == 0,
	}})

	return view.Message{
		Card:      &view.Card{Title: TextSelectionTitle, Description: TextSelectionHint},
		Rows:      rows,
		Ephemeral: true,
	}
}

// TerminalSelectionMessage replaces the selection message without controls.
func TerminalSelectionMessage(content string) view.Message {
	return view.Message{Content: content, Rows: view.Clear(), Ephemeral: true}
}

// URLInput is the single-field form opened on confirm.
func URLInput(selected []string) view.TextInput {
	return view.TextInput{
		ID:          ModalID(selected),
		Title:       TextFormTitle,
		FieldID:     URLFieldID,
		Label:       TextFormLabel,
		Placeholder: TextFormPlaceholder,
	}
}

// ResultMessage renders a successful orchestrator outcome. threadID is the
// forum thread the article was published to, if any.
func ResultMessage(result domain.SubmissionResult, submitterName, threadID string) view.Message {
	if result.Duplicate() {
		card := ArticleCard(result.Article)
		card.Fields = append(card.Fields, view.Field{
			Name:  "Originally submitted by",
			Value: fmt.Sprintf("<@%s>", result.Article.SubmittedBy),
		})
		return view.Message{Content: TextDuplicate, Card: &card}
	}

	card := ArticleCard(result.Article)
	card.Footer = "Submitted by " + submitterName
	content := TextCreated
	if threadID != "" {
		content += fmt.Sprintf("\nDiscussion thread: <#%s>", threadID)
	}
	return view.Message{Content: content, Card: &card}
}

// ArticleCard summarizes a stored article.
func ArticleCard(a domain.Article) view.Card {
	description := TextNoDescription
	if a.Description != nil {
		description = *a.Description
	}
	image := ""
	if a.ImageURL != nil {
		image = *a.ImageURL
	}
	return view.Card{
		Title:       a.Title,
		URL:         a.URL,
		Description: description,
		ImageURL:    image,
		Fields: []view.Field{{
			Name:  "Tags",
			Value: strings.Join(domain.CategoryLabels(a.Categories), ", "),
		}},
		Timestamp: a.SubmittedAt,
	}
}

// ForumPostFor builds the starter post of a forum thread for a stored article.
func ForumPostFor(a domain.Article, submitterName string) view.ForumPost {
	card := ArticleCard(a)
	card.Footer = "Submitted by " + submitterName
	name := a.Title
	if r := []rune(name); len(r) > 100 {
		name = string(r[:100])
	}
	return view.ForumPost{Name: name, Card: card}
}

// ErrorMessage maps a classified error to what the user sees. Internal
// details are never shown.
func ErrorMessage(err error) view.Message {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return view.Notice(err.Error(), true)
	case domain.KindExternalService:
		return view.Notice(TextMetadataFailed, true)
	default:
		return view.Notice(TextTryAgainLater, true)
	}
}

// HelpMessage lists registered commands.
func HelpMessage(commands []command.Command) view.Message {
	fields := make([]view.Field, 0, len(commands))
	for _, c := range commands {
		fields = append(fields, view.Field{Name: "/" + c.Name(), Value: c.Description()})
	}
	return view.Message{Card: &view.Card{
		Title:       TextHelpTitle,
		Description: TextHelpDescription,
		Fields:      fields,
		Footer:      "Article Bot",
	}}
}
