package usecase

import "ArticleBot/internal/domain"

// ModalSubmission builds the interactive submission from a submitted form.
func ModalSubmission(ev domain.ModalEvent, categories []string) domain.Submission {
	return domain.Submission{
		URL:           ev.Fields[URLFieldID],
		Categories:    categories,
		SubmitterID:   ev.User.ID,
		SubmitterName: ev.User.Name,
		ChannelID:     ev.ChannelID,
		Source:        domain.SourceInteractive,
	}
}

// ThreadSubmission builds the forum submission; the thread is the channel
// and the starter message author is the submitter.
func ThreadSubmission(ev domain.ThreadEvent, starter domain.ThreadMessage, url string, categories []string) domain.Submission {
	return domain.Submission{
		URL:           url,
		Categories:    categories,
		SubmitterID:   starter.Author.ID,
		SubmitterName: starter.Author.Name,
		ChannelID:     ev.ThreadID,
		Source:        domain.SourceForum,
	}
}
