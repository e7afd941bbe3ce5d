package domain

import "time"

// UntitledPlaceholder is the title used when a page exposes no title metadata.
const UntitledPlaceholder = "Untitled"

// MaxCategories caps how many categories one article may carry.
const MaxCategories = 3

// ArticleMetadata is the normalized page metadata produced by the resolver.
// Description and ImageURL stay nil when the page does not provide them.
type ArticleMetadata struct {
	Title       string
	Description *string
	ImageURL    *string
}

// Article is the persisted record of a shared URL.
type Article struct {
	ID          string
	URL         string
	Title       string
	Description *string
	ImageURL    *string
	SubmittedBy string
	SubmittedAt time.Time
	ChannelID   string
	Categories  []string
}

// SubmissionSource tells which path produced a submission.
type SubmissionSource string

const (
	SourceInteractive SubmissionSource = "interactive"
	SourceForum       SubmissionSource = "forum"
)

// Submission is the canonical orchestrator input, whatever event produced it.
type Submission struct {
	URL           string
	Categories    []string
	SubmitterID   string
	SubmitterName string
	ChannelID     string
	Source        SubmissionSource
}

// SubmissionStatus enumerates orchestrator outcomes that are not errors.
type SubmissionStatus string

const (
	StatusCreated   SubmissionStatus = "created"
	StatusDuplicate SubmissionStatus = "duplicate"
)

// SubmissionResult carries the stored article and how it got there.
type SubmissionResult struct {
	Article Article
	Status  SubmissionStatus
}

// Duplicate reports whether the URL had already been stored.
func (r SubmissionResult) Duplicate() bool {
	return r.Status == StatusDuplicate
}

// StringPtr returns nil for an empty string.
func StringPtr(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
