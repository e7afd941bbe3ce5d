package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"ArticleBot/internal/domain"
	"ArticleBot/internal/ports"
)

const metadataService = "OpenGraph"

// SubmitterDeps wires the driven adapters used by the submission orchestrator.
type SubmitterDeps struct {
	Store    ports.ArticleStore
	Resolver ports.MetadataResolver
	Metrics  ports.Metrics
	Logger   *slog.Logger
	// Now and NewID default to time.Now and uuid.NewString.
	Now   func() time.Time
	NewID func() string
}

// Submitter validates, deduplicates, enriches, and stores submissions.
type Submitter struct {
	store    ports.ArticleStore
	resolver ports.MetadataResolver
	metrics  ports.Metrics
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
}

// NewSubmitter constructs the orchestration component.
func NewSubmitter(deps SubmitterDeps) *Submitter {
	s := &Submitter{
		store:    deps.Store,
		resolver: deps.Resolver,
		metrics:  deps.Metrics,
		logger:   deps.Logger,
		now:      deps.Now,
		newID:    deps.NewID,
	}
	if s.metrics == nil {
		s.metrics = nopMetrics{}
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

// Submit runs one submission to completion. A nil error always comes with
// either StatusCreated or StatusDuplicate; nothing is written on error.
func (s *Submitter) Submit(ctx context.Context, sub domain.Submission) (domain.SubmissionResult, error) {
	result, err := s.submit(ctx, sub)

	outcome := string(result.Status)
	if err != nil {
		outcome = string(domain.KindOf(err))
	}
	s.metrics.SubmissionCompleted(sub.Source, outcome)

	return result, err
}

func (s *Submitter) submit(ctx context.Context, sub domain.Submission) (domain.SubmissionResult, error) {
	articleURL, err := ValidateURL(sub.URL)
	if err != nil {
		return domain.SubmissionResult{}, err
	}

	categories, err := ValidateCategories(sub.Categories, sub.Source)
	if err != nil {
		return domain.SubmissionResult{}, err
	}

	existing, err := s.store.GetByURL(ctx, articleURL)
	switch {
	case err == nil:
		s.logger.Debug("duplicate submission", "url", articleURL, "article_id", existing.ID)
		return domain.SubmissionResult{Article: existing, Status: domain.StatusDuplicate}, nil
	case !errors.Is(err, domain.ErrArticleNotFound):
		return domain.SubmissionResult{}, &domain.DatabaseError{Op: "lookup", Err: err}
	}

	start := time.Now()
	meta, err := s.resolver.Resolve(ctx, articleURL)
	s.metrics.MetadataFetched(time.Since(start), err)
	if err != nil {
		var external *domain.ExternalServiceError
		if !errors.As(err, &external) {
			err = &domain.ExternalServiceError{Service: metadataService, Err: err}
		}
		return domain.SubmissionResult{}, err
	}

	article := domain.Article{
		ID:          s.newID(),
		URL:         articleURL,
		Title:       meta.Title,
		Description: meta.Description,
		ImageURL:    meta.ImageURL,
		SubmittedBy: sub.SubmitterID,
		SubmittedAt: s.now().UTC(),
		ChannelID:   sub.ChannelID,
		Categories:  categories,
	}

	stored, err := s.store.Insert(ctx, article)
	if errors.Is(err, domain.ErrDuplicateURL) {
		// lost a race with a concurrent submission of the same URL
		existing, getErr := s.store.GetByURL(ctx, articleURL)
		if getErr != nil {
			return domain.SubmissionResult{}, &domain.DatabaseError{Op: "lookup", Err: getErr}
		}
		return domain.SubmissionResult{Article: existing, Status: domain.StatusDuplicate}, nil
	}
	if err != nil {
		return domain.SubmissionResult{}, &domain.DatabaseError{Op: "insert", Err: err}
	}

	s.logger.Info("article stored",
		"article_id", stored.ID,
		"url", stored.URL,
		"source", sub.Source,
		"categories", stored.Categories,
	)
	return domain.SubmissionResult{Article: stored, Status: domain.StatusCreated}, nil
}

// ValidateURL accepts absolute http(s) URLs with a host and returns the
// trimmed input unchanged otherwise.
func ValidateURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", domain.NewValidationError("Please enter an article URL.")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return "", domain.NewValidationError("Please enter a valid URL.")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", domain.NewValidationError("Only http and https URLs are supported.")
	}
	return trimmed, nil
}

// ValidateCategories enforces the 1..3 bound for every source and taxonomy
// membership for interactive submissions only. Forum tags are free-form.
func ValidateCategories(categories []string, source domain.SubmissionSource) ([]string, error) {
	if len(categories) == 0 {
		return nil, domain.NewValidationError("Please select at least one tag.")
	}
	if len(categories) > domain.MaxCategories {
		return nil, domain.NewValidationError("You can select up to %d tags.", domain.MaxCategories)
	}

	out := make([]string, 0, len(categories))
	for _, c := range categories {
		if source == domain.SourceInteractive && !domain.IsCategory(c) {
			return nil, domain.NewValidationError("Unknown tag: %s", c)
		}
		out = append(out, c)
	}
	return out, nil
}

type nopMetrics struct{}

func (nopMetrics) SubmissionCompleted(domain.SubmissionSource, string) {}
func (nopMetrics) MetadataFetched(time.Duration, error)               {}
func (nopMetrics) SelectionTransition(domain.SelectionState)          {}
