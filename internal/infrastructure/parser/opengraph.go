package parser

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"ArticleBot/internal/config"
	"ArticleBot/internal/domain"
	"ArticleBot/internal/ports"
)

const serviceName = "OpenGraph"

// OpenGraphResolver extracts article metadata from Open Graph and Twitter
// card meta tags.
type OpenGraphResolver struct {
	client         *http.Client
	maxBodyBytes   int64
	userAgent      string
	acceptLanguage string
	logger         *slog.Logger
}

var _ ports.MetadataResolver = (*OpenGraphResolver)(nil)

// NewOpenGraphResolver wires an HTTP client; a nil client gets an
// otelhttp-instrumented one bounded by cfg.Timeout.
func NewOpenGraphResolver(cfg config.MetadataConfig, client *http.Client, log *slog.Logger) *OpenGraphResolver {
	if client == nil {
		client = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &OpenGraphResolver{
		client:         client,
		maxBodyBytes:   cfg.MaxBodyBytes,
		userAgent:      cfg.UserAgent,
		acceptLanguage: cfg.AcceptLanguage,
		logger:         log,
	}
}

// Resolve fetches pageURL once and returns its metadata. Every failure is an
// *domain.ExternalServiceError.
func (r *OpenGraphResolver) Resolve(ctx context.Context, pageURL string) (domain.ArticleMetadata, error) {
	start := time.Now()
	doc, finalURL, err := r.fetchDocument(ctx, pageURL)
	if err != nil {
		r.debug("metadata fetch failed", "url", pageURL, "error", err, "elapsed", time.Since(start))
		return domain.ArticleMetadata{}, &domain.ExternalServiceError{Service: serviceName, Err: err}
	}

	meta := extractMetadata(doc, finalURL)
	r.debug("metadata resolved", "url", pageURL, "title", meta.Title, "elapsed", time.Since(start))
	return meta, nil
}

func (r *OpenGraphResolver) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, *url.URL, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	if r.acceptLanguage != "" {
		req.Header.Set("Accept-Language", r.acceptLanguage)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, nil, fmt.Errorf("page returned %s", resp.Status)
	}

	var body io.Reader = resp.Body
	if r.maxBodyBytes > 0 {
		body = io.LimitReader(resp.Body, r.maxBodyBytes)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, resp.Request.URL, nil
}

func extractMetadata(doc *goquery.Document, base *url.URL) domain.ArticleMetadata {
	tags := metaTags(doc)

	title := firstNonEmpty(tags["og:title"], tags["twitter:title"])
	if title == "" {
		title = domain.UntitledPlaceholder
	}

	description := firstNonEmpty(tags["og:description"], tags["twitter:description"])

	image := firstNonEmpty(
		tags["og:image"],
		tags["og:image:url"],
		tags["og:image:secure_url"],
		tags["twitter:image"],
		tags["twitter:image:src"],
	)

	return domain.ArticleMetadata{
		Title:       title,
		Description: domain.StringPtr(description),
		ImageURL:    domain.StringPtr(absoluteURL(base, image)),
	}
}

// metaTags indexes meta content by lowercased property or name, keeping the
// first non-empty value for each key.
func metaTags(doc *goquery.Document) map[string]string {
	tags := map[string]string{}
	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		key, ok := s.Attr("property")
		if !ok || strings.TrimSpace(key) == "" {
			key, ok = s.Attr("name")
		}
		if !ok {
			return
		}
		key = strings.ToLower(strings.TrimSpace(key))
		content := strings.TrimSpace(s.AttrOr("content", ""))
		if key == "" || content == "" {
			return
		}
		if _, seen := tags[key]; !seen {
			tags[key] = content
		}
	})
	return tags
}

func absoluteURL(base *url.URL, ref string) string {
	if ref == "" || base == nil {
		return ref
	}
	parsed, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(parsed).String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (r *OpenGraphResolver) debug(msg string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}
