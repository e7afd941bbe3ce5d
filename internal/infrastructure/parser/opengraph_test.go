package parser

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ArticleBot/internal/config"
	"ArticleBot/internal/domain"
)

func testConfig() config.MetadataConfig {
	return config.MetadataConfig{
		Timeout:        2 * time.Second,
		MaxBodyBytes:   1 << 20,
		UserAgent:      "Mozilla/5.0 (test) Chrome/120.0.0.0",
		AcceptLanguage: "en-US,en;q=0.9",
	}
}

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestResolveOpenGraph(t *testing.T) {
	t.Parallel()

	server := serve(t, http.StatusOK, `
	<html><head>
	  <meta property="og:title" content=" Go Generics in Practice ">
	  <meta property="og:description" content="Deep dive.">
	  <meta property="og:image" content="/img/cover.png">
	  <meta name="twitter:title" content="Ignored">
	</head><body></body></html>`)

	resolver := NewOpenGraphResolver(testConfig(), server.Client(), nil)
	meta, err := resolver.Resolve(context.Background(), server.URL+"/posts/1")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	if meta.Title != "Go Generics in Practice" {
		t.Fatalf("unexpected title: %q", meta.Title)
	}
	if meta.Description == nil || *meta.Description != "Deep dive." {
		t.Fatalf("unexpected description: %v", meta.Description)
	}
	if meta.ImageURL == nil || *meta.ImageURL != server.URL+"/img/cover.png" {
		t.Fatalf("unexpected image: %v", meta.ImageURL)
	}
}

func TestResolveTwitterFallback(t *testing.T) {
	t.Parallel()

	server := serve(t, http.StatusOK, `
	<html><head>
	  <meta name="twitter:title" content="Card Title">
	  <meta name="twitter:description" content="Card description">
	  <meta name="twitter:image" content="https://cdn.example.com/card.jpg">
	</head></html>`)

	resolver := NewOpenGraphResolver(testConfig(), server.Client(), nil)
	meta, err := resolver.Resolve(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	if meta.Title != "Card Title" {
		t.Fatalf("unexpected title: %q", meta.Title)
	}
	if meta.Description == nil || *meta.Description != "Card description" {
		t.Fatalf("unexpected description: %v", meta.Description)
	}
	if meta.ImageURL == nil || *meta.ImageURL != "https://cdn.example.com/card.jpg" {
		t.Fatalf("unexpected image: %v", meta.ImageURL)
	}
}

func TestResolveUntitledFallback(t *testing.T) {
	t.Parallel()

	server := serve(t, http.StatusOK, `<html><head><title>Plain page</title></head></html>`)

	resolver := NewOpenGraphResolver(testConfig(), server.Client(), nil)
	meta, err := resolver.Resolve(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	if meta.Title != domain.UntitledPlaceholder {
		t.Fatalf("expected %q, got %q", domain.UntitledPlaceholder, meta.Title)
	}
	if meta.Description != nil {
		t.Fatalf("expected nil description, got %q", *meta.Description)
	}
	if meta.ImageURL != nil {
		t.Fatalf("expected nil image, got %q", *meta.ImageURL)
	}
}

func TestResolveSendsBrowserHeaders(t *testing.T) {
	t.Parallel()

	headers := make(chan http.Header, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers <- r.Header.Clone()
		_, _ = w.Write([]byte(`<meta property="og:title" content="ok">`))
	}))
	defer server.Close()

	cfg := testConfig()
	resolver := NewOpenGraphResolver(cfg, server.Client(), nil)
	if _, err := resolver.Resolve(context.Background(), server.URL); err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	got := <-headers
	gotUA, gotAccept := got.Get("User-Agent"), got.Get("Accept")
	if gotUA != cfg.UserAgent {
		t.Fatalf("unexpected user agent: %q", gotUA)
	}
	if !strings.Contains(gotAccept, "text/html") {
		t.Fatalf("unexpected accept header: %q", gotAccept)
	}
}

func TestResolveHTTPErrorIsExternalServiceError(t *testing.T) {
	t.Parallel()

	server := serve(t, http.StatusNotFound, "missing")

	resolver := NewOpenGraphResolver(testConfig(), server.Client(), nil)
	_, err := resolver.Resolve(context.Background(), server.URL)

	var external *domain.ExternalServiceError
	if !errors.As(err, &external) {
		t.Fatalf("expected ExternalServiceError, got %T: %v", err, err)
	}
	if external.Service != "OpenGraph" {
		t.Fatalf("unexpected service: %s", external.Service)
	}
	if !strings.Contains(err.Error(), "404") {
		t.Fatalf("upstream status should be carried: %v", err)
	}
}

func TestResolveTransportErrorIsExternalServiceError(t *testing.T) {
	t.Parallel()

	server := serve(t, http.StatusOK, "")
	client := server.Client()
	url := server.URL
	server.Close()

	resolver := NewOpenGraphResolver(testConfig(), client, nil)
	_, err := resolver.Resolve(context.Background(), url)
	if domain.KindOf(err) != domain.KindExternalService {
		t.Fatalf("expected external service error, got %v", err)
	}
}

func TestResolveBodyCap(t *testing.T) {
	t.Parallel()

	padding := strings.Repeat("x", 4096)
	server := serve(t, http.StatusOK, `<html><head><meta property="og:title" content="Early"></head><body>`+
		padding+`<meta property="og:description" content="Too late"></body></html>`)

	cfg := testConfig()
	cfg.MaxBodyBytes = 256
	resolver := NewOpenGraphResolver(cfg, server.Client(), nil)
	meta, err := resolver.Resolve(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if meta.Title != "Early" {
		t.Fatalf("unexpected title: %q", meta.Title)
	}
	if meta.Description != nil {
		t.Fatalf("content past the cap should be ignored, got %q", *meta.Description)
	}
}
