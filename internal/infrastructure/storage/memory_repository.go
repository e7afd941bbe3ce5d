package storage

import (
	"context"
	"slices"
	"sync"

	"ArticleBot/internal/domain"
	"ArticleBot/internal/ports"
)

// MemoryRepository keeps articles in process memory, keyed by URL.
type MemoryRepository struct {
	mu       sync.RWMutex
	articles map[string]domain.Article
}

var _ ports.ArticleStore = (*MemoryRepository)(nil)

// NewMemoryRepository builds an empty store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{articles: map[string]domain.Article{}}
}

func (r *MemoryRepository) GetByURL(_ context.Context, url string) (domain.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	article, ok := r.articles[url]
	if !ok {
		return domain.Article{}, domain.ErrArticleNotFound
	}
	return clone(article), nil
}

func (r *MemoryRepository) Insert(_ context.Context, article domain.Article) (domain.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.articles[article.URL]; exists {
		return domain.Article{}, domain.ErrDuplicateURL
	}
	stored := clone(article)
	r.articles[article.URL] = stored
	return clone(stored), nil
}

// Len reports how many articles are stored.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.articles)
}

func clone(a domain.Article) domain.Article {
	a.Categories = slices.Clone(a.Categories)
	return a
}
