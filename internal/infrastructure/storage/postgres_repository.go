package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"ArticleBot/internal/config"
	"ArticleBot/internal/domain"
	"ArticleBot/internal/ports"
)

const (
	articlesTable      = "articles"
	uniqueViolationSQL = "23505"
)

var (
	psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	articleColumns = []string{
		"id", "url", "title", "description", "image_url",
		"submitted_by", "submitted_at", "channel_id", "categories",
	}
)

// PostgresRepository persists submitted articles into Postgres.
type PostgresRepository struct {
	db *sql.DB
}

var _ ports.ArticleStore = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// OpenPostgres opens and pings a lib/pq connection pool.
func OpenPostgres(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// GetByURL returns the stored article or domain.ErrArticleNotFound.
func (r *PostgresRepository) GetByURL(ctx context.Context, url string) (domain.Article, error) {
	query, args, err := selectByURL(url).ToSql()
	if err != nil {
		return domain.Article{}, fmt.Errorf("build select: %w", err)
	}

	article, err := scanArticle(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Article{}, domain.ErrArticleNotFound
	}
	if err != nil {
		return domain.Article{}, fmt.Errorf("query article: %w", err)
	}
	return article, nil
}

// Insert stores a new article; a url conflict yields domain.ErrDuplicateURL.
func (r *PostgresRepository) Insert(ctx context.Context, article domain.Article) (domain.Article, error) {
	query, args, err := insertArticle(article).ToSql()
	if err != nil {
		return domain.Article{}, fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.Article{}, domain.ErrDuplicateURL
		}
		return domain.Article{}, fmt.Errorf("insert article: %w", err)
	}
	return article, nil
}

func selectByURL(url string) sq.SelectBuilder {
	return psql.Select(articleColumns...).
		From(articlesTable).
		Where(sq.Eq{"url": url}).
		Limit(1)
}

func insertArticle(a domain.Article) sq.InsertBuilder {
	return psql.Insert(articlesTable).
		Columns(articleColumns...).
		Values(
			a.ID,
			a.URL,
			a.Title,
			a.Description,
			a.ImageURL,
			a.SubmittedBy,
			a.SubmittedAt.UTC(),
			a.ChannelID,
			pq.StringArray(a.Categories),
		)
}

func scanArticle(row sq.RowScanner) (domain.Article, error) {
	var (
		a           domain.Article
		description sql.NullString
		imageURL    sql.NullString
		categories  pq.StringArray
	)
	if err := row.Scan(
		&a.ID,
		&a.URL,
		&a.Title,
		&description,
		&imageURL,
		&a.SubmittedBy,
		&a.SubmittedAt,
		&a.ChannelID,
		&categories,
	); err != nil {
		return domain.Article{}, err
	}

	if description.Valid {
		a.Description = &description.String
	}
	if imageURL.Valid {
		a.ImageURL = &imageURL.String
	}
	a.SubmittedAt = a.SubmittedAt.UTC()
	a.Categories = []string(categories)
	return a, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolationSQL
}
