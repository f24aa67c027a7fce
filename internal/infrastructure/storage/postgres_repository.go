package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"github.com/robcarv/news-colletector/internal/domain"
	"github.com/robcarv/news-colletector/internal/ports"
)

// PostgresRepository keeps an audit trail of processed news in Postgres.
// It never participates in dedup; the audio directory is the dedup
// source of truth.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.HistoryRepository = (*PostgresRepository)(nil)

// Open connects to Postgres and verifies the connection.
func Open(dsn string) (*PostgresRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return NewPostgresRepository(db), nil
}

// NewPostgresRepository wires an existing sql.DB.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// SaveProcessed upserts the processed item snapshot keyed by link.
func (r *PostgresRepository) SaveProcessed(ctx context.Context, record domain.ProcessedNews) error {
	if r == nil || r.db == nil {
		return nil
	}

	query, args, err := r.builder.
		Insert("processed_news").
		Columns("link", "title", "source", "summary", "audio_path", "status").
		Values(record.Item.Link, record.Item.Title, record.Item.Source, record.Summary, record.AudioPath, string(record.Status)).
		Suffix(`ON CONFLICT (link) DO UPDATE
                SET summary = EXCLUDED.summary,
                    audio_path = EXCLUDED.audio_path,
                    status = EXCLUDED.status,
                    updated_at = NOW()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert processed news: %w", err)
	}

	return nil
}

// Close releases the underlying connection pool.
func (r *PostgresRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}
