package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jusunglee/hypua/internal/db"
)

//go:embed schema.sql
var schemaSQL string

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository implements db.Repository using PostgreSQL via pgx
type Repository struct {
	pool *pgxpool.Pool
	q    querier
}

// New connects to PostgreSQL and makes sure the documents table exists.
func New(ctx context.Context, databaseURL string) (*Repository, error) {
	pool, err := db.NewPool(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return &Repository{pool: pool, q: pool}, nil
}

func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// PoolStats exposes pgxpool statistics for the metrics exporter.
func (r *Repository) PoolStats() *pgxpool.Stat {
	return r.pool.Stat()
}

func (r *Repository) WithTx(ctx context.Context, fn func(repo db.Repository) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	// If fn() panics, the normal err-check rollback below won't run.
	// recover() catches the panic so we can roll back the tx (releasing the db connection), then re-panic.
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback(ctx)
			panic(p)
		}
	}()

	err = fn(&Repository{pool: r.pool, q: tx})
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("transaction error: %w, rollback error: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

const documentColumns = `id, sha256, title, source, converted, legacy_count, unmapped_count, created_at`

func (r *Repository) CreateDocument(ctx context.Context, arg db.CreateDocumentParams) (db.Document, bool, error) {
	sha := db.Hash(arg.Source)
	row := r.q.QueryRow(ctx, `
		INSERT INTO documents (sha256, title, source, converted, legacy_count, unmapped_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (sha256) DO NOTHING
		RETURNING `+documentColumns,
		sha, arg.Title, arg.Source, arg.Converted, arg.LegacyCount, arg.UnmappedCount)

	doc, err := scanDocument(row)
	if db.IsNoRows(err) {
		// Conflict: nothing was returned, so the document already exists.
		doc, err = r.GetDocumentByHash(ctx, sha)
		return doc, false, err
	}
	if err != nil {
		return db.Document{}, false, err
	}
	return doc, true, nil
}

func (r *Repository) GetDocument(ctx context.Context, id int64) (db.Document, error) {
	row := r.q.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
	return scanDocument(row)
}

func (r *Repository) GetDocumentByHash(ctx context.Context, sha string) (db.Document, error) {
	row := r.q.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE sha256 = $1`, sha)
	return scanDocument(row)
}

func (r *Repository) ListDocuments(ctx context.Context, arg db.ListDocumentsParams) ([]db.Document, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []db.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (r *Repository) CountDocuments(ctx context.Context) (int64, error) {
	var count int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count)
	return count, err
}

func (r *Repository) DeleteDocument(ctx context.Context, id int64) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanDocument(row pgx.Row) (db.Document, error) {
	var d db.Document
	err := row.Scan(&d.ID, &d.SHA256, &d.Title, &d.Source, &d.Converted, &d.LegacyCount, &d.UnmappedCount, &d.CreatedAt)
	if err != nil {
		return db.Document{}, err
	}
	return d, nil
}
