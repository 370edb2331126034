package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/jusunglee/hypua/internal/db"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repository implements db.Repository using SQLite
type Repository struct {
	db *sql.DB
	q  querier
}

// New opens (and if needed initializes) the SQLite database at dbPath.
func New(ctx context.Context, dbPath string) (*Repository, error) {
	// Strip sqlite:// prefix if present
	dbPath = strings.TrimPrefix(dbPath, "sqlite://")

	sqliteDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening SQLite database: %w", err)
	}
	// A single connection keeps :memory: databases shared and serializes
	// writers.
	sqliteDB.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrent read performance
	if _, err := sqliteDB.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		sqliteDB.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	if _, err := sqliteDB.ExecContext(ctx, schemaSQL); err != nil {
		sqliteDB.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return &Repository{db: sqliteDB, q: sqliteDB}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repository) WithTx(ctx context.Context, fn func(repo db.Repository) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&Repository{db: r.db, q: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %w, rollback error: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Document methods

const documentColumns = `id, sha256, title, source, converted, legacy_count, unmapped_count, created_at`

func (r *Repository) CreateDocument(ctx context.Context, arg db.CreateDocumentParams) (db.Document, bool, error) {
	sha := db.Hash(arg.Source)
	result, err := r.q.ExecContext(ctx, `
		INSERT INTO documents (sha256, title, source, converted, legacy_count, unmapped_count)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (sha256) DO NOTHING
	`, sha, arg.Title, arg.Source, arg.Converted, arg.LegacyCount, arg.UnmappedCount)
	if err != nil {
		return db.Document{}, false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return db.Document{}, false, err
	}
	if rowsAffected == 0 {
		doc, err := r.GetDocumentByHash(ctx, sha)
		return doc, false, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return db.Document{}, false, err
	}

	doc, err := r.GetDocument(ctx, id)
	return doc, true, err
}

func (r *Repository) GetDocument(ctx context.Context, id int64) (db.Document, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE id = ?
	`, id)
	return scanDocument(row)
}

func (r *Repository) GetDocumentByHash(ctx context.Context, sha string) (db.Document, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE sha256 = ?
	`, sha)
	return scanDocument(row)
}

func (r *Repository) ListDocuments(ctx context.Context, arg db.ListDocumentsParams) ([]db.Document, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
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
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count)
	return count, err
}

func (r *Repository) DeleteDocument(ctx context.Context, id int64) (int64, error) {
	result, err := r.q.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (db.Document, error) {
	var d db.Document
	var createdAtStr string
	err := row.Scan(&d.ID, &d.SHA256, &d.Title, &d.Source, &d.Converted, &d.LegacyCount, &d.UnmappedCount, &createdAtStr)
	if err == sql.ErrNoRows {
		return db.Document{}, db.ErrNoRows
	}
	if err != nil {
		return db.Document{}, err
	}
	d.CreatedAt, _ = time.Parse(time.RFC3339, createdAtStr)
	return d, nil
}
