package db

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Document is an archived text together with its IPF conversion.
type Document struct {
	ID            int64
	SHA256        string
	Title         string
	Source        string
	Converted     string
	LegacyCount   int32
	UnmappedCount int32
	CreatedAt     time.Time
}

type CreateDocumentParams struct {
	Title         string
	Source        string
	Converted     string
	LegacyCount   int32
	UnmappedCount int32
}

type ListDocumentsParams struct {
	Limit  int32
	Offset int32
}

// Hash returns the hex SHA-256 of a document source. Documents are
// deduplicated on this value.
func Hash(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

// Repository defines the interface for database operations
type Repository interface {
	// CreateDocument stores a document. If a document with the same source
	// already exists it is returned unchanged and created is false.
	CreateDocument(ctx context.Context, arg CreateDocumentParams) (doc Document, created bool, err error)
	GetDocument(ctx context.Context, id int64) (Document, error)
	GetDocumentByHash(ctx context.Context, sha string) (Document, error)
	ListDocuments(ctx context.Context, arg ListDocumentsParams) ([]Document, error)
	CountDocuments(ctx context.Context) (int64, error)
	DeleteDocument(ctx context.Context, id int64) (int64, error)

	Ping(ctx context.Context) error
	WithTx(ctx context.Context, fn func(repo Repository) error) error
	Close() error
}
