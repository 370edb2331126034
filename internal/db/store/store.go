// Package store opens the document archive backend named by a database URL.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jusunglee/hypua/internal/db"
	"github.com/jusunglee/hypua/internal/db/postgres"
	"github.com/jusunglee/hypua/internal/db/sqlite"
)

// Driver returns the backend name for a database URL: "postgres" for
// postgres:// and postgresql:// URLs, "sqlite" for sqlite:// URLs, plain
// paths and ":memory:".
func Driver(url string) (string, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return "postgres", nil
	case strings.HasPrefix(url, "sqlite://"), url == ":memory:", !strings.Contains(url, "://"):
		if url == "" || url == "sqlite://" {
			return "", fmt.Errorf("%w: empty path", db.ErrUnsupportedURL)
		}
		return "sqlite", nil
	default:
		return "", fmt.Errorf("%w: %q", db.ErrUnsupportedURL, url)
	}
}

// Open connects to the archive at url.
func Open(ctx context.Context, url string) (db.Repository, error) {
	driver, err := Driver(url)
	if err != nil {
		return nil, err
	}
	switch driver {
	case "postgres":
		repo, err := postgres.New(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("creating PostgreSQL connection: %w", err)
		}
		return repo, nil
	default:
		repo, err := sqlite.New(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("creating SQLite database: %w", err)
		}
		return repo, nil
	}
}
