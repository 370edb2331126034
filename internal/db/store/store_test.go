package store

import (
	"context"
	"testing"

	"github.com/jusunglee/hypua/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriver(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"postgres://u:p@localhost:5432/hypua", "postgres"},
		{"postgresql://localhost/hypua", "postgres"},
		{"sqlite:///var/lib/hypua.db", "sqlite"},
		{"archive.db", "sqlite"},
		{":memory:", "sqlite"},
	}
	for _, tt := range tests {
		got, err := Driver(tt.url)
		require.NoError(t, err, tt.url)
		assert.Equal(t, tt.want, got, tt.url)
	}

	for _, bad := range []string{"", "sqlite://", "mysql://localhost/db"} {
		_, err := Driver(bad)
		assert.ErrorIs(t, err, db.ErrUnsupportedURL, bad)
	}
}

func TestOpenSQLite(t *testing.T) {
	repo, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	defer repo.Close()
	assert.NoError(t, repo.Ping(context.Background()))
}
