// Package mysql implements mapping persistence for MySQL databases.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/allisson/pseudonymizer/internal/database"
	pseudonymDomain "github.com/allisson/pseudonymizer/internal/pseudonym/domain"
)

// MySQLMappingRepository implements mapping persistence for MySQL databases.
type MySQLMappingRepository struct {
	db *sql.DB
}

// Save inserts the mapping unless one already exists for its token.
// The no-op update keeps the first row on a duplicate key; every other error,
// including an oversized value, fails the statement and nothing is stored.
// The token column uses a binary collation so tokens differing only in case never collide.
func (m *MySQLMappingRepository) Save(ctx context.Context, mapping *pseudonymDomain.Mapping) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO pii_mappings (token, ciphertext) VALUES (?, ?) ON DUPLICATE KEY UPDATE token = token`

	if _, err := querier.ExecContext(ctx, query, mapping.Token, mapping.Ciphertext); err != nil {
		return fmt.Errorf("%w: failed to save mapping: %w", pseudonymDomain.ErrStorageUnavailable, err)
	}
	return nil
}

// Get retrieves the mapping stored for token by exact match.
func (m *MySQLMappingRepository) Get(ctx context.Context, token string) (*pseudonymDomain.Mapping, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT token, ciphertext FROM pii_mappings WHERE token = ?`

	var mapping pseudonymDomain.Mapping
	err := querier.QueryRowContext(ctx, query, token).Scan(&mapping.Token, &mapping.Ciphertext)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pseudonymDomain.ErrMappingNotFound
		}
		return nil, fmt.Errorf("%w: failed to get mapping: %w", pseudonymDomain.ErrStorageUnavailable, err)
	}
	return &mapping, nil
}

// NewMySQLMappingRepository creates a new MySQL mapping repository.
func NewMySQLMappingRepository(db *sql.DB) *MySQLMappingRepository {
	return &MySQLMappingRepository{db: db}
}
