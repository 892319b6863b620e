// Package postgresql implements mapping persistence for PostgreSQL databases
// using either the lib/pq or the pgx driver.
package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/allisson/pseudonymizer/internal/database"
	pseudonymDomain "github.com/allisson/pseudonymizer/internal/pseudonym/domain"
)

// PostgreSQLMappingRepository implements mapping persistence for PostgreSQL databases.
type PostgreSQLMappingRepository struct {
	db *sql.DB
}

// Save inserts the mapping unless one already exists for its token. An existing
// row is left untouched and no error is returned.
func (p *PostgreSQLMappingRepository) Save(ctx context.Context, mapping *pseudonymDomain.Mapping) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO pii_mappings (token, ciphertext) VALUES ($1, $2) ON CONFLICT (token) DO NOTHING`

	if _, err := querier.ExecContext(ctx, query, mapping.Token, mapping.Ciphertext); err != nil {
		return fmt.Errorf("%w: failed to save mapping: %w", pseudonymDomain.ErrStorageUnavailable, err)
	}
	return nil
}

// Get retrieves the mapping stored for token by exact match.
func (p *PostgreSQLMappingRepository) Get(ctx context.Context, token string) (*pseudonymDomain.Mapping, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT token, ciphertext FROM pii_mappings WHERE token = $1`

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

// NewPostgreSQLMappingRepository creates a new PostgreSQL mapping repository.
func NewPostgreSQLMappingRepository(db *sql.DB) *PostgreSQLMappingRepository {
	return &PostgreSQLMappingRepository{db: db}
}
