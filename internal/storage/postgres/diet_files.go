package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/fdg312/diet-hub/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// foreignKeyViolation - SQLSTATE для нарушения внешнего ключа
const foreignKeyViolation = "23503"

func (p *PostgresStorage) PutDietFile(ctx context.Context, file *storage.DietFile) error {
	query := `
		INSERT INTO diet_files (diet_id, file_name, content_type, data)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (diet_id) DO UPDATE
		SET file_name = EXCLUDED.file_name,
		    content_type = EXCLUDED.content_type,
		    data = EXCLUDED.data,
		    created_at = now()
		RETURNING created_at
	`

	err := p.pool.QueryRow(ctx, query, file.DietID, file.FileName, file.ContentType, file.Data).Scan(&file.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return ErrNotFound
		}
		return fmt.Errorf("failed to store diet file: %w", err)
	}

	return nil
}

func (p *PostgresStorage) GetDietFile(ctx context.Context, dietID uuid.UUID) (*storage.DietFile, error) {
	query := `
		SELECT diet_id, file_name, content_type, data, created_at
		FROM diet_files
		WHERE diet_id = $1
	`

	var f storage.DietFile
	err := p.pool.QueryRow(ctx, query, dietID).Scan(
		&f.DietID,
		&f.FileName,
		&f.ContentType,
		&f.Data,
		&f.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get diet file: %w", err)
	}

	return &f, nil
}
