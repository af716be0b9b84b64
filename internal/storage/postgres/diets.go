package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fdg312/diet-hub/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const dietColumns = `id, user_id, days, total_days, file_name, file_url, object_key, created_at, updated_at`

func (p *PostgresStorage) CreateDiet(ctx context.Context, diet *storage.Diet, list *storage.ShoppingList) error {
	if diet.ID == uuid.Nil {
		diet.ID = uuid.New()
	}

	days, err := json.Marshal(diet.Days)
	if err != nil {
		return fmt.Errorf("failed to encode diet days: %w", err)
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	dietQuery := `
		INSERT INTO diets (id, user_id, days, total_days, file_name, file_url, object_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err = tx.QueryRow(ctx, dietQuery,
		diet.ID,
		diet.UserID,
		days,
		diet.Metadata.TotalDays,
		diet.Metadata.FileName,
		diet.Metadata.FileURL,
		diet.Metadata.ObjectKey,
	).Scan(&diet.CreatedAt, &diet.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert diet: %w", err)
	}

	if list != nil {
		if list.ID == uuid.Nil {
			list.ID = uuid.New()
		}
		list.DietID = diet.ID

		listQuery := `
			INSERT INTO shopping_lists (id, user_id, diet_id, items, start_date, end_date)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING created_at
		`
		err = tx.QueryRow(ctx, listQuery,
			list.ID,
			list.UserID,
			list.DietID,
			list.Items,
			list.StartDate,
			list.EndDate,
		).Scan(&list.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert shopping list: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (p *PostgresStorage) GetDiet(ctx context.Context, id uuid.UUID) (*storage.Diet, error) {
	query := `SELECT ` + dietColumns + ` FROM diets WHERE id = $1`

	diet, err := scanDiet(p.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get diet: %w", err)
	}

	return diet, nil
}

func (p *PostgresStorage) ListDiets(ctx context.Context, userID string) ([]storage.Diet, error) {
	query := `
		SELECT ` + dietColumns + `
		FROM diets
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := p.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list diets: %w", err)
	}
	defer rows.Close()

	diets := []storage.Diet{}
	for rows.Next() {
		diet, err := scanDiet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan diet: %w", err)
		}
		diets = append(diets, *diet)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating diets: %w", rows.Err())
	}

	return diets, nil
}

// DeleteDiet удаляет диету; shopping_lists и diet_files удаляются каскадно
func (p *PostgresStorage) DeleteDiet(ctx context.Context, id uuid.UUID) error {
	result, err := p.pool.Exec(ctx, `DELETE FROM diets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete diet: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (p *PostgresStorage) ListDietDates(ctx context.Context, userID string) ([][]string, error) {
	query := `
		SELECT ARRAY(SELECT day->>'date' FROM jsonb_array_elements(days) AS day)
		FROM diets
		WHERE user_id = $1
	`

	rows, err := p.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list diet dates: %w", err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var dates []string
		if err := rows.Scan(&dates); err != nil {
			return nil, fmt.Errorf("failed to scan diet dates: %w", err)
		}
		out = append(out, dates)
	}

	return out, rows.Err()
}

func scanDiet(row pgx.Row) (*storage.Diet, error) {
	var (
		diet storage.Diet
		days []byte
	)
	err := row.Scan(
		&diet.ID,
		&diet.UserID,
		&days,
		&diet.Metadata.TotalDays,
		&diet.Metadata.FileName,
		&diet.Metadata.FileURL,
		&diet.Metadata.ObjectKey,
		&diet.CreatedAt,
		&diet.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(days, &diet.Days); err != nil {
		return nil, fmt.Errorf("failed to decode diet days: %w", err)
	}

	return &diet, nil
}
