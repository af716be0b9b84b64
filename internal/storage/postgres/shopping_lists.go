package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/fdg312/diet-hub/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

func (p *PostgresStorage) GetShoppingListByDiet(ctx context.Context, dietID uuid.UUID) (*storage.ShoppingList, error) {
	query := `
		SELECT id, user_id, diet_id, items, start_date, end_date, created_at
		FROM shopping_lists
		WHERE diet_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	list, err := scanShoppingList(p.pool.QueryRow(ctx, query, dietID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shopping list: %w", err)
	}

	return list, nil
}

func (p *PostgresStorage) ListShoppingLists(ctx context.Context, userID string) ([]storage.ShoppingList, error) {
	query := `
		SELECT id, user_id, diet_id, items, start_date, end_date, created_at
		FROM shopping_lists
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := p.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping lists: %w", err)
	}
	defer rows.Close()

	lists := []storage.ShoppingList{}
	for rows.Next() {
		list, err := scanShoppingList(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shopping list: %w", err)
		}
		lists = append(lists, *list)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating shopping lists: %w", rows.Err())
	}

	return lists, nil
}

func scanShoppingList(row pgx.Row) (*storage.ShoppingList, error) {
	var list storage.ShoppingList
	err := row.Scan(
		&list.ID,
		&list.UserID,
		&list.DietID,
		&list.Items,
		&list.StartDate,
		&list.EndDate,
		&list.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &list, nil
}
