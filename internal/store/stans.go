package store

import (
	"context"
	"database/sql"
	"fmt"

	"stanbrief/internal/core"
)

// CreateStan inserts a new followed entity.
func (s *Store) CreateStan(ctx context.Context, stan core.Stan) error {
	query := `
	INSERT INTO stans (id, name, description, category_id, user_id, is_active, date_added)
	VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7)`

	_, err := s.db.ExecContext(ctx, query,
		stan.ID,
		stan.Name,
		stan.Description,
		stan.CategoryID,
		stan.UserID,
		stan.IsActive,
		stan.DateAdded,
	)
	if err != nil {
		return fmt.Errorf("failed to create stan: %w", err)
	}
	return nil
}

// GetStan fetches one stan by ID. Returns (nil, nil) when not found.
func (s *Store) GetStan(ctx context.Context, id string) (*core.Stan, error) {
	query := `
	SELECT id, name, description, COALESCE(category_id, ''), user_id, is_active, date_added
	FROM stans WHERE id = $1`

	var stan core.Stan
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&stan.ID,
		&stan.Name,
		&stan.Description,
		&stan.CategoryID,
		&stan.UserID,
		&stan.IsActive,
		&stan.DateAdded,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan stan: %w", err)
	}
	return &stan, nil
}

// ListStans returns every stan, active or not, newest first.
func (s *Store) ListStans(ctx context.Context) ([]core.Stan, error) {
	query := `
	SELECT id, name, description, COALESCE(category_id, ''), user_id, is_active, date_added
	FROM stans ORDER BY date_added DESC`
	return s.queryStans(ctx, query)
}

// ListActiveStans returns the stans batch generation should cover.
func (s *Store) ListActiveStans(ctx context.Context) ([]core.Stan, error) {
	query := `
	SELECT id, name, description, COALESCE(category_id, ''), user_id, is_active, date_added
	FROM stans WHERE is_active = TRUE ORDER BY date_added`
	return s.queryStans(ctx, query)
}

func (s *Store) queryStans(ctx context.Context, query string, args ...any) ([]core.Stan, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stans: %w", err)
	}
	defer rows.Close()

	var stans []core.Stan
	for rows.Next() {
		var stan core.Stan
		if err := rows.Scan(
			&stan.ID,
			&stan.Name,
			&stan.Description,
			&stan.CategoryID,
			&stan.UserID,
			&stan.IsActive,
			&stan.DateAdded,
		); err != nil {
			return nil, fmt.Errorf("failed to scan stan: %w", err)
		}
		stans = append(stans, stan)
	}
	return stans, rows.Err()
}

// SetStanActive soft-enables or soft-disables a stan.
func (s *Store) SetStanActive(ctx context.Context, id string, active bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE stans SET is_active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("failed to update stan: %w", err)
	}
	return requireRow(res, "stan", id)
}

// DeleteStan removes a stan and, via cascade, its briefings and prompts.
func (s *Store) DeleteStan(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM stans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete stan: %w", err)
	}
	return requireRow(res, "stan", id)
}

// GetCategory fetches one category by ID. Returns (nil, nil) when not found.
func (s *Store) GetCategory(ctx context.Context, id string) (*core.Category, error) {
	var cat core.Category
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, icon, color FROM categories WHERE id = $1`, id,
	).Scan(&cat.ID, &cat.Name, &cat.Icon, &cat.Color)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan category: %w", err)
	}
	return &cat, nil
}

// ListCategories returns all categories ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, icon, color FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var cats []core.Category
	for rows.Next() {
		var cat core.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Icon, &cat.Color); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		cats = append(cats, cat)
	}
	return cats, rows.Err()
}

// SeedCategories inserts the given categories, skipping names that exist.
func (s *Store) SeedCategories(ctx context.Context, cats []core.Category) error {
	query := `
	INSERT INTO categories (id, name, icon, color)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (name) DO NOTHING`

	for _, cat := range cats {
		if _, err := s.db.ExecContext(ctx, query, cat.ID, cat.Name, cat.Icon, cat.Color); err != nil {
			return fmt.Errorf("failed to seed category %s: %w", cat.Name, err)
		}
	}
	return nil
}

func requireRow(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s not found", kind, id)
	}
	return nil
}
