package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"stanbrief/internal/core"
)

// UpsertBriefing writes a briefing, replacing any existing row for the same
// (stan, date). The ON CONFLICT clause is what makes same-day regeneration
// idempotent under concurrent requests.
func (s *Store) UpsertBriefing(ctx context.Context, b core.Briefing) error {
	topics, err := json.Marshal(b.Topics)
	if err != nil {
		return fmt.Errorf("failed to marshal topics: %w", err)
	}
	imgs, err := json.Marshal(b.Images)
	if err != nil {
		return fmt.Errorf("failed to marshal images: %w", err)
	}

	query := `
	INSERT INTO briefings
	(id, stan_id, user_id, content, topics, search_sources, images, ai_generated, degraded, date, is_read, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (stan_id, date) DO UPDATE SET
		content = EXCLUDED.content,
		topics = EXCLUDED.topics,
		search_sources = EXCLUDED.search_sources,
		images = EXCLUDED.images,
		ai_generated = EXCLUDED.ai_generated,
		degraded = EXCLUDED.degraded,
		is_read = FALSE,
		created_at = EXCLUDED.created_at`

	_, err = s.db.ExecContext(ctx, query,
		b.ID,
		b.StanID,
		b.UserID,
		b.Content,
		string(topics),
		pq.Array(b.SearchSources),
		string(imgs),
		b.AIGenerated,
		b.Degraded,
		b.Date,
		b.IsRead,
		b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert briefing: %w", err)
	}
	return nil
}

// GetBriefingsByDate returns every briefing for a UTC day key, optionally
// filtered to one user.
func (s *Store) GetBriefingsByDate(ctx context.Context, date, userID string) ([]core.Briefing, error) {
	query := `
	SELECT id, stan_id, user_id, content, topics, search_sources, images, ai_generated, degraded, date, is_read, created_at
	FROM briefings WHERE date = $1`
	args := []any{date}
	if userID != "" {
		query += ` AND user_id = $2`
		args = append(args, userID)
	}
	query += ` ORDER BY created_at DESC`
	return s.queryBriefings(ctx, query, args...)
}

// GetBriefingsByStan returns a stan's briefings, newest first, capped at
// limit (<= 0 means 30).
func (s *Store) GetBriefingsByStan(ctx context.Context, stanID string, limit int) ([]core.Briefing, error) {
	if limit <= 0 {
		limit = 30
	}
	query := `
	SELECT id, stan_id, user_id, content, topics, search_sources, images, ai_generated, degraded, date, is_read, created_at
	FROM briefings WHERE stan_id = $1 ORDER BY date DESC LIMIT $2`
	return s.queryBriefings(ctx, query, stanID, limit)
}

// GetBriefing returns the briefing for one (stan, date), or (nil, nil).
func (s *Store) GetBriefing(ctx context.Context, stanID, date string) (*core.Briefing, error) {
	query := `
	SELECT id, stan_id, user_id, content, topics, search_sources, images, ai_generated, degraded, date, is_read, created_at
	FROM briefings WHERE stan_id = $1 AND date = $2`

	briefings, err := s.queryBriefings(ctx, query, stanID, date)
	if err != nil {
		return nil, err
	}
	if len(briefings) == 0 {
		return nil, nil
	}
	return &briefings[0], nil
}

// MarkBriefingRead flags a briefing as read by its owner.
func (s *Store) MarkBriefingRead(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE briefings SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark briefing read: %w", err)
	}
	return requireRow(res, "briefing", id)
}

func (s *Store) queryBriefings(ctx context.Context, query string, args ...any) ([]core.Briefing, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query briefings: %w", err)
	}
	defer rows.Close()

	var briefings []core.Briefing
	for rows.Next() {
		b, err := scanBriefing(rows)
		if err != nil {
			return nil, err
		}
		briefings = append(briefings, *b)
	}
	return briefings, rows.Err()
}

func scanBriefing(rows *sql.Rows) (*core.Briefing, error) {
	var b core.Briefing
	var topics, imgs []byte
	if err := rows.Scan(
		&b.ID,
		&b.StanID,
		&b.UserID,
		&b.Content,
		&topics,
		pq.Array(&b.SearchSources),
		&imgs,
		&b.AIGenerated,
		&b.Degraded,
		&b.Date,
		&b.IsRead,
		&b.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to scan briefing: %w", err)
	}
	if err := json.Unmarshal(topics, &b.Topics); err != nil {
		return nil, fmt.Errorf("failed to unmarshal topics: %w", err)
	}
	if err := json.Unmarshal(imgs, &b.Images); err != nil {
		return nil, fmt.Errorf("failed to unmarshal images: %w", err)
	}
	return &b, nil
}
