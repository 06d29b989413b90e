package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"stanbrief/internal/core"
)

// GetCustomization fetches the prompt customization for one (user, stan).
// Returns (nil, nil) when the user has no saved customization; callers fall
// back to core.DefaultCustomization.
func (s *Store) GetCustomization(ctx context.Context, userID, stanID string) (*core.PromptCustomization, error) {
	query := `
	SELECT user_id, stan_id, custom_prompt, focus_areas, exclude_topics, tone, length,
	       include_sources, include_social_media, include_fan_reactions, include_upcoming_events
	FROM stan_prompts WHERE user_id = $1 AND stan_id = $2`

	var c core.PromptCustomization
	err := s.db.QueryRowContext(ctx, query, userID, stanID).Scan(
		&c.UserID,
		&c.StanID,
		&c.CustomPrompt,
		pq.Array(&c.FocusAreas),
		pq.Array(&c.ExcludeTopics),
		&c.Tone,
		&c.Length,
		&c.IncludeSources,
		&c.IncludeSocialMedia,
		&c.IncludeFanReactions,
		&c.IncludeUpcomingEvents,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan prompt customization: %w", err)
	}
	return &c, nil
}

// UpsertCustomization saves a user's prompt settings for a stan, one row
// per (user, stan).
func (s *Store) UpsertCustomization(ctx context.Context, c core.PromptCustomization) error {
	query := `
	INSERT INTO stan_prompts
	(user_id, stan_id, custom_prompt, focus_areas, exclude_topics, tone, length,
	 include_sources, include_social_media, include_fan_reactions, include_upcoming_events)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (user_id, stan_id) DO UPDATE SET
		custom_prompt = EXCLUDED.custom_prompt,
		focus_areas = EXCLUDED.focus_areas,
		exclude_topics = EXCLUDED.exclude_topics,
		tone = EXCLUDED.tone,
		length = EXCLUDED.length,
		include_sources = EXCLUDED.include_sources,
		include_social_media = EXCLUDED.include_social_media,
		include_fan_reactions = EXCLUDED.include_fan_reactions,
		include_upcoming_events = EXCLUDED.include_upcoming_events`

	_, err := s.db.ExecContext(ctx, query,
		c.UserID,
		c.StanID,
		c.CustomPrompt,
		pq.Array(c.FocusAreas),
		pq.Array(c.ExcludeTopics),
		c.Tone,
		c.Length,
		c.IncludeSources,
		c.IncludeSocialMedia,
		c.IncludeFanReactions,
		c.IncludeUpcomingEvents,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert prompt customization: %w", err)
	}
	return nil
}

// DeleteCustomization reverts a (user, stan) pair to the default prompt.
func (s *Store) DeleteCustomization(ctx context.Context, userID, stanID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM stan_prompts WHERE user_id = $1 AND stan_id = $2`, userID, stanID)
	if err != nil {
		return fmt.Errorf("failed to delete prompt customization: %w", err)
	}
	return nil
}
