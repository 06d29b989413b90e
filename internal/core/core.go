package core

import "time"

// Category groups stans by fandom type (e.g., "K-Pop", "Sports Teams").
type Category struct {
	ID    string `json:"id"`    // Unique identifier for the category
	Name  string `json:"name"`  // Display name of the category
	Icon  string `json:"icon"`  // Emoji icon shown next to the category
	Color string `json:"color"` // Hex color used by clients for theming
}

// Stan represents a followed entity (celebrity, team, game) that briefings
// are generated for. Stans are owned by a user or by the global pseudo-user.
type Stan struct {
	ID          string    `json:"id"`          // Unique identifier for the stan
	Name        string    `json:"name"`        // Display name used in prompts and briefings
	Description string    `json:"description"` // Optional free-text description
	CategoryID  string    `json:"category_id"` // ID of the owning category
	UserID      string    `json:"user_id"`     // Owning user, or the global pseudo-user ID
	IsActive    bool      `json:"is_active"`   // Soft-disable flag; inactive stans are skipped in batch runs
	DateAdded   time.Time `json:"date_added"`  // Timestamp when the stan was followed
}

// Topic is a single section of a briefing. Topics are independent; array
// order is whatever the model (or the fallback extractor) emitted.
type Topic struct {
	Title   string   `json:"title"`            // Section heading
	Content string   `json:"content"`          // 2-3 sentences of briefing text
	Sources []string `json:"sources"`          // Source URLs backing this topic
	Images  []Image  `json:"images,omitempty"` // Derived imagery for the sources
}

// Image is a typed image record derived deterministically from a source URL.
// Images are always embedded under a Topic or BriefingContent, never stored
// on their own.
type Image struct {
	URL       string `json:"url"`                 // Full-size image URL
	Alt       string `json:"alt"`                 // Alt text describing the image
	Source    string `json:"source"`              // The source URL the image was derived from
	Thumbnail string `json:"thumbnail,omitempty"` // Smaller variant, when the provider has one
}

// BriefingContent is the structured result of one generation request. It is
// produced fresh per request and never mutated after creation. A
// BriefingContent is valid for storage even when recovery degraded to
// pattern-matched extraction; availability wins over strict validation.
type BriefingContent struct {
	Topics        []Topic  `json:"topics"`        // Briefing sections
	SearchSources []string `json:"searchSources"` // All source URLs found during web search
	Images        []Image  `json:"images"`        // Aggregate imagery across all sources
}

// Briefing is a persisted briefing row, keyed by (stan, date).
type Briefing struct {
	ID            string    `json:"id"`             // Unique identifier for the briefing
	StanID        string    `json:"stan_id"`        // Stan this briefing is about
	UserID        string    `json:"user_id"`        // Owner of the stan at generation time
	Content       string    `json:"content"`        // Full BriefingContent serialized as JSON
	Topics        []Topic   `json:"topics"`         // Briefing sections
	SearchSources []string  `json:"search_sources"` // Source URLs found during search
	Images        []Image   `json:"images"`         // Aggregate imagery
	AIGenerated   bool      `json:"ai_generated"`   // True when produced by an LLM call
	Degraded      bool      `json:"degraded"`       // True when fallback text extraction was used
	Date          string    `json:"date"`           // UTC day key, YYYY-MM-DD
	IsRead        bool      `json:"is_read"`        // Whether the owner has read the briefing
	CreatedAt     time.Time `json:"created_at"`     // Timestamp when the row was written
}

// PromptCustomization holds a user's per-stan prompt settings. One record
// per (user, stan); read by the prompt builder, never written by it.
type PromptCustomization struct {
	StanID                string   `json:"stan_id"`                 // Stan the customization applies to
	UserID                string   `json:"user_id"`                 // Owning user
	CustomPrompt          string   `json:"custom_prompt"`           // Optional full template with {stan_name}-style variables
	FocusAreas            []string `json:"focus_areas"`             // Topics to steer the briefing toward
	ExcludeTopics         []string `json:"exclude_topics"`          // Topics the briefing should avoid
	Tone                  string   `json:"tone"`                    // e.g., "informative", "casual", "hype"
	Length                string   `json:"length"`                  // e.g., "short", "medium", "long"
	IncludeSources        bool     `json:"include_sources"`         // Ask the model for source URLs
	IncludeSocialMedia    bool     `json:"include_social_media"`    // Include a social media section
	IncludeFanReactions   bool     `json:"include_fan_reactions"`   // Include a fan reactions section
	IncludeUpcomingEvents bool     `json:"include_upcoming_events"` // Include an upcoming events section
}

// DefaultCustomization returns the settings used when a user has no saved
// customization for a stan.
func DefaultCustomization(userID, stanID string) PromptCustomization {
	return PromptCustomization{
		StanID:                stanID,
		UserID:                userID,
		Tone:                  "informative",
		Length:                "medium",
		IncludeSources:        true,
		IncludeSocialMedia:    true,
		IncludeFanReactions:   true,
		IncludeUpcomingEvents: true,
	}
}

// DateKey formats t as the UTC day key used for briefing storage.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// PromptDate formats t the way prompts present today's date.
func PromptDate(t time.Time) string {
	return t.UTC().Format("Monday, January 2, 2006")
}
