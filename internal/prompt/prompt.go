package prompt

import (
	"fmt"
	"strings"
	"time"

	"stanbrief/internal/core"
)

// Topic titles the model is asked to use. The fallback extractor keys off
// these same labels, so changes here must stay in sync with recovery.
const (
	TitleRecentNews     = "Recent News & Activities"
	TitleSocialMedia    = "Social Media & Fan Reactions"
	TitleUpcomingEvents = "Upcoming Events & Releases"
)

// briefingPromptTemplate asks for exactly the JSON shape the recovery
// pipeline expects. Ordered args: stan name, schema example, stan name,
// category, description, date, steering sections.
const briefingPromptTemplate = `Search the web for current information about "%s" and return ONLY valid JSON in this exact format:

%s

Context: %s - %s - %s
Today: %s
%s
CRITICAL: Return ONLY the JSON object above, no explanation text, no markdown formatting, just the JSON.`

// schemaExample is the JSON shape embedded in every default prompt.
const schemaExample = `{
  "topics": [
    {
      "title": "` + TitleRecentNews + `",
      "content": "2-3 sentences about recent news with specific dates and details. Use emojis appropriately.",
      "sources": ["url1", "url2"]
    },
    {
      "title": "` + TitleSocialMedia + `",
      "content": "2-3 sentences about social media activity and fan reactions. Use emojis appropriately.",
      "sources": ["url1", "url2"]
    },
    {
      "title": "` + TitleUpcomingEvents + `",
      "content": "2-3 sentences about upcoming schedules and planned activities. Use emojis appropriately.",
      "sources": ["url1", "url2"]
    }
  ],
  "searchSources": ["all_urls_you_found_during_search"]
}`

// Build assembles the generation prompt for a stan. When the customization
// carries a full custom template, variable substitution is applied to it;
// otherwise the default schema prompt is built with the customization's
// steering flags. Pure string formatting, no error path.
func Build(stan core.Stan, category core.Category, cust core.PromptCustomization, now time.Time) string {
	if cust.CustomPrompt != "" {
		return applyCustomTemplate(cust.CustomPrompt, stan, category, cust, now)
	}
	return buildDefault(stan, category, cust, now)
}

func buildDefault(stan core.Stan, category core.Category, cust core.PromptCustomization, now time.Time) string {
	var steering []string

	var sections []string
	sections = append(sections, "Recent news or activities")
	if cust.IncludeSocialMedia {
		sections = append(sections, "recent social media activity and posts")
	}
	if cust.IncludeFanReactions {
		sections = append(sections, "fan and community reactions")
	}
	if cust.IncludeUpcomingEvents {
		sections = append(sections, "upcoming schedules, events, or releases")
	}
	steering = append(steering, "Include sections for: "+strings.Join(sections, ", ")+".")

	if len(cust.FocusAreas) > 0 {
		steering = append(steering, "Focus specifically on: "+strings.Join(cust.FocusAreas, ", ")+".")
	}
	if len(cust.ExcludeTopics) > 0 {
		steering = append(steering, "Please avoid mentioning: "+strings.Join(cust.ExcludeTopics, ", ")+".")
	}

	tone := cust.Tone
	if tone == "" {
		tone = "informative"
	}
	steering = append(steering, "Tone: "+tone+".")
	if cust.Length != "" {
		steering = append(steering, "Length: "+cust.Length+".")
	}
	if !cust.IncludeSources {
		steering = append(steering, "Omit source URLs from topic content.")
	}

	description := stan.Description
	if description == "" {
		description = "None"
	}

	return fmt.Sprintf(briefingPromptTemplate,
		stan.Name,
		schemaExample,
		stan.Name,
		category.Name,
		description,
		core.PromptDate(now),
		strings.Join(steering, "\n")+"\n",
	)
}

// applyCustomTemplate substitutes the supported template variables into a
// user-supplied prompt. Unknown variables are left untouched.
func applyCustomTemplate(template string, stan core.Stan, category core.Category, cust core.PromptCustomization, now time.Time) string {
	tone := cust.Tone
	if tone == "" {
		tone = "informative"
	}
	r := strings.NewReplacer(
		"{stan_name}", stan.Name,
		"{date}", core.PromptDate(now),
		"{category}", category.Name,
		"{focus_areas}", strings.Join(cust.FocusAreas, ", "),
		"{tone}", tone,
	)
	return r.Replace(template)
}
