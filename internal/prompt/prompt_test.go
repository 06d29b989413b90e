package prompt

import (
	"strings"
	"testing"
	"time"

	"stanbrief/internal/core"
)

var testTime = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func testStan() core.Stan {
	return core.Stan{ID: "s1", Name: "Test Artist", Description: "A test act", UserID: "u1"}
}

func TestBuildDefaultPrompt(t *testing.T) {
	cust := core.DefaultCustomization("u1", "s1")
	got := Build(testStan(), core.Category{Name: "Music"}, cust, testTime)

	for _, want := range []string{
		`"Test Artist"`,
		TitleRecentNews,
		TitleSocialMedia,
		TitleUpcomingEvents,
		"Music",
		"A test act",
		"Sunday, August 30, 2026",
		"Tone: informative.",
		"Length: medium.",
		"ONLY valid JSON",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected prompt to contain %q", want)
		}
	}
}

func TestBuildSteeringSections(t *testing.T) {
	cust := core.DefaultCustomization("u1", "s1")
	cust.IncludeSocialMedia = false
	cust.IncludeUpcomingEvents = false
	got := Build(testStan(), core.Category{Name: "Music"}, cust, testTime)

	if strings.Contains(got, "recent social media activity") {
		t.Error("Expected social media section omitted")
	}
	if strings.Contains(got, "upcoming schedules, events, or releases") {
		t.Error("Expected upcoming events section omitted")
	}
	if !strings.Contains(got, "fan and community reactions") {
		t.Error("Expected fan reactions section kept")
	}
}

func TestBuildFocusAndExclusions(t *testing.T) {
	cust := core.DefaultCustomization("u1", "s1")
	cust.FocusAreas = []string{"tour dates", "new music"}
	cust.ExcludeTopics = []string{"gossip"}
	got := Build(testStan(), core.Category{Name: "Music"}, cust, testTime)

	if !strings.Contains(got, "Focus specifically on: tour dates, new music.") {
		t.Error("Expected focus areas in prompt")
	}
	if !strings.Contains(got, "Please avoid mentioning: gossip.") {
		t.Error("Expected exclusions in prompt")
	}
}

func TestBuildOmitSources(t *testing.T) {
	cust := core.DefaultCustomization("u1", "s1")
	cust.IncludeSources = false
	got := Build(testStan(), core.Category{Name: "Music"}, cust, testTime)

	if !strings.Contains(got, "Omit source URLs") {
		t.Error("Expected source omission instruction")
	}
}

func TestBuildCustomTemplate(t *testing.T) {
	cust := core.DefaultCustomization("u1", "s1")
	cust.CustomPrompt = "Tell me about {stan_name} ({category}) on {date}. Focus: {focus_areas}. Tone: {tone}. Keep {unknown}."
	cust.FocusAreas = []string{"awards", "collabs"}
	cust.Tone = "hype"

	got := Build(testStan(), core.Category{Name: "K-Pop"}, cust, testTime)

	want := "Tell me about Test Artist (K-Pop) on Sunday, August 30, 2026. Focus: awards, collabs. Tone: hype. Keep {unknown}."
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestBuildEmptyDescription(t *testing.T) {
	stan := testStan()
	stan.Description = ""
	got := Build(stan, core.Category{Name: "Music"}, core.DefaultCustomization("u1", "s1"), testTime)

	if !strings.Contains(got, "Music - None") {
		t.Error("Expected placeholder for empty description")
	}
}
