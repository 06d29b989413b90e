// Package images derives typed image records from briefing source URLs.
// Classification is pure URL pattern matching: YouTube thumbnails come from
// the public CDN path, while Twitter/X, Instagram, and TikTok get branded
// placeholder records because none of them expose thumbnails without
// authenticated oEmbed calls. No network requests are made.
package images

import (
	"fmt"
	"regexp"
	"strings"

	"stanbrief/internal/core"
)

var youtubeIDRe = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([^&\n?#]+)`)

// FromSources classifies each source URL in order and returns the derived
// image records. Unrecognized URLs are silently skipped, so the result may
// be empty.
func FromSources(sources []string) []core.Image {
	var imgs []core.Image
	for _, source := range sources {
		if img, ok := Classify(source); ok {
			imgs = append(imgs, img)
		}
	}
	return imgs
}

// Classify derives an image record for a single source URL. The second
// return value is false when the URL matches no known provider.
func Classify(source string) (core.Image, bool) {
	switch {
	case strings.Contains(source, "youtube.com/watch") || strings.Contains(source, "youtu.be/"):
		m := youtubeIDRe.FindStringSubmatch(source)
		if m == nil {
			return core.Image{}, false
		}
		videoID := m[1]
		return core.Image{
			URL:       fmt.Sprintf("https://img.youtube.com/vi/%s/maxresdefault.jpg", videoID),
			Alt:       "YouTube video",
			Source:    source,
			Thumbnail: fmt.Sprintf("https://img.youtube.com/vi/%s/hqdefault.jpg", videoID),
		}, true

	case (strings.Contains(source, "twitter.com/") || strings.Contains(source, "x.com/")) && strings.Contains(source, "/status/"):
		return core.Image{
			URL:       "https://via.placeholder.com/400x300/1DA1F2/ffffff?text=Twitter+Post",
			Alt:       "Twitter post",
			Source:    source,
			Thumbnail: "https://via.placeholder.com/200x150/1DA1F2/ffffff?text=X",
		}, true

	case strings.Contains(source, "instagram.com/p/") || strings.Contains(source, "instagram.com/reel/"):
		return core.Image{
			URL:       "https://via.placeholder.com/400x400/E4405F/ffffff?text=Instagram",
			Alt:       "Instagram post",
			Source:    source,
			Thumbnail: "https://via.placeholder.com/200x200/E4405F/ffffff?text=IG",
		}, true

	case strings.Contains(source, "tiktok.com/@") && strings.Contains(source, "/video/"):
		return core.Image{
			URL:       "https://via.placeholder.com/400x600/000000/ffffff?text=TikTok",
			Alt:       "TikTok video",
			Source:    source,
			Thumbnail: "https://via.placeholder.com/200x300/000000/ffffff?text=TikTok",
		}, true
	}

	return core.Image{}, false
}
