package service

import (
	"fmt"
	htmlstd "html"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

const (
	videoAspectLandscape = "16:9"
	videoAspectPortrait  = "9:16"
)

var (
	videoLinePattern     = regexp.MustCompile(`^\s*<?((?:https?://)?[^\s]+)>?\s*$`)
	videoEmbedSrcPattern = regexp.MustCompile(`^https://(?:www\.youtube-nocookie\.com/embed/|www\.instagram\.com/reel/[A-Za-z0-9_-]+/embed$)`)
	youTubeTimePattern   = regexp.MustCompile(`(?i)(\d+)(h|m|s)`)
	orderedListPattern   = regexp.MustCompile(`^\d+\.\s+`)
)

type videoEmbed struct {
	Platform string
	Source   string
	EmbedURL string
	Aspect   string
}

// buildContentSanitizer allows UGC markup plus iframes pointing at known players.
func buildContentSanitizer() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("iframe")
	policy.AllowAttrs("class", "data-video-platform", "data-video-aspect").OnElements("div")
	policy.AllowAttrs("src").Matching(videoEmbedSrcPattern).OnElements("iframe")
	policy.AllowAttrs("title", "allow", "allowfullscreen", "loading", "referrerpolicy").OnElements("iframe")
	return policy
}

// applyVideoEmbeds replaces lines holding only a YouTube or Instagram reel link with an iframe.
// Code blocks, quotes and list items are left alone.
func applyVideoEmbeds(markdown string) string {
	if strings.TrimSpace(markdown) == "" {
		return markdown
	}

	lines := strings.Split(markdown, "\n")
	fence := ""
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if marker := fenceMarker(trimmed); marker != "" {
			switch {
			case fence == "":
				fence = marker
			case strings.HasPrefix(trimmed, fence):
				fence = ""
			}
			continue
		}
		if fence != "" || isIndentedCode(line) || skipEmbedLine(trimmed) {
			continue
		}

		match := videoLinePattern.FindStringSubmatch(trimmed)
		if match == nil {
			continue
		}
		if embed, ok := parseVideoEmbed(match[1]); ok {
			lines[i] = embed.html()
		}
	}
	return strings.Join(lines, "\n")
}

func fenceMarker(line string) string {
	for _, marker := range []string{"```", "~~~"} {
		if strings.HasPrefix(line, marker) {
			return marker
		}
	}
	return ""
}

func isIndentedCode(line string) bool {
	return strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t")
}

func skipEmbedLine(line string) bool {
	if line == "" || strings.HasPrefix(line, ">") {
		return true
	}
	for _, bullet := range []string{"- ", "* ", "+ "} {
		if strings.HasPrefix(line, bullet) {
			return true
		}
	}
	return orderedListPattern.MatchString(line)
}

func parseVideoEmbed(raw string) (videoEmbed, bool) {
	source := strings.Trim(strings.TrimSpace(raw), "<>")
	lower := strings.ToLower(source)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		for _, prefix := range []string{"youtube.com/", "www.youtube.com/", "youtu.be/", "instagram.com/", "www.instagram.com/"} {
			if strings.HasPrefix(lower, prefix) {
				source = "https://" + source
				break
			}
		}
	}

	u, err := url.Parse(source)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
		return videoEmbed{}, false
	}

	if embed, ok := parseYouTube(u, source); ok {
		return embed, true
	}
	if isHostOrSubdomain(u.Hostname(), "instagram.com") {
		reelID, err := ParseReelID(source)
		if err != nil {
			return videoEmbed{}, false
		}
		return videoEmbed{Platform: "instagram", Source: source, EmbedURL: EmbedURL(reelID), Aspect: videoAspectPortrait}, true
	}
	return videoEmbed{}, false
}

func parseYouTube(u *url.URL, source string) (videoEmbed, bool) {
	host := strings.ToLower(u.Hostname())
	var videoID string
	switch {
	case host == "youtu.be":
		videoID = strings.Trim(u.Path, "/")
	case isHostOrSubdomain(host, "youtube.com"):
		path := strings.Trim(u.Path, "/")
		if path == "watch" {
			videoID = u.Query().Get("v")
		}
		for _, prefix := range []string{"shorts/", "embed/", "live/"} {
			if strings.HasPrefix(path, prefix) {
				videoID = strings.TrimPrefix(path, prefix)
			}
		}
	default:
		return videoEmbed{}, false
	}
	videoID, _, _ = strings.Cut(videoID, "/")
	if videoID == "" {
		return videoEmbed{}, false
	}

	values := url.Values{}
	values.Set("rel", "0")
	values.Set("playsinline", "1")
	if start := youTubeStart(u.Query()); start > 0 {
		values.Set("start", strconv.Itoa(start))
	}
	return videoEmbed{
		Platform: "youtube",
		Source:   source,
		EmbedURL: "https://www.youtube-nocookie.com/embed/" + url.PathEscape(videoID) + "?" + values.Encode(),
		Aspect:   videoAspectLandscape,
	}, true
}

// youTubeStart reads ?start= or ?t= given as seconds or 1h2m3s.
func youTubeStart(query url.Values) int {
	value := query.Get("start")
	if value == "" {
		value = query.Get("t")
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0
		}
		return seconds
	}

	total := 0
	for _, match := range youTubeTimePattern.FindAllStringSubmatch(value, -1) {
		n, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		switch strings.ToLower(match[2]) {
		case "h":
			total += n * 3600
		case "m":
			total += n * 60
		case "s":
			total += n
		}
	}
	return total
}

func (e videoEmbed) html() string {
	title := "YouTube video"
	if e.Platform == "instagram" {
		title = "Instagram reel"
	}
	return fmt.Sprintf(
		`<div class="video-embed" data-video-platform="%s" data-video-aspect="%s">`+
			`<iframe src="%s" title="%s" loading="lazy" allow="clipboard-write; encrypted-media; picture-in-picture; web-share" allowfullscreen referrerpolicy="strict-origin-when-cross-origin"></iframe>`+
			`</div>`,
		htmlstd.EscapeString(e.Platform),
		htmlstd.EscapeString(e.Aspect),
		htmlstd.EscapeString(e.EmbedURL),
		title,
	)
}

func isHostOrSubdomain(host, domain string) bool {
	host = strings.ToLower(strings.TrimSpace(host))
	return host != "" && (host == domain || strings.HasSuffix(host, "."+domain))
}
