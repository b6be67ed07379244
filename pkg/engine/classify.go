package engine

import (
	"net/url"
	"strings"

	"github.com/gobwas/glob"
)

// videoPagePatterns match recognized long-form video pages, which get a
// summary prompt emphasizing timestamps and highlights.
var videoPagePatterns = []glob.Glob{
	glob.MustCompile("*youtube.com/watch*"),
	glob.MustCompile("*youtube.com/shorts/*"),
	glob.MustCompile("*youtu.be/*"),
}

// IsVideoPage reports whether rawURL is a recognized long-form video page.
func IsVideoPage(rawURL string) bool {
	for _, pattern := range videoPagePatterns {
		if pattern.Match(rawURL) {
			return true
		}
	}
	return false
}

// VideoID extracts the video identifier from a recognized video page URL,
// or returns an empty string when none can be found.
func VideoID(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	host := strings.TrimPrefix(u.Hostname(), "www.")
	switch {
	case host == "youtu.be":
		return strings.Trim(u.Path, "/")
	case strings.HasSuffix(host, "youtube.com"):
		if id := u.Query().Get("v"); id != "" {
			return id
		}
		if rest, ok := strings.CutPrefix(u.Path, "/shorts/"); ok {
			return strings.Trim(rest, "/")
		}
	}
	return ""
}
