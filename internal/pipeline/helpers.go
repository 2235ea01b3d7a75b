package pipeline

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

const maxTitleLen = 30

// SafeTitle reduces a row title to a filename-safe fragment: the first 30
// characters, keeping only letters, digits, spaces, hyphens and
// underscores. An empty title falls back to "video".
func SafeTitle(title string) string {
	if title == "" {
		title = "video"
	}

	runes := []rune(title)
	if len(runes) > maxTitleLen {
		runes = runes[:maxTitleLen]
	}

	var b strings.Builder
	for _, c := range runes {
		if unicode.IsLetter(c) || unicode.IsDigit(c) || c == ' ' || c == '-' || c == '_' {
			b.WriteRune(c)
		}
	}
	return b.String()
}

// outputFilename is "<timestamp>_<safe title>.mp4". Second-granularity
// timestamps are unique enough for a scratch dir fed by a serial sweep.
func outputFilename(now time.Time, title string) string {
	return fmt.Sprintf("%s_%s.mp4", now.Format("20060102_150405"), SafeTitle(title))
}
