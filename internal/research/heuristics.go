package research

import (
	"strings"
	"unicode"
)

// titleSeparators split site names and taglines off result titles.
var titleSeparators = []string{" | ", " — ", " – ", " - ", " :: ", " · "}

// TitleSegment returns the leading segment of a result title, dropping the
// site name or tagline most search engines append. It is a display heuristic
// and is not used by Format.
func TitleSegment(title string) string {
	title = strings.TrimSpace(title)
	cut := len(title)
	for _, sep := range titleSeparators {
		if i := strings.Index(title, sep); i > 0 && i < cut {
			cut = i
		}
	}
	if seg := strings.TrimSpace(title[:cut]); seg != "" {
		return seg
	}
	return title
}

// Sentences splits text into sentences ending in '.', '!' or '?' followed by
// whitespace or the end of input. Trailing text without terminal punctuation
// is kept as a final sentence. max <= 0 returns every sentence.
func Sentences(text string, max int) []string {
	text = strings.TrimSpace(collapseSpace(text))
	if text == "" {
		return nil
	}

	runes := []rune(text)
	var out []string
	start := 0
	for i, r := range runes {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			out = append(out, s)
			if max > 0 && len(out) == max {
				return out
			}
		}
		start = i + 1
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		out = append(out, s)
	}
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}

// Summary joins up to max sentences of text, for compact previews.
func Summary(text string, max int) string {
	return strings.Join(Sentences(text, max), " ")
}
