package caption

import (
	"strings"
	"unicode"
)

// ExtractTags scans text for hashtag tokens, strips surrounding punctuation,
// removes duplicates while preserving first-seen order, and caps the result
// at maxTags. Case is preserved; dedupe is case-sensitive to match the
// platform's tag handling.
func ExtractTags(text string, maxTags int) []string {
	if maxTags <= 0 {
		return nil
	}

	seen := make(map[string]struct{})
	var tags []string

	for _, token := range strings.Fields(text) {
		if !strings.HasPrefix(token, "#") {
			continue
		}

		tag := strings.TrimFunc(token[1:], func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if tag == "" {
			continue
		}

		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}

		tags = append(tags, tag)
		if len(tags) == maxTags {
			break
		}
	}

	return tags
}
