package sanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// maxDecodeRounds bounds how many layers of entity encoding Text peels.
const maxDecodeRounds = 4

// Text strips markup from a free-text label and collapses it to plain text.
// Entity-encoded markup is decoded before stripping, repeatedly, so no tag
// survives in the returned plain text. "A & B" stays as typed.
func Text(raw string) string {
	out := strings.TrimSpace(raw)
	for i := 0; i < maxDecodeRounds && out != ""; i++ {
		next := html.UnescapeString(textSanitizer().Sanitize(html.UnescapeString(out)))
		next = strings.TrimSpace(next)
		if next == out {
			break
		}
		out = next
	}
	return out
}

// Texts applies Text to every element, keeping empty results in place.
func Texts(raw []string) []string {
	if raw == nil {
		return nil
	}
	out := make([]string, len(raw))
	for i, v := range raw {
		out[i] = Text(v)
	}
	return out
}

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}
