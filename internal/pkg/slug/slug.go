package slug

import "strings"

// Make derives a URL slug from a title: lowercase, runs of
// non-alphanumeric characters collapse to a single hyphen, leading
// and trailing hyphens are trimmed. Deterministic, so the slug can be
// regenerated whenever the title changes.
func Make(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	pendingHyphen := false
	for _, r := range strings.ToLower(title) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isAlnum {
			pendingHyphen = b.Len() > 0
			continue
		}
		if pendingHyphen {
			b.WriteByte('-')
			pendingHyphen = false
		}
		b.WriteRune(r)
	}

	return b.String()
}
