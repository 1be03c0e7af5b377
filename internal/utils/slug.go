package utils

import (
	"strings"

	"github.com/google/uuid"
)

// Slugify turns a title into a URL-friendly slug with a short random
// suffix so duplicate titles never collide:
// "My Fit Journey" -> "my-fit-journey-1a2b".
func Slugify(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	suffix := uuid.New().String()[:4]
	if slug == "" {
		return suffix
	}
	return slug + "-" + suffix
}
