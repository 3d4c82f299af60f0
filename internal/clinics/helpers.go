package clinics

import (
	"regexp"
	"strings"
)

var (
	nonWordChars    = regexp.MustCompile(`[^\w-]+`)
	repeatedDashes  = regexp.MustCompile(`-{2,}`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
)

// Slugify turns a clinic name into its subdomain label:
// "Dr. Patel's Clinic" -> "dr-patels-clinic"
func Slugify(text string) string {
	slug := strings.ToLower(strings.TrimSpace(text))
	slug = whitespaceRuns.ReplaceAllString(slug, "-")
	slug = nonWordChars.ReplaceAllString(slug, "")
	slug = repeatedDashes.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
