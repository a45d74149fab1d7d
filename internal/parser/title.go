package parser

import (
	"regexp"
	"strings"
)

// DefaultTitle is used when nothing of the prompt survives title extraction.
const DefaultTitle = "New Dashboard"

var (
	leadingVerb    = regexp.MustCompile(`(?i)^(create|build|design|make|generate|show|give|render)[\s\p{Zs}]+`)
	trailingClause = regexp.MustCompile(`(?i)[\s\p{Zs}]+(in|with|using|for)[\s\p{Zs}]+.*$`)
	bareArticle    = regexp.MustCompile(`(?i)\b(a|an|the)\b`)
)

// ExtractTitle derives a short title from a prompt: the leading action verb,
// any trailing "in/with/using/for ..." clause and bare articles are dropped,
// and the first four remaining words are title-cased.
func ExtractTitle(prompt string) string {
	clean := leadingVerb.ReplaceAllString(prompt, "")
	clean = trailingClause.ReplaceAllString(clean, "")
	clean = bareArticle.ReplaceAllString(clean, "")

	words := strings.Fields(clean)
	if len(words) > 4 {
		words = words[:4]
	}
	for i, w := range words {
		words[i] = capitalize(w)
	}

	title := strings.TrimSpace(strings.Join(words, " "))
	if title == "" {
		return DefaultTitle
	}
	return title
}

func capitalize(w string) string {
	r := []rune(w)
	if len(r) == 0 {
		return w
	}
	return strings.ToUpper(string(r[0])) + strings.ToLower(string(r[1:]))
}
