// Package render implements merge-field substitution and the minimal inline
// markup supported by reminder templates. Rendering is pure: templates go in,
// strings come out, and nothing is mutated.
//
// Unknown tokens are intentionally left verbatim so a half-configured data
// context never produces a crash or a blanked-out message. html/template is
// not used here because it errors on unknown keys and escapes substituted
// values; reminder bodies are authored as plain text with {{token}} holes.
package render

import (
	"regexp"
	"strings"
)

var (
	tokenPattern = regexp.MustCompile(`\{\{([a-z_][a-z0-9_]*)\}\}`)
	boldPattern  = regexp.MustCompile(`\*\*(.*?)\*\*`)
)

// Render substitutes {{token}} placeholders from values and converts
// **text** spans to <strong> tags. Tokens with no matching value are left
// unrendered; extra keys in values are ignored.
func Render(template string, values map[string]string) string {
	return renderBold(Substitute(template, values))
}

// RenderSubject substitutes tokens without applying bold markup. Subject
// lines are plain text, so literal asterisks survive untouched.
func RenderSubject(template string, values map[string]string) string {
	return Substitute(template, values)
}

// Substitute replaces every {{token}} that has a value. The replacement is a
// single pass over the template, so values containing {{...}} are not
// re-expanded.
func Substitute(template string, values map[string]string) string {
	if template == "" || len(values) == 0 {
		return template
	}
	return tokenPattern.ReplaceAllStringFunc(template, func(match string) string {
		token := strings.TrimSuffix(strings.TrimPrefix(match, "{{"), "}}")
		if value, ok := values[token]; ok {
			return value
		}
		return match
	})
}

func renderBold(s string) string {
	return boldPattern.ReplaceAllString(s, "<strong>$1</strong>")
}
