package dunning

import (
	"fmt"
	"regexp"
)

// Day phrase patterns recognized by the cascading rename. Longer, more
// specific patterns come first so partial overlaps are not substituted twice.
var (
	namePhrasePatterns = []string{
		"- Day %d",
		"Day %d",
	}
	subjectPhrasePatterns = []string{
		"%d Days Overdue",
		"%d Days Past Due",
		"Day %d",
	}
)

// cascadeName rewrites recognized day phrases in a template name
func cascadeName(name string, oldDay, newDay int) string {
	return substituteDayPhrases(name, namePhrasePatterns, oldDay, newDay)
}

// cascadeSubject rewrites recognized day phrases in a subject line
func cascadeSubject(subject string, oldDay, newDay int) string {
	return substituteDayPhrases(subject, subjectPhrasePatterns, oldDay, newDay)
}

// substituteDayPhrases applies each phrase pattern in order, replacing every
// occurrence of the old-day phrase with the new-day phrase. Boundaries are
// digit-safe in both directions: "Day 1" never matches inside "Day 14", and
// "7 Days Overdue" never matches inside "17 Days Overdue".
func substituteDayPhrases(text string, patterns []string, oldDay, newDay int) string {
	for _, pattern := range patterns {
		oldPhrase := fmt.Sprintf(pattern, oldDay)
		newPhrase := fmt.Sprintf(pattern, newDay)
		text = replaceDayPhrase(text, oldPhrase, newPhrase)
	}
	return text
}

func replaceDayPhrase(text, oldPhrase, newPhrase string) string {
	if oldPhrase == "" || oldPhrase == newPhrase {
		return text
	}

	prefix := ""
	if isWordByte(oldPhrase[0]) {
		prefix = `\b`
	}

	if isDigitByte(oldPhrase[len(oldPhrase)-1]) {
		// Phrase ends in the day number itself: require a trailing non-digit
		// (or end of string) and keep it in the replacement.
		re := regexp.MustCompile(prefix + regexp.QuoteMeta(oldPhrase) + `([^0-9]|$)`)
		return re.ReplaceAllString(text, newPhrase+"${1}")
	}

	re := regexp.MustCompile(prefix + regexp.QuoteMeta(oldPhrase) + `\b`)
	return re.ReplaceAllString(text, newPhrase)
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

func isDigitByte(b byte) bool {
	return b >= '0' && b <= '9'
}
