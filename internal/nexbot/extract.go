package nexbot

import (
	"regexp"
	"strings"
)

const (
	// GeneralProject is the sentinel project for untagged messages.
	GeneralProject = "GENERAL"
	// DefaultPriority applies when no priority token is present.
	DefaultPriority = "P3"
)

var (
	mentionPattern = regexp.MustCompile(`@\w+`)
	tagPattern     = regexp.MustCompile(`#[A-Za-z0-9]+`)
	// Closed set. An out-of-set token like "XX" is never extracted and stays
	// in the body; the default priority applies silently.
	priorityPattern = regexp.MustCompile(`\b(P[1-3]|UI|UX|BUG)\b`)
)

// ValidPriority reports membership in the recognized priority set.
func ValidPriority(p string) bool {
	switch p {
	case "P1", "P2", "P3", "UI", "UX", "BUG":
		return true
	}
	return false
}

// Extraction is the immutable result of one pass over a raw message. Raw is
// the message with the command keyword and @mentions removed; Body
// additionally has the tag token and, when requested, the priority token
// stripped.
type Extraction struct {
	Tag      string // uppercased project tag, "" when absent
	Priority string // member of the recognized set, DefaultPriority when absent
	Raw      string
	Body     string
}

// Extract pulls the project tag, the priority token and the cleaned body out
// of a raw chat message. The leading /command word (including /cmd@BotName
// variants) is dropped. Extraction is deterministic: the same input always
// yields the same result. Tag and priority tokens may appear in either order.
func Extract(raw string, wantPriority bool) Extraction {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "/") {
		if i := strings.IndexAny(text, " \n\t"); i >= 0 {
			text = text[i:]
		} else {
			text = ""
		}
	}
	text = strings.TrimSpace(mentionPattern.ReplaceAllString(text, ""))

	tag := ""
	if m := tagPattern.FindString(text); m != "" {
		tag = strings.ToUpper(strings.TrimPrefix(m, "#"))
	}

	priority := DefaultPriority
	body := text
	if wantPriority {
		if m := priorityPattern.FindString(body); m != "" {
			priority = m
		}
		body = priorityPattern.ReplaceAllString(body, "")
	}
	body = tagPattern.ReplaceAllString(body, "")

	return Extraction{
		Tag:      tag,
		Priority: priority,
		Raw:      text,
		Body:     strings.TrimSpace(body),
	}
}
