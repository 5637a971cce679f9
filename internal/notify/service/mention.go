package service

import "regexp"

// mentionPattern matches @[label](userId).
var mentionPattern = regexp.MustCompile(`@\[([^\]]+)\]\(([^)]+)\)`)

// Mentions is the result of scanning a comment body.
type Mentions struct {
	// UserIDs are the distinct mentioned users in first-appearance order,
	// without the excluded author.
	UserIDs []string

	// Text is the body with every mention replaced by its label.
	Text string
}

// ExtractMentions parses mention markup out of text. exclude is typically the
// comment author and is never returned.
func ExtractMentions(text, exclude string) Mentions {
	var (
		ids  []string
		seen = make(map[string]struct{})
	)
	for _, m := range mentionPattern.FindAllStringSubmatch(text, -1) {
		id := m[2]
		if id == exclude {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	return Mentions{
		UserIDs: ids,
		Text:    mentionPattern.ReplaceAllString(text, "$1"),
	}
}
