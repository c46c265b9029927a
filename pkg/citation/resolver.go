package citation

import (
	"fmt"
	"regexp"
)

// Handle is an interactive reference to a legal-reference token detected in
// assistant answer text. Reference carries the literal matched text and is
// the lookup key for explanations.
type Handle struct {
	Reference  string `json:"reference"`
	Keyword    string `json:"keyword"`    // "Section", "Clause", "Article" or "Paragraph" as written
	Designator string `json:"designator"` // e.g. "4", "12.3", "4.4.4"
	Start      int    `json:"start"`      // byte offset into the source text
	End        int    `json:"end"`
}

// Legal-reference pattern: a fixed keyword followed by a numeric designator
// with optional decimal sub-parts, case-insensitive. The designator group is
// greedy over dots so "Section 4.4.4" yields one match, never nested ones.
var referencePattern = regexp.MustCompile(`(?i)\b(section|clause|article|paragraph)\s+(\d+(?:\.\d+)*)\b`)

// Resolve locates every legal-reference token in the given answer text and
// returns one handle per occurrence, in text order. It performs no backend
// call; resolving a handle to content is a separate lookup operation.
func Resolve(text string) []Handle {
	matches := referencePattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	handles := make([]Handle, 0, len(matches))
	for _, m := range matches {
		// m: [start end kwStart kwEnd numStart numEnd]
		handles = append(handles, Handle{
			Reference:  text[m[0]:m[1]],
			Keyword:    text[m[2]:m[3]],
			Designator: text[m[4]:m[5]],
			Start:      m[0],
			End:        m[1],
		})
	}
	return handles
}

// FollowUpQuestion synthesizes the one-click "ask about this section"
// question for a resolved handle. The result is fed back into the normal
// question-submit path.
func FollowUpQuestion(reference string) string {
	return fmt.Sprintf("Can you explain %s in more detail?", reference)
}
