package citation

import (
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

// Explanation is the placeholder content a citation handle resolves to,
// keyed by the literal reference string.
type Explanation struct {
	Reference string `json:"reference"`
	Content   string `json:"content"`
	FollowUp  string `json:"follow_up"`
}

// Lookup resolves citation handles to explanatory content. Lookups are
// keyed by the literal reference text and cached per document session.
type Lookup struct {
	cache *cache.Cache
}

func NewLookup() *Lookup {
	// Explanations outlive a typical reading session; the janitor sweep
	// keeps the map small on long-running instances.
	return &Lookup{cache: cache.New(30*time.Minute, 5*time.Minute)}
}

// Explain returns the explanatory content for a reference.
func (l *Lookup) Explain(reference string) Explanation {
	if x, found := l.cache.Get(reference); found {
		return x.(Explanation)
	}

	exp := Explanation{
		Reference: reference,
		Content:   placeholderContent(reference),
		FollowUp:  FollowUpQuestion(reference),
	}
	l.cache.Set(reference, exp, cache.DefaultExpiration)
	return exp
}

// Clear drops all cached explanations. Called on session reset.
func (l *Lookup) Clear() {
	l.cache.Flush()
}

func placeholderContent(reference string) string {
	kind := "provision"
	switch {
	case strings.HasPrefix(strings.ToLower(reference), "clause"):
		kind = "clause"
	case strings.HasPrefix(strings.ToLower(reference), "article"):
		kind = "article"
	case strings.HasPrefix(strings.ToLower(reference), "paragraph"):
		kind = "paragraph"
	case strings.HasPrefix(strings.ToLower(reference), "section"):
		kind = "section"
	}
	return fmt.Sprintf(
		"%s is a %s of the document under discussion. Its exact meaning depends on the surrounding text; use the follow-up question to have it explained in the context of your document.",
		reference, kind,
	)
}
