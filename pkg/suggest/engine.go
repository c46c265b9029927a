package suggest

import "strings"

const (
	// MinInputLength is the minimum partial-input length before any
	// suggestion is produced.
	MinInputLength = 3
	// MaxSuggestions caps how many candidates are returned.
	MaxSuggestions = 3
)

// Match filters the candidate catalog against the current partial input.
// Matching is lowercased substring containment, in catalog order, capped at
// MaxSuggestions. A candidate that is an exact case-insensitive match of
// the input is excluded: already-typed text is not suggested back.
//
// Pure and synchronous; callers recompute on every input change and may add
// debouncing on top without changing this contract.
func Match(input string, catalog []string) []string {
	trimmed := strings.TrimSpace(input)
	if len(trimmed) < MinInputLength {
		return nil
	}
	needle := strings.ToLower(trimmed)

	var matches []string
	for _, candidate := range catalog {
		lower := strings.ToLower(candidate)
		if lower == needle {
			continue
		}
		if strings.Contains(lower, needle) {
			matches = append(matches, candidate)
			if len(matches) == MaxSuggestions {
				break
			}
		}
	}
	return matches
}
