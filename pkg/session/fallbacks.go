package session

import "legal-docchat-be/pkg/store"

// FallbackSuggestedQuestions is the hard-coded candidate set rendered when
// suggestion generation fails: three generic questions per category.
func FallbackSuggestedQuestions() *store.SuggestedQuestions {
	return &store.SuggestedQuestions{
		Rights: []string{
			"What are my key rights under this agreement?",
			"What are my main obligations under this document?",
			"Can my rights be transferred or assigned?",
		},
		Termination: []string{
			"What are the termination conditions?",
			"How much notice is required to terminate?",
			"What happens if I breach the terms of this agreement?",
		},
		Financial: []string{
			"What fees or payments are required?",
			"Are there penalties for late payment?",
			"What costs am I responsible for after termination?",
		},
	}
}

// Catalog flattens grouped suggested questions into one ordered candidate
// list for the suggestion engine: rights, then termination, then financial.
func Catalog(sq *store.SuggestedQuestions) []string {
	if sq == nil {
		sq = FallbackSuggestedQuestions()
	}
	catalog := make([]string, 0, len(sq.Rights)+len(sq.Termination)+len(sq.Financial))
	catalog = append(catalog, sq.Rights...)
	catalog = append(catalog, sq.Termination...)
	catalog = append(catalog, sq.Financial...)
	return catalog
}
