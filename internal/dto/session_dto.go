package dto

import "time"

// --- Requests ---

type AskRequest struct {
	Question string `json:"question" validate:"required"`
}

// --- Responses ---

type DocumentDTO struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type ChatMessageDTO struct {
	Role       string        `json:"role"`
	Text       string        `json:"text"`
	Confidence string        `json:"confidence,omitempty"`
	Sources    int           `json:"sources"`
	Timestamp  time.Time     `json:"timestamp"`
	Citations  []CitationDTO `json:"citations,omitempty"`
}

// CitationDTO is a detected legal-reference handle inside assistant text.
type CitationDTO struct {
	Reference string `json:"reference"`
	Start     int    `json:"start"`
	End       int    `json:"end"`
}

type SummaryDTO struct {
	KeyRights        []string `json:"key_rights"`
	TopObligations   []string `json:"top_obligations"`
	TerminationRules []string `json:"termination_rules"`
	RiskLevel        string   `json:"risk_level"`
}

type RedFlagDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

type SuggestedQuestionsDTO struct {
	Rights      []string `json:"rights"`
	Termination []string `json:"termination"`
	Financial   []string `json:"financial"`
}

// SessionSnapshotResponse is the full render state for every panel.
type SessionSnapshotResponse struct {
	State              string                 `json:"state"`
	LastError          string                 `json:"last_error,omitempty"`
	Document           *DocumentDTO           `json:"document"`
	SmartSummary       *SummaryDTO            `json:"smart_summary"`
	RedFlags           []RedFlagDTO           `json:"red_flags"`
	SuggestedQuestions *SuggestedQuestionsDTO `json:"suggested_questions"`
	Transcript         []ChatMessageDTO       `json:"transcript"`
	InFlightQuestion   bool                   `json:"in_flight_question"`
}

// AskResponse reports one ask-cycle. Accepted is false when the submission
// was discarded because another answer was still outstanding.
type AskResponse struct {
	Accepted bool            `json:"accepted"`
	Reply    *ChatMessageDTO `json:"reply,omitempty"`
}

type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

type CitationLookupResponse struct {
	Reference string `json:"reference"`
	Content   string `json:"content"`
	FollowUp  string `json:"follow_up"`
}
