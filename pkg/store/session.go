package store

import "time"

// Document is the single file currently under discussion. It is created from
// a successful upload response and destroyed on reset.
type Document struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Summary is the smart-summary panel data returned by the analysis backend.
type Summary struct {
	KeyRights        []string `json:"key_rights"`
	TopObligations   []string `json:"top_obligations"`
	TerminationRules []string `json:"termination_rules"`
	RiskLevel        string   `json:"risk_level"` // "low" | "medium" | "high"
}

// RedFlag is a single detected issue. Immutable once received; the backend
// always sends a full replacement list.
type RedFlag struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Severity    string `json:"severity"` // "low" | "medium" | "high"
	Description string `json:"description"`
	Location    string `json:"location"`
}

// SuggestedQuestions holds the grouped question candidates for the panel.
type SuggestedQuestions struct {
	Rights      []string `json:"rights"`
	Termination []string `json:"termination"`
	Financial   []string `json:"financial"`
}

// ChatMessage is one entry of the append-only transcript.
type ChatMessage struct {
	Role       string    `json:"role"` // "user" | "assistant"
	Text       string    `json:"text"`
	Confidence string    `json:"confidence,omitempty"` // assistant only
	Sources    int       `json:"sources"`
	Timestamp  time.Time `json:"timestamp"`
}

// Session represents the active document-discussion state in memory.
// Exactly one instance exists for the lifetime of the process; reset clears
// it back to the zero document state, it is never partially rebuilt.
type Session struct {
	Document *Document `json:"document"`
	State    string    `json:"state"`

	// LastError keeps the reason for the ERROR state until the next
	// transition overwrites it.
	LastError string `json:"last_error,omitempty"`

	// Enrichment slices. Each is written only by its own fetch and is
	// cleared together with Document on reset.
	SmartSummary       *Summary            `json:"smart_summary"`
	RedFlags           []RedFlag           `json:"red_flags"`
	SuggestedQuestions *SuggestedQuestions `json:"suggested_questions"`

	Transcript []ChatMessage `json:"transcript"`

	// InFlightQuestion guards exactly one resource: permission to start a
	// new ask-cycle.
	InFlightQuestion bool `json:"in_flight_question"`
}

const (
	StateNoDocument     = "NO_DOCUMENT"
	StateUploading      = "UPLOADING"
	StateAnalyzing      = "ANALYZING"
	StateReady          = "READY"
	StateAwaitingAnswer = "AWAITING_ANSWER"
	StateError          = "ERROR"

	RoleUser      = "user"
	RoleAssistant = "assistant"

	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"
)
