package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sync/atomic"
	"time"

	"legal-docchat-be/pkg/store"
)

// ErrAskInFlight is returned when an ask call is attempted while another
// ask is still outstanding. Ask calls are serialized; enrichment calls
// are not.
var ErrAskInFlight = errors.New("an ask call is already outstanding")

// Client talks to the document analysis backend. It is stateless across
// calls except for the ask gate.
type Client struct {
	BaseURL string
	HTTP    *http.Client

	// askBusy serializes ask calls: at most one outstanding ask per
	// session, independent of concurrent enrichment calls.
	askBusy atomic.Bool
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// --- Response structs (internal to this package) ---

type uploadResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	Error      string `json:"error"`
}

type askResponse struct {
	Success    bool              `json:"success"`
	Question   string            `json:"question"`
	Answer     string            `json:"answer"`
	Sources    []json.RawMessage `json:"sources"`
	Confidence string            `json:"confidence"`
	Error      string            `json:"error"`
}

type resetResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

type redFlagsResponse struct {
	RedFlags []store.RedFlag `json:"red_flags"`
	Error    string          `json:"error"`
}

type suggestedQuestionsResponse struct {
	Rights      []string `json:"rights"`
	Termination []string `json:"termination"`
	Financial   []string `json:"financial"`
	Error       string   `json:"error"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Version string `json:"version"`
	Error   string `json:"error"`
}

// Answer is the payload of a successful ask call.
type Answer struct {
	Answer     string
	Confidence string
	Sources    int
}

// Health is the payload of the health probe.
type Health struct {
	Status  string
	Message string
}

// Upload sends the document as a multipart form. The caller has already
// validated type and size; no local checks happen here.
func (c *Client) Upload(ctx context.Context, filename string, file io.Reader) Outcome[store.Document] {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return transportError[store.Document](fmt.Errorf("create form file: %w", err))
	}
	if _, err := io.Copy(part, file); err != nil {
		return transportError[store.Document](fmt.Errorf("copy file: %w", err))
	}
	if err := writer.Close(); err != nil {
		return transportError[store.Document](fmt.Errorf("close form: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/upload", &buf)
	if err != nil {
		return transportError[store.Document](fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var parsed uploadResponse
	if out := c.do(req, &parsed); !out.OK() {
		return Outcome[store.Document]{Kind: out.Kind, Message: out.Message}
	}
	if parsed.Error != "" || !parsed.Success {
		return appError[store.Document](errorMessage(parsed.Error, "upload failed"))
	}
	return ok(store.Document{
		ID:         parsed.DocumentID,
		Filename:   parsed.Filename,
		UploadedAt: time.Now(),
	})
}

// Ask submits one question. Returns ErrAskInFlight without touching the
// network when another ask is still outstanding.
func (c *Client) Ask(ctx context.Context, question string) (Outcome[Answer], error) {
	if !c.askBusy.CompareAndSwap(false, true) {
		return Outcome[Answer]{}, ErrAskInFlight
	}
	defer c.askBusy.Store(false)

	payload, err := json.Marshal(map[string]string{"question": question})
	if err != nil {
		return transportError[Answer](fmt.Errorf("marshal request: %w", err)), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/ask", bytes.NewReader(payload))
	if err != nil {
		return transportError[Answer](fmt.Errorf("create request: %w", err)), nil
	}
	req.Header.Set("Content-Type", "application/json")

	var parsed askResponse
	if out := c.do(req, &parsed); !out.OK() {
		return Outcome[Answer]{Kind: out.Kind, Message: out.Message}, nil
	}
	if parsed.Error != "" || !parsed.Success {
		return appError[Answer](errorMessage(parsed.Error, "ask failed")), nil
	}
	return ok(Answer{
		Answer:     parsed.Answer,
		Confidence: parsed.Confidence,
		Sources:    len(parsed.Sources),
	}), nil
}

// Reset clears the backend session. Best effort: the caller reports a
// failure but clears local state regardless.
func (c *Client) Reset(ctx context.Context) Outcome[struct{}] {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/reset", nil)
	if err != nil {
		return transportError[struct{}](fmt.Errorf("create request: %w", err))
	}

	var parsed resetResponse
	if out := c.do(req, &parsed); !out.OK() {
		return Outcome[struct{}]{Kind: out.Kind, Message: out.Message}
	}
	if parsed.Error != "" || !parsed.Success {
		return appError[struct{}](errorMessage(parsed.Error, "reset failed"))
	}
	return ok(struct{}{})
}

// SmartSummary fetches the summary panel data.
func (c *Client) SmartSummary(ctx context.Context) Outcome[store.Summary] {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/smart-summary", nil)
	if err != nil {
		return transportError[store.Summary](fmt.Errorf("create request: %w", err))
	}

	var parsed struct {
		store.Summary
		Error string `json:"error"`
	}
	if out := c.do(req, &parsed); !out.OK() {
		return Outcome[store.Summary]{Kind: out.Kind, Message: out.Message}
	}
	if parsed.Error != "" {
		return appError[store.Summary](parsed.Error)
	}
	return ok(parsed.Summary)
}

// RedFlags fetches the full replacement red-flag list.
func (c *Client) RedFlags(ctx context.Context) Outcome[[]store.RedFlag] {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/red-flags", nil)
	if err != nil {
		return transportError[[]store.RedFlag](fmt.Errorf("create request: %w", err))
	}

	var parsed redFlagsResponse
	if out := c.do(req, &parsed); !out.OK() {
		return Outcome[[]store.RedFlag]{Kind: out.Kind, Message: out.Message}
	}
	if parsed.Error != "" {
		return appError[[]store.RedFlag](parsed.Error)
	}
	if parsed.RedFlags == nil {
		parsed.RedFlags = []store.RedFlag{}
	}
	return ok(parsed.RedFlags)
}

// SuggestedQuestions fetches the grouped question candidates.
func (c *Client) SuggestedQuestions(ctx context.Context) Outcome[store.SuggestedQuestions] {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/suggested-questions", nil)
	if err != nil {
		return transportError[store.SuggestedQuestions](fmt.Errorf("create request: %w", err))
	}

	var parsed suggestedQuestionsResponse
	if out := c.do(req, &parsed); !out.OK() {
		return Outcome[store.SuggestedQuestions]{Kind: out.Kind, Message: out.Message}
	}
	if parsed.Error != "" {
		return appError[store.SuggestedQuestions](parsed.Error)
	}
	return ok(store.SuggestedQuestions{
		Rights:      parsed.Rights,
		Termination: parsed.Termination,
		Financial:   parsed.Financial,
	})
}

// CheckHealth probes the backend root endpoint.
func (c *Client) CheckHealth(ctx context.Context) Outcome[Health] {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/", nil)
	if err != nil {
		return transportError[Health](fmt.Errorf("create request: %w", err))
	}

	var parsed healthResponse
	if out := c.do(req, &parsed); !out.OK() {
		return Outcome[Health]{Kind: out.Kind, Message: out.Message}
	}
	if parsed.Error != "" || parsed.Status != "healthy" {
		return appError[Health](errorMessage(parsed.Error, "backend reports unhealthy status"))
	}
	return ok(Health{Status: parsed.Status, Message: parsed.Message})
}

// do performs the request and parses the JSON body into target,
// classifying transport failures. A non-2xx status with a parseable body
// is left for the caller to classify via the body's error field; a non-2xx
// status without one becomes an ApplicationError here.
func (c *Client) do(req *http.Request, target interface{}) Outcome[struct{}] {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return transportError[struct{}](fmt.Errorf("backend request failed: %w", err))
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportError[struct{}](fmt.Errorf("read response: %w", err))
	}

	if err := json.Unmarshal(bodyBytes, target); err != nil {
		if resp.StatusCode != http.StatusOK {
			return appError[struct{}](fmt.Sprintf("backend error: status %d", resp.StatusCode))
		}
		return transportError[struct{}](fmt.Errorf("unmarshal response: %w", err))
	}
	return ok(struct{}{})
}

func errorMessage(msg, fallback string) string {
	if msg != "" {
		return msg
	}
	return fallback
}
