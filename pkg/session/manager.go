package session

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"legal-docchat-be/internal/pkg/logger"
	"legal-docchat-be/pkg/analysis"
	"legal-docchat-be/pkg/events"
	"legal-docchat-be/pkg/store"
)

// MaxUploadBytes is the client-side size cap, enforced before any network
// call.
const MaxUploadBytes = 16 << 20 // 16 MiB

// apologyText is the fixed degraded assistant message appended when an
// ask-cycle fails.
const apologyText = "I'm sorry, I ran into a problem while answering that question. " +
	"Your document is still loaded, so please try asking again."

// Publisher pushes outcome events onto the event bus. Implemented by the
// publisher service; the notification queue consumes the other end.
type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Manager is the session state machine. It owns the single Session, drives
// the backend client, and is the only component that mutates session state.
// All transitions funnel through its methods.
type Manager struct {
	mu      sync.Mutex
	session store.Session

	// epoch is bumped on every reset; completions of calls that started
	// under an older epoch are discarded instead of resurrecting state.
	epoch uint64

	backend *analysis.Client
	bus     Publisher
	logger  logger.ILogger
}

func NewManager(backend *analysis.Client, bus Publisher, log logger.ILogger) *Manager {
	return &Manager{
		session: store.Session{State: store.StateNoDocument},
		backend: backend,
		bus:     bus,
		logger:  log,
	}
}

// SubmitFile validates and uploads a document. Valid only while no document
// is loaded (NO_DOCUMENT or ERROR). Local validation failures return before
// any network call. On upload success the document is captured, the three
// enrichment fetches fan out concurrently, and the session becomes READY
// without waiting for them.
//
// Backend failures are expressed in the returned snapshot (ERROR state plus
// last_error) and as an error toast, not as a Go error: the session remains
// usable and a new upload can be attempted immediately.
func (m *Manager) SubmitFile(ctx context.Context, filename, contentType string, size int64, file io.Reader) (store.Session, error) {
	m.mu.Lock()
	if m.session.State != store.StateNoDocument && m.session.State != store.StateError {
		snap := m.snapshotLocked()
		m.mu.Unlock()
		m.publishValidation(ctx, ErrDocumentLoaded)
		return snap, ErrDocumentLoaded
	}
	if !declaresPDF(filename, contentType) {
		snap := m.snapshotLocked()
		m.mu.Unlock()
		m.publishValidation(ctx, ErrInvalidFileKind)
		return snap, ErrInvalidFileKind
	}
	if size > MaxUploadBytes {
		snap := m.snapshotLocked()
		m.mu.Unlock()
		m.publishValidation(ctx, ErrFileTooLarge)
		return snap, ErrFileTooLarge
	}

	m.session.State = store.StateUploading
	m.session.LastError = ""
	epoch := m.epoch
	m.mu.Unlock()

	out := m.backend.Upload(ctx, filename, file)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.epoch != epoch {
		// Reset won the race; drop the result.
		return m.snapshotLocked(), nil
	}

	if !out.OK() {
		m.session.State = store.StateError
		m.session.LastError = out.Message
		m.session.Document = nil
		m.logger.Warn("SessionManager", "Upload failed", map[string]interface{}{
			"filename": filename, "transport": out.Kind == analysis.TransportError, "error": out.Message,
		})
		m.publish(ctx, events.TypeUploadFailed, map[string]interface{}{
			"filename":  filename,
			"message":   out.Message,
			"transport": out.Kind == analysis.TransportError,
		})
		return m.snapshotLocked(), nil
	}

	doc := out.Payload
	m.session.Document = &doc
	m.session.State = store.StateAnalyzing
	m.logger.Info("SessionManager", "Document uploaded", map[string]interface{}{
		"document_id": doc.ID, "filename": doc.Filename,
	})
	m.publish(ctx, events.TypeUploadCompleted, map[string]interface{}{
		"document_id": doc.ID,
		"filename":    doc.Filename,
	})

	// Fan out the three enrichment fetches. Each is independent, writes
	// only its own slice of session state, and renders its own fallback
	// on failure. None of them gates the READY transition below.
	go m.fetchSummary(doc.ID, epoch)
	go m.fetchRedFlags(doc.ID, epoch)
	go m.fetchSuggestedQuestions(doc.ID, epoch)

	m.session.State = store.StateReady
	return m.snapshotLocked(), nil
}

// SubmitQuestion runs one ask-cycle. The user message is appended to the
// transcript synchronously, before the network call, so the transcript
// shows the question immediately regardless of answer latency or failure.
// A submission while another answer is outstanding is a silent no-op
// (accepted == false), a guard against duplicate in-flight requests.
func (m *Manager) SubmitQuestion(ctx context.Context, text string) (accepted bool, reply *store.ChatMessage, err error) {
	question := strings.TrimSpace(text)

	m.mu.Lock()
	if question == "" {
		m.mu.Unlock()
		m.publishValidation(ctx, ErrEmptyQuestion)
		return false, nil, ErrEmptyQuestion
	}
	if m.session.Document == nil {
		m.mu.Unlock()
		m.publishValidation(ctx, ErrNoDocument)
		return false, nil, ErrNoDocument
	}
	if m.session.InFlightQuestion || m.session.State == store.StateAwaitingAnswer {
		m.mu.Unlock()
		return false, nil, nil
	}

	// Phase 1: local, synchronous, always succeeds.
	m.session.Transcript = append(m.session.Transcript, store.ChatMessage{
		Role:      store.RoleUser,
		Text:      question,
		Timestamp: time.Now(),
	})
	m.session.InFlightQuestion = true
	m.session.State = store.StateAwaitingAnswer
	m.mu.Unlock()

	// Phase 2: asynchronous relative to the transcript write, may fail.
	out, askErr := m.backend.Ask(ctx, question)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.session.InFlightQuestion = false
	m.session.State = store.StateReady

	var msg store.ChatMessage
	switch {
	case askErr != nil:
		// The manager's own in-flight gate makes this unreachable in
		// practice; treat it like a failed call if it ever happens.
		msg = m.apologyLocked(ctx, askErr.Error(), true)
	case !out.OK():
		m.logger.Warn("SessionManager", "Ask failed", map[string]interface{}{
			"transport": out.Kind == analysis.TransportError, "error": out.Message,
		})
		msg = m.apologyLocked(ctx, out.Message, out.Kind == analysis.TransportError)
	default:
		msg = store.ChatMessage{
			Role:       store.RoleAssistant,
			Text:       out.Payload.Answer,
			Confidence: out.Payload.Confidence,
			Sources:    out.Payload.Sources,
			Timestamp:  time.Now(),
		}
		m.session.Transcript = append(m.session.Transcript, msg)
		m.publish(ctx, events.TypeAnswerReceived, map[string]interface{}{
			"confidence": msg.Confidence,
			"sources":    msg.Sources,
		})
	}
	return true, &msg, nil
}

// apologyLocked appends the fixed degraded assistant message and emits the
// failure event. Caller holds the lock.
func (m *Manager) apologyLocked(ctx context.Context, cause string, transport bool) store.ChatMessage {
	msg := store.ChatMessage{
		Role:       store.RoleAssistant,
		Text:       apologyText,
		Confidence: store.ConfidenceLow,
		Timestamp:  time.Now(),
	}
	m.session.Transcript = append(m.session.Transcript, msg)
	m.publish(ctx, events.TypeAnswerFailed, map[string]interface{}{
		"message":   cause,
		"transport": transport,
	})
	return msg
}

// Reset clears the session back to NO_DOCUMENT: document, enrichment data
// and transcript go together, atomically. Valid from every state except
// while a question is in flight, which is rejected with a warning. The
// backend reset call is best effort and never blocks local clearing.
func (m *Manager) Reset(ctx context.Context) (store.Session, error) {
	m.mu.Lock()
	if m.session.InFlightQuestion {
		snap := m.snapshotLocked()
		m.mu.Unlock()
		m.publish(ctx, events.TypeResetRejected, nil)
		return snap, ErrResetWhileAsking
	}
	m.epoch++
	m.session = store.Session{State: store.StateNoDocument}
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.logger.Info("SessionManager", "Session reset", nil)
	m.publish(ctx, events.TypeSessionReset, nil)

	if out := m.backend.Reset(ctx); !out.OK() {
		m.logger.Warn("SessionManager", "Backend reset failed", map[string]interface{}{"error": out.Message})
		m.publish(ctx, events.TypeResetFailedRemote, map[string]interface{}{"message": out.Message})
	}
	return snap, nil
}

// Snapshot returns a copy of the current session for rendering.
func (m *Manager) Snapshot() store.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// SuggestionCatalog returns the ordered candidate questions for the
// suggestion engine: the session's fetched groups, or the generic fallback
// set before enrichment lands.
func (m *Manager) SuggestionCatalog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Catalog(m.session.SuggestedQuestions)
}

func (m *Manager) snapshotLocked() store.Session {
	snap := m.session
	if m.session.Document != nil {
		doc := *m.session.Document
		snap.Document = &doc
	}
	if m.session.SmartSummary != nil {
		sum := *m.session.SmartSummary
		snap.SmartSummary = &sum
	}
	if m.session.SuggestedQuestions != nil {
		sq := *m.session.SuggestedQuestions
		snap.SuggestedQuestions = &sq
	}
	snap.RedFlags = append([]store.RedFlag(nil), m.session.RedFlags...)
	snap.Transcript = append([]store.ChatMessage(nil), m.session.Transcript...)
	return snap
}

// --- Enrichment fetches ---
//
// Each runs detached from the upload request context: enrichment outlives
// the upload HTTP exchange. The epoch/document guard drops results that
// arrive after a reset.

func (m *Manager) fetchSummary(docID string, epoch uint64) {
	out := m.backend.SmartSummary(context.Background())

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.currentLocked(docID, epoch) {
		return
	}
	if !out.OK() {
		m.logger.Warn("SessionManager", "Smart summary unavailable", map[string]interface{}{"error": out.Message})
		m.session.SmartSummary = nil
		return
	}
	summary := out.Payload
	m.session.SmartSummary = &summary
}

func (m *Manager) fetchRedFlags(docID string, epoch uint64) {
	out := m.backend.RedFlags(context.Background())

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.currentLocked(docID, epoch) {
		return
	}
	if !out.OK() {
		m.logger.Warn("SessionManager", "Red flag detection unavailable", map[string]interface{}{"error": out.Message})
		// Same rendered state as an empty result: "no critical issues".
		m.session.RedFlags = []store.RedFlag{}
		return
	}
	m.session.RedFlags = out.Payload
}

func (m *Manager) fetchSuggestedQuestions(docID string, epoch uint64) {
	out := m.backend.SuggestedQuestions(context.Background())

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.currentLocked(docID, epoch) {
		return
	}
	if !out.OK() {
		m.logger.Warn("SessionManager", "Suggested questions unavailable", map[string]interface{}{"error": out.Message})
		m.session.SuggestedQuestions = FallbackSuggestedQuestions()
		return
	}
	sq := out.Payload
	m.session.SuggestedQuestions = &sq
}

// currentLocked reports whether an enrichment result still belongs to the
// live document. Caller holds the lock.
func (m *Manager) currentLocked(docID string, epoch uint64) bool {
	return m.epoch == epoch && m.session.Document != nil && m.session.Document.ID == docID
}

// --- Helpers ---

func (m *Manager) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if m.bus == nil {
		return
	}
	if err := m.bus.Publish(ctx, events.New(eventType, data)); err != nil {
		m.logger.Error("SessionManager", "Failed to publish event", map[string]interface{}{
			"type": eventType, "error": err,
		})
	}
}

func (m *Manager) publishValidation(ctx context.Context, cause error) {
	m.publish(ctx, events.TypeValidationFailed, map[string]interface{}{
		"message": cause.Error(),
	})
}

// declaresPDF checks the file's declared type: the MIME content type, or
// the filename extension when the browser sent a generic type.
func declaresPDF(filename, contentType string) bool {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "pdf") {
		return true
	}
	if ct == "" || ct == "application/octet-stream" {
		return strings.EqualFold(filepath.Ext(filename), ".pdf")
	}
	return false
}
