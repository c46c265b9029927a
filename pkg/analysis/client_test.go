package analysis

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestUploadSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upload" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("expected multipart body: %v", err)
		}
		fmt.Fprint(w, `{"success": true, "document_id": "doc-1", "filename": "contract.pdf"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	out := c.Upload(context.Background(), "contract.pdf", strings.NewReader("%PDF-1.4"))

	if !out.OK() {
		t.Fatalf("Upload() = %v (%s), want success", out.Kind, out.Message)
	}
	if out.Payload.ID != "doc-1" || out.Payload.Filename != "contract.pdf" {
		t.Errorf("document = %+v, want doc-1/contract.pdf", out.Payload)
	}
}

func TestUploadApplicationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error": "Only PDF files are supported"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	out := c.Upload(context.Background(), "contract.pdf", strings.NewReader("x"))

	if out.Kind != ApplicationError {
		t.Fatalf("Kind = %v, want ApplicationError", out.Kind)
	}
	if out.Message != "Only PDF files are supported" {
		t.Errorf("Message = %q, want backend error text", out.Message)
	}
}

func TestTransportErrorOnUnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening any more

	c := NewClient(srv.URL)
	out := c.Reset(context.Background())

	if out.Kind != TransportError {
		t.Fatalf("Kind = %v, want TransportError", out.Kind)
	}
}

func TestNonJSONErrorPageIsApplicationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, "<html>Internal Server Error</html>")
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	out := c.SmartSummary(context.Background())

	if out.Kind != ApplicationError {
		t.Fatalf("Kind = %v, want ApplicationError", out.Kind)
	}
	if out.Message != "backend error: status 500" {
		t.Errorf("Message = %q, want status classification", out.Message)
	}
}

func TestGarbledOKResponseIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "not json at all")
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	out := c.RedFlags(context.Background())

	if out.Kind != TransportError {
		t.Fatalf("Kind = %v, want TransportError", out.Kind)
	}
}

func TestAskSuccessCountsSources(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"success": true,
			"answer": "The notice period is 30 days, see Section 4.2.",
			"confidence": "high",
			"sources": [{"page": 3}, {"page": 7}]
		}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	out, err := c.Ask(context.Background(), "What is the notice period?")

	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if !out.OK() {
		t.Fatalf("Ask() = %v (%s), want success", out.Kind, out.Message)
	}
	if out.Payload.Confidence != "high" {
		t.Errorf("Confidence = %q, want high", out.Payload.Confidence)
	}
	if out.Payload.Sources != 2 {
		t.Errorf("Sources = %d, want 2", out.Payload.Sources)
	}
}

func TestAskSerialized(t *testing.T) {
	release := make(chan struct{}, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		fmt.Fprint(w, `{"success": true, "answer": "slow", "confidence": "low", "sources": []}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := c.Ask(context.Background(), "first"); err != nil {
			t.Errorf("first Ask() error = %v", err)
		}
	}()

	// Let the first ask reach the server before trying the second.
	time.Sleep(50 * time.Millisecond)

	if _, err := c.Ask(context.Background(), "second"); err != ErrAskInFlight {
		t.Errorf("second Ask() error = %v, want ErrAskInFlight", err)
	}

	release <- struct{}{}
	wg.Wait()

	// The gate releases once the first ask completes.
	release <- struct{}{}
	if _, err := c.Ask(context.Background(), "third"); err != nil {
		t.Errorf("third Ask() error = %v, want nil", err)
	}
}

func TestCheckHealthUnhealthyStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "degraded", "message": "vector store offline"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	out := c.CheckHealth(context.Background())

	if out.Kind != ApplicationError {
		t.Fatalf("Kind = %v, want ApplicationError", out.Kind)
	}
}

func TestCheckHealthHealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			t.Errorf("health probe hit %s, want /", r.URL.Path)
		}
		fmt.Fprint(w, `{"status": "healthy", "message": "Legal Document Analyzer API is running"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	out := c.CheckHealth(context.Background())

	if !out.OK() {
		t.Fatalf("CheckHealth() = %v (%s), want success", out.Kind, out.Message)
	}
	if out.Payload.Status != "healthy" {
		t.Errorf("Status = %q, want healthy", out.Payload.Status)
	}
}
