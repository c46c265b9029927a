package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/fatih/color"
)

// End-to-end probe of a running instance: health, upload, suggestions,
// ask, citation lookup, reset. Needs a real PDF and a reachable analysis
// backend behind the service.

var (
	baseURL  = flag.String("base", "http://localhost:3000/api", "service API base URL")
	filePath = flag.String("file", "", "path to a PDF to upload (skips upload steps when empty)")
)

func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

func sendRequest(method, path string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, *baseURL+path, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{} // asks can take a while, no timeout
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func uploadFile(path string) (*http.Response, []byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, nil, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, nil, err
	}
	writer.Close()

	req, err := http.NewRequest("POST", *baseURL+"/session/v1/upload", &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := (&http.Client{}).Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func show(step string, resp *http.Response, body []byte, err error) {
	color.Yellow("\n%s", step)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var parsed map[string]interface{}
	if json.Unmarshal(body, &parsed) == nil {
		prettyPrint(parsed)
	} else {
		fmt.Println(string(body))
	}
}

func main() {
	flag.Parse()
	color.Cyan("🚀 Legal DocChat smoke probe (%s)\n", *baseURL)

	resp, body, err := sendRequest("GET", "/session/v1/state", nil)
	show("[1] Session state", resp, body, err)

	resp, body, err = sendRequest("GET", "/notifications/", nil)
	show("[2] Active toasts", resp, body, err)

	if *filePath == "" {
		color.Cyan("\nNo -file given, skipping upload/ask/reset steps.")
		return
	}

	resp, body, err = uploadFile(*filePath)
	show("[3] Upload "+filepath.Base(*filePath), resp, body, err)

	resp, body, err = sendRequest("GET", "/session/v1/suggestions?q=term", nil)
	show("[4] Suggestions for 'term'", resp, body, err)

	resp, body, err = sendRequest("POST", "/session/v1/ask", map[string]interface{}{
		"question": "What are the termination conditions?",
	})
	show("[5] Ask", resp, body, err)

	ref := url.PathEscape("Section 1")
	resp, body, err = sendRequest("GET", "/session/v1/citation/"+ref, nil)
	show("[6] Citation lookup 'Section 1'", resp, body, err)

	resp, body, err = sendRequest("POST", "/session/v1/reset", nil)
	show("[7] Reset", resp, body, err)

	color.Cyan("\n✅ Probe complete")
}
