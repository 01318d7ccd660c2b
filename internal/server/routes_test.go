package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"clauseguard/guardian"
	"clauseguard/ingest"

	"go.uber.org/zap"
)

var testSecret = []byte("test-secret")

func newTestServer(t *testing.T, g *guardian.Guardian) *httptest.Server {
	t.Helper()
	newServer := &Server{
		port:     8080,
		guardian: g,
		authKeys: map[string][]byte{"client-1": testSecret},
		skew:     5 * time.Minute,
		logger:   zap.NewNop(),
	}

	ts := httptest.NewServer(newServer.RegisterRoutes())
	t.Cleanup(ts.Close)
	return ts
}

func signedRequest(t *testing.T, method, url string, body *bytes.Buffer, contentType string) *http.Request {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("error building request: %v", err)
	}
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	req.Header.Set("X-Key-ID", "client-1")
	req.Header.Set("X-Timestamp", ts)
	req.Header.Set("X-Signature", Sign(testSecret, ts))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req
}

func TestHandler(t *testing.T) {
	ts := newTestServer(t, guardian.New(guardian.Options{}))

	resp, err := http.Get(fmt.Sprintf("%s/health", ts.URL))
	if err != nil {
		t.Fatalf("error making request to server: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status OK; got %v", resp.Status)
	}
}

func TestScoreRequiresAuth(t *testing.T) {
	ts := newTestServer(t, guardian.New(guardian.Options{}))

	resp, err := http.Post(ts.URL+"/score", "application/json", bytes.NewBufferString("[]"))
	if err != nil {
		t.Fatalf("error making request to server: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected status 401; got %v", resp.Status)
	}
}

func TestScoreHandler(t *testing.T) {
	ts := newTestServer(t, guardian.New(guardian.Options{}))

	body := bytes.NewBufferString(`[
		{"severity": "CRITICAL", "irreversible": true, "clause": "Perpetual, irrevocable license"},
		{"severity": "LOW"},
		{"clause": "unlabelled"}
	]`)
	resp, err := http.DefaultClient.Do(signedRequest(t, http.MethodPost, ts.URL+"/score", body, "application/json"))
	if err != nil {
		t.Fatalf("error making request to server: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status OK; got %v", resp.Status)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}

	if result["total_risk_score"] != 12.0 {
		t.Errorf("expected total_risk_score 12, got %v", result["total_risk_score"])
	}
	if result["irreversibility_index"] != 0.33 {
		t.Errorf("expected irreversibility_index 0.33, got %v", result["irreversibility_index"])
	}
	if result["verdict"] != "DO NOT SIGN" {
		t.Errorf("expected verdict DO NOT SIGN, got %v", result["verdict"])
	}

	scored, ok := result["scored_risks"].([]interface{})
	if !ok || len(scored) != 3 {
		t.Fatalf("expected 3 scored risks, got %v", result["scored_risks"])
	}
	first := scored[0].(map[string]interface{})
	if first["clause"] != "Perpetual, irrevocable license" || first["score"] != 10.0 {
		t.Errorf("unexpected first scored risk: %v", first)
	}
}

func TestScoreHandlerEmpty(t *testing.T) {
	ts := newTestServer(t, guardian.New(guardian.Options{}))

	resp, err := http.DefaultClient.Do(signedRequest(t, http.MethodPost, ts.URL+"/score", bytes.NewBufferString("[]"), "application/json"))
	if err != nil {
		t.Fatalf("error making request to server: %v", err)
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if result["verdict"] != "SAFE TO PROCEED" || result["total_risk_score"] != 0.0 {
		t.Errorf("unexpected empty result: %v", result)
	}
	if scored, ok := result["scored_risks"].([]interface{}); !ok || len(scored) != 0 {
		t.Errorf("expected empty scored_risks array, got %v", result["scored_risks"])
	}
}

func TestScoreHandlerInvalidJSON(t *testing.T) {
	ts := newTestServer(t, guardian.New(guardian.Options{}))

	resp, err := http.DefaultClient.Do(signedRequest(t, http.MethodPost, ts.URL+"/score", bytes.NewBufferString(`{"severity": "LOW"}`), "application/json"))
	if err != nil {
		t.Fatalf("error making request to server: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400; got %v", resp.Status)
	}
}

func TestAnalyzeWithoutGenerator(t *testing.T) {
	ts := newTestServer(t, guardian.New(guardian.Options{}))

	body := bytes.NewBufferString(`{"query": "hello"}`)
	resp, err := http.DefaultClient.Do(signedRequest(t, http.MethodPost, ts.URL+"/analyze", body, "application/json"))
	if err != nil {
		t.Fatalf("error making request to server: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected status 503; got %v", resp.Status)
	}
}

func TestAnalyzeInvalidPersona(t *testing.T) {
	ts := newTestServer(t, guardian.New(guardian.Options{}))

	body := bytes.NewBufferString(`{"query": "is it safe", "persona": "astrologer"}`)
	resp, err := http.DefaultClient.Do(signedRequest(t, http.MethodPost, ts.URL+"/analyze", body, "application/json"))
	if err != nil {
		t.Fatalf("error making request to server: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400; got %v", resp.Status)
	}
}

func TestUploadHandler(t *testing.T) {
	ts := newTestServer(t, guardian.New(guardian.Options{}))

	upload := func(filename, content string) *http.Response {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, err := writer.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("error creating form file: %v", err)
		}
		part.Write([]byte(content))
		writer.Close()

		resp, err := http.DefaultClient.Do(signedRequest(t, http.MethodPost, ts.URL+"/upload", body, writer.FormDataContentType()))
		if err != nil {
			t.Fatalf("error making request to server: %v", err)
		}
		return resp
	}

	resp := upload("terms.txt", "  The subscriber shall pay on the first of each month.  ")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status OK; got %v", resp.Status)
	}

	var doc map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if doc["content"] != "The subscriber shall pay on the first of each month." || doc["filename"] != "terms.txt" {
		t.Errorf("unexpected document: %v", doc)
	}

	resp = upload("terms.pdf", "%PDF-1.4")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("expected status 422 for a corrupt pdf; got %v", resp.Status)
	}

	resp = upload("scan.png", "\x89PNG")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Errorf("expected status 415; got %v", resp.Status)
	}

	resp = upload("huge.txt", strings.Repeat("a", ingest.MaxUploadBytes+1))
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("expected status 413; got %v", resp.Status)
	}
}

func TestPersonasHandler(t *testing.T) {
	ts := newTestServer(t, guardian.New(guardian.Options{}))

	resp, err := http.DefaultClient.Do(signedRequest(t, http.MethodGet, ts.URL+"/personas", nil, ""))
	if err != nil {
		t.Fatalf("error making request to server: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status OK; got %v", resp.Status)
	}

	var listed []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if len(listed) != 4 || listed[0]["key"] != "legal" {
		t.Errorf("unexpected personas: %v", listed)
	}
	if _, leaked := listed[0]["SystemInstruction"]; leaked {
		t.Errorf("system instruction should not be listed")
	}
}

func TestAnalysesWithoutStore(t *testing.T) {
	ts := newTestServer(t, guardian.New(guardian.Options{}))

	resp, err := http.DefaultClient.Do(signedRequest(t, http.MethodGet, ts.URL+"/analyses/abc", nil, ""))
	if err != nil {
		t.Fatalf("error making request to server: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected status 503; got %v", resp.Status)
	}
}
