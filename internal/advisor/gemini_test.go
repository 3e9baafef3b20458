package advisor

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/api/option"
)

func TestGeminiClientGenerate(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"Status: "},{"text":"Seguro\n"}]}}]}`)
	}))
	defer srv.Close()

	c, err := NewGeminiClient(context.Background(), "test-key", "", option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatal(err)
	}
	got, err := c.Generate(context.Background(), "olá")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Status: Seguro" {
		t.Fatalf("got %q", got)
	}
	if !strings.HasSuffix(gotPath, "models/"+DefaultModel+":generateContent") {
		t.Errorf("path = %s", gotPath)
	}
	if gotKey != "" && gotKey != "test-key" {
		t.Errorf("key = %s", gotKey)
	}
	if !strings.Contains(toJSON(gotBody), "olá") {
		t.Errorf("prompt not sent: %v", gotBody)
	}
}

func TestGeminiClientServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":500,"message":"boom"}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, err := NewGeminiClient(context.Background(), "test-key", "gemini-test", option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Generate(context.Background(), "x"); err == nil {
		t.Fatal("expected error")
	}
	if got := New(c, nil).Analyze(context.Background(), "p", villaVerde()); got != MsgCallFailed {
		t.Fatalf("got %q", got)
	}
}

func toJSON(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}
