package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apperrors "insighto/internal/errors"
	"insighto/ports"
)

func TestRewrite_Success(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/generate" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"content": "  Spending on food dominates.  "})
	}))
	defer server.Close()

	client := NewRewriteClient(Config{URL: server.URL, Model: "llama3"})
	text, err := client.Rewrite(context.Background(), "food is 50% of spend", ports.RewriteContext{
		DatasetName: "march.csv",
		Category:    "top-n",
	})
	if err != nil {
		t.Fatalf("Rewrite failed: %v", err)
	}
	if text != "Spending on food dominates." {
		t.Errorf("Rewrite = %q", text)
	}
	if gotBody["model"] != "llama3" {
		t.Errorf("Request model = %v", gotBody["model"])
	}
	prompt, _ := gotBody["prompt"].(string)
	if prompt == "" {
		t.Fatal("Expected a prompt in the request")
	}
	for _, want := range []string{"food is 50% of spend", "march.csv", "top-n"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Prompt missing %q: %s", want, prompt)
		}
	}
}

func TestRewrite_TextFieldFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"text": "alternate field"})
	}))
	defer server.Close()

	client := NewRewriteClient(Config{URL: server.URL})
	text, err := client.Rewrite(context.Background(), "original", ports.RewriteContext{})
	if err != nil {
		t.Fatalf("Rewrite failed: %v", err)
	}
	if text != "alternate field" {
		t.Errorf("Rewrite = %q", text)
	}
}

func TestRewrite_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewRewriteClient(Config{URL: server.URL})
	_, err := client.Rewrite(context.Background(), "original", ports.RewriteContext{})
	if err == nil {
		t.Fatal("Expected an error for a 500 response")
	}
	if apperrors.GetCode(err) != apperrors.CodeExternalService {
		t.Errorf("Error code = %s", apperrors.GetCode(err))
	}
}

func TestRewrite_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"content": "   "})
	}))
	defer server.Close()

	client := NewRewriteClient(Config{URL: server.URL})
	if _, err := client.Rewrite(context.Background(), "original", ports.RewriteContext{}); err == nil {
		t.Fatal("Expected an error for an empty rewrite")
	}
}

func TestRewrite_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		json.NewEncoder(w).Encode(map[string]string{"content": "too late"})
	}))
	defer server.Close()

	client := NewRewriteClient(Config{URL: server.URL, Timeout: 20 * time.Millisecond})
	if _, err := client.Rewrite(context.Background(), "original", ports.RewriteContext{}); err == nil {
		t.Fatal("Expected a timeout error")
	}
}

func TestAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/models" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	client := NewRewriteClient(Config{URL: server.URL})
	if !client.Available(context.Background()) {
		t.Error("Expected Available=true while the server is up")
	}

	server.Close()
	if client.Available(context.Background()) {
		t.Error("Expected Available=false once the server is down")
	}
}
