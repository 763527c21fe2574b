package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestOCRClient_Extract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("failed to parse multipart form: %v", err)
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			t.Errorf("missing image part: %v", err)
			w.WriteHeader(400)
			return
		}
		defer file.Close()
		if header.Filename != "proof.png" {
			t.Errorf("filename: got %q want %q", header.Filename, "proof.png")
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID header")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"Your payment of 5000 RWF"}`))
	}))
	defer srv.Close()

	client := &OCRClient{endpoint: srv.URL, client: srv.Client(), timeout: 5 * time.Second}

	text, err := client.Extract(context.Background(), strings.NewReader("fake image bytes"), "proof.png")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if text != "Your payment of 5000 RWF" {
		t.Fatalf("extracted text: got %q", text)
	}
}

func TestOCRClient_Timeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	client := &OCRClient{endpoint: srv.URL, client: srv.Client(), timeout: 50 * time.Millisecond}

	_, err := client.Extract(context.Background(), strings.NewReader("x"), "proof.png")
	if !errors.Is(err, ErrProofExtractionTimeout) {
		t.Fatalf("expected ErrProofExtractionTimeout, got %v", err)
	}
}

func TestOCRClient_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := &OCRClient{endpoint: srv.URL, client: srv.Client(), timeout: 5 * time.Second}

	_, err := client.Extract(context.Background(), strings.NewReader("x"), "proof.png")
	if err == nil {
		t.Fatal("expected an error for a 500 response")
	}
}
