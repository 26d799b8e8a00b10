package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestValidToken(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		token  string
		want   bool
	}{
		{"match", "s3cret", "s3cret", true},
		{"mismatch", "s3cret", "other", false},
		{"empty secret", "", "", false},
		{"empty secret rejects anything", "", "s3cret", false},
		{"empty token", "s3cret", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validToken(tt.secret, tt.token); got != tt.want {
				t.Fatalf("validToken(%q, %q) = %v, want %v", tt.secret, tt.token, got, tt.want)
			}
		})
	}
}

func TestRequireToken(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := requireToken("s3cret", ok)

	tests := []struct {
		name   string
		target string
		header string
		want   int
	}{
		{"bearer header", "/jsonrpc", "Bearer s3cret", http.StatusTeapot},
		{"query token", "/jsonrpc/ws?token=s3cret", "", http.StatusTeapot},
		{"wrong header", "/jsonrpc", "Bearer nope", http.StatusUnauthorized},
		{"basic scheme", "/jsonrpc", "Basic s3cret", http.StatusUnauthorized},
		{"nothing", "/jsonrpc", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rr.Code)
			}
			if tt.want == http.StatusUnauthorized && rr.Header().Get("Content-Type") != "application/json" {
				t.Fatalf("expected JSON error body")
			}
		})
	}
}
