// ABOUTME: Tests for the product management API client
// ABOUTME: Uses httptest to mock backend responses

package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestDoJSON_AttachesBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("expected bearer header, got %q", got)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("expected X-Request-ID header from logging transport")
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"ok": "yes"})
	}))
	defer server.Close()

	c := New(server.URL)
	var out map[string]string
	if err := c.DoJSON(context.Background(), Bearer("tok-123"), http.MethodGet, "/ping", nil, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["ok"] != "yes" {
		t.Errorf("expected decoded body, got %v", out)
	}
}

func TestDoJSON_NoAuthSendsNoHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("expected no Authorization header, got %q", got)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := New(server.URL)
	if err := c.DoJSON(context.Background(), nil, http.MethodDelete, "/x", nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.DoJSON(context.Background(), Bearer(""), http.MethodDelete, "/x", nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDoJSON_TrailingSlashBaseURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/products" {
			t.Errorf("expected path /api/products, got %s", r.URL.Path)
		}
		w.Write([]byte("[]"))
	}))
	defer server.Close()

	c := New(server.URL + "/api/")
	var out []interface{}
	if err := c.DoJSON(context.Background(), nil, http.MethodGet, "/products", nil, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
		detail string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"detail":"Could not validate credentials"}`, ErrUnauthorized, "Could not validate credentials"},
		{"forbidden", http.StatusForbidden, `{"detail":"Not authorized to update this product"}`, ErrForbidden, "Not authorized to update this product"},
		{"not found", http.StatusNotFound, `{"detail":"Product not found"}`, ErrNotFound, "Product not found"},
		{"bad request", http.StatusBadRequest, `{"detail":"Email already registered"}`, ErrValidation, "Email already registered"},
		{"unprocessable", http.StatusUnprocessableEntity, `{"detail":[{"loc":["body","price"],"msg":"must be greater than 0"}]}`, ErrValidation, "price: must be greater than 0"},
		{"server", http.StatusInternalServerError, `{"error":"boom"}`, ErrServer, "boom"},
		{"no body", http.StatusBadGateway, ``, ErrServer, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := New(server.URL)
			err := c.DoJSON(context.Background(), nil, http.MethodGet, "/x", nil, nil)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %T", err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, apiErr.StatusCode)
			}
			if apiErr.Detail != tt.detail {
				t.Errorf("expected detail %q, got %q", tt.detail, apiErr.Detail)
			}
		})
	}
}

func TestDoJSON_ConnectionError(t *testing.T) {
	c := New("http://localhost:99999")
	err := c.DoJSON(context.Background(), nil, http.MethodGet, "/x", nil, nil)
	if !errors.Is(err, ErrTransport) {
		t.Errorf("expected transport error, got %v", err)
	}
}

func TestDoJSON_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
	}))
	defer server.Close()

	c := New(server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	err := c.DoJSON(ctx, nil, http.MethodGet, "/x", nil, nil)
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled in chain, got %v", err)
	}
	if err.Error() != "request canceled" {
		t.Errorf("expected friendly message, got %q", err.Error())
	}
}

func TestDoJSON_ContextTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
	}))
	defer server.Close()

	c := New(server.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := c.DoJSON(ctx, nil, http.MethodGet, "/x", nil, nil)
	if err == nil || err.Error() != "request timed out" {
		t.Errorf("expected timeout error, got %v", err)
	}
}

func TestDoJSON_InvalidResponseBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	c := New(server.URL)
	var out map[string]string
	err := c.DoJSON(context.Background(), nil, http.MethodGet, "/x", nil, &out)
	if err == nil {
		t.Fatal("expected decode error, got nil")
	}
	if errors.Is(err, ErrTransport) || errors.Is(err, ErrServer) {
		t.Errorf("decode failure should not be classified as transport/server: %v", err)
	}
}

func TestLogin_SendsPasswordGrantForm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("expected path /auth/login, got %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("expected form content type, got %s", ct)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("login must not carry a credential")
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		want := map[string]string{
			"grant_type":    "password",
			"username":      "a@x.com",
			"password":      "Secret1",
			"scope":         "",
			"client_id":     "",
			"client_secret": "",
		}
		for key, value := range want {
			if _, ok := r.PostForm[key]; !ok {
				t.Errorf("expected form field %s", key)
			}
			if got := r.PostForm.Get(key); got != value {
				t.Errorf("form field %s = %q, want %q", key, got, value)
			}
		}
		json.NewEncoder(w).Encode(TokenResponse{AccessToken: "jwt", TokenType: "bearer"})
	}))
	defer server.Close()

	c := New(server.URL)
	tok, err := c.Login(context.Background(), "a@x.com", "Secret1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.AccessToken != "jwt" {
		t.Errorf("expected token jwt, got %s", tok.AccessToken)
	}
}

func TestLogin_MissingToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token_type":"bearer"}`))
	}))
	defer server.Close()

	c := New(server.URL)
	if _, err := c.Login(context.Background(), "a@x.com", "Secret1"); err == nil {
		t.Error("expected error for missing access_token")
	}
}

func TestUpdateMe_OmitsUnsetFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		if len(body) != 1 || body["name"] != "New Name" {
			t.Errorf("expected only name in body, got %v", body)
		}
		w.Write([]byte(`{"id":"u1","name":"New Name","email":"a@x.com","is_active":true,
			"created_at":"2024-05-01T10:00:00.123456","updated_at":"2024-05-02T10:00:00Z"}`))
	}))
	defer server.Close()

	name := "New Name"
	c := New(server.URL)
	user, err := c.UpdateMe(context.Background(), Bearer("t"), &ProfileUpdate{Name: &name})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Name != "New Name" {
		t.Errorf("expected updated name, got %s", user.Name)
	}
	if user.CreatedAt.Year() != 2024 || user.CreatedAt.Location() != time.UTC {
		t.Errorf("expected zone-less timestamp parsed as UTC, got %v", user.CreatedAt)
	}
}

func TestHealth_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("expected path /health, got %s", r.URL.Path)
		}
		w.Write([]byte(`{"status":"healthy","application":{"name":"Product Management API","version":"0.1.0"},"database":{"status":"healthy","error":null}}`))
	}))
	defer server.Close()

	c := New(server.URL)
	resp, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != "healthy" || resp.Database.Status != "healthy" {
		t.Errorf("unexpected health response %+v", resp)
	}
}

func TestTimestamp_Invalid(t *testing.T) {
	var ts Timestamp
	if err := json.Unmarshal([]byte(`"yesterday"`), &ts); err == nil {
		t.Error("expected error for unparseable timestamp")
	}
	if err := json.Unmarshal([]byte(`123`), &ts); err == nil {
		t.Error("expected error for non-string timestamp")
	}
}

func TestSanitizePath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"/products/abc", "/products/abc"},
		{"/products/abc\nforged line", "/products/abcforged line"},
		{"/api/test\r\ninjected", "/api/testinjected"},
		{"/api/test\tvalue\x00", "/api/testvalue"},
	}

	for _, tt := range tests {
		if got := sanitizePath(tt.input); got != tt.want {
			t.Errorf("sanitizePath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
