// ABOUTME: Typed wrappers for the auth, user, and health endpoints
// ABOUTME: Used by the session manager and the health command

package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// TokenResponse represents the /auth/login and /auth/register responses
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Registration is the /auth/register payload
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User represents the /users/me response
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at"`
}

// ProfileUpdate is a partial /users/me update; nil fields are not sent
type ProfileUpdate struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

// Empty reports whether no field is set
func (p ProfileUpdate) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Password == nil
}

// HealthResponse represents the /health endpoint response
type HealthResponse struct {
	Status      string         `json:"status"`
	Timestamp   string         `json:"timestamp"`
	Application HealthApp      `json:"application"`
	Database    HealthDatabase `json:"database"`
}

// HealthApp describes the backend application in a health response
type HealthApp struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// HealthDatabase reports database connectivity in a health response
type HealthDatabase struct {
	Status string  `json:"status"`
	Error  *string `json:"error"`
}

// Login submits password-grant credentials as a form and returns the issued token
func (c *Client) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", email)
	form.Set("password", password)
	form.Set("scope", "")
	form.Set("client_id", "")
	form.Set("client_secret", "")

	var tok TokenResponse
	if err := c.PostForm(ctx, "/auth/login", form, &tok); err != nil {
		return nil, err
	}
	if tok.AccessToken == "" {
		return nil, errors.New("invalid response from backend: missing access_token")
	}
	return &tok, nil
}

// Register creates an account. The response token is ignored by callers that
// log in afterwards, but it is returned for completeness.
func (c *Client) Register(ctx context.Context, reg *Registration) (*TokenResponse, error) {
	var tok TokenResponse
	if err := c.DoJSON(ctx, nil, http.MethodPost, "/auth/register", reg, &tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

// Me calls GET /users/me
func (c *Client) Me(ctx context.Context, auth Auth) (*User, error) {
	var user User
	if err := c.DoJSON(ctx, auth, http.MethodGet, "/users/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateMe calls PUT /users/me
func (c *Client) UpdateMe(ctx context.Context, auth Auth, update *ProfileUpdate) (*User, error) {
	var user User
	if err := c.DoJSON(ctx, auth, http.MethodPut, "/users/me", update, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteMe calls DELETE /users/me
func (c *Client) DeleteMe(ctx context.Context, auth Auth) error {
	return c.DoJSON(ctx, auth, http.MethodDelete, "/users/me", nil, nil)
}

// Health calls GET /health
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if err := c.DoJSON(ctx, nil, http.MethodGet, "/health", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// Timestamp accepts RFC 3339 with or without a zone. Zone-less values
// (FastAPI's default datetime encoding) are read as UTC.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// UnmarshalJSON implements json.Unmarshaler
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		t.Time = time.Time{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("timestamp must be a JSON string, got %s", s)
	}
	s = s[1 : len(s)-1]

	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

// MarshalJSON implements json.Marshaler
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.UTC().Format(time.RFC3339Nano) + `"`), nil
}
