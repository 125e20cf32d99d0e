// ABOUTME: In-memory fake of the product management REST backend for tests
// ABOUTME: Issues HS256 tokens and mirrors the backend's status codes and error bodies

package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/token"
)

// APIPrefix is where the fake mounts its routes; clients use URL()+APIPrefix
const APIPrefix = "/api"

// TimestampLayout is the zone-less ISO format the backend emits
const TimestampLayout = "2006-01-02T15:04:05.000000"

type user struct {
	ID        string
	Name      string
	Email     string
	Password  string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type product struct {
	ID          string
	Name        string
	Description string
	Price       float64
	UserID      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Request is a recorded inbound call
type Request struct {
	Method        string
	Path          string
	Authorization string
	ContentType   string
}

// Server is a running fake backend
type Server struct {
	srv *httptest.Server

	mu       sync.Mutex
	secret   []byte
	tokenTTL time.Duration
	users    map[string]*user
	products map[string]*product
	requests []Request
	failMe   int
}

// New starts a fake backend that shuts down when the test ends
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		secret:   []byte("apitest-secret"),
		tokenTTL: time.Hour,
		users:    make(map[string]*user),
		products: make(map[string]*product),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("GET /users/me", s.authenticated(s.handleGetMe))
	mux.HandleFunc("PUT /users/me", s.authenticated(s.handleUpdateMe))
	mux.HandleFunc("DELETE /users/me", s.authenticated(s.handleDeleteMe))
	mux.HandleFunc("GET /products", s.authenticated(s.handleListProducts))
	mux.HandleFunc("GET /products/user", s.authenticated(s.handleListUserProducts))
	mux.HandleFunc("POST /products", s.authenticated(s.handleCreateProduct))
	mux.HandleFunc("GET /products/{id}", s.authenticated(s.handleGetProduct))
	mux.HandleFunc("PUT /products/{id}", s.authenticated(s.handleUpdateProduct))
	mux.HandleFunc("DELETE /products/{id}", s.authenticated(s.handleDeleteProduct))
	mux.HandleFunc("GET /health", s.handleHealth)

	s.srv = httptest.NewServer(s.record(http.StripPrefix(APIPrefix, mux)))
	t.Cleanup(s.srv.Close)
	return s
}

// URL returns the API base URL (server root plus APIPrefix)
func (s *Server) URL() string {
	return s.srv.URL + APIPrefix
}

// Secret returns the signing key for tokens the fake accepts
func (s *Server) Secret() []byte {
	return s.secret
}

// AddUser registers an active account directly and returns its id
func (s *Server) AddUser(name, email, password string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(name, email, password).ID
}

// IssueToken signs a token for userID with the given expiry
func (s *Server) IssueToken(userID string, expiresAt time.Time) string {
	s.mu.Lock()
	u := s.users[userID]
	s.mu.Unlock()

	name, email := "", ""
	if u != nil {
		name, email = u.Name, u.Email
	}
	tok, _ := token.Sign(s.secret, userID, name, email, expiresAt)
	return tok
}

// FailUsersMe makes the next n GET /users/me calls answer 500
func (s *Server) FailUsersMe(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failMe = n
}

// UserActive reports whether the account exists and has not been deleted
func (s *Server) UserActive(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	return ok && u.Active
}

// UserPassword returns the stored password for userID
func (s *Server) UserPassword(userID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[userID]; ok {
		return u.Password
	}
	return ""
}

// Requests returns a copy of every call received so far
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// ProductCount returns how many products are stored
func (s *Server) ProductCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.products)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        r.Method,
			Path:          strings.TrimPrefix(r.URL.Path, APIPrefix),
			Authorization: r.Header.Get("Authorization"),
			ContentType:   r.Header.Get("Content-Type"),
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) addUserLocked(name, email, password string) *user {
	now := time.Now().UTC()
	u := &user{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Password:  password,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.users[u.ID] = u
	return u
}

func (s *Server) userByEmailLocked(email string) *user {
	for _, u := range s.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (s *Server) issueLocked(u *user) map[string]string {
	tok, _ := token.Sign(s.secret, u.ID, u.Name, u.Email, time.Now().Add(s.tokenTTL))
	return map[string]string{"access_token": tok, "token_type": "bearer"}
}

type authedHandler func(w http.ResponseWriter, r *http.Request, u *user)

// authenticated resolves the bearer token to an active user or answers 401/403
func (s *Server) authenticated(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok {
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		claims, err := token.Verify(s.secret, raw)
		if err != nil {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		s.mu.Lock()
		u, found := s.users[claims.Subject]
		s.mu.Unlock()
		if !found {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		if !u.Active {
			writeDetail(w, http.StatusForbidden, "Inactive user")
			return
		}

		next(w, r, u)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid form body")
		return
	}
	if gt := r.PostForm.Get("grant_type"); gt != "" && gt != "password" {
		writeFieldErrors(w, fieldErr{"grant_type", "string should match pattern 'password'"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.userByEmailLocked(r.PostForm.Get("username"))
	if u == nil || u.Password != r.PostForm.Get("password") || !u.Active {
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeDetail(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}

	writeJSON(w, http.StatusOK, s.issueLocked(u))
}

type registerBody struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

var (
	upperRe = regexp.MustCompile(`[A-Z]`)
	digitRe = regexp.MustCompile(`\d`)
)

func passwordProblem(pw string) string {
	switch {
	case len(pw) < 8:
		return "Password must be at least 8 characters long"
	case !upperRe.MatchString(pw):
		return "Password must contain at least one uppercase letter"
	case !digitRe.MatchString(pw):
		return "Password must contain at least one digit"
	}
	return ""
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body registerBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid JSON body")
		return
	}

	var problems []fieldErr
	if body.Name == "" {
		problems = append(problems, fieldErr{"name", "field required"})
	}
	if !strings.Contains(body.Email, "@") {
		problems = append(problems, fieldErr{"email", "value is not a valid email address"})
	}
	if msg := passwordProblem(body.Password); msg != "" {
		problems = append(problems, fieldErr{"password", msg})
	}
	if len(problems) > 0 {
		writeFieldErrors(w, problems...)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userByEmailLocked(body.Email) != nil {
		writeDetail(w, http.StatusBadRequest, "Email already registered")
		return
	}

	u := s.addUserLocked(body.Name, body.Email, body.Password)
	writeJSON(w, http.StatusOK, s.issueLocked(u))
}

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request, u *user) {
	s.mu.Lock()
	fail := s.failMe > 0
	if fail {
		s.failMe--
	}
	s.mu.Unlock()

	if fail {
		writeDetail(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, userJSON(u))
}

type updateMeBody struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request, u *user) {
	var body updateMeBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid JSON body")
		return
	}
	if body.Password != nil {
		if msg := passwordProblem(*body.Password); msg != "" {
			writeFieldErrors(w, fieldErr{"password", msg})
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if body.Email != nil {
		if other := s.userByEmailLocked(*body.Email); other != nil && other.ID != u.ID {
			writeDetail(w, http.StatusBadRequest, "Email already registered")
			return
		}
		u.Email = *body.Email
	}
	if body.Name != nil {
		u.Name = *body.Name
	}
	if body.Password != nil {
		u.Password = *body.Password
	}
	u.UpdatedAt = time.Now().UTC()

	writeJSON(w, http.StatusOK, userJSON(u))
}

func (s *Server) handleDeleteMe(w http.ResponseWriter, r *http.Request, u *user) {
	s.mu.Lock()
	u.Active = false
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request, u *user) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.productListLocked(func(*product) bool { return true }))
}

func (s *Server) handleListUserProducts(w http.ResponseWriter, r *http.Request, u *user) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.productListLocked(func(p *product) bool { return p.UserID == u.ID }))
}

func (s *Server) productListLocked(keep func(*product) bool) []map[string]interface{} {
	list := make([]*product, 0, len(s.products))
	for _, p := range s.products {
		if keep(p) {
			list = append(list, p)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})

	out := make([]map[string]interface{}, 0, len(list))
	for _, p := range list {
		out = append(out, productJSON(p))
	}
	return out
}

type productBody struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request, u *user) {
	var body productBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid JSON body")
		return
	}

	var problems []fieldErr
	if body.Name == nil {
		problems = append(problems, fieldErr{"name", "field required"})
	}
	if body.Description == nil {
		problems = append(problems, fieldErr{"description", "field required"})
	}
	if body.Price == nil {
		problems = append(problems, fieldErr{"price", "field required"})
	} else if *body.Price <= 0 {
		problems = append(problems, fieldErr{"price", "Input should be greater than 0"})
	}
	if len(problems) > 0 {
		writeFieldErrors(w, problems...)
		return
	}

	now := time.Now().UTC()
	p := &product{
		ID:          uuid.NewString(),
		Name:        *body.Name,
		Description: *body.Description,
		Price:       *body.Price,
		UserID:      u.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.mu.Lock()
	s.products[p.ID] = p
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, productJSON(p))
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request, u *user) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[r.PathValue("id")]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Product not found")
		return
	}
	writeJSON(w, http.StatusOK, productJSON(p))
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request, u *user) {
	var body productBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid JSON body")
		return
	}
	if body.Price != nil && *body.Price <= 0 {
		writeFieldErrors(w, fieldErr{"price", "Input should be greater than 0"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[r.PathValue("id")]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Product not found")
		return
	}
	if p.UserID != u.ID {
		writeDetail(w, http.StatusForbidden, "Not authorized to update this product")
		return
	}

	if body.Name != nil {
		p.Name = *body.Name
	}
	if body.Description != nil {
		p.Description = *body.Description
	}
	if body.Price != nil {
		p.Price = *body.Price
	}
	p.UpdatedAt = time.Now().UTC()

	writeJSON(w, http.StatusOK, productJSON(p))
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request, u *user) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := r.PathValue("id")
	p, ok := s.products[id]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Product not found")
		return
	}
	if p.UserID != u.ID {
		writeDetail(w, http.StatusForbidden, "Not authorized to delete this product")
		return
	}

	delete(s.products, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(TimestampLayout),
		"application": map[string]string{
			"name":    "Product Management API",
			"version": "0.1.0",
		},
		"database": map[string]interface{}{
			"status": "healthy",
			"error":  nil,
		},
	})
}

func userJSON(u *user) map[string]interface{} {
	return map[string]interface{}{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"is_active":  u.Active,
		"created_at": u.CreatedAt.Format(TimestampLayout),
		"updated_at": u.UpdatedAt.Format(TimestampLayout),
	}
}

func productJSON(p *product) map[string]interface{} {
	return map[string]interface{}{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"user_id":     p.UserID,
		"created_at":  p.CreatedAt.Format(TimestampLayout),
		"updated_at":  p.UpdatedAt.Format(TimestampLayout),
	}
}

type fieldErr struct {
	field string
	msg   string
}

func writeFieldErrors(w http.ResponseWriter, errs ...fieldErr) {
	detail := make([]map[string]interface{}, 0, len(errs))
	for _, e := range errs {
		detail = append(detail, map[string]interface{}{
			"loc":  []string{"body", e.field},
			"msg":  e.msg,
			"type": "value_error",
		})
	}
	writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{"detail": detail})
}

func writeDetail(w http.ResponseWriter, code int, detail string) {
	writeJSON(w, code, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
