// ABOUTME: Resource client for the product catalog
// ABOUTME: CRUD calls carrying an explicit per-call credential, plus search and price parsing

package products

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/client"
	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/validation"
)

var (
	// ErrMissingID is returned before any request when an id is blank.
	ErrMissingID = fmt.Errorf("product id is required: %w", client.ErrValidation)
	// ErrEmptyUpdate is returned when an update sets no field.
	ErrEmptyUpdate = fmt.Errorf("update must change at least one field: %w", client.ErrValidation)
)

// maxConcurrentFetches bounds GetMany's parallel requests
const maxConcurrentFetches = 4

// Product is a catalog entry as returned by the backend
type Product struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       float64          `json:"price"`
	OwnerUserID string           `json:"user_id"`
	CreatedAt   client.Timestamp `json:"created_at"`
	UpdatedAt   client.Timestamp `json:"updated_at"`
}

// NewProduct is the create payload. Every field is required.
type NewProduct struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"gt=0"`
}

// ProductUpdate is a partial update; nil fields are left untouched
type ProductUpdate struct {
	Name        *string  `json:"name,omitempty" validate:"omitnil,min=1"`
	Description *string  `json:"description,omitempty" validate:"omitnil,min=1"`
	Price       *float64 `json:"price,omitempty" validate:"omitnil,gt=0"`
}

// Empty reports whether no field is set
func (u ProductUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.Price == nil
}

// Service calls the /products endpoints
type Service struct {
	api      *client.Client
	validate *validation.Validator
}

// New creates a Service on top of api
func New(api *client.Client) *Service {
	return &Service{
		api:      api,
		validate: validation.New(validation.DefaultPasswordPolicy()),
	}
}

// List returns every product visible to the caller
func (s *Service) List(ctx context.Context, auth client.Auth) ([]Product, error) {
	return s.list(ctx, auth, "/products")
}

// ListMine returns the products owned by the caller
func (s *Service) ListMine(ctx context.Context, auth client.Auth) ([]Product, error) {
	return s.list(ctx, auth, "/products/user")
}

func (s *Service) list(ctx context.Context, auth client.Auth, path string) ([]Product, error) {
	var out []Product
	if err := s.api.DoJSON(ctx, auth, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Product{}
	}
	return out, nil
}

// Get fetches one product. A missing product is an error matching client.ErrNotFound.
func (s *Service) Get(ctx context.Context, auth client.Auth, id string) (*Product, error) {
	path, err := productPath(id)
	if err != nil {
		return nil, err
	}

	var p Product
	if err := s.api.DoJSON(ctx, auth, http.MethodGet, path, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create validates np and posts it
func (s *Service) Create(ctx context.Context, auth client.Auth, np NewProduct) (*Product, error) {
	np.Name = strings.TrimSpace(np.Name)
	np.Description = strings.TrimSpace(np.Description)
	if err := s.validate.Struct(np); err != nil {
		return nil, err
	}

	var p Product
	if err := s.api.DoJSON(ctx, auth, http.MethodPost, "/products", np, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update sends the fields set in u
func (s *Service) Update(ctx context.Context, auth client.Auth, id string, u ProductUpdate) (*Product, error) {
	path, err := productPath(id)
	if err != nil {
		return nil, err
	}
	if u.Empty() {
		return nil, ErrEmptyUpdate
	}
	if err := s.validate.Struct(u); err != nil {
		return nil, err
	}

	var p Product
	if err := s.api.DoJSON(ctx, auth, http.MethodPut, path, u, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete removes a product. Deleting a missing product is a failure.
func (s *Service) Delete(ctx context.Context, auth client.Auth, id string) error {
	path, err := productPath(id)
	if err != nil {
		return err
	}
	return s.api.DoJSON(ctx, auth, http.MethodDelete, path, nil, nil)
}

// GetMany fetches several products concurrently. Results keep the order of
// ids; the first failure cancels the rest and is returned.
func (s *Service) GetMany(ctx context.Context, auth client.Auth, ids ...string) ([]Product, error) {
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return nil, ErrMissingID
		}
	}

	out := make([]Product, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)

	for i, id := range ids {
		g.Go(func() error {
			p, err := s.Get(gctx, auth, id)
			if err != nil {
				return fmt.Errorf("product %s: %w", id, err)
			}
			out[i] = *p
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Filter keeps products whose name or description contains term, ignoring
// case. A blank term keeps everything.
func Filter(list []Product, term string) []Product {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return list
	}

	out := make([]Product, 0, len(list))
	for _, p := range list {
		if strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Description), term) {
			out = append(out, p)
		}
	}
	return out
}

// ParsePrice reads a user-entered price such as "9.99" or "$1,250". The
// result must be positive.
func ParsePrice(s string) (float64, error) {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return 0, &validation.Error{Fields: []validation.FieldError{{Field: "price", Message: "is required"}}}
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, &validation.Error{Fields: []validation.FieldError{{Field: "price", Message: "must be a number"}}}
	}
	d = d.Round(2)
	if !d.IsPositive() {
		return 0, &validation.Error{Fields: []validation.FieldError{{Field: "price", Message: "must be greater than 0"}}}
	}

	f, _ := d.Float64()
	return f, nil
}

func productPath(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", ErrMissingID
	}
	return "/products/" + url.PathEscape(id), nil
}
