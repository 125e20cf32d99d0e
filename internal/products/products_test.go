// ABOUTME: Tests for the product resource client
// ABOUTME: Exercises CRUD against the fake backend plus search and price parsing

package products

import (
	"context"
	"errors"
	"testing"

	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/apitest"
	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/client"
	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/credstore"
	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/logger"
	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/session"
	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/validation"
)

func ptr[T any](v T) *T { return &v }

// loginAs returns a credential for a fresh account on srv
func loginAs(t *testing.T, srv *apitest.Server, api *client.Client, name, email string) client.Auth {
	t.Helper()
	srv.AddUser(name, email, "Secret1")
	m := session.New(api, credstore.NewMemoryStore(""), session.WithLogger(logger.Discard()))
	if _, err := m.Login(context.Background(), email, "Secret1"); err != nil {
		t.Fatalf("Login(%s): %v", email, err)
	}
	return m.Auth()
}

func setup(t *testing.T) (*Service, *apitest.Server, *client.Client) {
	t.Helper()
	srv := apitest.New(t)
	api := client.New(srv.URL(), client.WithLogger(logger.Discard()))
	return New(api), srv, api
}

func TestWidgetScenario(t *testing.T) {
	svc, srv, api := setup(t)
	ctx := context.Background()

	srv.AddUser("Ann", "a@x.com", "Secret1")
	m := session.New(api, credstore.NewMemoryStore(""), session.WithLogger(logger.Discard()))
	sess, err := m.Login(ctx, "a@x.com", "Secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if sess.Email != "a@x.com" {
		t.Fatalf("expected session email a@x.com, got %q", sess.Email)
	}
	auth := m.Auth()

	created, err := svc.Create(ctx, auth, NewProduct{Name: "Widget", Description: "d", Price: 9.99})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Price != 9.99 {
		t.Errorf("expected price 9.99, got %v", created.Price)
	}

	if _, err := svc.Update(ctx, auth, created.ID, ProductUpdate{Price: ptr(12.5)}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := svc.Get(ctx, auth, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Price != 12.5 {
		t.Errorf("expected price 12.5 after update, got %v", got.Price)
	}
	if got.Name != "Widget" {
		t.Errorf("expected untouched name, got %q", got.Name)
	}

	if err := svc.Delete(ctx, auth, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	list, err := svc.List(ctx, auth)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, p := range list {
		if p.ID == created.ID {
			t.Errorf("deleted product %s still listed", p.ID)
		}
	}
}

func TestCreate_ThenGet(t *testing.T) {
	svc, srv, api := setup(t)
	ctx := context.Background()
	auth := loginAs(t, srv, api, "Ann", "a@x.com")

	created, err := svc.Create(ctx, auth, NewProduct{Name: "Lamp", Description: "Desk lamp", Price: 24})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := svc.Get(ctx, auth, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID == "" {
		t.Error("expected server-assigned id")
	}
	if got.Name != "Lamp" || got.Description != "Desk lamp" || got.Price != 24 {
		t.Errorf("fields do not match input: %+v", got)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Errorf("expected parsed timestamps, got %v / %v", got.CreatedAt, got.UpdatedAt)
	}
	if got.OwnerUserID == "" {
		t.Error("expected owner id")
	}

	last := srv.Requests()[len(srv.Requests())-1]
	if last.Authorization != "Bearer "+auth.BearerToken() {
		t.Errorf("expected bearer credential on Get, got %q", last.Authorization)
	}
}

func TestDelete_ThenGetIsNotFound(t *testing.T) {
	svc, srv, api := setup(t)
	ctx := context.Background()
	auth := loginAs(t, srv, api, "Ann", "a@x.com")

	p, err := svc.Create(ctx, auth, NewProduct{Name: "Mug", Description: "Blue", Price: 5})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Delete(ctx, auth, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := svc.Get(ctx, auth, p.ID); !errors.Is(err, client.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, auth, p.ID); !errors.Is(err, client.ErrNotFound) {
		t.Errorf("expected second delete to fail with ErrNotFound, got %v", err)
	}
	if srv.ProductCount() != 0 {
		t.Errorf("expected empty store, got %d", srv.ProductCount())
	}
}

func TestListMine(t *testing.T) {
	svc, srv, api := setup(t)
	ctx := context.Background()
	ann := loginAs(t, srv, api, "Ann", "a@x.com")
	bea := loginAs(t, srv, api, "Bea", "b@x.com")

	if _, err := svc.Create(ctx, ann, NewProduct{Name: "A1", Description: "a", Price: 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(ctx, bea, NewProduct{Name: "B1", Description: "b", Price: 2}); err != nil {
		t.Fatal(err)
	}

	all, err := svc.List(ctx, ann)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 products, got %d", len(all))
	}

	mine, err := svc.ListMine(ctx, ann)
	if err != nil {
		t.Fatalf("ListMine: %v", err)
	}
	if len(mine) != 1 || mine[0].Name != "A1" {
		t.Errorf("expected only A1, got %+v", mine)
	}
}

func TestList_EmptyIsNotNil(t *testing.T) {
	svc, srv, api := setup(t)
	auth := loginAs(t, srv, api, "Ann", "a@x.com")

	list, err := svc.List(context.Background(), auth)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", list)
	}
}

func TestUnauthenticatedCallsAreRejected(t *testing.T) {
	svc, srv, _ := setup(t)

	if _, err := svc.List(context.Background(), nil); !errors.Is(err, client.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if got := srv.Requests()[0].Authorization; got != "" {
		t.Errorf("expected no Authorization header, got %q", got)
	}
}

func TestUpdate_OtherOwnerIsForbidden(t *testing.T) {
	svc, srv, api := setup(t)
	ctx := context.Background()
	ann := loginAs(t, srv, api, "Ann", "a@x.com")
	bea := loginAs(t, srv, api, "Bea", "b@x.com")

	p, err := svc.Create(ctx, ann, NewProduct{Name: "Lamp", Description: "x", Price: 3})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Update(ctx, bea, p.ID, ProductUpdate{Name: ptr("Mine now")}); !errors.Is(err, client.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, bea, p.ID); !errors.Is(err, client.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestClientSideValidation(t *testing.T) {
	svc, srv, _ := setup(t)
	ctx := context.Background()
	auth := client.Bearer("unused")

	tests := []struct {
		name  string
		call  func() error
		field string
	}{
		{"create missing name", func() error {
			_, err := svc.Create(ctx, auth, NewProduct{Name: "  ", Description: "d", Price: 1})
			return err
		}, "name"},
		{"create missing description", func() error {
			_, err := svc.Create(ctx, auth, NewProduct{Name: "n", Price: 1})
			return err
		}, "description"},
		{"create zero price", func() error {
			_, err := svc.Create(ctx, auth, NewProduct{Name: "n", Description: "d"})
			return err
		}, "price"},
		{"update negative price", func() error {
			_, err := svc.Update(ctx, auth, "p1", ProductUpdate{Price: ptr(-1.0)})
			return err
		}, "price"},
		{"update blank name", func() error {
			_, err := svc.Update(ctx, auth, "p1", ProductUpdate{Name: ptr("")})
			return err
		}, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			if !errors.Is(err, client.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			var verr *validation.Error
			if !errors.As(err, &verr) || verr.Field(tt.field) == "" {
				t.Errorf("expected failure on %s, got %v", tt.field, err)
			}
		})
	}

	if n := len(srv.Requests()); n != 0 {
		t.Errorf("expected validation failures to skip transport, got %d calls", n)
	}
}

func TestMissingIDAndEmptyUpdate(t *testing.T) {
	svc, srv, _ := setup(t)
	ctx := context.Background()

	if _, err := svc.Get(ctx, nil, ""); !errors.Is(err, ErrMissingID) || !errors.Is(err, client.ErrValidation) {
		t.Errorf("Get: expected ErrMissingID, got %v", err)
	}
	if _, err := svc.Update(ctx, nil, " ", ProductUpdate{Name: ptr("x")}); !errors.Is(err, ErrMissingID) {
		t.Errorf("Update: expected ErrMissingID, got %v", err)
	}
	if err := svc.Delete(ctx, nil, ""); !errors.Is(err, ErrMissingID) {
		t.Errorf("Delete: expected ErrMissingID, got %v", err)
	}
	if _, err := svc.Update(ctx, nil, "p1", ProductUpdate{}); !errors.Is(err, ErrEmptyUpdate) {
		t.Errorf("Update: expected ErrEmptyUpdate, got %v", err)
	}
	if _, err := svc.GetMany(ctx, nil, "p1", ""); !errors.Is(err, ErrMissingID) {
		t.Errorf("GetMany: expected ErrMissingID, got %v", err)
	}

	if n := len(srv.Requests()); n != 0 {
		t.Errorf("expected no transport calls, got %d", n)
	}
}

func TestGetMany_KeepsOrder(t *testing.T) {
	svc, srv, api := setup(t)
	ctx := context.Background()
	auth := loginAs(t, srv, api, "Ann", "a@x.com")

	var ids []string
	for _, name := range []string{"one", "two", "three", "four", "five"} {
		p, err := svc.Create(ctx, auth, NewProduct{Name: name, Description: "x", Price: 1})
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, p.ID)
	}

	// Reverse so the result order cannot come from the server's listing order
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}

	got, err := svc.GetMany(ctx, auth, ids...)
	if err != nil {
		t.Fatalf("GetMany: %v", err)
	}
	for i, p := range got {
		if p.ID != ids[i] {
			t.Errorf("position %d: got %s, want %s", i, p.ID, ids[i])
		}
	}
}

func TestGetMany_PropagatesFailure(t *testing.T) {
	svc, srv, api := setup(t)
	ctx := context.Background()
	auth := loginAs(t, srv, api, "Ann", "a@x.com")

	p, err := svc.Create(ctx, auth, NewProduct{Name: "Lamp", Description: "x", Price: 1})
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.GetMany(ctx, auth, p.ID, "missing")
	if !errors.Is(err, client.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFilter(t *testing.T) {
	list := []Product{
		{ID: "1", Name: "Desk Lamp", Description: "LED"},
		{ID: "2", Name: "Mug", Description: "Ceramic coffee mug"},
		{ID: "3", Name: "Chair", Description: "Office chair"},
	}

	tests := []struct {
		term string
		want []string
	}{
		{"", []string{"1", "2", "3"}},
		{"   ", []string{"1", "2", "3"}},
		{"lamp", []string{"1"}},
		{"COFFEE", []string{"2"}},
		{"o", []string{"2", "3"}},
		{"sofa", nil},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got := Filter(list, tt.term)
			if len(got) != len(tt.want) {
				t.Fatalf("Filter(%q) returned %d items, want %d", tt.term, len(got), len(tt.want))
			}
			for i, p := range got {
				if p.ID != tt.want[i] {
					t.Errorf("Filter(%q)[%d] = %s, want %s", tt.term, i, p.ID, tt.want[i])
				}
			}
		})
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		{"9.99", 9.99, true},
		{" 12.5 ", 12.5, true},
		{"$1,250", 1250, true},
		{"0.004", 0, false},
		{"0", 0, false},
		{"-3", 0, false},
		{"", 0, false},
		{"abc", 0, false},
		{"NaN", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePrice(tt.input)
			if tt.ok {
				if err != nil {
					t.Fatalf("ParsePrice(%q): %v", tt.input, err)
				}
				if got != tt.want {
					t.Errorf("ParsePrice(%q) = %v, want %v", tt.input, got, tt.want)
				}
				return
			}
			if !errors.Is(err, client.ErrValidation) {
				t.Errorf("ParsePrice(%q): expected ErrValidation, got %v (%v)", tt.input, err, got)
			}
		})
	}
}
