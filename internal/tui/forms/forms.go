// ABOUTME: huh-based input forms embedded as bubbletea models
// ABOUTME: Sign-in, sign-up, product create/edit, and profile forms with advisory validation

package forms

import (
	"errors"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/client"
	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/products"
	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/tui/styles"
	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/validation"
)

// LoginMsg carries submitted sign-in credentials
type LoginMsg struct {
	Email    string
	Password string
}

// RegisterMsg carries a submitted sign-up form
type RegisterMsg struct {
	Name     string
	Email    string
	Password string
}

// CreateProductMsg carries a new product
type CreateProductMsg struct {
	Product products.NewProduct
}

// UpdateProductMsg carries the changed fields of an existing product
type UpdateProductMsg struct {
	ID     string
	Update products.ProductUpdate
}

// ProfileMsg carries the changed profile fields
type ProfileMsg struct {
	Update client.ProfileUpdate
}

// CancelledMsg is sent when the user leaves a form with esc
type CancelledMsg struct{}

// Form wraps a huh form and turns completion into a typed message
type Form struct {
	title  string
	form   *huh.Form
	submit func() tea.Msg
	done   bool
}

// Theme returns the huh theme matching the TUI palette
func Theme() *huh.Theme {
	t := huh.ThemeBase()

	primary := styles.Primary
	accent := styles.Accent
	muted := lipgloss.Color("#9CA3AF")
	text := lipgloss.Color("#E5E7EB")
	danger := lipgloss.Color("#F87171")

	t.Group.Title = lipgloss.NewStyle().
		Foreground(primary).
		Bold(true).
		MarginBottom(1)
	t.Group.Description = lipgloss.NewStyle().
		Foreground(muted).
		MarginBottom(1)

	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(primary)
	t.Focused.Title = lipgloss.NewStyle().
		Foreground(accent).
		Bold(true)
	t.Focused.Description = lipgloss.NewStyle().
		Foreground(muted)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().
		Foreground(danger).
		SetString(" *")
	t.Focused.ErrorMessage = lipgloss.NewStyle().
		Foreground(danger)

	t.Focused.TextInput.Cursor = lipgloss.NewStyle().
		Foreground(primary)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().
		Foreground(muted)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().
		Foreground(primary)
	t.Focused.TextInput.Text = lipgloss.NewStyle().
		Foreground(text)

	t.Focused.FocusedButton = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(primary).
		Padding(0, 2).
		MarginRight(1)
	t.Focused.BlurredButton = lipgloss.NewStyle().
		Foreground(muted).
		Background(styles.Surface).
		Padding(0, 2).
		MarginRight(1)

	t.Blurred = t.Focused
	t.Blurred.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true)
	t.Blurred.Title = lipgloss.NewStyle().
		Foreground(muted)

	return t
}

func newForm(title string, submit func() tea.Msg, fields ...huh.Field) *Form {
	return &Form{
		title:  title,
		submit: submit,
		form: huh.NewForm(
			huh.NewGroup(fields...).Title(title),
		).WithTheme(Theme()).WithShowHelp(true),
	}
}

// Login builds the sign-in form
func Login(v *validation.Validator) *Form {
	var email, password string
	return newForm("Sign in",
		func() tea.Msg { return LoginMsg{Email: strings.TrimSpace(email), Password: password} },
		emailInput(v, &email),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&password).
			Validate(required("password")),
	)
}

// Register builds the sign-up form
func Register(v *validation.Validator) *Form {
	var name, email, password, confirm string
	return newForm("Create account",
		func() tea.Msg {
			return RegisterMsg{Name: strings.TrimSpace(name), Email: strings.TrimSpace(email), Password: password}
		},
		huh.NewInput().
			Title("Name").
			Value(&name).
			Validate(required("name")),
		emailInput(v, &email),
		huh.NewInput().
			Title("Password").
			Description(v.Policy().Requirements()).
			EchoMode(huh.EchoModePassword).
			Value(&password).
			Validate(passwordRule(v)),
		huh.NewInput().
			Title("Confirm password").
			EchoMode(huh.EchoModePassword).
			Value(&confirm).
			Validate(func(s string) error {
				if s != password {
					return errors.New("passwords do not match")
				}
				return nil
			}),
	)
}

// CreateProduct builds the new-product form
func CreateProduct() *Form {
	var name, description, price string
	return newForm("Add a product",
		func() tea.Msg {
			p, _ := products.ParsePrice(price)
			return CreateProductMsg{Product: products.NewProduct{
				Name:        strings.TrimSpace(name),
				Description: strings.TrimSpace(description),
				Price:       p,
			}}
		},
		productFields(&name, &description, &price)...,
	)
}

// EditProduct builds a form prefilled from p. Only changed fields are sent.
func EditProduct(p *products.Product) *Form {
	name := p.Name
	description := p.Description
	price := strconv.FormatFloat(p.Price, 'f', 2, 64)
	return newForm("Edit "+p.Name,
		func() tea.Msg {
			return UpdateProductMsg{ID: p.ID, Update: ProductChanges(p, name, description, price)}
		},
		productFields(&name, &description, &price)...,
	)
}

// Profile builds the profile form prefilled with the current name and email.
// A blank password leaves it unchanged.
func Profile(v *validation.Validator, currentName, currentEmail string) *Form {
	name := currentName
	email := currentEmail
	var password string
	return newForm("Edit profile",
		func() tea.Msg {
			return ProfileMsg{Update: ProfileChanges(currentName, currentEmail, name, email, password)}
		},
		huh.NewInput().
			Title("Name").
			Value(&name).
			Validate(required("name")),
		emailInput(v, &email),
		huh.NewInput().
			Title("New password").
			Description("Leave blank to keep the current password").
			EchoMode(huh.EchoModePassword).
			Value(&password).
			Validate(func(s string) error {
				if s == "" {
					return nil
				}
				return passwordRule(v)(s)
			}),
	)
}

// ProductChanges returns the fields of the edit form that differ from orig
func ProductChanges(orig *products.Product, name, description, price string) products.ProductUpdate {
	var u products.ProductUpdate
	if n := strings.TrimSpace(name); n != orig.Name {
		u.Name = &n
	}
	if d := strings.TrimSpace(description); d != orig.Description {
		u.Description = &d
	}
	if p, err := products.ParsePrice(price); err == nil && p != orig.Price {
		u.Price = &p
	}
	return u
}

// ProfileChanges returns the profile fields that differ from the current ones
func ProfileChanges(currentName, currentEmail, name, email, password string) client.ProfileUpdate {
	var u client.ProfileUpdate
	if n := strings.TrimSpace(name); n != currentName {
		u.Name = &n
	}
	if e := strings.TrimSpace(email); e != currentEmail {
		u.Email = &e
	}
	if password != "" {
		u.Password = &password
	}
	return u
}

func productFields(name, description, price *string) []huh.Field {
	return []huh.Field{
		huh.NewInput().
			Title("Name").
			CharLimit(100).
			Value(name).
			Validate(required("name")),
		huh.NewText().
			Title("Description").
			CharLimit(500).
			Lines(4).
			Value(description).
			Validate(required("description")),
		huh.NewInput().
			Title("Price").
			Placeholder("e.g., 9.99").
			CharLimit(12).
			Value(price).
			Validate(func(s string) error {
				_, err := products.ParsePrice(s)
				return fieldMessage(err)
			}),
	}
}

func emailInput(v *validation.Validator, email *string) *huh.Input {
	return huh.NewInput().
		Title("Email").
		Placeholder("you@example.com").
		Value(email).
		Validate(func(s string) error {
			return fieldMessage(v.Var("email", strings.TrimSpace(s), "required,email"))
		})
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " is required")
		}
		return nil
	}
}

func passwordRule(v *validation.Validator) func(string) error {
	return func(s string) error {
		if msg := v.Policy().Check(s); msg != "" {
			return errors.New("password " + msg)
		}
		return nil
	}
}

// fieldMessage shortens a validation error to "field message" for inline display
func fieldMessage(err error) error {
	var verr *validation.Error
	if errors.As(err, &verr) && len(verr.Fields) > 0 {
		f := verr.Fields[0]
		return errors.New(f.Field + " " + f.Message)
	}
	return err
}

// Title returns the form heading
func (f *Form) Title() string {
	return f.title
}

// Init implements tea.Model
func (f *Form) Init() tea.Cmd {
	return f.form.Init()
}

// Update implements tea.Model
func (f *Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return f, func() tea.Msg { return CancelledMsg{} }
	}

	model, cmd := f.form.Update(msg)
	if hf, ok := model.(*huh.Form); ok {
		f.form = hf
	}

	if f.form.State == huh.StateCompleted && !f.done {
		f.done = true
		return f, f.submit
	}
	return f, cmd
}

// View implements tea.Model
func (f *Form) View() string {
	return f.form.View()
}
