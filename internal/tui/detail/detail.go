// ABOUTME: Product detail view
// ABOUTME: Shows one product with price, owner, and timestamps plus the delete confirmation

package detail

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/format"
	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/products"
	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/tui/icons"
	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/tui/styles"
	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/tui/widgets"
)

// Detail displays a single product
type Detail struct {
	product    *products.Product
	owned      bool
	confirming bool
	width      int
	now        func() time.Time
}

// New creates a detail view. owned enables the edit and delete actions.
func New(p *products.Product, owned bool, width int) *Detail {
	return &Detail{
		product: p,
		owned:   owned,
		width:   width,
		now:     time.Now,
	}
}

// Product returns the product being shown
func (d *Detail) Product() *products.Product {
	return d.product
}

// Owned reports whether the signed-in user owns the product
func (d *Detail) Owned() bool {
	return d.owned
}

// SetProduct replaces the product, e.g. after an edit
func (d *Detail) SetProduct(p *products.Product) {
	d.product = p
}

// SetWidth updates the render width
func (d *Detail) SetWidth(width int) {
	d.width = width
}

// Confirming reports whether the delete prompt is showing
func (d *Detail) Confirming() bool {
	return d.confirming
}

// AskDelete shows the delete prompt. Only owners may delete.
func (d *Detail) AskDelete() bool {
	if !d.owned {
		return false
	}
	d.confirming = true
	return true
}

// CancelDelete hides the delete prompt
func (d *Detail) CancelDelete() {
	d.confirming = false
}

// View renders the product
func (d *Detail) View() string {
	if d.product == nil {
		return "No product selected"
	}
	p := d.product

	var sb strings.Builder

	title := fmt.Sprintf("%s %s", icons.Product.String(), p.Name)
	if badge := widgets.OwnerBadge(d.owned); badge != "" {
		title = styles.Title.Render(title) + " " + badge
	} else {
		title = styles.Title.Render(title)
	}
	sb.WriteString(title)
	sb.WriteString("\n\n")

	sb.WriteString(styles.Price.Render(fmt.Sprintf("%s %s", icons.Price.String(), format.Currency(p.Price))))
	sb.WriteString("\n\n")

	sb.WriteString(lipgloss.NewStyle().Width(max(20, d.width-4)).Render(p.Description))
	sb.WriteString("\n\n")

	sb.WriteString(styles.Subtitle.Render("Details"))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  ID:       %s\n", p.ID))
	if !p.CreatedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("  Created:  %s\n", format.Date(p.CreatedAt.Time)))
	}
	if !p.UpdatedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("  Updated:  %s\n", format.RelativeTime(p.UpdatedAt.Time, d.now())))
	}

	if d.confirming {
		sb.WriteString("\n")
		sb.WriteString(widgets.StatusText(fmt.Sprintf("Delete %q? This cannot be undone. (y/n)", p.Name), widgets.StatusCritical))
		sb.WriteString("\n")
	}

	return lipgloss.NewStyle().Width(d.width).Render(sb.String())
}
