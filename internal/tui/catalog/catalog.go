// ABOUTME: Product list component with cursor navigation and live search
// ABOUTME: Filters by name or description as the user types

package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/format"
	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/products"
	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/tui/icons"
	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/tui/styles"
	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/tui/widgets"
)

// OpenMsg is sent when the user opens the highlighted product
type OpenMsg struct {
	Product products.Product
}

// headerLines is the title, search box and column spacing above the rows
const headerLines = 5

// Catalog displays a searchable list of products
type Catalog struct {
	title   string
	ownerID string
	all     []products.Product
	visible []products.Product
	cursor  int
	offset  int
	search  textinput.Model
	width   int
	height  int
	now     func() time.Time
}

// New creates an empty catalog. ownerID marks the signed-in user's products.
func New(title, ownerID string, width, height int) *Catalog {
	ti := textinput.New()
	ti.Prompt = icons.Search.String() + " "
	ti.Placeholder = "Search by name or description"
	ti.CharLimit = 100

	return &Catalog{
		title:   title,
		ownerID: ownerID,
		search:  ti,
		width:   width,
		height:  height,
		now:     time.Now,
	}
}

// SetProducts replaces the list and reapplies the current search
func (c *Catalog) SetProducts(list []products.Product) {
	c.all = list
	c.refilter()
}

// SetSize updates the catalog dimensions
func (c *Catalog) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.clampScroll()
}

// Len returns how many products match the current search
func (c *Catalog) Len() int {
	return len(c.visible)
}

// Searching reports whether the search box has focus
func (c *Catalog) Searching() bool {
	return c.search.Focused()
}

// Term returns the current search text
func (c *Catalog) Term() string {
	return c.search.Value()
}

// Selected returns the highlighted product
func (c *Catalog) Selected() (products.Product, bool) {
	if len(c.visible) == 0 {
		return products.Product{}, false
	}
	return c.visible[c.cursor], true
}

// Update handles navigation and search input
func (c *Catalog) Update(msg tea.Msg) (*Catalog, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	if c.search.Focused() {
		switch key.String() {
		case "esc":
			c.search.Reset()
			c.search.Blur()
			c.refilter()
			return c, nil
		case "enter":
			c.search.Blur()
			return c, nil
		}
		var cmd tea.Cmd
		c.search, cmd = c.search.Update(msg)
		c.refilter()
		return c, cmd
	}

	switch key.String() {
	case "up", "k":
		if c.cursor > 0 {
			c.cursor--
		}
	case "down", "j":
		if c.cursor < len(c.visible)-1 {
			c.cursor++
		}
	case "/":
		return c, c.search.Focus()
	case "enter":
		if p, ok := c.Selected(); ok {
			return c, func() tea.Msg { return OpenMsg{Product: p} }
		}
	}
	c.clampScroll()
	return c, nil
}

func (c *Catalog) refilter() {
	c.visible = products.Filter(c.all, c.search.Value())
	if c.cursor >= len(c.visible) {
		c.cursor = max(0, len(c.visible)-1)
	}
	c.clampScroll()
}

// rows returns how many product rows fit
func (c *Catalog) rows() int {
	return max(1, c.height-headerLines)
}

func (c *Catalog) clampScroll() {
	if c.cursor < c.offset {
		c.offset = c.cursor
	}
	if c.cursor >= c.offset+c.rows() {
		c.offset = c.cursor - c.rows() + 1
	}
}

// View renders the catalog
func (c *Catalog) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(fmt.Sprintf("%s %s", icons.Product.String(), c.title)))
	sb.WriteString("\n")
	sb.WriteString(c.search.View())
	sb.WriteString("\n\n")

	switch {
	case len(c.all) == 0:
		sb.WriteString(styles.Subtitle.Render("No products yet. Press n to add one."))
	case len(c.visible) == 0:
		sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("No products match %q.", c.search.Value())))
	default:
		end := min(len(c.visible), c.offset+c.rows())
		for i := c.offset; i < end; i++ {
			sb.WriteString(c.renderRow(c.visible[i], i == c.cursor))
			sb.WriteString("\n")
		}
		sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("%d of %d products", len(c.visible), len(c.all))))
	}

	return lipgloss.NewStyle().Width(c.width).Render(sb.String())
}

func (c *Catalog) renderRow(p products.Product, selected bool) string {
	nameWidth := max(12, c.width-40)
	name := p.Name
	if r := []rune(name); len(r) > nameWidth {
		name = string(r[:nameWidth-1]) + "…"
	}

	line := fmt.Sprintf("%-*s %12s  %-14s", nameWidth, name, format.Currency(p.Price), format.RelativeTime(p.UpdatedAt.Time, c.now()))

	style := styles.Row
	prefix := "  "
	if selected {
		style = styles.SelectedRow
		prefix = "> "
	}

	row := style.Render(prefix + line)
	if badge := widgets.OwnerBadge(c.ownerID != "" && p.OwnerUserID == c.ownerID); badge != "" {
		row += " " + badge
	}
	return row
}
