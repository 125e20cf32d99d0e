// ABOUTME: Main action menu shown after sign-in
// ABOUTME: Lets the user browse products, add one, manage the profile, or log out

package menu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/tui/icons"
	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/tui/styles"
)

// Action is a menu entry the user can pick
type Action int

const (
	ActionBrowse Action = iota
	ActionMine
	ActionCreate
	ActionProfile
	ActionLogout
	ActionQuit
)

// SelectedMsg is sent when the user picks an action
type SelectedMsg struct {
	Action Action
}

// CancelledMsg is sent when the user quits from the menu
type CancelledMsg struct{}

type option struct {
	label  string
	icon   icons.Icon
	action Action
}

// Menu is the main action menu
type Menu struct {
	options []option
	cursor  int
	user    string
}

// New creates the menu greeting user by name
func New(user string) *Menu {
	return &Menu{
		options: []option{
			{label: "Browse all products", icon: icons.Product, action: ActionBrowse},
			{label: "My products", icon: icons.Owner, action: ActionMine},
			{label: "Add a product", icon: icons.Add, action: ActionCreate},
			{label: "Profile", icon: icons.Profile, action: ActionProfile},
			{label: "Log out", icon: icons.Logout, action: ActionLogout},
			{label: "Quit", icon: icons.Quit, action: ActionQuit},
		},
		user: user,
	}
}

// Selected returns the highlighted action
func (m *Menu) Selected() Action {
	return m.options[m.cursor].action
}

// Init implements tea.Model
func (m *Menu) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case "enter":
		action := m.Selected()
		return m, func() tea.Msg { return SelectedMsg{Action: action} }
	case "q", "esc":
		return m, func() tea.Msg { return CancelledMsg{} }
	}
	return m, nil
}

// View implements tea.Model
func (m *Menu) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render("What would you like to do?"))
	sb.WriteString("\n")
	if m.user != "" {
		sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("Signed in as %s", m.user)))
		sb.WriteString("\n")
	}

	cursorStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	for i, opt := range m.options {
		line := fmt.Sprintf("%s %s", opt.icon.String(), opt.label)
		if i == m.cursor {
			sb.WriteString(cursorStyle.Render("> " + line))
		} else {
			sb.WriteString("  " + line)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// String returns the string representation of an Action
func (a Action) String() string {
	switch a {
	case ActionBrowse:
		return "browse"
	case ActionMine:
		return "mine"
	case ActionCreate:
		return "create"
	case ActionProfile:
		return "profile"
	case ActionLogout:
		return "logout"
	case ActionQuit:
		return "quit"
	default:
		return "unknown"
	}
}
