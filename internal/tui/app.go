// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Manages screen state, routes keyboard input, and runs backend calls as commands

package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/client"
	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/format"
	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/opstate"
	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/products"
	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/session"
	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/tui/catalog"
	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/tui/detail"
	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/tui/forms"
	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/tui/icons"
	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/tui/menu"
	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/tui/styles"
	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/tui/widgets"
	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/validation"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenLoading Screen = iota
	ScreenAuth
	ScreenMenu
	ScreenList
	ScreenDetail
	ScreenForm
	ScreenProfile
)

// Layout constants
const (
	minTerminalWidth = 80 // Minimum width before clamping the frame
	panelPadding     = 4  // Total horizontal padding from panel borders (2 each side)
)

// sessionExpired is shown when a call reveals the credential is no longer valid
const sessionExpired = "Your session has expired. Please sign in again."

type restoredMsg struct {
	state session.State
}

type authDoneMsg struct {
	sess *session.Session
	err  error
}

type productsLoadedMsg struct {
	list []products.Product
	err  error
}

type productSavedMsg struct {
	product *products.Product
	err     error
}

type productDeletedMsg struct {
	id  string
	err error
}

type profileLoadedMsg struct {
	user *client.User
	err  error
}

type accountDeletedMsg struct {
	err error
}

// App is the root model for the TUI
type App struct {
	ctx      context.Context
	sessions *session.Manager
	catalog  *products.Service
	validate *validation.Validator
	appName  string
	logger   *slog.Logger

	screen     Screen
	width      int
	height     int
	err        error
	notice     string
	lastUpdate time.Time
	spinner    spinner.Model

	// Child models
	menu   *menu.Menu
	list   *catalog.Catalog
	detail *detail.Detail
	form   *forms.Form

	listMine        bool
	registering     bool
	formReturn      Screen
	profile         *client.User
	confirmDeleteMe bool

	// One tracked call per screen element
	restoreOp  opstate.Op[session.State]
	authOp     opstate.Op[*session.Session]
	listOp     opstate.Op[[]products.Product]
	saveOp     opstate.Op[*products.Product]
	deleteOp   opstate.Op[string]
	profileOp  opstate.Op[*client.User]
	deleteMeOp opstate.Op[struct{}]
}

// New creates a new TUI application
func New(sessions *session.Manager, catalogSvc *products.Service, v *validation.Validator, appName string, log *slog.Logger) *App {
	if log == nil {
		log = slog.Default()
	}
	return &App{
		ctx:      context.Background(),
		sessions: sessions,
		catalog:  catalogSvc,
		validate: v,
		appName:  appName,
		logger:   log,
		screen:   ScreenLoading,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.Primary))),
	}
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.restore())
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.list != nil {
			a.list.SetSize(a.contentWidth(), a.contentHeight())
		}
		if a.detail != nil {
			a.detail.SetWidth(a.contentWidth())
		}
		if a.form != nil {
			return a.updateForm(msg)
		}
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		switch a.screen {
		case ScreenAuth:
			return a.updateAuth(msg)
		case ScreenMenu:
			return a.updateMenu(msg)
		case ScreenList:
			return a.updateList(msg)
		case ScreenDetail:
			return a.updateDetail(msg)
		case ScreenForm:
			return a.updateForm(msg)
		case ScreenProfile:
			return a.updateProfile(msg)
		}
		return a, nil

	case restoredMsg:
		a.restoreOp.Succeed(msg.state)
		if msg.state == session.Authenticated {
			a.showMenu()
			return a, nil
		}
		return a, a.showAuth()

	case forms.LoginMsg:
		return a, a.login(msg)

	case forms.RegisterMsg:
		return a, a.register(msg)

	case authDoneMsg:
		a.authOp.Finish(msg.sess, msg.err)
		if msg.err != nil {
			a.err = msg.err
			return a, a.showAuth()
		}
		a.err = nil
		a.notice = ""
		a.registering = false
		a.showMenu()
		return a, nil

	case menu.SelectedMsg:
		return a.handleMenuAction(msg.Action)

	case menu.CancelledMsg:
		return a, tea.Quit

	case catalog.OpenMsg:
		p := msg.Product
		a.detail = detail.New(&p, a.owns(&p), a.contentWidth())
		a.screen = ScreenDetail
		return a, nil

	case productsLoadedMsg:
		a.listOp.Finish(msg.list, msg.err)
		if msg.err != nil {
			return a, a.fail(msg.err)
		}
		a.err = nil
		a.lastUpdate = time.Now()
		if a.list != nil {
			a.list.SetProducts(msg.list)
		}
		return a, nil

	case forms.CreateProductMsg:
		return a, a.createProduct(msg.Product)

	case forms.UpdateProductMsg:
		if msg.Update.Empty() {
			a.notice = "No changes to save."
			a.closeForm()
			return a, nil
		}
		return a, a.updateProduct(msg.ID, msg.Update)

	case productSavedMsg:
		a.saveOp.Finish(msg.product, msg.err)
		a.closeForm()
		if msg.err != nil {
			return a, a.fail(msg.err)
		}
		a.err = nil
		a.notice = fmt.Sprintf("Saved %q.", msg.product.Name)
		a.detail = detail.New(msg.product, a.owns(msg.product), a.contentWidth())
		a.screen = ScreenDetail
		a.formReturn = ScreenList
		return a, nil

	case productDeletedMsg:
		a.deleteOp.Finish(msg.id, msg.err)
		if msg.err != nil {
			if a.detail != nil {
				a.detail.CancelDelete()
			}
			return a, a.fail(msg.err)
		}
		a.err = nil
		a.detail = nil
		a.notice = "Product deleted."
		a.openList(a.listMine)
		return a, a.loadProducts()

	case forms.ProfileMsg:
		if msg.Update.Empty() {
			a.notice = "No changes to save."
			a.closeForm()
			return a, nil
		}
		return a, a.saveProfile(msg.Update)

	case profileLoadedMsg:
		a.profileOp.Finish(msg.user, msg.err)
		if a.screen == ScreenForm {
			a.closeForm()
		}
		if msg.err != nil {
			return a, a.fail(msg.err)
		}
		a.err = nil
		a.profile = msg.user
		a.screen = ScreenProfile
		return a, nil

	case accountDeletedMsg:
		a.deleteMeOp.Finish(struct{}{}, msg.err)
		a.confirmDeleteMe = false
		if msg.err != nil {
			return a, a.fail(msg.err)
		}
		a.profile = nil
		a.err = nil
		a.notice = "Your account has been deleted."
		return a, a.showAuth()

	case forms.CancelledMsg:
		if a.screen == ScreenAuth {
			return a, tea.Quit
		}
		a.closeForm()
		return a, nil

	default:
		// huh forms rely on their own internal messages
		if a.form != nil && (a.screen == ScreenForm || a.screen == ScreenAuth) {
			return a.updateForm(msg)
		}
	}

	return a, nil
}

func (a *App) updateAuth(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.authOp.InFlight() {
		return a, nil
	}
	if msg.String() == "ctrl+n" {
		a.registering = !a.registering
		a.err = nil
		return a, a.showAuth()
	}
	return a.updateForm(msg)
}

func (a *App) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.menu == nil {
		return a, nil
	}
	model, cmd := a.menu.Update(msg)
	a.menu = model.(*menu.Menu)
	return a, cmd
}

func (a *App) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.list == nil {
		return a, nil
	}
	if !a.list.Searching() {
		switch msg.String() {
		case "q":
			return a, tea.Quit
		case "b", "esc":
			a.showMenu()
			return a, nil
		case "r":
			return a, a.loadProducts()
		case "n":
			return a, a.openForm(forms.CreateProduct(), ScreenList)
		}
	}

	var cmd tea.Cmd
	a.list, cmd = a.list.Update(msg)
	return a, cmd
}

func (a *App) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.detail == nil {
		return a, nil
	}

	if a.detail.Confirming() {
		switch msg.String() {
		case "y":
			return a, a.deleteProduct(a.detail.Product().ID)
		case "n", "esc":
			a.detail.CancelDelete()
		}
		return a, nil
	}

	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "b", "esc":
		a.openList(a.listMine)
		return a, a.loadProducts()
	case "e":
		if a.detail.Owned() {
			return a, a.openForm(forms.EditProduct(a.detail.Product()), ScreenDetail)
		}
		a.notice = "Only the owner can edit this product."
	case "d":
		if !a.detail.AskDelete() {
			a.notice = "Only the owner can delete this product."
		}
	}
	return a, nil
}

func (a *App) updateProfile(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.confirmDeleteMe {
		switch msg.String() {
		case "y":
			return a, a.deleteAccount()
		case "n", "esc":
			a.confirmDeleteMe = false
		}
		return a, nil
	}

	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "b", "esc":
		a.showMenu()
	case "e":
		if a.profile != nil {
			return a, a.openForm(forms.Profile(a.validate, a.profile.Name, a.profile.Email), ScreenProfile)
		}
	case "x":
		a.confirmDeleteMe = true
	}
	return a, nil
}

func (a *App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.form == nil {
		return a, nil
	}
	model, cmd := a.form.Update(msg)
	a.form = model.(*forms.Form)
	return a, cmd
}

func (a *App) handleMenuAction(action menu.Action) (tea.Model, tea.Cmd) {
	a.notice = ""
	switch action {
	case menu.ActionBrowse, menu.ActionMine:
		a.openList(action == menu.ActionMine)
		return a, a.loadProducts()
	case menu.ActionCreate:
		return a, a.openForm(forms.CreateProduct(), ScreenMenu)
	case menu.ActionProfile:
		return a, a.loadProfile()
	case menu.ActionLogout:
		a.sessions.Logout()
		a.notice = "You have been logged out."
		return a, a.showAuth()
	case menu.ActionQuit:
		return a, tea.Quit
	}
	return a, nil
}

// fail records err. If it revealed an invalid credential the user is sent
// back to sign in.
func (a *App) fail(err error) tea.Cmd {
	a.logger.Warn("Request failed", "screen", a.screen, "error", err)
	a.sessions.Observe(err)
	if a.sessions.State() != session.Authenticated {
		a.err = nil
		a.notice = sessionExpired
		return a.showAuth()
	}
	a.err = err
	return nil
}

func (a *App) showAuth() tea.Cmd {
	a.screen = ScreenAuth
	a.menu = nil
	a.list = nil
	a.detail = nil
	if a.registering {
		a.form = forms.Register(a.validate)
	} else {
		a.form = forms.Login(a.validate)
	}
	return a.form.Init()
}

func (a *App) showMenu() {
	name := ""
	if s, ok := a.sessions.Current(); ok {
		name = s.DisplayName
	}
	a.menu = menu.New(name)
	a.form = nil
	a.screen = ScreenMenu
}

func (a *App) openList(mine bool) {
	title := "All products"
	if mine {
		title = "My products"
	}
	a.listMine = mine
	a.list = catalog.New(title, a.userID(), a.contentWidth(), a.contentHeight())
	a.screen = ScreenList
}

func (a *App) openForm(f *forms.Form, back Screen) tea.Cmd {
	a.form = f
	a.formReturn = back
	a.screen = ScreenForm
	return f.Init()
}

func (a *App) closeForm() {
	a.form = nil
	switch a.formReturn {
	case ScreenDetail:
		if a.detail != nil {
			a.screen = ScreenDetail
			return
		}
	case ScreenList:
		if a.list != nil {
			a.screen = ScreenList
			return
		}
	case ScreenProfile:
		if a.profile != nil {
			a.screen = ScreenProfile
			return
		}
	}
	a.showMenu()
}

func (a *App) userID() string {
	if s, ok := a.sessions.Current(); ok {
		return s.UserID
	}
	return ""
}

func (a *App) owns(p *products.Product) bool {
	id := a.userID()
	return id != "" && p.OwnerUserID == id
}

// restore rebuilds the session from the stored token
func (a *App) restore() tea.Cmd {
	if !a.restoreOp.Start() {
		return nil
	}
	return func() tea.Msg {
		return restoredMsg{state: a.sessions.Restore(a.ctx)}
	}
}

func (a *App) login(m forms.LoginMsg) tea.Cmd {
	if err := a.validate.Login(m.Email, m.Password); err != nil {
		a.err = err
		return a.showAuth()
	}
	if !a.authOp.Start() {
		return nil
	}
	return func() tea.Msg {
		sess, err := a.sessions.Login(a.ctx, m.Email, m.Password)
		return authDoneMsg{sess: sess, err: err}
	}
}

func (a *App) register(m forms.RegisterMsg) tea.Cmd {
	if err := a.validate.Register(m.Name, m.Email, m.Password); err != nil {
		a.err = err
		return a.showAuth()
	}
	if !a.authOp.Start() {
		return nil
	}
	return func() tea.Msg {
		sess, err := a.sessions.Register(a.ctx, m.Name, m.Email, m.Password)
		return authDoneMsg{sess: sess, err: err}
	}
}

func (a *App) loadProducts() tea.Cmd {
	if !a.listOp.Start() {
		return nil
	}
	mine := a.listMine
	auth := a.sessions.Auth()
	return func() tea.Msg {
		var list []products.Product
		var err error
		if mine {
			list, err = a.catalog.ListMine(a.ctx, auth)
		} else {
			list, err = a.catalog.List(a.ctx, auth)
		}
		return productsLoadedMsg{list: list, err: err}
	}
}

func (a *App) createProduct(np products.NewProduct) tea.Cmd {
	if !a.saveOp.Start() {
		return nil
	}
	auth := a.sessions.Auth()
	return func() tea.Msg {
		p, err := a.catalog.Create(a.ctx, auth, np)
		return productSavedMsg{product: p, err: err}
	}
}

func (a *App) updateProduct(id string, u products.ProductUpdate) tea.Cmd {
	if !a.saveOp.Start() {
		return nil
	}
	auth := a.sessions.Auth()
	return func() tea.Msg {
		p, err := a.catalog.Update(a.ctx, auth, id, u)
		return productSavedMsg{product: p, err: err}
	}
}

func (a *App) deleteProduct(id string) tea.Cmd {
	if !a.deleteOp.Start() {
		return nil
	}
	auth := a.sessions.Auth()
	return func() tea.Msg {
		return productDeletedMsg{id: id, err: a.catalog.Delete(a.ctx, auth, id)}
	}
}

func (a *App) loadProfile() tea.Cmd {
	if !a.profileOp.Start() {
		return nil
	}
	return func() tea.Msg {
		user, err := a.sessions.Me(a.ctx)
		return profileLoadedMsg{user: user, err: err}
	}
}

func (a *App) saveProfile(u client.ProfileUpdate) tea.Cmd {
	if err := a.validate.ProfileUpdate(u); err != nil {
		a.err = err
		a.closeForm()
		return nil
	}
	if !a.profileOp.Start() {
		return nil
	}
	return func() tea.Msg {
		user, err := a.sessions.UpdateProfile(a.ctx, u)
		return profileLoadedMsg{user: user, err: err}
	}
}

func (a *App) deleteAccount() tea.Cmd {
	if !a.deleteMeOp.Start() {
		return nil
	}
	return func() tea.Msg {
		return accountDeletedMsg{err: a.sessions.DeleteAccount(a.ctx)}
	}
}

// busy reports whether any tracked call is outstanding
func (a *App) busy() bool {
	return a.restoreOp.InFlight() || a.authOp.InFlight() || a.listOp.InFlight() ||
		a.saveOp.InFlight() || a.deleteOp.InFlight() || a.profileOp.InFlight() ||
		a.deleteMeOp.InFlight()
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenLoading:
		content = a.spinner.View() + " Restoring session..."
	case ScreenAuth:
		content = a.viewAuth()
	case ScreenMenu:
		content = a.viewMenu()
	case ScreenList:
		content = a.viewList()
	case ScreenDetail:
		content = a.viewDetail()
	case ScreenForm:
		content = a.viewForm()
	case ScreenProfile:
		content = a.viewProfile()
	}

	return a.wrapWithFrame(a.viewStatus() + content)
}

// viewStatus renders the error or notice line above the screen content
func (a *App) viewStatus() string {
	switch {
	case a.busy() && a.screen != ScreenLoading:
		return a.spinner.View() + " Working...\n\n"
	case a.err != nil:
		return widgets.StatusText(userMessage(a.err), widgets.StatusCritical) + "\n\n"
	case a.notice != "":
		return widgets.StatusText(a.notice, widgets.StatusInfo) + "\n\n"
	}
	return ""
}

func (a *App) viewAuth() string {
	if a.form == nil {
		return ""
	}
	hint := "New here? Press ctrl+n to create an account."
	if a.registering {
		hint = "Already registered? Press ctrl+n to sign in."
	}
	return a.form.View() + "\n" + styles.Help.Render(hint)
}

func (a *App) viewMenu() string {
	if a.menu == nil {
		return ""
	}
	return styles.ActivePanel.Width(a.contentWidth()).Render(a.menu.View())
}

func (a *App) viewList() string {
	if a.list == nil {
		return ""
	}
	return styles.ActivePanel.Width(a.contentWidth()).Render(a.list.View())
}

func (a *App) viewDetail() string {
	if a.detail == nil {
		return ""
	}
	return styles.ActivePanel.Width(a.contentWidth()).Render(a.detail.View())
}

func (a *App) viewForm() string {
	if a.form == nil {
		return ""
	}
	return a.form.View()
}

func (a *App) viewProfile() string {
	if a.profile == nil {
		return ""
	}
	u := a.profile

	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.Profile.String() + " Profile"))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Name:          %s\n", styles.ValueStyle.Render(u.Name)))
	sb.WriteString(fmt.Sprintf("Email:         %s\n", u.Email))
	if !u.CreatedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("Member since:  %s\n", format.Date(u.CreatedAt.Time)))
	}
	// The panel is only highlighted while it is asking for input
	panel := styles.Panel
	if a.confirmDeleteMe {
		sb.WriteString("\n")
		sb.WriteString(widgets.StatusText("Delete your account? This cannot be undone. (y/n)", widgets.StatusCritical))
		sb.WriteString("\n")
		panel = styles.ActivePanel
	}
	return panel.Width(a.contentWidth()).Render(sb.String())
}

// userMessage turns an error into the text shown to the user
func userMessage(err error) string {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		return verr.Error()
	case errors.Is(err, client.ErrTransport):
		return "Cannot reach the server. Check your connection and try again."
	case errors.Is(err, client.ErrUnauthorized):
		return "Incorrect email or password."
	case errors.Is(err, client.ErrForbidden):
		return "You are not allowed to do that."
	case errors.Is(err, client.ErrNotFound):
		return "That product no longer exists."
	}
	return err.Error()
}

// contentWidth calculates the width available inside a panel
func (a *App) contentWidth() int {
	return max(minTerminalWidth, a.width) - panelPadding
}

// contentHeight calculates the height available for screen content
func (a *App) contentHeight() int {
	// Header, blank line, panel border+padding (4), blank line, footer
	return max(10, a.height-8)
}

// renderHeader creates the header bar with app branding and the signed-in user
func (a *App) renderHeader() string {
	// Guard against zero/small width before WindowSizeMsg is received
	width := max(a.width, minTerminalWidth)

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := fmt.Sprintf(" %s %s ", icons.App.String(), titleStyle.Render(a.appName))

	rightText := ""
	if s, ok := a.sessions.Current(); ok && a.screen != ScreenAuth {
		rightText = " " + contextStyle.Render(s.DisplayName) + " "
	}

	leftWidth := lipgloss.Width(leftText)
	rightWidth := lipgloss.Width(rightText)
	fillWidth := max(0, width-4-leftWidth-rightWidth) // -4 for ╭─ and ─╮

	header := "╭─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╮"
	return borderStyle.Render(header)
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	width := max(a.width, minTerminalWidth)

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	var shortcuts []string
	switch a.screen {
	case ScreenAuth:
		shortcuts = []string{"Enter Next", "ctrl+n Switch", "Esc Quit"}
	case ScreenMenu:
		shortcuts = []string{"↑↓ Navigate", "Enter Select", "q Quit"}
	case ScreenList:
		if a.list != nil && a.list.Searching() {
			shortcuts = []string{"Enter Done", "Esc Clear"}
		} else {
			shortcuts = []string{"↑↓ Navigate", "Enter Open", "/ Search", "n New", "r Refresh", "b Back"}
		}
	case ScreenDetail:
		shortcuts = []string{"e Edit", "d Delete", "b Back", "q Quit"}
	case ScreenForm:
		shortcuts = []string{"Tab Next", "Enter Confirm", "Esc Cancel"}
	case ScreenProfile:
		shortcuts = []string{"e Edit", "x Delete account", "b Back"}
	}

	var styled []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		if len(parts) == 2 {
			styled = append(styled, styles.KeyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
		} else {
			styled = append(styled, s)
		}
	}

	leftText := " " + strings.Join(styled, "  ")
	leftPlain := " " + strings.Join(shortcuts, "  ")

	rightText, rightPlain := "", ""
	if !a.lastUpdate.IsZero() && a.screen == ScreenList {
		elapsed := format.RelativeTime(a.lastUpdate, time.Now())
		updated := icons.Clock.String() + " Updated " + elapsed
		rightText = statusStyle.Render(updated) + " "
		rightPlain = updated + " "
	}

	fillWidth := max(0, width-4-lipgloss.Width(leftPlain)-lipgloss.Width(rightPlain)) // -4 for ╰─ and ─╯
	footer := "╰─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╯"
	return borderStyle.Render(footer)
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// Run starts the TUI and blocks until the user quits
func Run(ctx context.Context, app *App) error {
	app.ctx = ctx
	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}
