// internal/tui/app.go
//
// Plan browser for the report engine. It uses bubbletea, which follows The
// Elm Architecture:
//
// 1. Model: the plan, the entry list and the detail pane
// 2. Update: key and resize messages move the selection or focus
// 3. View: list on the left, selected entry on the right
//
// The browser is read-only; it never rebuilds the plan.

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/report-engine/internal/engine"
	"github.com/kingrea/report-engine/internal/plan"
)

type focusArea int

const (
	focusList focusArea = iota
	focusDetail
)

// AppOption customizes App construction.
type AppOption func(*App)

// WithReport shows slot sources and contract violations from a generated
// report alongside its plan.
func WithReport(r *engine.Report) AppOption {
	return func(a *App) {
		a.report = r
	}
}

// WithTitle overrides the list title.
func WithTitle(title string) AppOption {
	return func(a *App) {
		if strings.TrimSpace(title) != "" {
			a.title = title
		}
	}
}

// App is the bubbletea model for the plan browser.
type App struct {
	plan   *plan.Plan
	report *engine.Report
	title  string

	entries  list.Model
	detail   viewport.Model
	focus    focusArea
	selected int

	width  int
	height int
}

// NewApp creates the browser for p.
func NewApp(p *plan.Plan, opts ...AppOption) *App {
	a := &App{plan: p, title: "⬡ REPORT PLAN", selected: -1}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	if a.report != nil && a.plan == nil {
		a.plan = a.report.Plan
	}
	entries := list.New(buildEntries(a.plan, a.report), list.NewDefaultDelegate(), 0, 0)
	entries.Title = a.title
	entries.SetShowStatusBar(false)
	entries.SetFilteringEnabled(true)
	a.entries = entries
	a.detail = viewport.New(0, 0)
	a.syncDetail()
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		left, right := a.columns()
		a.entries.SetSize(left, max(5, msg.Height-4))
		a.detail.Width = right
		a.detail.Height = max(5, msg.Height-6)
		a.selected = -1
		a.syncDetail()
		return a, nil

	case tea.KeyMsg:
		if a.entries.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return a, tea.Quit
		case "tab":
			if a.focus == focusList {
				a.focus = focusDetail
			} else {
				a.focus = focusList
			}
			return a, nil
		case "esc":
			if a.focus == focusDetail {
				a.focus = focusList
				return a, nil
			}
		}
	}

	var cmd tea.Cmd
	if a.focus == focusDetail {
		a.detail, cmd = a.detail.Update(msg)
		return a, cmd
	}
	a.entries, cmd = a.entries.Update(msg)
	a.syncDetail()
	return a, cmd
}

// View renders the browser.
func (a *App) View() string {
	left, right := a.columns()
	listBox := boxStyle(a.focus == focusList).Width(left).Render(a.entries.View())
	detailBox := boxStyle(a.focus == focusDetail).Width(right).Render(
		lipgloss.JoinVertical(lipgloss.Left, a.detailTitle(), a.detail.View()),
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top, listBox, detailBox)
	return lipgloss.JoinVertical(lipgloss.Left, headerStyle.Render(a.header()), body, hintStyle.Render(a.hint()))
}

func (a *App) columns() (int, int) {
	width := a.width
	if width <= 0 {
		width = 100
	}
	left := max(28, width/3)
	right := width - left - 4
	if right < 20 {
		right = 20
	}
	return left, right
}

func (a *App) header() string {
	if a.plan == nil {
		return "⬡ REPORT ENGINE · no plan"
	}
	parts := []string{
		"⬡ REPORT ENGINE",
		"profile " + string(a.plan.Profile),
		"modules " + strings.Join(a.plan.Modules, ","),
	}
	if a.plan.InspectionID != "" {
		parts = append(parts, "inspection "+a.plan.InspectionID)
	}
	if a.report != nil {
		parts = append(parts, "report "+a.report.ReportID)
	}
	return strings.Join(parts, " · ")
}

func (a *App) hint() string {
	if a.focus == focusDetail {
		return "↑/↓ scroll · tab/esc back to list · q quit"
	}
	return "↑/↓ select · / filter · tab scroll detail · q quit"
}

func (a *App) current() (entry, bool) {
	item, ok := a.entries.SelectedItem().(entry)
	return item, ok
}

func (a *App) detailTitle() string {
	item, ok := a.current()
	if !ok {
		return titleStyle.Render("Nothing selected")
	}
	return titleStyle.Render(item.title)
}

// syncDetail reloads the viewport when the selection moved.
func (a *App) syncDetail() {
	idx := a.entries.Index()
	if idx == a.selected {
		return
	}
	a.selected = idx
	item, ok := a.current()
	if !ok {
		a.detail.SetContent("")
		return
	}
	text := item.body
	if a.detail.Width > 0 {
		text = lipgloss.NewStyle().Width(a.detail.Width).Render(text)
	}
	a.detail.SetContent(text)
	a.detail.GotoTop()
}

// Run starts the browser on the terminal.
func Run(a *App) error {
	if _, err := tea.NewProgram(a, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
