package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/ganttboard/internal/cli/formatter"
	"github.com/alexanderramin/ganttboard/internal/domain"
	"github.com/alexanderramin/ganttboard/internal/viewmodel"
)

type boardKeyMap struct {
	ZoomIn, ZoomOut            key.Binding
	Days, Weeks, Months        key.Binding
	Up, Down                   key.Binding
	Progress, Refresh, Dismiss key.Binding
	Quit                       key.Binding
}

func defaultBoardKeys() boardKeyMap {
	return boardKeyMap{
		ZoomIn:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:  key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),
		Days:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "days")),
		Weeks:    key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "weeks")),
		Months:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "months")),
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
		Progress: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "progress")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Dismiss:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k boardKeyMap) help() string {
	bindings := []key.Binding{k.ZoomIn, k.ZoomOut, k.Days, k.Weeks, k.Months, k.Down, k.Up, k.Progress, k.Refresh, k.Quit}
	parts := make([]string, len(bindings))
	for i, b := range bindings {
		h := b.Help()
		parts[i] = h.Key + " " + formatter.Dim(h.Desc)
	}
	return strings.Join(parts, "  ")
}

// Messages produced by the model's commands.
type (
	boardLoadedMsg   struct{ err error }
	progressSavedMsg struct {
		name string
		err  error
	}
)

// boardModel is the interactive Gantt board. Board mutations run as
// commands so the UI never blocks on the store.
type boardModel struct {
	ctx  context.Context
	app  *App
	keys boardKeyMap

	vp     viewport.Model
	input  textinput.Model
	width  int
	height int

	view    viewmodel.View
	rows    []viewmodel.ItemView
	cursor  int
	editing bool
	// editID is the item whose progress is being edited.
	editID  string
	notice  string
	loading bool
}

func newBoardModel(ctx context.Context, app *App) boardModel {
	ti := textinput.New()
	ti.Prompt = "progress % "
	ti.CharLimit = 4
	ti.Placeholder = "0-100"

	m := boardModel{
		ctx:     ctx,
		app:     app,
		keys:    defaultBoardKeys(),
		vp:      viewport.New(defaultTermWidth, 20),
		input:   ti,
		width:   defaultTermWidth,
		height:  24,
		loading: true,
	}
	m.vp.KeyMap = viewport.KeyMap{
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
	}
	m.rebuild()
	return m
}

func (m boardModel) refreshCmd() tea.Cmd {
	board, ctx := m.app.Board, m.ctx
	return func() tea.Msg {
		return boardLoadedMsg{err: board.Refresh(ctx)}
	}
}

func (m boardModel) saveProgressCmd(id, name string, pct int) tea.Cmd {
	board, ctx := m.app.Board, m.ctx
	return func() tea.Msg {
		return progressSavedMsg{name: name, err: board.RequestProgressUpdate(ctx, id, pct)}
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.refreshCmd()
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.rebuild()
		return m, nil

	case boardLoadedMsg:
		m.loading = false
		if msg.err == nil {
			m.notice = ""
		}
		m.rebuild()
		return m, nil

	case progressSavedMsg:
		if msg.err == nil {
			m.notice = "Saved progress for " + msg.name
		}
		m.rebuild()
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateBrowsing(msg)
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m boardModel) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	board := m.app.Board
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.ZoomIn):
		board.ZoomIn()
	case key.Matches(msg, m.keys.ZoomOut):
		board.ZoomOut()
	case key.Matches(msg, m.keys.Days):
		_ = board.SetScale(domain.ScaleDays)
	case key.Matches(msg, m.keys.Weeks):
		_ = board.SetScale(domain.ScaleWeeks)
	case key.Matches(msg, m.keys.Months):
		_ = board.SetScale(domain.ScaleMonths)
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Refresh):
		m.notice = "Refreshing…"
		return m, m.refreshCmd()
	case key.Matches(msg, m.keys.Dismiss):
		board.DismissError()
		m.notice = ""
	case key.Matches(msg, m.keys.Progress):
		item, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.editing = true
		m.editID = item.ID
		m.input.SetValue(fmt.Sprint(item.Progress))
		m.input.CursorEnd()
		focus := m.input.Focus()
		return m, focus
	default:
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd
	}
	m.rebuild()
	return m, nil
}

func (m boardModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.stopEditing()
		return m, nil
	case tea.KeyEnter:
		pct, err := parsePercent(m.input.Value())
		if err != nil {
			m.notice = err.Error()
			return m, nil
		}
		item, err := m.app.Board.Item(m.editID)
		m.stopEditing()
		if err != nil {
			m.notice = err.Error()
			return m, nil
		}
		return m, m.saveProgressCmd(item.ID, item.Name, pct)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *boardModel) stopEditing() {
	m.editing = false
	m.editID = ""
	m.input.Blur()
	m.input.SetValue("")
}

func (m boardModel) selected() (domain.WorkItem, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return domain.WorkItem{}, false
	}
	return m.rows[m.cursor].Item, true
}

// rebuild recomputes the view and chart content after any state change.
func (m *boardModel) rebuild() {
	m.view = m.app.Board.View()
	m.rows = m.view.Rows()
	m.cursor = max(0, min(m.cursor, len(m.rows)-1))

	m.vp.Width = m.width
	m.vp.Height = max(3, m.height-m.footerHeight())
	m.vp.SetContent(formatter.RenderGantt(m.view, formatter.GanttOptions{Width: m.width, Cursor: m.cursor}))

	// Title and ruler take two lines; unresolved rows sit below a separator.
	line := m.cursor + 2
	if len(m.view.Unresolved) > 0 && m.cursor >= len(m.rows)-len(m.view.Unresolved) {
		line++
	}
	if line < m.vp.YOffset {
		m.vp.SetYOffset(line)
	} else if line >= m.vp.YOffset+m.vp.Height {
		m.vp.SetYOffset(line - m.vp.Height + 1)
	}
}

func (m boardModel) footerHeight() int {
	return 3
}

func (m boardModel) View() string {
	var b strings.Builder
	b.WriteString(m.vp.View())
	b.WriteString("\n")

	switch {
	case m.app.Board.LastError() != nil:
		b.WriteString(formatter.StyleRed.Render("⚠ "+m.app.Board.LastError().Error()) + formatter.Dim("  (esc to dismiss)"))
	case m.loading:
		b.WriteString(formatter.Dim("Loading…"))
	case m.notice != "":
		b.WriteString(formatter.Dim(m.notice))
	}
	b.WriteString("\n")

	if m.editing {
		b.WriteString(m.input.View() + formatter.Dim("  enter save · esc cancel"))
	} else {
		b.WriteString(m.keys.help())
	}
	return b.String()
}
